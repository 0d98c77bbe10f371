package api

import (
	"net/http"

	"tour-checkout/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SavedTourHandler struct {
	cmds commands.SavedTourCommands
}

func NewSavedTourHandler(cmds commands.SavedTourCommands) *SavedTourHandler {
	return &SavedTourHandler{cmds: cmds}
}

// @Summary Remove saved tour
// @Description Remove a tour from the user's saved list. Removing a tour that is not saved succeeds.
// @Tags saved-tours
// @Security BearerAuth
// @Param tourId path string true "Tour ID"
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/saved-tours/{tourId} [delete]
func (h *SavedTourHandler) Remove(c *gin.Context) {
	if err := h.cmds.Remove(c.Request.Context(), c.Param("tourId")); err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
