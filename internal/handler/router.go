package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tour-checkout/internal/handler/api"
	"tour-checkout/internal/handler/middleware"
	"tour-checkout/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Checkout   *api.CheckoutHandler
	Payment    *api.PaymentHandler
	SavedTours *api.SavedTourHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cfg, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	session := middleware.CheckoutSession(cfg.Cookie)

	// return_url target: a full browser navigation back from the gateway
	payments := engine.Group("/payments")
	payments.Use(authMiddleware.OptionalAuth(), session)
	{
		addRoutes(payments, []route{
			{Method: http.MethodGet, Path: "/return", Handler: h.Payment.Return},
		})
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		checkout := apiGroup.Group("/checkout")
		checkout.Use(session)
		{
			addRoutes(checkout, []route{
				{Method: http.MethodPost, Path: "/quote", Handler: h.Checkout.Quote},
				{Method: http.MethodPost, Path: "", Handler: h.Checkout.Submit},
				{Method: http.MethodGet, Path: "", Handler: h.Checkout.Current},
				{Method: http.MethodDelete, Path: "", Handler: h.Checkout.Abandon},
				{Method: http.MethodPost, Path: "/:bookingId/confirm", Handler: h.Checkout.Confirm},
			})
		}

		paymentAPI := apiGroup.Group("/payments")
		paymentAPI.Use(session)
		{
			addRoutes(paymentAPI, []route{
				{Method: http.MethodPost, Path: "/reconcile", Handler: h.Payment.Reconcile},
			})
		}

		addRoutes(apiGroup.Group("/saved-tours"), []route{
			{Method: http.MethodDelete, Path: "/:tourId", Handler: h.SavedTours.Remove},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
