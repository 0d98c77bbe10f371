package commands

import (
	"context"
	"strings"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/pkg/retry"
)

//go:generate mockgen -source=saved_tours.go -destination=../../../tests/mock/commands/saved_tours.go -package=commandsmock

type SavedTourCommands interface {
	Remove(ctx context.Context, tourID string) error
}

type savedTourUseCaseImpl struct {
	bookings BookingService
	policy   retry.Policy
}

func NewSavedTourUseCase(bookings BookingService, policy retry.Policy) SavedTourCommands {
	return &savedTourUseCaseImpl{bookings: bookings, policy: policy}
}

// Remove is idempotent downstream, so timeouts and outages are retried.
func (u *savedTourUseCaseImpl) Remove(ctx context.Context, tourID string) error {
	if strings.TrimSpace(tourID) == "" {
		return checkout.ErrInvalidTour
	}
	err := retry.Do(ctx, u.policy, retryable, func(ctx context.Context) error {
		return u.bookings.RemoveSavedTour(ctx, tourID)
	})
	return translate(err)
}
