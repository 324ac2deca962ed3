package ports

import (
	"context"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/domain"
)

// TrackingProvider defines the interface for tracking page scrapers.
type TrackingProvider interface {
	// FetchTracking retrieves and parses the tracking page for a tracking number.
	FetchTracking(ctx context.Context, trackingNumber string) (*domain.TrackingResult, error)
}
