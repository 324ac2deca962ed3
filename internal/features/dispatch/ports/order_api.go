package ports

import (
	"context"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/domain"
)

// OrderAPI talks to the upstream order-management system: it supplies the
// tracking numbers still marked undelivered and receives the freshly
// scraped records back.
type OrderAPI interface {
	FetchUndeliveredTrackingNumbers(ctx context.Context) ([]string, error)
	PushTrackingResults(ctx context.Context, results []domain.TrackingResult) error
}
