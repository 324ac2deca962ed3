package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/logger"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/domain"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoTrackingNumbers is returned when a batch request carries no numbers.
	ErrNoTrackingNumbers = errors.New("no tracking numbers to process")
)

// TrackingService orchestrates tracking lookups against the portal scraper.
type TrackingService struct {
	provider    ports.TrackingProvider
	concurrency int
	logger      *zap.Logger
}

// NewTrackingService creates a new TrackingService. concurrency bounds the
// number of simultaneous lookups in a batch.
func NewTrackingService(provider ports.TrackingProvider, concurrency int) *TrackingService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &TrackingService{
		provider:    provider,
		concurrency: concurrency,
		logger:      logger.Get(),
	}
}

// GetTracking retrieves the tracking record for a single tracking number.
func (s *TrackingService) GetTracking(ctx context.Context, trackingNumber string) (*domain.TrackingResult, error) {
	result, err := s.provider.FetchTracking(ctx, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking from provider: %w", err)
	}
	return result, nil
}

// GetTrackingBatch retrieves tracking records for multiple numbers
// concurrently. Lookups are independent; a failed lookup becomes a result
// carrying the error text and never aborts the rest of the batch.
func (s *TrackingService) GetTrackingBatch(ctx context.Context, trackingNumbers []string) ([]domain.TrackingResult, error) {
	if len(trackingNumbers) == 0 {
		return nil, ErrNoTrackingNumbers
	}

	results := make([]domain.TrackingResult, len(trackingNumbers))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for i, number := range trackingNumbers {
		g.Go(func() error {
			result, err := s.provider.FetchTracking(ctx, number)
			if err != nil {
				s.logger.Error("Tracking lookup failed",
					zap.String("trackingno", number),
					zap.Error(err),
				)
				results[i] = domain.TrackingResult{TrackingNo: number, Error: err.Error()}
				return nil
			}
			results[i] = *result
			return nil
		})
	}

	// Workers never return errors; Wait only fences completion.
	g.Wait()

	s.logger.Info("Tracking batch processed", zap.Int("count", len(trackingNumbers)))
	return results, nil
}
