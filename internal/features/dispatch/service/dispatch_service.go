package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/logger"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/dispatch/ports"
	trackingservice "github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/service"
)

// ErrNothingToDispatch is returned when the order system has no undelivered
// tracking numbers.
var ErrNothingToDispatch = errors.New("no undelivered tracking numbers to process")

// RunReport summarizes one dispatch cycle.
type RunReport struct {
	// Fetched is how many tracking numbers the order system handed over.
	Fetched int `json:"fetched"`
	// Scraped is how many records were produced, including error records.
	Scraped int `json:"scraped"`
	// Errors is how many records carry a scrape error instead of data.
	Errors int `json:"errors"`
}

// DispatchService runs the full sync cycle: pull undelivered tracking
// numbers from the order system, scrape their current state, and push the
// records back.
type DispatchService struct {
	orders   ports.OrderAPI
	tracking *trackingservice.TrackingService
	logger   *zap.Logger
}

// NewDispatchService creates a new DispatchService.
func NewDispatchService(orders ports.OrderAPI, tracking *trackingservice.TrackingService) *DispatchService {
	return &DispatchService{
		orders:   orders,
		tracking: tracking,
		logger:   logger.Get(),
	}
}

// Run executes one dispatch cycle and reports what it moved.
func (s *DispatchService) Run(ctx context.Context) (*RunReport, error) {
	numbers, err := s.orders.FetchUndeliveredTrackingNumbers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch undelivered tracking numbers: %w", err)
	}
	if len(numbers) == 0 {
		return nil, ErrNothingToDispatch
	}

	s.logger.Info("Dispatch cycle started", zap.Int("undelivered", len(numbers)))

	results, err := s.tracking.GetTrackingBatch(ctx, numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape tracking batch: %w", err)
	}

	if err := s.orders.PushTrackingResults(ctx, results); err != nil {
		return nil, fmt.Errorf("failed to push tracking results: %w", err)
	}

	report := &RunReport{
		Fetched: len(numbers),
		Scraped: len(results),
	}
	for _, r := range results {
		if r.Error != "" {
			report.Errors++
		}
	}

	s.logger.Info("Dispatch cycle finished",
		zap.Int("fetched", report.Fetched),
		zap.Int("scraped", report.Scraped),
		zap.Int("errors", report.Errors))

	return report, nil
}
