package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/logger"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/domain"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/ports"
)

const noRecordsReason = "No records found"

var (
	// ErrNoPincodes is returned when a batch request carries no pincodes.
	ErrNoPincodes = errors.New("no pincodes to process")
)

// PincodeService runs pincode report batches against the portal and
// aggregates serviceability verdicts from the stored rows.
type PincodeService struct {
	provider   ports.ReportProvider
	ledger     ports.OutcomeLedger
	rows       ports.RowStore
	pauseEvery int
	pause      time.Duration
	threshold  float64
	logger     *zap.Logger
}

// NewPincodeService creates a new PincodeService. pauseEvery and pause
// control the batch pacing: after every pauseEvery portal requests the run
// sleeps for pause before continuing.
func NewPincodeService(
	provider ports.ReportProvider,
	ledger ports.OutcomeLedger,
	rows ports.RowStore,
	pauseEvery int,
	pause time.Duration,
	threshold float64,
) *PincodeService {
	if pauseEvery < 1 {
		pauseEvery = 1
	}
	if threshold <= 0 {
		threshold = domain.DefaultDeliveryZoneThreshold
	}
	return &PincodeService{
		provider:   provider,
		ledger:     ledger,
		rows:       rows,
		pauseEvery: pauseEvery,
		pause:      pause,
		threshold:  threshold,
		logger:     logger.Get(),
	}
}

// ProcessPincodes fetches the report for each pincode sequentially, records
// one outcome per pincode, and stores the parsed rows. Pincodes that already
// have a success outcome are skipped. The run stops early when ctx is
// cancelled; everything processed so far stays recorded.
func (s *PincodeService) ProcessPincodes(ctx context.Context, pincodes []string) (*domain.BatchSummary, error) {
	if len(pincodes) == 0 {
		return nil, ErrNoPincodes
	}

	pincodes = dedupe(pincodes)
	summary := &domain.BatchSummary{}
	requestCount := 0

	for i, pin := range pincodes {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("pincode batch interrupted: %w", err)
		}

		done, err := s.ledger.WasSuccessful(ctx, pin)
		if err != nil {
			return summary, fmt.Errorf("failed to check outcome for %s: %w", pin, err)
		}
		if done {
			s.logger.Info("Skipping already-processed pincode", zap.String("pincode", pin))
			summary.Skipped = append(summary.Skipped, pin)
			continue
		}

		outcome := s.fetchOne(ctx, pin)
		requestCount++

		if err := s.ledger.Record(ctx, outcome); err != nil {
			return summary, fmt.Errorf("failed to record outcome for %s: %w", pin, err)
		}

		if outcome.Status == domain.OutcomeSuccess {
			summary.Success = append(summary.Success, pin)
		} else {
			summary.Failed = append(summary.Failed, pin)
		}

		// Portal rate courtesy: pause after every pauseEvery requests,
		// except after the last pincode.
		if requestCount%s.pauseEvery == 0 && i < len(pincodes)-1 {
			s.logger.Info("Pausing between request blocks",
				zap.Int("requests", requestCount),
				zap.Duration("pause", s.pause))
			select {
			case <-time.After(s.pause):
			case <-ctx.Done():
				return summary, fmt.Errorf("pincode batch interrupted: %w", ctx.Err())
			}
		}
	}

	s.logger.Info("Pincode batch processed",
		zap.Int("success", len(summary.Success)),
		zap.Int("failed", len(summary.Failed)),
		zap.Int("skipped", len(summary.Skipped)))

	return summary, nil
}

func (s *PincodeService) fetchOne(ctx context.Context, pin string) domain.PincodeOutcome {
	outcome := domain.PincodeOutcome{
		PinCode:   pin,
		CheckedAt: time.Now().UTC(),
	}

	rows, err := s.provider.FetchPincodeReport(ctx, pin)
	if err != nil {
		s.logger.Error("Pincode report fetch failed",
			zap.String("pincode", pin),
			zap.Error(err))
		outcome.Status = domain.OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}

	if len(rows) == 0 {
		outcome.Status = domain.OutcomeFailed
		outcome.Reason = noRecordsReason
		return outcome
	}

	if err := s.rows.Append(ctx, rows); err != nil {
		s.logger.Error("Failed to store report rows",
			zap.String("pincode", pin),
			zap.Error(err))
		outcome.Status = domain.OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}

	outcome.Status = domain.OutcomeSuccess
	return outcome
}

// DeliveryZones aggregates the stored rows into serviceability verdicts,
// optionally restricted to one state.
func (s *PincodeService) DeliveryZones(ctx context.Context, state string) (serviceable, unserviceable []domain.DeliveryZoneVerdict, err error) {
	rows, err := s.rows.Rows(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load report rows: %w", err)
	}

	serviceable, unserviceable = domain.Aggregate(rows, state, s.threshold)
	return serviceable, unserviceable, nil
}

func dedupe(pincodes []string) []string {
	seen := make(map[string]struct{}, len(pincodes))
	out := make([]string, 0, len(pincodes))
	for _, pin := range pincodes {
		if _, ok := seen[pin]; ok {
			continue
		}
		seen[pin] = struct{}{}
		out = append(out, pin)
	}
	return out
}
