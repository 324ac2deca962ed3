package ports

import (
	"context"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/domain"
)

// ReportProvider fetches and parses the pincode report for one pincode.
// An empty slice with a nil error means the report had no matching rows.
type ReportProvider interface {
	FetchPincodeReport(ctx context.Context, pinCode string) ([]domain.PincodeRow, error)
}

// SessionSource owns the portal session credential. Token returns the
// current credential, logging in first if necessary; Refresh forces a new
// login and returns the fresh credential.
type SessionSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// OutcomeLedger records one outcome per pincode fetch and answers whether a
// pincode already succeeded, so batches can skip it.
type OutcomeLedger interface {
	WasSuccessful(ctx context.Context, pinCode string) (bool, error)
	Record(ctx context.Context, outcome domain.PincodeOutcome) error
	Outcomes(ctx context.Context) ([]domain.PincodeOutcome, error)
}

// RowStore persists scraped report rows, append-only per run.
type RowStore interface {
	Append(ctx context.Context, rows []domain.PincodeRow) error
	Rows(ctx context.Context) ([]domain.PincodeRow, error)
}
