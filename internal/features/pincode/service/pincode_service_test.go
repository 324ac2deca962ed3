package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/domain"
)

// mockProvider returns canned rows or errors per pincode and records call
// order.
type mockProvider struct {
	rows    map[string][]domain.PincodeRow
	errs    map[string]error
	fetched []string
}

func (m *mockProvider) FetchPincodeReport(_ context.Context, pinCode string) ([]domain.PincodeRow, error) {
	m.fetched = append(m.fetched, pinCode)
	if err, ok := m.errs[pinCode]; ok {
		return nil, err
	}
	return m.rows[pinCode], nil
}

// memLedger is an in-memory OutcomeLedger.
type memLedger struct {
	outcomes map[string]domain.PincodeOutcome
}

func newMemLedger() *memLedger {
	return &memLedger{outcomes: map[string]domain.PincodeOutcome{}}
}

func (m *memLedger) WasSuccessful(_ context.Context, pinCode string) (bool, error) {
	o, ok := m.outcomes[pinCode]
	return ok && o.Status == domain.OutcomeSuccess, nil
}

func (m *memLedger) Record(_ context.Context, outcome domain.PincodeOutcome) error {
	m.outcomes[outcome.PinCode] = outcome
	return nil
}

func (m *memLedger) Outcomes(_ context.Context) ([]domain.PincodeOutcome, error) {
	var out []domain.PincodeOutcome
	for _, o := range m.outcomes {
		out = append(out, o)
	}
	return out, nil
}

// memRowStore is an in-memory RowStore.
type memRowStore struct {
	rows      []domain.PincodeRow
	appendErr error
}

func (m *memRowStore) Append(_ context.Context, rows []domain.PincodeRow) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memRowStore) Rows(_ context.Context) ([]domain.PincodeRow, error) {
	return m.rows, nil
}

func deliveryRow(pin string) domain.PincodeRow {
	return domain.PincodeRow{PinCode: pin, BranchName: "VAPI", ZoneType: domain.ZoneTypeDelivery}
}

func newTestService(provider *mockProvider, ledger *memLedger, rows *memRowStore) *PincodeService {
	return NewPincodeService(provider, ledger, rows, 100, time.Millisecond, domain.DefaultDeliveryZoneThreshold)
}

// TestPincodeService_ProcessPincodes verifies outcomes, row storage, and the
// summary for a mixed batch.
func TestPincodeService_ProcessPincodes(t *testing.T) {
	provider := &mockProvider{
		rows: map[string][]domain.PincodeRow{
			"396125": {deliveryRow("396125")},
			// 382165 has no rows
		},
		errs: map[string]error{"110001": errors.New("portal returned status: 500")},
	}
	ledger := newMemLedger()
	rowStore := &memRowStore{}
	svc := newTestService(provider, ledger, rowStore)

	summary, err := svc.ProcessPincodes(context.Background(), []string{"396125", "382165", "110001"})

	require.NoError(t, err)
	assert.Equal(t, []string{"396125"}, summary.Success)
	assert.ElementsMatch(t, []string{"382165", "110001"}, summary.Failed)
	assert.Empty(t, summary.Skipped)

	assert.Equal(t, domain.OutcomeSuccess, ledger.outcomes["396125"].Status)
	assert.Equal(t, "No records found", ledger.outcomes["382165"].Reason)
	assert.Contains(t, ledger.outcomes["110001"].Reason, "500")
	require.Len(t, rowStore.rows, 1)
}

// TestPincodeService_ProcessPincodes_SkipsSuccessful verifies pincodes with
// a recorded success are not fetched again.
func TestPincodeService_ProcessPincodes_SkipsSuccessful(t *testing.T) {
	provider := &mockProvider{rows: map[string][]domain.PincodeRow{"382165": {deliveryRow("382165")}}}
	ledger := newMemLedger()
	ledger.outcomes["396125"] = domain.PincodeOutcome{PinCode: "396125", Status: domain.OutcomeSuccess}
	svc := newTestService(provider, ledger, &memRowStore{})

	summary, err := svc.ProcessPincodes(context.Background(), []string{"396125", "382165"})

	require.NoError(t, err)
	assert.Equal(t, []string{"396125"}, summary.Skipped)
	assert.Equal(t, []string{"382165"}, summary.Success)
	assert.Equal(t, []string{"382165"}, provider.fetched)
}

// TestPincodeService_ProcessPincodes_Dedupes verifies repeated input
// pincodes are fetched once.
func TestPincodeService_ProcessPincodes_Dedupes(t *testing.T) {
	provider := &mockProvider{rows: map[string][]domain.PincodeRow{"396125": {deliveryRow("396125")}}}
	svc := newTestService(provider, newMemLedger(), &memRowStore{})

	summary, err := svc.ProcessPincodes(context.Background(), []string{"396125", "396125"})

	require.NoError(t, err)
	assert.Equal(t, []string{"396125"}, summary.Success)
	assert.Equal(t, []string{"396125"}, provider.fetched)
}

// TestPincodeService_ProcessPincodes_Empty verifies the empty-batch guard.
func TestPincodeService_ProcessPincodes_Empty(t *testing.T) {
	svc := newTestService(&mockProvider{}, newMemLedger(), &memRowStore{})

	_, err := svc.ProcessPincodes(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNoPincodes)
}

// TestPincodeService_ProcessPincodes_StoreFailure verifies a row-store
// failure records a failed outcome instead of aborting the run.
func TestPincodeService_ProcessPincodes_StoreFailure(t *testing.T) {
	provider := &mockProvider{rows: map[string][]domain.PincodeRow{"396125": {deliveryRow("396125")}}}
	ledger := newMemLedger()
	svc := newTestService(provider, ledger, &memRowStore{appendErr: errors.New("redis down")})

	summary, err := svc.ProcessPincodes(context.Background(), []string{"396125"})

	require.NoError(t, err)
	assert.Equal(t, []string{"396125"}, summary.Failed)
	assert.Contains(t, ledger.outcomes["396125"].Reason, "redis down")
}

// TestPincodeService_ProcessPincodes_Cancelled verifies a cancelled context
// stops the run and keeps what was already processed.
func TestPincodeService_ProcessPincodes_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(&mockProvider{}, newMemLedger(), &memRowStore{})

	_, err := svc.ProcessPincodes(ctx, []string{"396125"})

	assert.ErrorIs(t, err, context.Canceled)
}

// TestPincodeService_DeliveryZones verifies aggregation over the stored rows.
func TestPincodeService_DeliveryZones(t *testing.T) {
	rowStore := &memRowStore{rows: []domain.PincodeRow{
		deliveryRow("396125"),
		{PinCode: "382165", ZoneType: "ODA"},
	}}
	svc := newTestService(&mockProvider{}, newMemLedger(), rowStore)

	serviceable, unserviceable, err := svc.DeliveryZones(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, serviceable, 1)
	assert.Equal(t, "396125", serviceable[0].PinCode)
	require.Len(t, unserviceable, 1)
	assert.Equal(t, "382165", unserviceable[0].PinCode)
}
