package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/domain"
)

const trackingPage = `<html><body>
<span id="lblStatus">DELIVERED On Time</span>
<span id="lblCenterDetail">SURAT HUB - Ring Road, Surat</span>
<span id="lastCenterName">MUMBAI CENTRAL</span>
<span id="lastCenterph">022-12345</span>
<span id="lastCenterContact">Ramesh, Mobile: 9876543210</span>
<span id="lastCenterMgr">Manager Ph: 9123456789</span>
<table id="EntryTbl">
<tr><td>1</td><td>SURAT -> MUMBAI</td></tr>
<tr><td></td><td>OUT -> 12/05/24 10:30 AM</td></tr>
<tr><td>2</td><td>MUMBAI -> DELHI</td></tr>
<tr><td></td><td>IN -> 13/05/24 09:15 PM</td></tr>
</table>
</body></html>`

// TestAnjaniTrackingAdapter_FetchTracking verifies end-to-end page scraping
// against a stub portal.
func TestAnjaniTrackingAdapter_FetchTracking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AJ123", r.URL.Query().Get("No"))
		w.Write([]byte(trackingPage))
	}))
	defer srv.Close()

	adapter := NewAnjaniTrackingAdapter(srv.URL, 5*time.Second)
	result, err := adapter.FetchTracking(context.Background(), "AJ123")

	require.NoError(t, err)
	assert.Equal(t, "AJ123", result.TrackingNo)
	assert.Equal(t, domain.StatusDelivered, result.Status)
	assert.Equal(t, "SURAT HUB", result.FromCenter.Name)
	assert.Equal(t, "Ring Road, Surat", result.FromCenter.Address)
	assert.Equal(t, "MUMBAI CENTRAL", result.LastCenter.Name)
	assert.Equal(t, "9876543210", result.LastCenter.Contact.Mobile)

	require.Len(t, result.Steps, 2)
	assert.Equal(t, "SURAT", result.Steps[0].LocationFrom)
	assert.Equal(t, "MUMBAI", result.Steps[0].LocationTo)
	assert.Equal(t, domain.StepStatusOut, result.Steps[0].Status)
	assert.Equal(t, "2024-05-12T10:30:00", result.Steps[0].Timestamp)
	assert.Equal(t, domain.StepStatusIn, result.Steps[1].Status)
	assert.Equal(t, "2024-05-13T21:15:00", result.Steps[1].Timestamp)
}

// TestAnjaniTrackingAdapter_FetchTracking_BadStatus verifies non-200
// responses surface as errors.
func TestAnjaniTrackingAdapter_FetchTracking_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	adapter := NewAnjaniTrackingAdapter(srv.URL, 5*time.Second)
	_, err := adapter.FetchTracking(context.Background(), "AJ123")

	assert.ErrorContains(t, err, "503")
}

func pairingAdapter() *AnjaniTrackingAdapter {
	return &AnjaniTrackingAdapter{logger: zap.NewNop()}
}

// TestPairStepRows_RouteWithStatus verifies a route row consumes the status
// row directly below it.
func TestPairStepRows_RouteWithStatus(t *testing.T) {
	rows := []stepRow{
		{ok: true, text: "DELHI -> MUMBAI"},
		{ok: true, text: "OUT -> 12/05/24 10:30 AM"},
	}

	steps := pairingAdapter().pairStepRows(rows)

	require.Len(t, steps, 1)
	assert.Equal(t, domain.StepTypeRoute, steps[0].Type)
	assert.Equal(t, "DELHI", steps[0].LocationFrom)
	assert.Equal(t, "MUMBAI", steps[0].LocationTo)
	assert.Equal(t, domain.StepStatusOut, steps[0].Status)
	assert.Equal(t, "2024-05-12T10:30:00", steps[0].Timestamp)
}

// TestPairStepRows_RouteWithoutStatus verifies a route followed by another
// route keeps no status.
func TestPairStepRows_RouteWithoutStatus(t *testing.T) {
	rows := []stepRow{
		{ok: true, text: "DELHI -> MUMBAI"},
		{ok: true, text: "MUMBAI -> PUNE"},
	}

	steps := pairingAdapter().pairStepRows(rows)

	require.Len(t, steps, 2)
	assert.Empty(t, steps[0].Status)
	assert.Empty(t, steps[0].Timestamp)
	assert.Equal(t, "PUNE", steps[1].LocationTo)
}

// TestPairStepRows_OrphanStatusDropped verifies a status row with no route
// directly above produces no step.
func TestPairStepRows_OrphanStatusDropped(t *testing.T) {
	rows := []stepRow{
		{ok: true, text: "OUT -> 12/05/24 10:30 AM"},
		{ok: true, text: "DELHI -> MUMBAI"},
	}

	steps := pairingAdapter().pairStepRows(rows)

	require.Len(t, steps, 1)
	assert.Equal(t, "DELHI", steps[0].LocationFrom)
	assert.Empty(t, steps[0].Status)
}

// TestPairStepRows_SpacerBreaksAdjacency verifies an empty spacer row between
// route and status severs the pair.
func TestPairStepRows_SpacerBreaksAdjacency(t *testing.T) {
	rows := []stepRow{
		{ok: true, text: "DELHI -> MUMBAI"},
		{},
		{ok: true, text: "OUT -> 12/05/24 10:30 AM"},
	}

	steps := pairingAdapter().pairStepRows(rows)

	require.Len(t, steps, 1)
	assert.Empty(t, steps[0].Status)
}

// TestPairStepRows_UnparseableTimestampKeptRaw verifies a bad status
// timestamp is kept verbatim.
func TestPairStepRows_UnparseableTimestampKeptRaw(t *testing.T) {
	rows := []stepRow{
		{ok: true, text: "DELHI -> MUMBAI"},
		{ok: true, text: "OUT -> pending"},
	}

	steps := pairingAdapter().pairStepRows(rows)

	require.Len(t, steps, 1)
	assert.Equal(t, domain.StepStatusOut, steps[0].Status)
	assert.Equal(t, "pending", steps[0].Timestamp)
}
