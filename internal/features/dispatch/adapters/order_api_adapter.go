package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/httpclient"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/domain"
)

const (
	undeliveredPath = "/unicommerce_detail/anjaniundeliveredtrakingno"
	updatePath      = "/unicommerce_detail/updateanjanitraking"
)

// apiEnvelope is the order-management API response wrapper. A call is
// successful when flag is 1 and code is 200.
type apiEnvelope struct {
	Flag    int             `json:"flag"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// OrderManagementAdapter implements the OrderAPI port against the in-house
// order-management REST API.
type OrderManagementAdapter struct {
	// baseURL is the API root, without a trailing slash.
	baseURL string
	// client is the HTTP client used for API requests.
	client *http.Client
}

// NewOrderManagementAdapter creates a new OrderManagementAdapter.
func NewOrderManagementAdapter(baseURL string, timeout time.Duration) *OrderManagementAdapter {
	return &OrderManagementAdapter{
		baseURL: baseURL,
		client:  httpclient.NewClient(timeout),
	}
}

// FetchUndeliveredTrackingNumbers asks the order system for the tracking
// numbers that are still marked undelivered.
func (a *OrderManagementAdapter) FetchUndeliveredTrackingNumbers(ctx context.Context) ([]string, error) {
	env, err := a.post(ctx, undeliveredPath, nil)
	if err != nil {
		return nil, err
	}

	var numbers []string
	if err := json.Unmarshal(env.Data, &numbers); err != nil {
		return nil, fmt.Errorf("failed to decode tracking number list: %w", err)
	}
	return numbers, nil
}

// PushTrackingResults sends scraped tracking records back to the order
// system so it can update delivery states.
func (a *OrderManagementAdapter) PushTrackingResults(ctx context.Context, results []domain.TrackingResult) error {
	body, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal tracking results: %w", err)
	}

	if _, err := a.post(ctx, updatePath, body); err != nil {
		return err
	}
	return nil
}

func (a *OrderManagementAdapter) post(ctx context.Context, path string, body []byte) (*apiEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order API returned status: %d", resp.StatusCode)
	}

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if env.Flag != 1 || env.Code != 200 {
		return nil, fmt.Errorf("order API rejected call %s: %s", path, env.Message)
	}
	return &env, nil
}
