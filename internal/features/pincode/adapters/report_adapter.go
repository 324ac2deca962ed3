package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/httpclient"
	"github.com/sayaji-jay/anjani-pincode-system/internal/core/logger"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/domain"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/ports"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// errSessionExpired signals that the portal answered with its expiry
// redirect instead of the report.
var errSessionExpired = errors.New("session expired")

// AnjaniReportAdapter fetches authenticated pincode reports. Fetches share
// one mutable session, so a single adapter instance processes pincodes
// sequentially.
type AnjaniReportAdapter struct {
	reportURL string
	client    *http.Client
	session   ports.SessionSource
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnjaniReportAdapter creates an adapter for the given report endpoint.
// The HTTP client never follows redirects: a 302 is the expiry signal.
func NewAnjaniReportAdapter(reportURL string, session ports.SessionSource, timeout time.Duration) *AnjaniReportAdapter {
	return &AnjaniReportAdapter{
		reportURL: reportURL,
		client:    httpclient.NewNoRedirectClient(timeout),
		session:   session,
		logger:    logger.Get(),
		now:       time.Now,
	}
}

// FetchPincodeReport retrieves and parses the report table for a pincode.
// On session expiry or a transport failure it performs exactly one re-login
// and one retry; a second failure is terminal for this pincode.
func (a *AnjaniReportAdapter) FetchPincodeReport(ctx context.Context, pinCode string) ([]domain.PincodeRow, error) {
	token, err := a.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain session: %w", err)
	}

	doc, err := a.fetchReport(ctx, pinCode, token)
	if err != nil {
		a.logger.Warn("Pincode report fetch failed, refreshing session",
			zap.String("pin_code", pinCode),
			zap.Error(err),
		)

		token, err = a.session.Refresh(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh session: %w", err)
		}

		doc, err = a.fetchReport(ctx, pinCode, token)
		if err != nil {
			return nil, fmt.Errorf("pincode %s unreachable after session refresh: %w", pinCode, err)
		}
	}

	return parseReportRows(doc, pinCode, a.now()), nil
}

// fetchReport performs one authenticated GET and returns the parsed page.
func (a *AnjaniReportAdapter) fetchReport(ctx context.Context, pinCode, token string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.reportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("EC", "2")
	q.Set("PC", pinCode)
	req.URL.RawQuery = q.Encode()

	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// A 302, or landing on the portal's "_NotAvailable.aspx" page, means the
	// session is gone.
	if resp.StatusCode == http.StatusFound {
		return nil, errSessionExpired
	}
	if resp.StatusCode == http.StatusOK && strings.Contains(resp.Request.URL.String(), "_NotAvailable.aspx") {
		return nil, errSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report portal returned status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report page: %w", err)
	}
	return doc, nil
}
