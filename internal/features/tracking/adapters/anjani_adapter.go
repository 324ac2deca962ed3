package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/httpclient"
	"github.com/sayaji-jay/anjani-pincode-system/internal/core/logger"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// AnjaniTrackingAdapter scrapes the Anjani Courier tracking page. The page
// is unauthenticated; one GET per tracking number.
type AnjaniTrackingAdapter struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewAnjaniTrackingAdapter creates an adapter for the given tracking endpoint.
func NewAnjaniTrackingAdapter(baseURL string, timeout time.Duration) *AnjaniTrackingAdapter {
	return &AnjaniTrackingAdapter{
		baseURL: baseURL,
		client:  httpclient.NewClient(timeout),
		logger:  logger.Get(),
	}
}

// FetchTracking retrieves and parses the tracking page for a tracking number.
func (a *AnjaniTrackingAdapter) FetchTracking(ctx context.Context, trackingNumber string) (*domain.TrackingResult, error) {
	url := fmt.Sprintf("%s?No=%s", a.baseURL, trackingNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracking page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracking portal returned status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tracking page: %w", err)
	}

	return a.mapPageToResult(doc, trackingNumber), nil
}

// mapPageToResult assembles the result from the two independent page regions:
// the tracking table and the detail side panel.
func (a *AnjaniTrackingAdapter) mapPageToResult(doc *goquery.Document, trackingNumber string) *domain.TrackingResult {
	result := &domain.TrackingResult{
		TrackingNo: trackingNumber,
		Steps:      a.parseSteps(doc),
	}

	result.Status = mapDeliveryStatus(spanText(doc, "lblStatus"))
	result.FromCenter = parseFromCenter(spanText(doc, "lblCenterDetail"))
	result.LastCenter = parseLastCenter(doc)

	return result
}

// stepRow is one table row reduced to its second cell. Rows with fewer than
// two cells still occupy a position so that pairing stays adjacency-based.
type stepRow struct {
	ok   bool
	text string
}

// parseSteps extracts the movement steps from the #EntryTbl rows.
func (a *AnjaniTrackingAdapter) parseSteps(doc *goquery.Document) []domain.TrackingStep {
	var rows []stepRow
	doc.Find("#EntryTbl tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			rows = append(rows, stepRow{})
			return
		}
		rows = append(rows, stepRow{ok: true, text: strings.TrimSpace(cells.Eq(1).Text())})
	})
	return a.pairStepRows(rows)
}

// pairStepRows walks the rows with a single forward cursor. A row that does
// not start with OUT/IN is a route; the immediately following row is
// consumed as its status when it starts with OUT or IN. A status row that
// has no route row directly above it is dropped without output, matching
// the portal markup as observed.
func (a *AnjaniTrackingAdapter) pairStepRows(rows []stepRow) []domain.TrackingStep {
	var steps []domain.TrackingStep

	for i := 0; i < len(rows); i++ {
		if !rows[i].ok {
			continue
		}
		text := rows[i].text
		if isStatusText(text) {
			continue
		}

		parts := strings.Split(text, "->")
		step := domain.TrackingStep{
			Type:         domain.StepTypeRoute,
			LocationFrom: strings.TrimSpace(parts[0]),
		}
		if len(parts) > 1 {
			step.LocationTo = strings.TrimSpace(parts[1])
		}

		if i+1 < len(rows) && rows[i+1].ok && isStatusText(rows[i+1].text) {
			next := rows[i+1].text
			status := domain.StepStatusIn
			if strings.HasPrefix(next, domain.StepStatusOut) {
				status = domain.StepStatusOut
			}

			raw := strings.Replace(next, status+" -> ", "", 1)
			raw = strings.TrimSpace(strings.ReplaceAll(raw, "->", ""))

			ts, parsed := normalizeDateTime(raw)
			if !parsed {
				a.logger.Warn("Unparseable tracking timestamp, keeping raw text",
					zap.String("raw", raw),
				)
			}

			step.Status = status
			step.Timestamp = ts
			i++ // the status row was consumed by this step
		}

		steps = append(steps, step)
	}

	return steps
}

func isStatusText(text string) bool {
	return strings.HasPrefix(text, domain.StepStatusOut) || strings.HasPrefix(text, domain.StepStatusIn)
}
