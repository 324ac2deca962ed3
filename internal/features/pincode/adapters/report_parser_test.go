package adapter

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/domain"
)

const reportPage = `<html><body><table id="ReportTbl">
<tr><td>KILLA PARDI, VALSAD</td><td>Contact To: 9876500001</td></tr>
<tr><td></td><td>1</td><td>PARDI</td><td>Delivery Zone</td><td>x</td><td>Regular</td><td>2</td></tr>
<tr><td></td><td>2</td><td>UDVADA</td><td>ODA</td><td>x</td><td>On Demand</td><td>4</td></tr>
<tr></tr>
<tr><td>VAPI</td><td>Contact To: 9876500002</td></tr>
<tr><td></td><td>3</td><td>GIDC</td><td>Delivery Zone</td><td>x</td><td>Regular</td><td>1</td></tr>
<tr><td></td><td>Total</td><td></td><td></td><td></td><td></td><td></td></tr>
</table></body></html>`

func reportDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// TestParseReportRows_BranchInheritance verifies data rows inherit the
// closest branch header above them.
func TestParseReportRows_BranchInheritance(t *testing.T) {
	observed := time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC)

	rows := parseReportRows(reportDoc(t, reportPage), "396125", observed)

	require.Len(t, rows, 3)
	assert.Equal(t, "KILLA PARDI, VALSAD", rows[0].BranchName)
	assert.Equal(t, "PARDI", rows[0].AreaName)
	assert.Equal(t, domain.ZoneTypeDelivery, rows[0].ZoneType)
	assert.Equal(t, "Regular", rows[0].DeliveryType)
	assert.Equal(t, "2", rows[0].TransitDays)
	assert.Equal(t, "396125", rows[0].PinCode)
	assert.Equal(t, observed, rows[0].ObservedAt)

	assert.Equal(t, "KILLA PARDI, VALSAD", rows[1].BranchName)
	assert.Equal(t, "ODA", rows[1].ZoneType)

	assert.Equal(t, "VAPI", rows[2].BranchName)
	assert.Equal(t, "GIDC", rows[2].AreaName)
}

// TestParseReportRows_UnknownBranch verifies data rows before any branch
// header fall back to the Unknown branch.
func TestParseReportRows_UnknownBranch(t *testing.T) {
	page := `<html><body><table id="ReportTbl">
<tr><td></td><td>1</td><td>PARDI</td><td>Delivery Zone</td><td>x</td><td>Regular</td><td>2</td></tr>
</table></body></html>`

	rows := parseReportRows(reportDoc(t, page), "396125", time.Now())

	require.Len(t, rows, 1)
	assert.Equal(t, domain.UnknownBranch, rows[0].BranchName)
}

// TestParseReportRows_NonDataRowsIgnored verifies rows without exactly 7
// cells or without a numeric serial produce nothing.
func TestParseReportRows_NonDataRowsIgnored(t *testing.T) {
	page := `<html><body><table id="ReportTbl">
<tr><td>a</td><td>b</td><td>c</td></tr>
<tr><td></td><td>Total</td><td></td><td></td><td></td><td></td><td></td></tr>
<tr><td></td><td>1a</td><td>X</td><td>Y</td><td></td><td>Z</td><td>1</td></tr>
</table></body></html>`

	rows := parseReportRows(reportDoc(t, page), "396125", time.Now())

	assert.Empty(t, rows)
}

// TestParseReportRows_MissingTable verifies a page without the report table
// yields zero rows without error.
func TestParseReportRows_MissingTable(t *testing.T) {
	rows := parseReportRows(reportDoc(t, "<html><body><p>no data</p></body></html>"), "396125", time.Now())

	assert.Empty(t, rows)
}
