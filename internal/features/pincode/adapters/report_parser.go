package adapter

import (
	"strings"
	"time"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/domain"

	"github.com/PuerkitoBio/goquery"
)

// branchMarker identifies branch-header rows in the report table, e.g.
// <td>KILLA PARDI, VALSAD</td><td>Contact To:</td>...
const branchMarker = "Contact To:"

// parseReportRows scans the #ReportTbl rows top to bottom, carrying the most
// recently seen branch header as the branch for each data row below it. A
// page without the table yields zero rows; that is not an error here.
func parseReportRows(doc *goquery.Document, pinCode string, observedAt time.Time) []domain.PincodeRow {
	var rows []domain.PincodeRow
	currentBranch := ""

	doc.Find("table#ReportTbl tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			// spacer row
			return
		}

		if cells.Length() >= 2 && strings.Contains(cells.Eq(1).Text(), branchMarker) {
			currentBranch = strings.TrimSpace(cells.Eq(0).Text())
			return
		}

		// Data rows have exactly 7 cells and a serial number in the second.
		if cells.Length() != 7 || !isDigits(strings.TrimSpace(cells.Eq(1).Text())) {
			return
		}

		branch := currentBranch
		if branch == "" {
			branch = domain.UnknownBranch
		}

		rows = append(rows, domain.PincodeRow{
			PinCode:      pinCode,
			BranchName:   branch,
			AreaName:     strings.TrimSpace(cells.Eq(2).Text()),
			ZoneType:     strings.TrimSpace(cells.Eq(3).Text()),
			DeliveryType: strings.TrimSpace(cells.Eq(5).Text()),
			TransitDays:  strings.TrimSpace(cells.Eq(6).Text()),
			ObservedAt:   observedAt,
		})
	})

	return rows
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
