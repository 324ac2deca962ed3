// Package export writes the scraped pincode data to an Excel workbook in
// the layout the operations team reviews: per-sheet views of the delivery
// rows, the full row set, per-pincode outcomes, and the serviceability
// verdicts.
package export

import (
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/logger"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/domain"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/ports"
)

const (
	sheetDeliveryDetails = "Delivery Pincode Details"
	sheetAllDetails      = "All Pincode Details"
	sheetFound           = "Found Pincode"
	sheetNotFound        = "Not Found Pincode"
	sheetPossibleZone    = "Possible Delivery Zone"

	headerFillColor = "FFE066"
	maxColumnWidth  = 50
)

// Exporter builds the review workbook from the stored rows and outcomes.
type Exporter struct {
	rows      ports.RowStore
	ledger    ports.OutcomeLedger
	threshold float64
	logger    *zap.Logger
}

// NewExporter creates a new Exporter. threshold is the serviceability cutoff
// used for the verdict sheet.
func NewExporter(rows ports.RowStore, ledger ports.OutcomeLedger, threshold float64) *Exporter {
	if threshold <= 0 {
		threshold = domain.DefaultDeliveryZoneThreshold
	}
	return &Exporter{
		rows:      rows,
		ledger:    ledger,
		threshold: threshold,
		logger:    logger.Get(),
	}
}

// Export writes the workbook to path, overwriting any existing file.
func (e *Exporter) Export(ctx context.Context, path string) error {
	rows, err := e.rows.Rows(ctx)
	if err != nil {
		return fmt.Errorf("failed to load report rows: %w", err)
	}

	outcomes, err := e.ledger.Outcomes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load outcomes: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeRowSheets(f, rows); err != nil {
		return err
	}
	if err := e.writeOutcomeSheets(f, outcomes); err != nil {
		return err
	}
	if err := e.writeVerdictSheet(f, rows); err != nil {
		return err
	}

	// The delivery sheet replaces the default first sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	e.logger.Info("Workbook exported",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.Int("outcomes", len(outcomes)))

	return nil
}

func (e *Exporter) writeRowSheets(f *excelize.File, rows []domain.PincodeRow) error {
	header := []string{"Pin Code", "Branch Name", "Area Name", "Zone Type", "Delivery Type", "Transit Days", "State"}

	var delivery [][]string
	for _, row := range rows {
		if row.ZoneType == domain.ZoneTypeDelivery {
			delivery = append(delivery, rowCells(row))
		}
	}
	if err := writeSheet(f, sheetDeliveryDetails, header, delivery); err != nil {
		return err
	}

	sorted := make([]domain.PincodeRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PinCode < sorted[j].PinCode })

	all := make([][]string, 0, len(sorted))
	for _, row := range sorted {
		all = append(all, rowCells(row))
	}
	return writeSheet(f, sheetAllDetails, header, all)
}

func (e *Exporter) writeOutcomeSheets(f *excelize.File, outcomes []domain.PincodeOutcome) error {
	var found, notFound [][]string
	for _, o := range outcomes {
		if o.Status == domain.OutcomeSuccess {
			found = append(found, []string{o.PinCode, o.CheckedAt.Format("2006-01-02 15:04:05")})
		} else {
			notFound = append(notFound, []string{o.PinCode, o.Reason, o.CheckedAt.Format("2006-01-02 15:04:05")})
		}
	}

	if err := writeSheet(f, sheetFound, []string{"Pin Code", "Checked At"}, found); err != nil {
		return err
	}
	return writeSheet(f, sheetNotFound, []string{"Pin Code", "Reason", "Checked At"}, notFound)
}

func (e *Exporter) writeVerdictSheet(f *excelize.File, rows []domain.PincodeRow) error {
	serviceable, _ := domain.Aggregate(rows, "", e.threshold)

	cells := make([][]string, 0, len(serviceable))
	for _, v := range serviceable {
		cells = append(cells, []string{
			v.PinCode,
			fmt.Sprintf("%.2f", v.DeliveryZoneFraction),
			v.State,
		})
	}
	return writeSheet(f, sheetPossibleZone, []string{"Pin Code", "Delivery Zone Fraction", "State"}, cells)
}

func rowCells(row domain.PincodeRow) []string {
	return []string{
		row.PinCode,
		row.BranchName,
		row.AreaName,
		row.ZoneType,
		row.DeliveryType,
		row.TransitDays,
		row.State,
	}
}

// writeSheet creates the sheet, writes a styled header plus the data rows,
// and sizes each column to its widest cell.
func writeSheet(f *excelize.File, name string, header []string, rows [][]string) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	widths := make([]int, len(header))
	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(name, cell, title); err != nil {
			return fmt.Errorf("failed to write header on %s: %w", name, err)
		}
		if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header on %s: %w", name, err)
		}
		widths[col] = len(title)
	}

	for r, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := f.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("failed to write row on %s: %w", name, err)
			}
			if col < len(widths) && len(value) > widths[col] {
				widths[col] = len(value)
			}
		}
	}

	for col, width := range widths {
		width += 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		colName, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(name, colName, colName, float64(width)); err != nil {
			return fmt.Errorf("failed to size column on %s: %w", name, err)
		}
	}

	return nil
}
