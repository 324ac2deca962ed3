package adapter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/logger"
)

const pincodeColumnName = "PINCODE"

// LoadPincodeList reads pincodes from a CSV file. The file must have a
// header row containing a PINCODE column (case-insensitive); blank values
// are skipped and duplicates removed, preserving first-seen order.
func LoadPincodeList(path string) ([]string, error) {
	log := logger.Get()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pincode file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse pincode file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("pincode file %s is empty", path)
	}

	colIdx := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), pincodeColumnName) {
			colIdx = i
			break
		}
	}
	if colIdx == -1 {
		return nil, fmt.Errorf("pincode file %s has no %s column", path, pincodeColumnName)
	}

	seen := make(map[string]struct{})
	var pincodes []string
	for _, record := range records[1:] {
		if colIdx >= len(record) {
			continue
		}
		pin := strings.TrimSpace(record[colIdx])
		if pin == "" {
			continue
		}
		if _, ok := seen[pin]; ok {
			continue
		}
		seen[pin] = struct{}{}
		pincodes = append(pincodes, pin)
	}

	log.Info("Loaded pincode list",
		zap.String("path", path),
		zap.Int("rows", len(records)-1),
		zap.Int("pincodes", len(pincodes)))

	return pincodes, nil
}
