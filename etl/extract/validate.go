package extract

import (
	"fmt"
	"strings"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/errs"
)

// Structural thresholds enforced per source table.
const (
	minRowCount            = 1
	maxNullPercentage      = 5.0
	maxDuplicatePercentage = 1.0
)

// validateTable enforces the structural requirements for one source table:
// presence, a minimum row count, required columns, a null ceiling per
// column and a duplicate-row warning threshold. Violations are fatal
// validation errors, except duplicates which only warn.
func (e *Extractor) validateTable(t *table, name string, requiredColumns []string) error {
	if t == nil || len(t.Rows) == 0 {
		return errs.Validation(fmt.Sprintf("table %s is empty", name), nil)
	}

	if len(t.Rows) < minRowCount {
		return errs.Validation(
			fmt.Sprintf("table %s has %d rows, minimum required: %d", name, len(t.Rows), minRowCount), nil)
	}

	var missing []string
	for _, column := range requiredColumns {
		if t.index(column) < 0 {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return errs.Validation(
			fmt.Sprintf("table %s missing required columns: %v", name, missing),
			map[string]interface{}{"missing_columns": missing})
	}

	results := map[string]interface{}{
		"total_rows":    len(t.Rows),
		"total_columns": len(t.Columns),
	}

	for i, column := range t.Columns {
		nullCount := 0
		for _, row := range t.Rows {
			if strings.TrimSpace(t.value(row, i)) == "" {
				nullCount++
			}
		}

		nullPercentage := float64(nullCount) / float64(len(t.Rows)) * 100
		results[column+"_null_percentage"] = nullPercentage

		if nullPercentage > maxNullPercentage {
			return errs.Validation(
				fmt.Sprintf("column %s in %s has %.2f%% null values, maximum allowed: %.1f%%",
					column, name, nullPercentage, maxNullPercentage),
				results)
		}
	}

	seen := make(map[string]struct{}, len(t.Rows))
	duplicates := 0
	for _, row := range t.Rows {
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}

	duplicatePercentage := float64(duplicates) / float64(len(t.Rows)) * 100
	results["duplicate_percentage"] = duplicatePercentage
	if duplicatePercentage > maxDuplicatePercentage {
		e.logger.Warn("Table %s has %.2f%% duplicate rows", name, duplicatePercentage)
	}

	e.logger.Debug("Validation passed for %s: %d rows, %d columns", name, len(t.Rows), len(t.Columns))
	return nil
}
