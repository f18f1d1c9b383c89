// Package quality runs the fixed post-load check battery. The gate only
// observes: it never repairs data and never rolls anything back, it fails
// the run instead.
package quality

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/errs"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

// Check names as reported in results.
const (
	CheckRowCount   = "row_count"
	CheckNullValues = "null_values"
	CheckOrphans    = "orphan_references"
	CheckValueRange = "value_range"
)

// Critical columns that must never be null after load.
var criticalColumns = map[string][]string{
	models.TableDimCustomers: {"customer_id", "email"},
	models.TableDimProducts:  {"product_id", "product_name", "price"},
	models.TableFactSales:    {"order_id", "customer_key", "product_key", "quantity", "unit_price"},
}

// Orphan checks: fact surrogate key against the dimension that owns it.
// A NULL key never matches the dimension, so nulls count as orphans.
var orphanChecks = []struct {
	dimension string
	key       string
}{
	{models.TableDimCustomers, "customer_key"},
	{models.TableDimProducts, "product_key"},
}

// Checker runs the quality gate against the loaded warehouse.
type Checker struct {
	db      *sql.DB
	logger  *utils.ETLLogger
	results []models.QualityCheckResult
}

// NewChecker creates a quality checker over db.
func NewChecker(db *sql.DB, logger *utils.ETLLogger) *Checker {
	return &Checker{db: db, logger: logger}
}

// RunAll executes the full check battery and returns every result. When any
// check fails, the returned error is a quality error carrying the complete
// result list; the results are still returned for metric computation.
func (c *Checker) RunAll(ctx context.Context, expectedCounts map[string]int64) ([]models.QualityCheckResult, error) {
	c.logger.LogPhaseStart("Quality checks")
	c.results = nil

	if err := c.checkRowCounts(ctx, expectedCounts); err != nil {
		return c.results, err
	}
	if err := c.checkNullValues(ctx); err != nil {
		return c.results, err
	}
	if err := c.checkOrphanReferences(ctx); err != nil {
		return c.results, err
	}
	if err := c.checkValueRanges(ctx); err != nil {
		return c.results, err
	}

	passed, total := Summarize(c.results)
	c.logger.Info("Quality summary: %d/%d checks passed", passed, total)

	if failed := Failures(c.results); len(failed) > 0 {
		return c.results, errs.Quality(
			fmt.Sprintf("data quality checks failed: %d failures", len(failed)),
			map[string]interface{}{
				"failed_checks": failed,
				"results":       c.results,
			})
	}

	return c.results, nil
}

func (c *Checker) checkRowCounts(ctx context.Context, expectedCounts map[string]int64) error {
	for _, table := range []string{
		models.TableDimCustomers,
		models.TableDimProducts,
		models.TableDimDates,
		models.TableFactSales,
	} {
		expected, ok := expectedCounts[table]
		if !ok {
			continue
		}

		actual, err := c.count(ctx, "SELECT COUNT(*) FROM "+table)
		if err != nil {
			return err
		}

		result := models.QualityCheckResult{
			Check:    CheckRowCount,
			Table:    table,
			Expected: expected,
			Actual:   actual,
			Status:   statusFor(actual == expected),
		}
		c.record(result)
		c.logger.Info("Row count check - %s: %s (%d/%d)", table, result.Status, actual, expected)
	}

	return nil
}

func (c *Checker) checkNullValues(ctx context.Context) error {
	for _, table := range []string{
		models.TableDimCustomers,
		models.TableDimProducts,
		models.TableFactSales,
	} {
		for _, column := range criticalColumns[table] {
			nulls, err := c.count(ctx, fmt.Sprintf(
				"SELECT COUNT(*) FROM %s WHERE %s IS NULL", table, column))
			if err != nil {
				return err
			}

			result := models.QualityCheckResult{
				Check:  CheckNullValues,
				Table:  table,
				Column: column,
				Actual: nulls,
				Status: statusFor(nulls == 0),
			}
			c.record(result)
			c.logger.Info("Null check - %s.%s: %s (%d nulls)", table, column, result.Status, nulls)
		}
	}

	return nil
}

func (c *Checker) checkOrphanReferences(ctx context.Context) error {
	for _, check := range orphanChecks {
		orphans, err := c.count(ctx, fmt.Sprintf(`
			SELECT COUNT(*)
			FROM fact_sales f
			LEFT JOIN %s d ON f.%s = d.%s
			WHERE d.%s IS NULL`,
			check.dimension, check.key, check.key, check.key))
		if err != nil {
			return err
		}

		result := models.QualityCheckResult{
			Check:  CheckOrphans,
			Table:  check.dimension,
			Column: check.key,
			Actual: orphans,
			Status: statusFor(orphans == 0),
		}
		c.record(result)
		c.logger.Info("Orphan check - fact_sales -> %s: %s (%d orphans)",
			check.dimension, result.Status, orphans)
	}

	return nil
}

func (c *Checker) checkValueRanges(ctx context.Context) error {
	ranges := []struct {
		column    string
		condition string
	}{
		{"quantity", "quantity <= 0"},
		{"unit_price", "unit_price <= 0"},
	}

	for _, r := range ranges {
		count, err := c.count(ctx, "SELECT COUNT(*) FROM fact_sales WHERE "+r.condition)
		if err != nil {
			return err
		}

		result := models.QualityCheckResult{
			Check:  CheckValueRange,
			Table:  models.TableFactSales,
			Column: r.column,
			Actual: count,
			Status: statusFor(count == 0),
		}
		c.record(result)
		c.logger.Info("Range check - %s: %s (%d out of range)", r.column, result.Status, count)
	}

	return nil
}

func (c *Checker) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := c.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("quality check query failed: %w", err)
	}
	return n, nil
}

func (c *Checker) record(result models.QualityCheckResult) {
	c.results = append(c.results, result)
}

// PrintResults writes a console summary of the last run's checks.
func (c *Checker) PrintResults() {
	fmt.Println()
	fmt.Println("============================================================")
	fmt.Println("DATA QUALITY CHECK RESULTS")
	fmt.Println("============================================================")

	for _, result := range c.results {
		symbol := "PASS"
		if !result.Passed() {
			symbol = "FAIL"
		}
		target := result.Table
		if result.Column != "" {
			target = result.Table + "." + result.Column
		}
		fmt.Printf("[%s] %s: %s\n", symbol, result.Check, target)
	}

	passed, total := Summarize(c.results)
	fmt.Printf("\nSummary: %d/%d checks passed\n", passed, total)
	fmt.Println("============================================================")
}

func statusFor(ok bool) string {
	if ok {
		return models.CheckPass
	}
	return models.CheckFail
}

// Summarize returns the passed and total check counts.
func Summarize(results []models.QualityCheckResult) (passed, total int) {
	for _, r := range results {
		if r.Passed() {
			passed++
		}
	}
	return passed, len(results)
}

// Failures returns the failed checks.
func Failures(results []models.QualityCheckResult) []models.QualityCheckResult {
	var failed []models.QualityCheckResult
	for _, r := range results {
		if !r.Passed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Score returns the percentage of checks that passed, 0 when none ran.
func Score(results []models.QualityCheckResult) float64 {
	passed, total := Summarize(results)
	if total == 0 {
		return 0
	}
	return float64(passed) / float64(total) * 100
}
