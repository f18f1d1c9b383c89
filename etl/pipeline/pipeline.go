// Package pipeline orchestrates a full warehouse build: extract, transform,
// dimension loads, key retrieval, fact assembly and load, quality gate, and
// run finalization. Stages run strictly in sequence; a typed error from any
// stage aborts all later stages.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/cache"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/config"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/errs"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/extract"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/load"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/quality"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/transform"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

// Pipeline executes warehouse build runs. Construct one per process and
// trigger Run once per build; runs never overlap (the external scheduler
// guarantees at most one active run).
type Pipeline struct {
	cfg    config.ETLConfig
	logger *utils.ETLLogger
	cache  *cache.Manager
	ledger *errs.Ledger

	db     *sql.DB
	loader load.Loader
	runLog models.RunLogRepository
}

// New creates a pipeline with explicit dependencies. The cache manager and
// error ledger are shared process-wide and injected rather than global.
func New(cfg config.ETLConfig, logger *utils.ETLLogger, cacheManager *cache.Manager, ledger *errs.Ledger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: logger,
		cache:  cacheManager,
		ledger: ledger,
	}
}

func (p *Pipeline) retryPolicy() errs.Policy {
	return errs.Policy{
		MaxRetries:    p.cfg.MaxRetries,
		Delay:         p.cfg.RetryDelay,
		BackoffFactor: p.cfg.BackoffFactor,
	}
}

// Run executes one complete warehouse build bounded by the configured
// wall-clock timeout. Metrics are persisted whether the run succeeds or
// fails; the returned error is nil only for a fully successful run.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.RunTimeout)
	defer cancel()

	start := time.Now()
	run := &models.PipelineRun{
		RunID:     fmt.Sprintf("etl_run_%d_%s", start.Unix(), uuid.NewString()[:8]),
		StartTime: start,
		Status:    models.StatusRunning,
	}

	p.logger.Info("Starting pipeline run: %s", run.RunID)

	err := p.execute(ctx, run)
	p.finalize(run, err)
	return err
}

func (p *Pipeline) execute(ctx context.Context, run *models.PipelineRun) error {
	// Step 1: connect to the warehouse. Connecting is idempotent, so it is
	// wrapped with the retry policy.
	err := errs.Retry(p.logger, p.ledger, p.retryPolicy(), "connect_warehouse", func() error {
		db, err := config.ConnectWarehouse(ctx, p.cfg.Warehouse)
		if err != nil {
			return errs.Connection(err, "failed to connect to warehouse")
		}
		p.db = db
		return nil
	})
	if err != nil {
		return err
	}

	p.loader = load.NewWarehouseLoader(p.db, p.logger)
	p.runLog = models.NewMySQLRunLogRepository(p.db)

	if err := p.runLog.CreateRunLogTable(ctx); err != nil {
		return p.fail(run, "run_log", errs.Generic(err, "failed to prepare run log"))
	}
	if err := p.runLog.InsertStart(ctx, run); err != nil {
		p.logger.Warn("Failed to record run start: %v", err)
	}
	if last, err := p.runLog.LastSuccessfulRun(ctx); err == nil && last != nil {
		p.logger.Info("Last successful run: %s finished %s", last.RunID, last.EndTime.Format(time.RFC3339))
	}

	// Step 2: create the warehouse schema.
	if err := p.loader.EnsureSchema(ctx); err != nil {
		return p.fail(run, "schema", errs.Generic(err, "failed to create warehouse schema"))
	}

	// Step 3: extract and validate source data.
	extractor := extract.NewExtractor(p.cfg, p.cache, p.logger)
	source, err := extractor.Extract(ctx)
	if err != nil {
		return p.fail(run, "extract", err)
	}
	run.SourceRowCounts = source.Counts()

	// Step 4: transform.
	transformer := transform.NewTransformer(p.cfg, p.cache, p.logger)
	transformed, err := transformer.Transform(ctx, run.RunID, source)
	if err != nil {
		return p.fail(run, "transform", err)
	}

	// Step 5: load dimension tables. Full-replace loads are idempotent
	// under repetition, so the retry policy applies.
	err = errs.Retry(p.logger, p.ledger, p.retryPolicy(), "load_dimensions", func() error {
		if err := p.loader.LoadCustomerDimension(ctx, transformed.Customers); err != nil {
			return errs.Generic(err, "failed to load customer dimension")
		}
		if err := p.loader.LoadProductDimension(ctx, transformed.Products); err != nil {
			return errs.Generic(err, "failed to load product dimension")
		}
		if err := p.loader.LoadDateDimension(ctx, transformed.Dates); err != nil {
			return errs.Generic(err, "failed to load date dimension")
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Step 6: read dimension keys back.
	keys, err := p.loader.DimensionKeys(ctx)
	if err != nil {
		return p.fail(run, "dimension_keys", errs.Generic(err, "failed to retrieve dimension keys"))
	}
	p.cache.PutJSON(ctx, cache.DimensionKeysKey(models.EntityCustomers, run.RunID), keys.Customers, 0)
	p.cache.PutJSON(ctx, cache.DimensionKeysKey(models.EntityProducts, run.RunID), keys.Products, 0)
	p.cache.PutJSON(ctx, cache.DimensionKeysKey("dates", run.RunID), keys.Dates, 0)

	// Step 7: assemble and load the fact table.
	facts := transform.BuildFactSales(transformed.Orders, transformed.Payments, transformed.Products, keys)
	if len(facts) == 0 {
		return p.fail(run, "fact_assembly",
			errs.Validation("fact table is empty after assembly", nil))
	}

	if err := p.loader.LoadFactSales(ctx, facts); err != nil {
		return p.fail(run, "fact_load", errs.Generic(err, "failed to load fact sales"))
	}
	run.FactRowCount = len(facts)
	if count, err := p.loader.RowCount(ctx, models.TableFactSales); err == nil {
		p.logger.Info("Warehouse fact_sales holds %d rows after load", count)
	}

	// Step 8: quality gate.
	checker := quality.NewChecker(p.db, p.logger)
	results, qualityErr := checker.RunAll(ctx, p.expectedCounts(transformed, facts))
	run.QualityScore = quality.Score(results)
	checker.PrintResults()
	p.cache.StoreQualityResults(ctx, run.RunID, results)

	if qualityErr != nil {
		return p.fail(run, "quality_gate", qualityErr)
	}

	return nil
}

// expectedCounts returns the configured expected row counts, falling back
// to expectations derived from what this run transformed and assembled.
func (p *Pipeline) expectedCounts(transformed *models.TransformedData, facts []models.FactSale) map[string]int64 {
	if len(p.cfg.ExpectedRowCounts) > 0 {
		return p.cfg.ExpectedRowCounts
	}
	return map[string]int64{
		models.TableDimCustomers: int64(len(transformed.Customers)),
		models.TableDimProducts:  int64(len(transformed.Products)),
		models.TableDimDates:     int64(len(transformed.Dates)),
		models.TableFactSales:    int64(len(facts)),
	}
}

// fail records a fatal stage error in the ledger and returns it.
func (p *Pipeline) fail(run *models.PipelineRun, stage string, err error) error {
	p.ledger.Record(err, map[string]interface{}{
		"run_id": run.RunID,
		"stage":  stage,
	})
	return err
}

// finalize marks the run finished, persists metrics regardless of outcome
// and emits the structured error report on failure.
func (p *Pipeline) finalize(run *models.PipelineRun, runErr error) {
	run.EndTime = time.Now()
	run.ExecutionTimeSeconds = run.EndTime.Sub(run.StartTime).Seconds()

	if runErr != nil {
		run.Status = models.StatusFailed
		run.ErrorMessage = runErr.Error()
	} else {
		run.Status = models.StatusSuccess
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	p.cache.StorePipelineMetrics(ctx, run)

	if runErr != nil {
		// A failed run must not feed its cached extracts into the next
		// attempt; force a fresh read of the source files.
		p.cache.Invalidate(ctx, "source_data:*")
	}

	if stats := p.cache.Stats(ctx); stats.Enabled {
		p.logger.Info("Cache stats: %d keys, %.1f%% hit rate, %d bytes used",
			stats.Keys, stats.HitRate, stats.UsedMemory)
	}

	if p.runLog != nil {
		var err error
		if runErr != nil {
			err = p.runLog.MarkFailure(ctx, run)
		} else {
			err = p.runLog.MarkSuccess(ctx, run)
		}
		if err != nil {
			p.logger.Warn("Failed to persist run log: %v", err)
		}
	}

	p.printSummary(run)

	if runErr != nil {
		report := p.ledger.Report()
		p.logger.Error("Pipeline run %s failed (%s): %v", run.RunID, errs.KindOf(runErr).Code(), runErr)
		p.logger.Error("Error report: %d total errors, kinds: %v",
			report.Summary.TotalErrors, report.Summary.ErrorKinds)
		for _, rec := range report.Recommendations {
			p.logger.Info("Recommendation: %s", rec)
		}
	} else {
		p.logger.Info("Pipeline run %s completed successfully in %.2fs",
			run.RunID, run.ExecutionTimeSeconds)
	}

	if p.db != nil {
		p.db.Close()
		p.db = nil
		p.loader = nil
		p.runLog = nil
	}
}

func (p *Pipeline) printSummary(run *models.PipelineRun) {
	fmt.Println()
	fmt.Println("============================================================")
	if run.Status == models.StatusSuccess {
		fmt.Println("ETL PIPELINE COMPLETED SUCCESSFULLY")
		fmt.Println("============================================================")
		fmt.Printf("Execution time: %.2f seconds\n", run.ExecutionTimeSeconds)
		fmt.Printf("Customers processed: %d\n", run.SourceRowCounts[models.EntityCustomers])
		fmt.Printf("Products processed: %d\n", run.SourceRowCounts[models.EntityProducts])
		fmt.Printf("Orders processed: %d\n", run.SourceRowCounts[models.EntityOrders])
		fmt.Printf("Fact records created: %d\n", run.FactRowCount)
		fmt.Printf("Data quality score: %.1f%%\n", run.QualityScore)
	} else {
		fmt.Println("ETL PIPELINE FAILED")
		fmt.Println("============================================================")
		summary := p.ledger.Summary()
		fmt.Printf("Total errors: %d\n", summary.TotalErrors)
		fmt.Printf("Execution time: %.2f seconds\n", run.ExecutionTimeSeconds)
		if run.ErrorMessage != "" {
			fmt.Printf("Last error: %s\n", run.ErrorMessage)
		}
	}
	fmt.Println("============================================================")
}
