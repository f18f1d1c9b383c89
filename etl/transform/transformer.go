package transform

import (
	"context"
	"time"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/cache"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/config"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/errs"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

const transformedCacheTTL = time.Hour

// Transformer coordinates the cleaning of each source entity and the date
// dimension generation for one run.
type Transformer struct {
	dateRange config.DateRange
	cache     *cache.Manager
	logger    *utils.ETLLogger
}

// NewTransformer creates a transformer for the configured date range.
func NewTransformer(cfg config.ETLConfig, cacheManager *cache.Manager, logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		dateRange: cfg.DateRange,
		cache:     cacheManager,
		logger:    logger,
	}
}

// Transform cleans every source entity and generates the date dimension.
// Cleaned entities are cached under the run identity.
func (t *Transformer) Transform(ctx context.Context, runID string, source *models.SourceData) (*models.TransformedData, error) {
	startTime := time.Now()
	t.logger.LogPhaseStart("Transform")

	if t.dateRange.Start.After(t.dateRange.End) {
		return nil, errs.Transformation(nil, "date dimension range start is after end",
			map[string]interface{}{
				"start": t.dateRange.Start.Format("2006-01-02"),
				"end":   t.dateRange.End.Format("2006-01-02"),
			})
	}

	transformed := &models.TransformedData{
		Customers: CleanCustomers(source.Customers),
		Products:  CleanProducts(source.Products),
		Orders:    CleanOrders(source.Orders),
		Payments:  CleanPayments(source.Payments),
		Dates:     GenerateDateDimension(t.dateRange.Start, t.dateRange.End),
	}

	t.logger.Info("Cleaned %d customer records", len(transformed.Customers))
	t.logger.Info("Cleaned %d product records", len(transformed.Products))
	t.logger.Info("Cleaned %d order records (%d dropped)",
		len(transformed.Orders), len(source.Orders)-len(transformed.Orders))
	t.logger.Info("Cleaned %d payment records (%d dropped)",
		len(transformed.Payments), len(source.Payments)-len(transformed.Payments))
	t.logger.Info("Generated %d date records", len(transformed.Dates))

	if len(transformed.Orders) == 0 {
		return nil, errs.Transformation(nil, "no orders survived cleaning",
			map[string]interface{}{"source_orders": len(source.Orders)})
	}

	t.cache.PutJSON(ctx, cache.TransformedKey(models.EntityCustomers, runID), transformed.Customers, transformedCacheTTL)
	t.cache.PutJSON(ctx, cache.TransformedKey(models.EntityProducts, runID), transformed.Products, transformedCacheTTL)
	t.cache.PutJSON(ctx, cache.TransformedKey(models.EntityOrders, runID), transformed.Orders, transformedCacheTTL)
	t.cache.PutJSON(ctx, cache.TransformedKey(models.EntityPayments, runID), transformed.Payments, transformedCacheTTL)

	t.logger.LogPhaseComplete("Transform", time.Since(startTime))
	return transformed, nil
}
