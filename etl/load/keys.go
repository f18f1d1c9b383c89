package load

import (
	"context"
	"fmt"
	"time"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
)

// DimensionKeys reads the natural-key to surrogate-key maps back from the
// freshly loaded dimension tables. The fact assembly joins against these
// maps instead of the warehouse.
func (l *WarehouseLoader) DimensionKeys(ctx context.Context) (*models.DimensionKeys, error) {
	keys := &models.DimensionKeys{
		Customers: map[string]int{},
		Products:  map[string]int{},
		Dates:     map[string]int{},
	}

	rows, err := l.db.QueryContext(ctx, "SELECT customer_key, customer_id FROM dim_customers")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve customer keys: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key int
		var id string
		if err := rows.Scan(&key, &id); err != nil {
			return nil, fmt.Errorf("failed to scan customer key: %w", err)
		}
		keys.Customers[id] = key
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed after iterating customer keys: %w", err)
	}

	rows, err = l.db.QueryContext(ctx, "SELECT product_key, product_id FROM dim_products")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve product keys: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key int
		var id string
		if err := rows.Scan(&key, &id); err != nil {
			return nil, fmt.Errorf("failed to scan product key: %w", err)
		}
		keys.Products[id] = key
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed after iterating product keys: %w", err)
	}

	rows, err = l.db.QueryContext(ctx, "SELECT date_key, date_value FROM dim_dates")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve date keys: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key int
		var value time.Time
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan date key: %w", err)
		}
		keys.Dates[value.Format("2006-01-02")] = key
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed after iterating date keys: %w", err)
	}

	l.logger.Info("Retrieved dimension keys: %d customers, %d products, %d dates",
		len(keys.Customers), len(keys.Products), len(keys.Dates))

	return keys, nil
}
