// Package load writes dimension and fact tables into the warehouse using
// full-replace semantics: every table is truncated and reloaded on every
// run, which makes loads trivially idempotent at the cost of history.
//
// Each load commits independently; there is no pipeline-wide transaction.
// A fact load failing after the dimensions have been replaced leaves fresh
// dimensions next to a stale fact table until the next successful run.
package load

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

// Loader writes transformed data into the warehouse. Every operation honors
// the run context; an expired run deadline aborts the load mid-flight.
type Loader interface {
	// EnsureSchema creates the warehouse tables if they do not exist.
	EnsureSchema(ctx context.Context) error

	// LoadCustomerDimension full-replaces dim_customers.
	LoadCustomerDimension(ctx context.Context, customers []models.CustomerDimension) error

	// LoadProductDimension full-replaces dim_products.
	LoadProductDimension(ctx context.Context, products []models.ProductDimension) error

	// LoadDateDimension full-replaces dim_dates.
	LoadDateDimension(ctx context.Context, dates []models.DateDimension) error

	// LoadFactSales full-replaces fact_sales.
	LoadFactSales(ctx context.Context, facts []models.FactSale) error

	// DimensionKeys reads the surrogate key maps back from the loaded
	// dimension tables.
	DimensionKeys(ctx context.Context) (*models.DimensionKeys, error)

	// RowCount returns the number of rows in a warehouse table.
	RowCount(ctx context.Context, table string) (int64, error)
}

// WarehouseLoader implements Loader on a MySQL warehouse.
type WarehouseLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewWarehouseLoader creates a loader writing into db.
func NewWarehouseLoader(db *sql.DB, logger *utils.ETLLogger) *WarehouseLoader {
	return &WarehouseLoader{db: db, logger: logger}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS dim_customers (
		customer_key INT AUTO_INCREMENT PRIMARY KEY,
		customer_id VARCHAR(64) NOT NULL,
		email VARCHAR(255),
		phone VARCHAR(32),
		first_name VARCHAR(128),
		last_name VARCHAR(128),
		state VARCHAR(16),
		zip_code VARCHAR(16),
		registration_date DATE,
		KEY idx_dim_customers_customer_id (customer_id)
	)`,
	`CREATE TABLE IF NOT EXISTS dim_products (
		product_key INT AUTO_INCREMENT PRIMARY KEY,
		product_id VARCHAR(64) NOT NULL,
		product_name VARCHAR(255),
		category VARCHAR(128),
		subcategory VARCHAR(128),
		brand VARCHAR(128),
		description TEXT,
		price DECIMAL(12,2),
		cost DECIMAL(12,2),
		weight_kg DECIMAL(10,3),
		created_date DATE,
		KEY idx_dim_products_product_id (product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS dim_dates (
		date_key INT AUTO_INCREMENT PRIMARY KEY,
		date_value DATE NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		month INT NOT NULL,
		month_name VARCHAR(16) NOT NULL,
		day INT NOT NULL,
		day_of_week INT NOT NULL,
		day_name VARCHAR(16) NOT NULL,
		week_of_year INT NOT NULL,
		is_weekend BOOLEAN NOT NULL,
		is_holiday BOOLEAN NOT NULL,
		UNIQUE KEY idx_dim_dates_date_value (date_value)
	)`,
	`CREATE TABLE IF NOT EXISTS fact_sales (
		order_id VARCHAR(64) NOT NULL,
		customer_key INT NULL,
		product_key INT NULL,
		order_date_key INT NULL,
		ship_date_key INT NULL,
		delivery_date_key INT NULL,
		payment_date_key INT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(12,2),
		total_price DECIMAL(14,2),
		shipping_cost DECIMAL(12,2),
		tax_amount DECIMAL(12,2),
		payment_amount DECIMAL(12,2),
		transaction_fee DECIMAL(12,2),
		order_status VARCHAR(32),
		payment_method VARCHAR(32),
		payment_status VARCHAR(32),
		KEY idx_fact_sales_order_id (order_id),
		KEY idx_fact_sales_customer_key (customer_key),
		KEY idx_fact_sales_product_key (product_key)
	)`,
}

// EnsureSchema creates every warehouse table that does not yet exist.
func (l *WarehouseLoader) EnsureSchema(ctx context.Context) error {
	l.logger.Info("Ensuring warehouse schema...")

	for _, stmt := range schemaStatements {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create warehouse schema: %w", err)
		}
	}

	return nil
}

// Tables that RowCount may be asked about. Table names cannot be bound as
// query parameters, so anything else is rejected.
var knownTables = map[string]struct{}{
	models.TableDimCustomers: {},
	models.TableDimProducts:  {},
	models.TableDimDates:     {},
	models.TableFactSales:    {},
}

// RowCount returns the number of rows in a warehouse table.
func (l *WarehouseLoader) RowCount(ctx context.Context, table string) (int64, error) {
	if _, ok := knownTables[table]; !ok {
		return 0, fmt.Errorf("unknown warehouse table: %s", table)
	}

	var count int64
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}

	return count, nil
}

// replaceTable truncates the target table and runs insert inside a single
// transaction. The truncate commits on its own (MySQL DDL); the inserts
// commit together or not at all.
func (l *WarehouseLoader) replaceTable(ctx context.Context, table string, insert func(tx *sql.Tx) (int, error)) error {
	if _, err := l.db.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", table, err)
	}

	inserted, err := insert(tx)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to load %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to commit load of %s: %w", table, err)
	}

	l.logger.Info("Loaded %d rows into %s", inserted, table)
	return nil
}
