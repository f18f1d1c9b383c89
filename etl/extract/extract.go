// Package extract loads the raw source tables and applies structural
// validation before anything downstream touches them.
package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/cache"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/config"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/errs"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

// Source data cache entries expire quickly; fresh extracts win over stale
// files within half an hour.
const sourceCacheTTL = 30 * time.Minute

// table is an ordered tabular extract with named columns.
type table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// index returns the position of a column, or -1 when absent.
func (t *table) index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// value returns the cell for a column in row, or "" when the column is
// absent or the row is short.
func (t *table) value(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Extractor coordinates loading of the four raw source tables.
type Extractor struct {
	files  config.CSVFiles
	cache  *cache.Manager
	logger *utils.ETLLogger
}

// NewExtractor creates an extractor for the configured source files.
func NewExtractor(cfg config.ETLConfig, cacheManager *cache.Manager, logger *utils.ETLLogger) *Extractor {
	return &Extractor{
		files:  cfg.Files,
		cache:  cacheManager,
		logger: logger,
	}
}

// Extract loads and validates every source table. Any structural violation
// aborts the run with a validation error.
func (e *Extractor) Extract(ctx context.Context) (*models.SourceData, error) {
	startTime := time.Now()
	e.logger.LogPhaseStart("Extract")

	var source models.SourceData

	customers, err := e.loadTable(ctx, models.EntityCustomers, e.files.Customers)
	if err != nil {
		return nil, err
	}
	if err := e.validateTable(customers, models.EntityCustomers, []string{"customer_id", "email"}); err != nil {
		return nil, err
	}
	source.Customers = mapCustomers(customers)

	products, err := e.loadTable(ctx, models.EntityProducts, e.files.Products)
	if err != nil {
		return nil, err
	}
	if err := e.validateTable(products, models.EntityProducts, []string{"product_id", "price"}); err != nil {
		return nil, err
	}
	source.Products = mapProducts(products)

	orders, err := e.loadTable(ctx, models.EntityOrders, e.files.Orders)
	if err != nil {
		return nil, err
	}
	if err := e.validateTable(orders, models.EntityOrders, []string{"order_id", "customer_id", "product_id"}); err != nil {
		return nil, err
	}
	source.Orders = mapOrders(orders)

	payments, err := e.loadTable(ctx, models.EntityPayments, e.files.Payments)
	if err != nil {
		return nil, err
	}
	if err := e.validateTable(payments, models.EntityPayments, []string{"payment_id", "order_id"}); err != nil {
		return nil, err
	}
	source.Payments = mapPayments(payments)

	e.logger.LogPhaseComplete("Extract", time.Since(startTime))
	e.logger.Info("Extracted: %d customers, %d products, %d orders, %d payments",
		len(source.Customers), len(source.Products), len(source.Orders), len(source.Payments))

	return &source, nil
}

// loadTable returns the cached extract for entity when present, otherwise
// reads the CSV file and caches it.
func (e *Extractor) loadTable(ctx context.Context, entity, path string) (*table, error) {
	key := cache.SourceKey(entity)

	var cached table
	if e.cache.GetJSON(ctx, key, &cached) {
		e.logger.Info("Using cached source data for %s", entity)
		return &cached, nil
	}

	e.logger.Info("Loading %s from %s", entity, path)
	t, err := readCSV(path)
	if err != nil {
		return nil, errs.Generic(err, fmt.Sprintf("failed to load %s data", entity))
	}

	e.cache.PutJSON(ctx, key, t, sourceCacheTTL)
	return t, nil
}

func readCSV(path string) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return &table{}, nil
	}

	return &table{Columns: records[0], Rows: records[1:]}, nil
}

func mapCustomers(t *table) []models.CustomerRecord {
	id := t.index("customer_id")
	email := t.index("email")
	phone := t.index("phone")
	first := t.index("first_name")
	last := t.index("last_name")
	state := t.index("state")
	zip := t.index("zip_code")
	reg := t.index("registration_date")

	records := make([]models.CustomerRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, models.CustomerRecord{
			CustomerID:       t.value(row, id),
			Email:            t.value(row, email),
			Phone:            t.value(row, phone),
			FirstName:        t.value(row, first),
			LastName:         t.value(row, last),
			State:            t.value(row, state),
			ZipCode:          t.value(row, zip),
			RegistrationDate: t.value(row, reg),
		})
	}
	return records
}

func mapProducts(t *table) []models.ProductRecord {
	id := t.index("product_id")
	name := t.index("product_name")
	category := t.index("category")
	subcategory := t.index("subcategory")
	brand := t.index("brand")
	description := t.index("description")
	price := t.index("price")
	cost := t.index("cost")
	weight := t.index("weight_kg")
	created := t.index("created_date")

	records := make([]models.ProductRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, models.ProductRecord{
			ProductID:   t.value(row, id),
			ProductName: t.value(row, name),
			Category:    t.value(row, category),
			Subcategory: t.value(row, subcategory),
			Brand:       t.value(row, brand),
			Description: t.value(row, description),
			Price:       t.value(row, price),
			Cost:        t.value(row, cost),
			WeightKg:    t.value(row, weight),
			CreatedDate: t.value(row, created),
		})
	}
	return records
}

func mapOrders(t *table) []models.OrderRecord {
	id := t.index("order_id")
	customer := t.index("customer_id")
	product := t.index("product_id")
	quantity := t.index("quantity")
	orderDate := t.index("order_date")
	shipDate := t.index("ship_date")
	deliveryDate := t.index("delivery_date")
	status := t.index("order_status")
	shipping := t.index("shipping_cost")
	tax := t.index("tax_amount")

	records := make([]models.OrderRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, models.OrderRecord{
			OrderID:      t.value(row, id),
			CustomerID:   t.value(row, customer),
			ProductID:    t.value(row, product),
			Quantity:     t.value(row, quantity),
			OrderDate:    t.value(row, orderDate),
			ShipDate:     t.value(row, shipDate),
			DeliveryDate: t.value(row, deliveryDate),
			OrderStatus:  t.value(row, status),
			ShippingCost: t.value(row, shipping),
			TaxAmount:    t.value(row, tax),
		})
	}
	return records
}

func mapPayments(t *table) []models.PaymentRecord {
	id := t.index("payment_id")
	order := t.index("order_id")
	amount := t.index("amount")
	fee := t.index("transaction_fee")
	method := t.index("payment_method")
	status := t.index("payment_status")
	date := t.index("payment_date")

	records := make([]models.PaymentRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, models.PaymentRecord{
			PaymentID:      t.value(row, id),
			OrderID:        t.value(row, order),
			Amount:         t.value(row, amount),
			TransactionFee: t.value(row, fee),
			PaymentMethod:  t.value(row, method),
			PaymentStatus:  t.value(row, status),
			PaymentDate:    t.value(row, date),
		})
	}
	return records
}
