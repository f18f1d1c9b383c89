package models

import (
	"database/sql"
	"time"
)

// Warehouse table names.
const (
	TableDimCustomers = "dim_customers"
	TableDimProducts  = "dim_products"
	TableDimDates     = "dim_dates"
	TableFactSales    = "fact_sales"
)

// CustomerDimension is a conformed customer row. CustomerKey is the
// warehouse surrogate key, zero until the row has been loaded.
type CustomerDimension struct {
	CustomerKey      int
	CustomerID       string
	Email            string
	Phone            string
	FirstName        string
	LastName         string
	State            string
	ZipCode          string
	RegistrationDate sql.NullTime
}

// ProductDimension is a conformed product row. Numeric fields that failed
// coercion are carried as invalid Null values, never as zero.
type ProductDimension struct {
	ProductKey  int
	ProductID   string
	ProductName string
	Category    string
	Subcategory string
	Brand       string
	Description string
	Price       sql.NullFloat64
	Cost        sql.NullFloat64
	WeightKg    sql.NullFloat64
	CreatedDate sql.NullTime
}

// CleanOrder is a cleaned order line. Rows with a non-positive or
// uncoercible quantity never reach this type.
type CleanOrder struct {
	OrderID      string
	CustomerID   string
	ProductID    string
	Quantity     int
	OrderDate    sql.NullTime
	ShipDate     sql.NullTime
	DeliveryDate sql.NullTime
	OrderStatus  string
	ShippingCost sql.NullFloat64
	TaxAmount    sql.NullFloat64
}

// CleanPayment is a cleaned payment. Rows with a non-positive or
// uncoercible amount never reach this type.
type CleanPayment struct {
	PaymentID      string
	OrderID        string
	Amount         float64
	TransactionFee sql.NullFloat64
	PaymentMethod  string
	PaymentStatus  string
	PaymentDate    sql.NullTime
}

// DateDimension is one calendar day of the date dimension. DateValue is the
// natural key, DateKey the surrogate key assigned at load time.
type DateDimension struct {
	DateKey    int
	DateValue  time.Time
	Year       int
	Quarter    int
	Month      int
	MonthName  string
	Day        int
	DayOfWeek  int // 1 = Monday .. 7 = Sunday
	DayName    string
	WeekOfYear int
	IsWeekend  bool
	IsHoliday  bool
}

// FactSale is one fact table row per order line. Surrogate keys resolved
// through left joins stay invalid (NULL) when no dimension row matched;
// the quality gate counts those orphans.
type FactSale struct {
	OrderID         string
	CustomerKey     sql.NullInt64
	ProductKey      sql.NullInt64
	OrderDateKey    sql.NullInt64
	ShipDateKey     sql.NullInt64
	DeliveryDateKey sql.NullInt64
	PaymentDateKey  sql.NullInt64
	Quantity        int
	UnitPrice       sql.NullFloat64
	TotalPrice      sql.NullFloat64
	ShippingCost    sql.NullFloat64
	TaxAmount       sql.NullFloat64
	PaymentAmount   sql.NullFloat64
	TransactionFee  sql.NullFloat64
	OrderStatus     string
	PaymentMethod   sql.NullString
	PaymentStatus   sql.NullString
}

// TransformedData holds the cleaned entities produced by the transform
// phase, ready for dimension loading and fact assembly.
type TransformedData struct {
	Customers []CustomerDimension
	Products  []ProductDimension
	Orders    []CleanOrder
	Payments  []CleanPayment
	Dates     []DateDimension
}

// Counts returns the number of rows per transformed entity.
func (t *TransformedData) Counts() map[string]int {
	return map[string]int{
		EntityCustomers: len(t.Customers),
		EntityProducts:  len(t.Products),
		EntityOrders:    len(t.Orders),
		EntityPayments:  len(t.Payments),
		"dates":         len(t.Dates),
	}
}

// DimensionKeys maps natural keys to warehouse surrogate keys, as read back
// from the loaded dimension tables. Date keys are indexed by the calendar
// date formatted as 2006-01-02.
type DimensionKeys struct {
	Customers map[string]int
	Products  map[string]int
	Dates     map[string]int
}
