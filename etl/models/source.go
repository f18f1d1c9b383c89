package models

// Source entity names used for cache scoping, metrics and validation.
const (
	EntityCustomers = "customers"
	EntityProducts  = "products"
	EntityOrders    = "orders"
	EntityPayments  = "payments"
)

// CustomerRecord is a raw customer row as read from the source extract.
// All fields are untyped strings; the transformer owns coercion.
type CustomerRecord struct {
	CustomerID       string `json:"customer_id"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	State            string `json:"state"`
	ZipCode          string `json:"zip_code"`
	RegistrationDate string `json:"registration_date"`
}

// ProductRecord is a raw product row as read from the source extract.
type ProductRecord struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Cost        string `json:"cost"`
	WeightKg    string `json:"weight_kg"`
	CreatedDate string `json:"created_date"`
}

// OrderRecord is a raw order row as read from the source extract.
type OrderRecord struct {
	OrderID      string `json:"order_id"`
	CustomerID   string `json:"customer_id"`
	ProductID    string `json:"product_id"`
	Quantity     string `json:"quantity"`
	OrderDate    string `json:"order_date"`
	ShipDate     string `json:"ship_date"`
	DeliveryDate string `json:"delivery_date"`
	OrderStatus  string `json:"order_status"`
	ShippingCost string `json:"shipping_cost"`
	TaxAmount    string `json:"tax_amount"`
}

// PaymentRecord is a raw payment row as read from the source extract.
type PaymentRecord struct {
	PaymentID      string `json:"payment_id"`
	OrderID        string `json:"order_id"`
	Amount         string `json:"amount"`
	TransactionFee string `json:"transaction_fee"`
	PaymentMethod  string `json:"payment_method"`
	PaymentStatus  string `json:"payment_status"`
	PaymentDate    string `json:"payment_date"`
}

// SourceData holds all raw tables extracted for one run. Tables are
// immutable once loaded; the transformer works on copies of the values.
type SourceData struct {
	Customers []CustomerRecord
	Products  []ProductRecord
	Orders    []OrderRecord
	Payments  []PaymentRecord
}

// Counts returns the number of rows per source entity.
func (s *SourceData) Counts() map[string]int {
	return map[string]int{
		EntityCustomers: len(s.Customers),
		EntityProducts:  len(s.Products),
		EntityOrders:    len(s.Orders),
		EntityPayments:  len(s.Payments),
	}
}
