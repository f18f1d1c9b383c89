package transform_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/transform"
)

func TestCleanCustomers(t *testing.T) {
	records := []models.CustomerRecord{
		{
			CustomerID:       " CUST001 ",
			Email:            "  John.Doe@Example.COM ",
			Phone:            "(555) 123-4567 ext.9",
			FirstName:        "  john ",
			LastName:         " DOE ",
			State:            " ca ",
			ZipCode:          " 94107 ",
			RegistrationDate: "2023-03-15",
		},
	}

	cleaned := transform.CleanCustomers(records)
	require.Len(t, cleaned, 1)

	c := cleaned[0]
	require.Equal(t, "CUST001", c.CustomerID)
	require.Equal(t, "john.doe@example.com", c.Email)
	require.Equal(t, "555123-45679", c.Phone)
	require.Equal(t, "John", c.FirstName)
	require.Equal(t, "Doe", c.LastName)
	require.Equal(t, "CA", c.State)
	require.Equal(t, "94107", c.ZipCode)
	require.True(t, c.RegistrationDate.Valid)
	require.Equal(t, "2023-03-15", c.RegistrationDate.Time.Format("2006-01-02"))
}

func TestCleanCustomersInvalidDate(t *testing.T) {
	cleaned := transform.CleanCustomers([]models.CustomerRecord{
		{CustomerID: "CUST002", RegistrationDate: "not-a-date"},
	})

	require.Len(t, cleaned, 1)
	require.False(t, cleaned[0].RegistrationDate.Valid)
}

func TestCleanProducts(t *testing.T) {
	records := []models.ProductRecord{
		{
			ProductID:   "PROD001",
			ProductName: " Wireless Mouse ",
			Category:    " electronics ",
			Subcategory: "computer accessories",
			Brand:       " Logi ",
			Description: " A mouse. ",
			Price:       "29.99",
			Cost:        "not-a-number",
			WeightKg:    "",
			CreatedDate: "2023-01-10",
		},
	}

	cleaned := transform.CleanProducts(records)
	require.Len(t, cleaned, 1)

	p := cleaned[0]
	require.Equal(t, "Wireless Mouse", p.ProductName)
	require.Equal(t, "Electronics", p.Category)
	require.Equal(t, "Computer Accessories", p.Subcategory)
	require.True(t, p.Price.Valid)
	require.Equal(t, 29.99, p.Price.Float64)
	require.False(t, p.Cost.Valid, "invalid numeric must coerce to null, not error")
	require.False(t, p.WeightKg.Valid)
	require.True(t, p.CreatedDate.Valid)
}

func TestCleanOrdersDropsNonPositiveQuantity(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "ORD001", CustomerID: "CUST001", ProductID: "PROD001", Quantity: "2", OrderStatus: " Delivered "},
		{OrderID: "ORD002", CustomerID: "CUST001", ProductID: "PROD001", Quantity: "-5"},
		{OrderID: "ORD003", CustomerID: "CUST002", ProductID: "PROD002", Quantity: "0"},
		{OrderID: "ORD004", CustomerID: "CUST002", ProductID: "PROD002", Quantity: "abc"},
		{OrderID: "ORD005", CustomerID: "CUST003", ProductID: "PROD003", Quantity: ""},
	}

	cleaned := transform.CleanOrders(records)
	require.Len(t, cleaned, 1)
	require.Equal(t, "ORD001", cleaned[0].OrderID)
	require.Equal(t, 2, cleaned[0].Quantity)
	require.Equal(t, "delivered", cleaned[0].OrderStatus)
}

func TestCleanOrdersNumericCoercion(t *testing.T) {
	cleaned := transform.CleanOrders([]models.OrderRecord{
		{
			OrderID:      "ORD001",
			CustomerID:   "CUST001",
			ProductID:    "PROD001",
			Quantity:     "3",
			OrderDate:    "2023-06-01",
			ShipDate:     "",
			ShippingCost: "5.50",
			TaxAmount:    "oops",
		},
	})

	require.Len(t, cleaned, 1)
	o := cleaned[0]
	require.True(t, o.OrderDate.Valid)
	require.False(t, o.ShipDate.Valid)
	require.True(t, o.ShippingCost.Valid)
	require.Equal(t, 5.5, o.ShippingCost.Float64)
	require.False(t, o.TaxAmount.Valid)
}

func TestCleanPaymentsDropsNonPositiveAmount(t *testing.T) {
	records := []models.PaymentRecord{
		{PaymentID: "PAY001", OrderID: "ORD001", Amount: "49.99", PaymentMethod: " Credit Card ", PaymentStatus: " COMPLETED "},
		{PaymentID: "PAY002", OrderID: "ORD002", Amount: "-10"},
		{PaymentID: "PAY003", OrderID: "ORD003", Amount: "0"},
		{PaymentID: "PAY004", OrderID: "ORD004", Amount: "invalid"},
	}

	cleaned := transform.CleanPayments(records)
	require.Len(t, cleaned, 1)

	p := cleaned[0]
	require.Equal(t, "PAY001", p.PaymentID)
	require.Equal(t, 49.99, p.Amount)
	require.Equal(t, "credit card", p.PaymentMethod)
	require.Equal(t, "completed", p.PaymentStatus)
}

func TestCleaningIsPure(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "ORD001", CustomerID: "CUST001", ProductID: "PROD001", Quantity: "2", OrderDate: "2023-06-01"},
		{OrderID: "ORD002", CustomerID: "CUST002", ProductID: "PROD002", Quantity: "-1"},
	}

	first := transform.CleanOrders(records)
	second := transform.CleanOrders(records)
	require.Equal(t, first, second)
}
