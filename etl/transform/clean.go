// Package transform owns the cleaning rules, the date dimension generator
// and the fact assembly algorithm. Every function here is pure: same input
// table, same output table.
package transform

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
)

var phonePattern = regexp.MustCompile(`[^\d-]`)

// Date layouts accepted from the source extracts.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// CleanCustomers conforms raw customer rows: e-mail lowercased, phone
// stripped to digits and dashes, names title-cased, state uppercased.
func CleanCustomers(records []models.CustomerRecord) []models.CustomerDimension {
	cleaned := make([]models.CustomerDimension, 0, len(records))
	for _, r := range records {
		cleaned = append(cleaned, models.CustomerDimension{
			CustomerID:       strings.TrimSpace(r.CustomerID),
			Email:            strings.ToLower(strings.TrimSpace(r.Email)),
			Phone:            phonePattern.ReplaceAllString(r.Phone, ""),
			FirstName:        titleCase(strings.TrimSpace(r.FirstName)),
			LastName:         titleCase(strings.TrimSpace(r.LastName)),
			State:            strings.ToUpper(strings.TrimSpace(r.State)),
			ZipCode:          strings.TrimSpace(r.ZipCode),
			RegistrationDate: parseDate(r.RegistrationDate),
		})
	}
	return cleaned
}

// CleanProducts conforms raw product rows. Numeric fields that fail
// coercion become null, never an error.
func CleanProducts(records []models.ProductRecord) []models.ProductDimension {
	cleaned := make([]models.ProductDimension, 0, len(records))
	for _, r := range records {
		cleaned = append(cleaned, models.ProductDimension{
			ProductID:   strings.TrimSpace(r.ProductID),
			ProductName: strings.TrimSpace(r.ProductName),
			Category:    titleCase(strings.TrimSpace(r.Category)),
			Subcategory: titleCase(strings.TrimSpace(r.Subcategory)),
			Brand:       strings.TrimSpace(r.Brand),
			Description: strings.TrimSpace(r.Description),
			Price:       parseFloat(r.Price),
			Cost:        parseFloat(r.Cost),
			WeightKg:    parseFloat(r.WeightKg),
			CreatedDate: parseDate(r.CreatedDate),
		})
	}
	return cleaned
}

// CleanOrders conforms raw order rows and drops every row whose quantity is
// not strictly positive (uncoercible quantities count as not positive).
func CleanOrders(records []models.OrderRecord) []models.CleanOrder {
	cleaned := make([]models.CleanOrder, 0, len(records))
	for _, r := range records {
		quantity, ok := parseInt(r.Quantity)
		if !ok || quantity <= 0 {
			continue
		}

		cleaned = append(cleaned, models.CleanOrder{
			OrderID:      strings.TrimSpace(r.OrderID),
			CustomerID:   strings.TrimSpace(r.CustomerID),
			ProductID:    strings.TrimSpace(r.ProductID),
			Quantity:     quantity,
			OrderDate:    parseDate(r.OrderDate),
			ShipDate:     parseDate(r.ShipDate),
			DeliveryDate: parseDate(r.DeliveryDate),
			OrderStatus:  strings.ToLower(strings.TrimSpace(r.OrderStatus)),
			ShippingCost: parseFloat(r.ShippingCost),
			TaxAmount:    parseFloat(r.TaxAmount),
		})
	}
	return cleaned
}

// CleanPayments conforms raw payment rows and drops every row whose amount
// is not strictly positive.
func CleanPayments(records []models.PaymentRecord) []models.CleanPayment {
	cleaned := make([]models.CleanPayment, 0, len(records))
	for _, r := range records {
		amount := parseFloat(r.Amount)
		if !amount.Valid || amount.Float64 <= 0 {
			continue
		}

		cleaned = append(cleaned, models.CleanPayment{
			PaymentID:      strings.TrimSpace(r.PaymentID),
			OrderID:        strings.TrimSpace(r.OrderID),
			Amount:         amount.Float64,
			TransactionFee: parseFloat(r.TransactionFee),
			PaymentMethod:  strings.ToLower(strings.TrimSpace(r.PaymentMethod)),
			PaymentStatus:  strings.ToLower(strings.TrimSpace(r.PaymentStatus)),
			PaymentDate:    parseDate(r.PaymentDate),
		})
	}
	return cleaned
}

func parseFloat(s string) sql.NullFloat64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseDate(s string) sql.NullTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullTime{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: t.UTC(), Valid: true}
		}
	}
	return sql.NullTime{}
}

func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
