package transform

import (
	"database/sql"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
)

// BuildFactSales assembles the fact table from cleaned orders. Payments,
// the product master price and the dimension keys are attached through
// left joins: an order whose customer, product or date has no dimension
// match keeps a NULL surrogate key instead of being dropped, and the
// quality gate counts those orphans after load.
//
// unit_price comes from the current product master, not an order-time
// price; historical pricing is an accepted limitation of the sources.
func BuildFactSales(
	orders []models.CleanOrder,
	payments []models.CleanPayment,
	products []models.ProductDimension,
	keys *models.DimensionKeys,
) []models.FactSale {
	paymentByOrder := make(map[string]models.CleanPayment, len(payments))
	for _, p := range payments {
		if _, exists := paymentByOrder[p.OrderID]; !exists {
			paymentByOrder[p.OrderID] = p
		}
	}

	priceByProduct := make(map[string]sql.NullFloat64, len(products))
	for _, p := range products {
		priceByProduct[p.ProductID] = p.Price
	}

	facts := make([]models.FactSale, 0, len(orders))
	for _, order := range orders {
		fact := models.FactSale{
			OrderID:         order.OrderID,
			CustomerKey:     lookupKey(keys.Customers, order.CustomerID),
			ProductKey:      lookupKey(keys.Products, order.ProductID),
			OrderDateKey:    lookupDateKey(keys.Dates, order.OrderDate),
			ShipDateKey:     lookupDateKey(keys.Dates, order.ShipDate),
			DeliveryDateKey: lookupDateKey(keys.Dates, order.DeliveryDate),
			Quantity:        order.Quantity,
			ShippingCost:    order.ShippingCost,
			TaxAmount:       order.TaxAmount,
			OrderStatus:     order.OrderStatus,
		}

		fact.UnitPrice = priceByProduct[order.ProductID]
		if fact.UnitPrice.Valid {
			fact.TotalPrice = sql.NullFloat64{
				Float64: float64(order.Quantity) * fact.UnitPrice.Float64,
				Valid:   true,
			}
		}

		if payment, ok := paymentByOrder[order.OrderID]; ok {
			fact.PaymentDateKey = lookupDateKey(keys.Dates, payment.PaymentDate)
			fact.PaymentAmount = sql.NullFloat64{Float64: payment.Amount, Valid: true}
			fact.TransactionFee = payment.TransactionFee
			fact.PaymentMethod = sql.NullString{String: payment.PaymentMethod, Valid: true}
			fact.PaymentStatus = sql.NullString{String: payment.PaymentStatus, Valid: true}
		}

		facts = append(facts, fact)
	}

	return facts
}

func lookupKey(keys map[string]int, naturalKey string) sql.NullInt64 {
	if key, ok := keys[naturalKey]; ok {
		return sql.NullInt64{Int64: int64(key), Valid: true}
	}
	return sql.NullInt64{}
}

// lookupDateKey matches by exact calendar date; a null date or an
// out-of-range date yields a null key.
func lookupDateKey(keys map[string]int, date sql.NullTime) sql.NullInt64 {
	if !date.Valid {
		return sql.NullInt64{}
	}
	if key, ok := keys[date.Time.Format("2006-01-02")]; ok {
		return sql.NullInt64{Int64: int64(key), Valid: true}
	}
	return sql.NullInt64{}
}
