package load

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
)

// LoadFactSales full-replaces fact_sales. Unresolved surrogate keys are
// written as NULL; the quality gate surfaces them, the loader never drops
// a row for being an orphan.
func (l *WarehouseLoader) LoadFactSales(ctx context.Context, facts []models.FactSale) error {
	startTime := time.Now()
	l.logger.Info("Loading fact sales (total: %d)", len(facts))

	err := l.replaceTable(ctx, models.TableFactSales, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO fact_sales
			(order_id, customer_key, product_key,
			order_date_key, ship_date_key, delivery_date_key, payment_date_key,
			quantity, unit_price, total_price, shipping_cost, tax_amount,
			payment_amount, transaction_fee,
			order_status, payment_method, payment_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return 0, fmt.Errorf("failed to prepare fact insert: %w", err)
		}
		defer stmt.Close()

		for i, f := range facts {
			_, err := stmt.ExecContext(ctx,
				f.OrderID,
				f.CustomerKey,
				f.ProductKey,
				f.OrderDateKey,
				f.ShipDateKey,
				f.DeliveryDateKey,
				f.PaymentDateKey,
				f.Quantity,
				f.UnitPrice,
				f.TotalPrice,
				f.ShippingCost,
				f.TaxAmount,
				f.PaymentAmount,
				f.TransactionFee,
				f.OrderStatus,
				f.PaymentMethod,
				f.PaymentStatus,
			)
			if err != nil {
				return i, fmt.Errorf("failed to insert fact for order %s: %w", f.OrderID, err)
			}
		}

		return len(facts), nil
	})
	if err != nil {
		return err
	}

	l.logger.Debug("Fact sales load took %v", time.Since(startTime))
	return nil
}
