package load

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
)

// LoadCustomerDimension full-replaces dim_customers. Surrogate keys are
// assigned by the warehouse on insert and never reused across runs.
func (l *WarehouseLoader) LoadCustomerDimension(ctx context.Context, customers []models.CustomerDimension) error {
	startTime := time.Now()
	l.logger.Info("Loading customer dimension (total: %d)", len(customers))

	err := l.replaceTable(ctx, models.TableDimCustomers, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO dim_customers
			(customer_id, email, phone, first_name, last_name, state, zip_code, registration_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return 0, fmt.Errorf("failed to prepare customer insert: %w", err)
		}
		defer stmt.Close()

		for i, c := range customers {
			_, err := stmt.ExecContext(ctx,
				c.CustomerID,
				c.Email,
				c.Phone,
				c.FirstName,
				c.LastName,
				c.State,
				c.ZipCode,
				c.RegistrationDate,
			)
			if err != nil {
				return i, fmt.Errorf("failed to insert customer %s: %w", c.CustomerID, err)
			}
		}

		return len(customers), nil
	})
	if err != nil {
		return err
	}

	l.logger.Debug("Customer dimension load took %v", time.Since(startTime))
	return nil
}

// LoadProductDimension full-replaces dim_products.
func (l *WarehouseLoader) LoadProductDimension(ctx context.Context, products []models.ProductDimension) error {
	startTime := time.Now()
	l.logger.Info("Loading product dimension (total: %d)", len(products))

	err := l.replaceTable(ctx, models.TableDimProducts, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO dim_products
			(product_id, product_name, category, subcategory, brand, description,
			price, cost, weight_kg, created_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return 0, fmt.Errorf("failed to prepare product insert: %w", err)
		}
		defer stmt.Close()

		for i, p := range products {
			_, err := stmt.ExecContext(ctx,
				p.ProductID,
				p.ProductName,
				p.Category,
				p.Subcategory,
				p.Brand,
				p.Description,
				p.Price,
				p.Cost,
				p.WeightKg,
				p.CreatedDate,
			)
			if err != nil {
				return i, fmt.Errorf("failed to insert product %s: %w", p.ProductID, err)
			}
		}

		return len(products), nil
	})
	if err != nil {
		return err
	}

	l.logger.Debug("Product dimension load took %v", time.Since(startTime))
	return nil
}

// LoadDateDimension full-replaces dim_dates.
func (l *WarehouseLoader) LoadDateDimension(ctx context.Context, dates []models.DateDimension) error {
	startTime := time.Now()
	l.logger.Info("Loading date dimension (total: %d)", len(dates))

	err := l.replaceTable(ctx, models.TableDimDates, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO dim_dates
			(date_value, year, quarter, month, month_name, day,
			day_of_week, day_name, week_of_year, is_weekend, is_holiday)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return 0, fmt.Errorf("failed to prepare date insert: %w", err)
		}
		defer stmt.Close()

		for i, d := range dates {
			_, err := stmt.ExecContext(ctx,
				d.DateValue.Format("2006-01-02"),
				d.Year,
				d.Quarter,
				d.Month,
				d.MonthName,
				d.Day,
				d.DayOfWeek,
				d.DayName,
				d.WeekOfYear,
				d.IsWeekend,
				d.IsHoliday,
			)
			if err != nil {
				return i, fmt.Errorf("failed to insert date %s: %w", d.DateValue.Format("2006-01-02"), err)
			}
		}

		return len(dates), nil
	})
	if err != nil {
		return err
	}

	l.logger.Debug("Date dimension load took %v", time.Since(startTime))
	return nil
}
