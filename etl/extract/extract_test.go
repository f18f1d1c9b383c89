package extract_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/cache"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/config"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/errs"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/extract"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

const (
	validCustomers = "customer_id,email,phone,first_name,last_name,state,zip_code,registration_date\n" +
		"CUST001,a@example.com,555-0001,Ann,Lee,CA,94107,2023-01-05\n" +
		"CUST002,b@example.com,555-0002,Bob,Kim,NY,10001,2023-02-10\n"

	validProducts = "product_id,product_name,category,price\n" +
		"PROD001,Mouse,Electronics,29.99\n" +
		"PROD002,Desk,Furniture,149.00\n"

	validOrders = "order_id,customer_id,product_id,quantity,order_date\n" +
		"ORD001,CUST001,PROD001,2,2023-03-01\n" +
		"ORD002,CUST002,PROD002,1,2023-03-02\n"

	validPayments = "payment_id,order_id,amount\n" +
		"PAY001,ORD001,59.98\n" +
		"PAY002,ORD002,149.00\n"
)

type fixture struct {
	customers string
	products  string
	orders    string
	payments  string
}

func validFixture() fixture {
	return fixture{
		customers: validCustomers,
		products:  validProducts,
		orders:    validOrders,
		payments:  validPayments,
	}
}

func newExtractor(t *testing.T, f fixture) *extract.Extractor {
	t.Helper()
	chdir(t, t.TempDir())

	dataDir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dataDir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	cfg := config.DefaultETLConfig
	cfg.Files = config.CSVFiles{
		Customers: write("customers.csv", f.customers),
		Products:  write("products.csv", f.products),
		Orders:    write("orders.csv", f.orders),
		Payments:  write("payments.csv", f.payments),
	}

	logger := utils.NewETLLogger(false)
	cacheManager := cache.NewManager(cfg.Redis, time.Minute, false, logger)
	return extract.NewExtractor(cfg, cacheManager, logger)
}

func TestExtract(t *testing.T) {
	e := newExtractor(t, validFixture())

	source, err := e.Extract(context.Background())
	require.NoError(t, err)

	require.Len(t, source.Customers, 2)
	require.Len(t, source.Products, 2)
	require.Len(t, source.Orders, 2)
	require.Len(t, source.Payments, 2)

	require.Equal(t, "CUST001", source.Customers[0].CustomerID)
	require.Equal(t, "a@example.com", source.Customers[0].Email)
	require.Equal(t, "29.99", source.Products[0].Price)
	require.Equal(t, "2", source.Orders[0].Quantity)
	require.Equal(t, "ORD002", source.Payments[1].OrderID)
}

func TestExtractMissingRequiredColumn(t *testing.T) {
	f := validFixture()
	f.products = "product_id,product_name,category\n" +
		"PROD001,Mouse,Electronics\n"
	e := newExtractor(t, f)

	_, err := e.Extract(context.Background())
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindValidation))
	require.Contains(t, err.Error(), "price")
}

func TestExtractEmptyTable(t *testing.T) {
	f := validFixture()
	f.orders = "order_id,customer_id,product_id,quantity\n"
	e := newExtractor(t, f)

	_, err := e.Extract(context.Background())
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindValidation))
	require.Contains(t, err.Error(), "orders")
}

func TestExtractNullCeiling(t *testing.T) {
	// 2 empty emails out of 20 rows is 10%, over the 5% ceiling.
	var b strings.Builder
	b.WriteString("customer_id,email\n")
	for i := 0; i < 20; i++ {
		email := fmt.Sprintf("c%d@example.com", i)
		if i < 2 {
			email = ""
		}
		fmt.Fprintf(&b, "CUST%03d,%s\n", i, email)
	}

	f := validFixture()
	f.customers = b.String()
	e := newExtractor(t, f)

	_, err := e.Extract(context.Background())
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindValidation))
	require.Contains(t, err.Error(), "email")
}

func TestExtractNullsUnderCeiling(t *testing.T) {
	// 1 empty email out of 25 rows is 4%, under the ceiling.
	var b strings.Builder
	b.WriteString("customer_id,email\n")
	for i := 0; i < 25; i++ {
		email := fmt.Sprintf("c%d@example.com", i)
		if i == 0 {
			email = ""
		}
		fmt.Fprintf(&b, "CUST%03d,%s\n", i, email)
	}

	f := validFixture()
	f.customers = b.String()
	e := newExtractor(t, f)

	source, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.Len(t, source.Customers, 25)
}

func TestExtractMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := config.DefaultETLConfig
	cfg.Files = config.CSVFiles{
		Customers: filepath.Join(t.TempDir(), "missing.csv"),
	}
	logger := utils.NewETLLogger(false)
	e := extract.NewExtractor(cfg, cache.NewManager(cfg.Redis, time.Minute, false, logger), logger)

	_, err := e.Extract(context.Background())
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindGeneric))
	require.Contains(t, err.Error(), "customers")
}

func TestExtractShortRows(t *testing.T) {
	// One short row in twenty keeps the amount column at the 5% null
	// ceiling, so extraction succeeds and the missing cell reads empty.
	var b strings.Builder
	b.WriteString("payment_id,order_id,amount\n")
	b.WriteString("PAY000,ORD000\n")
	for i := 1; i < 20; i++ {
		fmt.Fprintf(&b, "PAY%03d,ORD%03d,10.00\n", i, i)
	}

	f := validFixture()
	f.payments = b.String()
	e := newExtractor(t, f)

	source, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.Len(t, source.Payments, 20)
	require.Equal(t, "", source.Payments[0].Amount, "a short row yields empty cells, not a parse failure")
}

// chdir switches the working directory for the test and restores it on
// cleanup; Go 1.24's t.Chdir equivalent for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}
