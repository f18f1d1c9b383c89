package transform_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/cache"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/config"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/errs"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/transform"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

func newTransformer(t *testing.T, cfg config.ETLConfig) *transform.Transformer {
	t.Helper()
	chdir(t, t.TempDir())
	logger := utils.NewETLLogger(false)
	cacheManager := cache.NewManager(cfg.Redis, time.Minute, false, logger)
	return transform.NewTransformer(cfg, cacheManager, logger)
}

func sourceFixture() *models.SourceData {
	return &models.SourceData{
		Customers: []models.CustomerRecord{
			{CustomerID: "CUST001", Email: "A@B.COM", RegistrationDate: "2023-02-01"},
		},
		Products: []models.ProductRecord{
			{ProductID: "PROD001", ProductName: "Mouse", Price: "29.99"},
		},
		Orders: []models.OrderRecord{
			{OrderID: "ORD001", CustomerID: "CUST001", ProductID: "PROD001", Quantity: "2", OrderDate: "2023-02-05"},
			{OrderID: "ORD002", CustomerID: "CUST001", ProductID: "PROD001", Quantity: "-5"},
		},
		Payments: []models.PaymentRecord{
			{PaymentID: "PAY001", OrderID: "ORD001", Amount: "59.98"},
			{PaymentID: "PAY002", OrderID: "ORD002", Amount: "0"},
		},
	}
}

func TestTransformHappyPath(t *testing.T) {
	cfg := config.DefaultETLConfig
	cfg.DateRange = config.DateRange{
		Start: date(2023, time.February, 1),
		End:   date(2023, time.February, 10),
	}
	tr := newTransformer(t, cfg)

	transformed, err := tr.Transform(context.Background(), "run-1", sourceFixture())
	require.NoError(t, err)

	require.Len(t, transformed.Customers, 1)
	require.Equal(t, "a@b.com", transformed.Customers[0].Email)
	require.Len(t, transformed.Products, 1)
	require.Len(t, transformed.Orders, 1, "the negative-quantity order must be dropped")
	require.Len(t, transformed.Payments, 1, "the zero-amount payment must be dropped")
	require.Len(t, transformed.Dates, 10)
}

func TestTransformInvalidDateRange(t *testing.T) {
	cfg := config.DefaultETLConfig
	cfg.DateRange = config.DateRange{
		Start: date(2024, time.December, 31),
		End:   date(2023, time.January, 1),
	}
	tr := newTransformer(t, cfg)

	_, err := tr.Transform(context.Background(), "run-1", sourceFixture())
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindTransformation))
}

func TestTransformNoSurvivingOrders(t *testing.T) {
	cfg := config.DefaultETLConfig
	tr := newTransformer(t, cfg)

	source := sourceFixture()
	source.Orders = []models.OrderRecord{
		{OrderID: "ORD001", CustomerID: "CUST001", ProductID: "PROD001", Quantity: "-1"},
		{OrderID: "ORD002", CustomerID: "CUST001", ProductID: "PROD001", Quantity: "bad"},
	}

	_, err := tr.Transform(context.Background(), "run-1", source)
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindTransformation))
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
