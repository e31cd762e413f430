package checkout

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/bsobat/inventra/internal/common"
	"github.com/bsobat/inventra/internal/logging"
	"github.com/bsobat/inventra/internal/models"
	"github.com/bsobat/inventra/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupEngine(t *testing.T) (*Engine, *sql.DB) {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewEngine(db, testLogger()), db
}

func TestProcessCheckout_ExactPayment(t *testing.T) {
	e, db := setupEngine(t)
	ctx := context.Background()

	items := []models.BasketItem{
		{Offer: offer("o1", 2.5, 9), Quantity: 2},
		{Offer: offer("o2", 1.5, 0), Quantity: 1},
	}
	payments := []models.PaymentPart{
		{Method: "Cash", Amount: 6.5, Status: models.PaymentCompleted},
	}

	saleID, err := e.ProcessCheckout(ctx, items, payments, "ev1")
	require.NoError(t, err)
	require.NotEmpty(t, saleID)

	repos := storage.NewRepositories(db)
	sale, err := repos.Sales.GetByID(ctx, saleID)
	require.NoError(t, err)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "ev1", sale.EventID)
	assert.Equal(t, 5.0, sale.Items[0].TotalPrice)
	assert.Equal(t, 9.0, sale.Items[0].TaxPercentage)
	assert.False(t, sale.Items[0].InventoryAdjusted)

	ledger, err := repos.Inventory.ListByOffer(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, saleID+"_o1", ledger[0].TransactionID)
	assert.Equal(t, int64(-2), ledger[0].ChangeAmount)
	assert.Equal(t, models.ReasonSale, ledger[0].Reason)
	assert.Equal(t, sale.Timestamp, ledger[0].Timestamp)
}

func TestProcessCheckout_InsufficientPayment(t *testing.T) {
	e, db := setupEngine(t)
	ctx := context.Background()

	items := []models.BasketItem{{Offer: offer("o1", 2.5, 0), Quantity: 2}}
	payments := []models.PaymentPart{{Method: "Cash", Amount: 3, Status: models.PaymentCompleted}}

	_, err := e.ProcessCheckout(ctx, items, payments, "")
	require.ErrorIs(t, err, common.ErrorInsufficientPayment)
	assert.Equal(t, "Insufficient payment: paid 3, required 5", err.Error())

	// no writes happened
	repos := storage.NewRepositories(db)
	sales, err := repos.Sales.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
	ledger, err := repos.Inventory.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestProcessCheckout_EmptyBasket(t *testing.T) {
	e, _ := setupEngine(t)
	_, err := e.ProcessCheckout(context.Background(), nil, nil, "")
	require.ErrorIs(t, err, common.ErrorEmptyBasket)
}

func TestProcessCheckout_AtomicRollback(t *testing.T) {
	e, db := setupEngine(t)
	ctx := context.Background()

	// two lines for the same offer produce colliding ledger ids, failing the
	// second insert after the sale row is already written
	items := []models.BasketItem{
		{Offer: offer("o1", 2.5, 0), Quantity: 1},
		{Offer: offer("o1", 2.5, 0), Quantity: 1},
	}
	payments := []models.PaymentPart{{Method: "Cash", Amount: 5, Status: models.PaymentCompleted}}

	_, err := e.ProcessCheckout(ctx, items, payments, "")
	require.Error(t, err)

	repos := storage.NewRepositories(db)
	sales, err := repos.Sales.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
	ledger, err := repos.Inventory.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestProcessCheckout_UniqueSaleIDs(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	items := []models.BasketItem{{Offer: offer("o1", 1, 0), Quantity: 1}}
	payments := []models.PaymentPart{{Method: "Cash", Amount: 1, Status: models.PaymentCompleted}}

	seen := map[string]struct{}{}
	for i := 0; i < 5; i++ {
		id, err := e.ProcessCheckout(ctx, items, payments, "")
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "sale id %s repeated", id)
		seen[id] = struct{}{}
	}
}

func TestCalculateChange(t *testing.T) {
	items := []models.BasketItem{{Offer: offer("o1", 2.5, 0), Quantity: 2}}

	overpaid := []models.PaymentPart{{Method: "Cash", Amount: 10, Status: models.PaymentCompleted}}
	assert.Equal(t, 5.0, CalculateChange(items, overpaid))

	exact := []models.PaymentPart{{Method: "Cash", Amount: 5, Status: models.PaymentCompleted}}
	assert.Equal(t, 0.0, CalculateChange(items, exact))

	short := []models.PaymentPart{{Method: "Cash", Amount: 3, Status: models.PaymentCompleted}}
	assert.Equal(t, 0.0, CalculateChange(items, short))
}

func TestValidatePayments(t *testing.T) {
	tests := []struct {
		name     string
		payments []models.PaymentPart
		want     bool
	}{
		{"all completed", []models.PaymentPart{{Status: models.PaymentCompleted}}, true},
		{"success counts", []models.PaymentPart{{Status: models.PaymentSuccess}, {Status: models.PaymentCompleted}}, true},
		{"pending fails", []models.PaymentPart{{Status: models.PaymentCompleted}, {Status: models.PaymentPending}}, false},
		{"case sensitive", []models.PaymentPart{{Status: "completed"}}, false},
		{"empty is valid", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePayments(tt.payments))
		})
	}
}

func TestPaymentMethods_SeedsDefaults(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	methods, err := e.PaymentMethods(ctx)
	require.NoError(t, err)
	require.Len(t, methods, 2)

	byID := map[string]models.PaymentMethod{}
	for _, m := range methods {
		byID[m.ID()] = m
	}

	cash, ok := byID[DefaultCashMethodID].(models.Cash)
	require.True(t, ok)
	assert.True(t, cash.Enabled())

	online, ok := byID[DefaultOnlineMethodID].(models.Online)
	require.True(t, ok)
	assert.False(t, online.Enabled())
	require.NotNil(t, online.Config)
	assert.Equal(t, "Tikkie", online.Config.Name)
}

func TestPaymentMethods_DropsUnknownTypes(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.SavePaymentMethodConfig(ctx, models.PaymentMethodConfig{
		MethodID: "iou", Name: "IOU", Type: "SCRIBBLE", Enabled: true,
	}))
	require.NoError(t, e.SavePaymentMethodConfig(ctx, models.PaymentMethodConfig{
		MethodID: "cash", Name: "Cash", Type: "cash", Enabled: true,
	}))

	methods, err := e.PaymentMethods(ctx)
	require.NoError(t, err)
	// type match is case-insensitive, unknown types are dropped
	require.Len(t, methods, 1)
	assert.Equal(t, models.MethodCash, methods[0].Type())
}

func TestEnableAndDeletePaymentMethod(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	cfg, err := NewOnlineMethodConfig("tikkie", "Tikkie", false, models.OnlineConfig{
		Name: "Tikkie", BaseURL: "tikkie://payment_request?totalAmountInCents=%d&description=%s",
	})
	require.NoError(t, err)
	require.NoError(t, e.SavePaymentMethodConfig(ctx, cfg))

	require.NoError(t, e.EnablePaymentMethod(ctx, "tikkie", true))
	methods, err := e.PaymentMethods(ctx)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.True(t, methods[0].Enabled())

	require.NoError(t, e.DeletePaymentMethod(ctx, "tikkie"))
	require.ErrorIs(t, e.DeletePaymentMethod(ctx, "tikkie"), common.ErrorNotFound)
}
