package checkout

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bsobat/inventra/internal/common"
	"github.com/bsobat/inventra/internal/dbx"
	"github.com/bsobat/inventra/internal/logging"
	"github.com/bsobat/inventra/internal/models"
	"github.com/bsobat/inventra/internal/storage"
	"github.com/bsobat/inventra/internal/timex"
)

// Default payment methods seeded when the registry is empty.
const (
	DefaultCashMethodID   = "cash"
	DefaultOnlineMethodID = "tikkie"
)

// InsufficientPaymentError is returned when the payment parts do not cover
// the basket total. It matches common.ErrorInsufficientPayment via errors.Is.
type InsufficientPaymentError struct {
	Paid     float64
	Required float64
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("Insufficient payment: paid %v, required %v", e.Paid, e.Required)
}

func (e *InsufficientPaymentError) Is(target error) bool {
	return target == common.ErrorInsufficientPayment
}

// Engine persists checkouts and owns the payment-method registry.
type Engine struct {
	db    *sql.DB
	repos *storage.Repositories
	log   logging.Logger

	idMu     sync.Mutex
	lastSale int64
}

// NewEngine returns an Engine over db.
func NewEngine(db *sql.DB, log logging.Logger) *Engine {
	return &Engine{
		db:    db,
		repos: storage.NewRepositories(db),
		log:   log,
	}
}

// ProcessCheckout validates payment sufficiency, then persists the Sale and
// one ledger row per item inside a single transaction, so a Sale is never
// stored without its matching ledger rows. It performs no other side effects;
// clearing the basket is the caller's job. Returns the new sale id.
func (e *Engine) ProcessCheckout(ctx context.Context, items []models.BasketItem,
	payments []models.PaymentPart, eventID string) (string, error) {
	if len(items) == 0 {
		return "", common.ErrorEmptyBasket
	}

	total := CalculateTotal(items)
	paid := sumPayments(payments)
	if paid < total {
		return "", &InsufficientPaymentError{Paid: paid, Required: total}
	}

	saleID := e.nextSaleID()
	sale := models.Sale{
		SaleID:    saleID,
		Timestamp: timex.Now(),
		EventID:   eventID,
		Payments:  payments,
	}
	for _, item := range items {
		sale.Items = append(sale.Items, models.SaleItem{
			OfferID:       item.Offer.OfferID,
			Description:   item.Offer.Title,
			Quantity:      item.Quantity,
			UnitPrice:     item.Offer.Price,
			TotalPrice:    item.Offer.Price * float64(item.Quantity),
			TaxPercentage: item.Offer.TaxPercentage,
		})
	}

	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repos := storage.NewRepositories(tx)
		if err := repos.Sales.Insert(ctx, sale); err != nil {
			return err
		}
		for _, item := range sale.Items {
			ledgerRow := models.InventoryTransaction{
				TransactionID: saleID + "_" + item.OfferID,
				OfferID:       item.OfferID,
				ChangeAmount:  -item.Quantity,
				Reason:        models.ReasonSale,
				Timestamp:     sale.Timestamp,
				EventID:       eventID,
			}
			if err := repos.Inventory.Record(ctx, ledgerRow); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist checkout: %w", err)
	}

	e.log.Info(ctx, "checkout completed", "saleId", saleID,
		"items", len(sale.Items), "total", total, "paid", paid)
	return saleID, nil
}

// nextSaleID derives a sale id from the clock, strictly increasing within the
// process so two checkouts in the same millisecond cannot collide.
func (e *Engine) nextSaleID() string {
	e.idMu.Lock()
	defer e.idMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= e.lastSale {
		now = e.lastSale + 1
	}
	e.lastSale = now
	return strconv.FormatInt(now, 10)
}

// CalculateTotal sums price times quantity over the basket. Tax is not added
// here; it is display-time information carried on the persisted items.
func CalculateTotal(items []models.BasketItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Offer.Price * float64(item.Quantity)
	}
	return total
}

// CalculateChange is the cash to hand back, never negative.
func CalculateChange(items []models.BasketItem, payments []models.PaymentPart) float64 {
	change := sumPayments(payments) - CalculateTotal(items)
	if change < 0 {
		return 0
	}
	return change
}

// ValidatePayments reports whether every payment part has settled.
func ValidatePayments(payments []models.PaymentPart) bool {
	for _, p := range payments {
		if !p.Status.Settled() {
			return false
		}
	}
	return true
}

func sumPayments(payments []models.PaymentPart) float64 {
	var paid float64
	for _, p := range payments {
		paid += p.Amount
	}
	return paid
}

// PaymentMethods maps registry rows to their typed form. Rows whose type has
// no typed arm are dropped. An empty registry is seeded with the defaults
// first.
func (e *Engine) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	rows, err := e.repos.PaymentMethods.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		if err := e.InitializeDefaultMethods(ctx); err != nil {
			return nil, err
		}
		if rows, err = e.repos.PaymentMethods.GetAll(ctx); err != nil {
			return nil, err
		}
	}

	var result []models.PaymentMethod
	for _, row := range rows {
		kind, ok := models.ParseMethodType(row.Type)
		if !ok {
			e.log.Warn(ctx, "dropping payment method with unknown type",
				"methodId", row.MethodID, "type", row.Type)
			continue
		}
		switch kind {
		case models.MethodCash:
			result = append(result, models.Cash{
				MethodID:   row.MethodID,
				MethodName: row.Name,
				IsEnabled:  row.Enabled,
			})
		case models.MethodOnline:
			result = append(result, models.Online{
				MethodID:   row.MethodID,
				MethodName: row.Name,
				IsEnabled:  row.Enabled,
				Config:     decodeOnlineConfig(row.ConfigData),
			})
		default:
			e.log.Warn(ctx, "dropping payment method without typed form",
				"methodId", row.MethodID, "type", row.Type)
		}
	}
	return result, nil
}

// InitializeDefaultMethods seeds an enabled Cash method and a disabled
// Tikkie online method.
func (e *Engine) InitializeDefaultMethods(ctx context.Context) error {
	cash := models.PaymentMethodConfig{
		MethodID: DefaultCashMethodID,
		Name:     "Cash",
		Type:     string(models.MethodCash),
		Enabled:  true,
	}
	if err := e.repos.PaymentMethods.Save(ctx, cash); err != nil {
		return err
	}

	online, err := NewOnlineMethodConfig(DefaultOnlineMethodID, "Tikkie", false,
		models.OnlineConfig{Name: "Tikkie"})
	if err != nil {
		return err
	}
	return e.repos.PaymentMethods.Save(ctx, online)
}

// NewOnlineMethodConfig builds a registry row for an online method, encoding
// the typed config into the opaque ConfigData blob.
func NewOnlineMethodConfig(id, name string, enabled bool, cfg models.OnlineConfig) (models.PaymentMethodConfig, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return models.PaymentMethodConfig{}, fmt.Errorf("failed to encode online config: %w", err)
	}
	return models.PaymentMethodConfig{
		MethodID:   id,
		Name:       name,
		Type:       string(models.MethodOnline),
		Enabled:    enabled,
		ConfigData: string(data),
	}, nil
}

func decodeOnlineConfig(raw string) *models.OnlineConfig {
	if raw == "" {
		return nil
	}
	var cfg models.OnlineConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil
	}
	return &cfg
}

// SavePaymentMethodConfig upserts a registry row.
func (e *Engine) SavePaymentMethodConfig(ctx context.Context, m models.PaymentMethodConfig) error {
	return e.repos.PaymentMethods.Save(ctx, m)
}

// EnablePaymentMethod toggles a method.
func (e *Engine) EnablePaymentMethod(ctx context.Context, id string, enabled bool) error {
	return e.repos.PaymentMethods.SetEnabled(ctx, id, enabled)
}

// DeletePaymentMethod removes a method from the registry.
func (e *Engine) DeletePaymentMethod(ctx context.Context, id string) error {
	return e.repos.PaymentMethods.Delete(ctx, id)
}
