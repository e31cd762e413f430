package offers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/bsobat/inventra/internal/common"
	"github.com/bsobat/inventra/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE offers (
  offer_id            TEXT PRIMARY KEY,
  product_id          TEXT NOT NULL,
  title               TEXT NOT NULL,
  image               TEXT,
  amount_in_inventory INTEGER NOT NULL,
  type                TEXT NOT NULL DEFAULT 'standard',
  price               REAL NOT NULL,
  uom                 TEXT NOT NULL,
  tax_percentage      REAL NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)

	return db
}

func testOffer(id string, amount int64) models.Offer {
	return models.Offer{
		OfferID:           id,
		ProductID:         "p1",
		Title:             "Cola 0.33",
		AmountInInventory: amount,
		Type:              models.OfferTypeStandard,
		Price:             2.5,
		UOM:               "pcs",
		TaxPercentage:     9,
	}
}

func TestAddAndGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	o := testOffer("o1", 10)
	require.NoError(t, r.Add(ctx, o))

	got, err := r.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, o, *got)

	_, err = r.GetByID(ctx, "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAdjustInventory(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, testOffer("o1", 10)))

	require.NoError(t, r.AdjustInventory(ctx, "o1", -3))
	got, err := r.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.AmountInInventory)

	require.NoError(t, r.AdjustInventory(ctx, "o1", 5))
	got, err = r.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.AmountInInventory)

	require.ErrorIs(t, r.AdjustInventory(ctx, "missing", 1), common.ErrorNotFound)
}

func TestListLowStock(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, testOffer("o1", 2)))
	require.NoError(t, r.Add(ctx, testOffer("o2", 0)))
	require.NoError(t, r.Add(ctx, testOffer("o3", 50)))

	got, err := r.ListLowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// ordered by remaining amount, lowest first
	assert.Equal(t, "o2", got[0].OfferID)
	assert.Equal(t, "o1", got[1].OfferID)
}

func TestListByProduct(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	o1 := testOffer("o1", 1)
	o2 := testOffer("o2", 1)
	o2.ProductID = "p2"
	require.NoError(t, r.Add(ctx, o1))
	require.NoError(t, r.Add(ctx, o2))

	got, err := r.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].OfferID)
}

func TestUpdate_SuccessAndNotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, testOffer("o1", 10)))

	updated := testOffer("o1", 10)
	updated.Price = 3.0
	updated.Title = "Cola 0.5"
	require.NoError(t, r.Update(ctx, updated))

	got, err := r.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Price)
	assert.Equal(t, "Cola 0.5", got.Title)

	require.ErrorIs(t, r.Update(ctx, testOffer("missing", 0)), common.ErrorNotFound)
}
