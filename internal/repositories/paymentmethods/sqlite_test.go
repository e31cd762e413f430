package paymentmethods

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
CREATE TABLE payment_methods (
  method_id   TEXT PRIMARY KEY,
  name        TEXT NOT NULL,
  type        TEXT NOT NULL,
  enabled     INTEGER NOT NULL DEFAULT 1,
  config_data TEXT
);
`)
	require.NoError(t, err)

	return db
}

func TestSave_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := models.PaymentMethodConfig{
		MethodID: "cash",
		Name:     "Cash",
		Type:     string(models.MethodCash),
		Enabled:  true,
	}
	require.NoError(t, r.Save(ctx, m))

	got, err := r.Get(ctx, "cash")
	require.NoError(t, err)
	assert.Equal(t, m, *got)

	// same id, new payload
	m.Name = "Cash drawer"
	m.Enabled = false
	require.NoError(t, r.Save(ctx, m))

	got, err = r.Get(ctx, "cash")
	require.NoError(t, err)
	assert.Equal(t, "Cash drawer", got.Name)
	assert.False(t, got.Enabled)
}

func TestGet_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSetEnabled(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, models.PaymentMethodConfig{
		MethodID: "tikkie", Name: "Tikkie", Type: string(models.MethodOnline),
	}))

	require.NoError(t, r.SetEnabled(ctx, "tikkie", true))
	got, err := r.Get(ctx, "tikkie")
	require.NoError(t, err)
	assert.True(t, got.Enabled)

	require.ErrorIs(t, r.SetEnabled(ctx, "missing", true), common.ErrorNotFound)
}

func TestGetAll_PreservesConfigData(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, models.PaymentMethodConfig{
		MethodID: "tikkie", Name: "Tikkie", Type: string(models.MethodOnline),
		ConfigData: `{"name":"Tikkie","baseUrl":"tikkie://payment_request?totalAmountInCents=%d&description=%s"}`,
	}))
	require.NoError(t, r.Save(ctx, models.PaymentMethodConfig{
		MethodID: "cash", Name: "Cash", Type: string(models.MethodCash), Enabled: true,
	}))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// ordered by name
	assert.Equal(t, "cash", got[0].MethodID)
	assert.Equal(t, "tikkie", got[1].MethodID)
	assert.Contains(t, got[1].ConfigData, "tikkie://payment_request")
}

func TestDeleteAndDeleteAll(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, models.PaymentMethodConfig{MethodID: "a", Name: "A", Type: "CASH"}))
	require.NoError(t, r.Save(ctx, models.PaymentMethodConfig{MethodID: "b", Name: "B", Type: "CASH"}))

	require.NoError(t, r.Delete(ctx, "a"))
	require.ErrorIs(t, r.Delete(ctx, "a"), common.ErrorNotFound)

	require.NoError(t, r.DeleteAll(ctx))
	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
