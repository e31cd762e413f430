package configurations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/bsobat/inventra/internal/common"
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
CREATE TABLE configurations (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestSet_InsertAndOverwrite(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "company_name", "Acme"))

	got, err := r.Get(ctx, "company_name")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got)

	require.NoError(t, r.Set(ctx, "company_name", "Acme BV"))
	got, err = r.Get(ctx, "company_name")
	require.NoError(t, err)
	assert.Equal(t, "Acme BV", got)
}

func TestGet_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAll_OrderedByKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "event_name", "Spring fair"))
	require.NoError(t, r.Set(ctx, "company_name", "Acme"))

	got, err := r.All(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "company_name", got[0].Key)
	assert.Equal(t, "event_name", got[1].Key)
}

func TestDeleteAndDeleteAll(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "pincode", "1234"))
	require.NoError(t, r.Delete(ctx, "pincode"))
	require.ErrorIs(t, r.Delete(ctx, "pincode"), common.ErrorNotFound)

	require.NoError(t, r.Set(ctx, "a", "1"))
	require.NoError(t, r.Set(ctx, "b", "2"))
	require.NoError(t, r.DeleteAll(ctx))

	got, err := r.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
