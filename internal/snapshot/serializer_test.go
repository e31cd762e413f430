package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsobat/inventra/internal/archive"
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

func setupStore(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedStore(t *testing.T, db *sql.DB, imageDir string) {
	t.Helper()
	ctx := context.Background()
	repos := storage.NewRepositories(db)

	require.NoError(t, repos.Categories.Add(ctx, models.Category{
		CategoryID: "cat1", Title: "Drinks", Image: "drinks.png", TaxPercentage: 9,
	}))
	require.NoError(t, repos.Products.Add(ctx, models.Product{ProductID: "p1", Title: "Cola"}))
	require.NoError(t, repos.Products.Link(ctx, "cat1", "p1"))
	require.NoError(t, repos.Offers.Add(ctx, models.Offer{
		OfferID: "o1", ProductID: "p1", Title: "Cola 0.33", AmountInInventory: 24,
		Type: models.OfferTypeStandard, Price: 2.5, UOM: "pcs", TaxPercentage: 9,
	}))
	require.NoError(t, repos.Sales.Insert(ctx, models.Sale{
		SaleID: "s1", Timestamp: "2024-05-01T12:00:00.000Z",
		Items:    []models.SaleItem{{OfferID: "o1", Quantity: 2, UnitPrice: 2.5, TotalPrice: 5, TaxPercentage: 9, InventoryAdjusted: true}},
		Payments: []models.PaymentPart{{Method: "Cash", Amount: 5, Status: models.PaymentCompleted}},
	}))
	require.NoError(t, repos.Inventory.Record(ctx, models.InventoryTransaction{
		TransactionID: "t1", OfferID: "o1", ChangeAmount: -2,
		Reason: models.ReasonSale, Timestamp: "2024-05-01T12:00:00.000Z",
	}))
	require.NoError(t, repos.PaymentMethods.Save(ctx, models.PaymentMethodConfig{
		MethodID: "cash", Name: "Cash", Type: "CASH", Enabled: true,
	}))
	require.NoError(t, repos.Configurations.Set(ctx, models.ConfigCompanyName, "Acme"))
	require.NoError(t, repos.Configurations.Set(ctx, models.ConfigCompanyLogo, "/some/picker/path/logo.png"))

	require.NoError(t, os.WriteFile(filepath.Join(imageDir, "drinks.png"), []byte("png1"), 0o660))
	require.NoError(t, os.WriteFile(filepath.Join(imageDir, "logo.png"), []byte("png2"), 0o660))
}

func TestExportToSnapshot_CollectsImageBaseNames(t *testing.T) {
	db := setupStore(t)
	imageDir := t.TempDir()
	seedStore(t, db, imageDir)

	s := NewSerializer(db, imageDir, testLogger())
	snap, err := s.ExportToSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SchemaVersion, snap.SchemaVersion)
	assert.NotEmpty(t, snap.ExportTimestamp)
	// deduplicated, sorted, base names only
	assert.Equal(t, []string{"drinks.png", "logo.png"}, snap.ImageFiles)
	assert.Len(t, snap.Sales, 1)
	assert.Len(t, snap.CategoryProducts, 1)
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	srcDB := setupStore(t)
	srcImages := t.TempDir()
	seedStore(t, srcDB, srcImages)

	archivePath := filepath.Join(t.TempDir(), "backup.zip")
	src := NewSerializer(srcDB, srcImages, testLogger())
	require.NoError(t, src.ExportToArchive(ctx, archivePath))

	destDB := setupStore(t)
	destImages := t.TempDir()
	dest := NewSerializer(destDB, destImages, testLogger())
	require.NoError(t, dest.ImportFromArchive(ctx, archivePath))

	srcSnap, err := src.ExportToSnapshot(ctx)
	require.NoError(t, err)
	destSnap, err := dest.ExportToSnapshot(ctx)
	require.NoError(t, err)

	// identical entity sets, timestamps aside
	srcSnap.ExportTimestamp = ""
	destSnap.ExportTimestamp = ""
	assert.Equal(t, srcSnap, destSnap)

	img, err := os.ReadFile(filepath.Join(destImages, "drinks.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png1"), img)
}

func TestImport_ReplacesExistingData(t *testing.T) {
	ctx := context.Background()
	srcDB := setupStore(t)
	srcImages := t.TempDir()
	seedStore(t, srcDB, srcImages)

	archivePath := filepath.Join(t.TempDir(), "backup.zip")
	require.NoError(t, NewSerializer(srcDB, srcImages, testLogger()).ExportToArchive(ctx, archivePath))

	destDB := setupStore(t)
	destRepos := storage.NewRepositories(destDB)
	require.NoError(t, destRepos.Categories.Add(ctx, models.Category{CategoryID: "stale", Title: "Old"}))

	require.NoError(t, NewSerializer(destDB, t.TempDir(), testLogger()).ImportFromArchive(ctx, archivePath))

	_, err := destRepos.Categories.GetByID(ctx, "stale")
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = destRepos.Categories.GetByID(ctx, "cat1")
	require.NoError(t, err)

	// importing the same archive again succeeds (delete then insert)
	require.NoError(t, NewSerializer(destDB, t.TempDir(), testLogger()).ImportFromArchive(ctx, archivePath))
}

func TestImport_RollsBackOnBadSnapshotData(t *testing.T) {
	ctx := context.Background()

	// archive whose manifest repeats a primary key
	stage := t.TempDir()
	snap := ExportSnapshot{
		SchemaVersion: SchemaVersion,
		Categories: []models.Category{
			{CategoryID: "dup", Title: "One"},
			{CategoryID: "dup", Title: "Two"},
		},
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(stage, ManifestName), data, 0o660))
	archivePath := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, archive.Pack(stage, archivePath))

	db := setupStore(t)
	repos := storage.NewRepositories(db)
	require.NoError(t, repos.Categories.Add(ctx, models.Category{CategoryID: "keep", Title: "Keep"}))

	err = NewSerializer(db, t.TempDir(), testLogger()).ImportFromArchive(ctx, archivePath)
	require.Error(t, err)

	// wipe rolled back together with the failed insert
	got, err := repos.Categories.GetByID(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Title)
}

func TestImport_SchemaMismatch(t *testing.T) {
	stage := t.TempDir()
	data, err := json.Marshal(ExportSnapshot{SchemaVersion: 99})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(stage, ManifestName), data, 0o660))
	archivePath := filepath.Join(t.TempDir(), "future.zip")
	require.NoError(t, archive.Pack(stage, archivePath))

	err = NewSerializer(setupStore(t), t.TempDir(), testLogger()).ImportFromArchive(context.Background(), archivePath)
	require.ErrorIs(t, err, common.ErrorSchemaMismatch)
}

func TestImport_MissingManifest(t *testing.T) {
	stage := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(stage, "readme.txt"), []byte("x"), 0o660))
	archivePath := filepath.Join(t.TempDir(), "empty.zip")
	require.NoError(t, archive.Pack(stage, archivePath))

	err := NewSerializer(setupStore(t), t.TempDir(), testLogger()).ImportFromArchive(context.Background(), archivePath)
	require.ErrorIs(t, err, common.ErrorBadSnapshot)
}
