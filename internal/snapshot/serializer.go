package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bsobat/inventra/internal/archive"
	"github.com/bsobat/inventra/internal/common"
	"github.com/bsobat/inventra/internal/dbx"
	"github.com/bsobat/inventra/internal/filex"
	"github.com/bsobat/inventra/internal/logging"
	"github.com/bsobat/inventra/internal/models"
	"github.com/bsobat/inventra/internal/storage"
	"github.com/bsobat/inventra/internal/timex"
)

// Serializer exports the store to snapshot archives and restores from them.
// imageDir is the application's private image root; image fields on entities
// are resolved against it by base name.
type Serializer struct {
	db       *sql.DB
	repos    *storage.Repositories
	imageDir string
	log      logging.Logger
}

// NewSerializer returns a Serializer over db. Repositories are bound to the
// plain handle for reads; import rebinds them inside a transaction.
func NewSerializer(db *sql.DB, imageDir string, log logging.Logger) *Serializer {
	return &Serializer{
		db:       db,
		repos:    storage.NewRepositories(db),
		imageDir: imageDir,
		log:      log,
	}
}

// ExportToSnapshot reads every table and assembles an ExportSnapshot. Pure
// read, no side effects on the store.
func (s *Serializer) ExportToSnapshot(ctx context.Context) (*ExportSnapshot, error) {
	snap := &ExportSnapshot{
		SchemaVersion:   SchemaVersion,
		ExportTimestamp: timex.Now(),
	}

	var err error
	if snap.Categories, err = s.repos.Categories.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	if snap.Products, err = s.repos.Products.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	if snap.CategoryProducts, err = s.repos.Products.AllLinks(ctx); err != nil {
		return nil, fmt.Errorf("failed to read category links: %w", err)
	}
	if snap.Offers, err = s.repos.Offers.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to read offers: %w", err)
	}
	if snap.Events, err = s.repos.Events.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	if snap.Sales, err = s.repos.Sales.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to read sales: %w", err)
	}
	if snap.InventoryTransactions, err = s.repos.Inventory.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to read inventory ledger: %w", err)
	}
	if snap.PaymentMethods, err = s.repos.PaymentMethods.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to read payment methods: %w", err)
	}
	if snap.Configurations, err = s.repos.Configurations.All(ctx); err != nil {
		return nil, fmt.Errorf("failed to read configurations: %w", err)
	}

	snap.ImageFiles = collectImages(snap)
	return snap, nil
}

// collectImages gathers the base name of every non-empty image field into a
// sorted, deduplicated list.
func collectImages(snap *ExportSnapshot) []string {
	set := map[string]struct{}{}
	add := func(path string) {
		if path != "" {
			set[filex.BaseName(path)] = struct{}{}
		}
	}
	for _, c := range snap.Categories {
		add(c.Image)
	}
	for _, p := range snap.Products {
		add(p.Image)
	}
	for _, o := range snap.Offers {
		add(o.Image)
	}
	for _, c := range snap.Configurations {
		if c.Key == models.ConfigCompanyLogo {
			add(c.Value)
		}
	}

	result := make([]string, 0, len(set))
	for name := range set {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// ExportToArchive writes a snapshot archive to outputPath. The archive is
// staged in a temp directory and written to a temp file first, then renamed
// into place, so a failed export never leaves a truncated archive behind.
func (s *Serializer) ExportToArchive(ctx context.Context, outputPath string) error {
	snap, err := s.ExportToSnapshot(ctx)
	if err != nil {
		return err
	}

	stage, err := os.MkdirTemp("", "inventra-export-*")
	if err != nil {
		return fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stage, ManifestName), data, 0o660); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if _, err := filex.EnsureDir(filepath.Join(stage, ImagesDir)); err != nil {
		return err
	}
	for _, name := range snap.ImageFiles {
		src := filepath.Join(s.imageDir, name)
		if !filex.Exists(src) {
			s.log.Warn(ctx, "referenced image missing, skipping", "image", name)
			continue
		}
		if err := filex.CopyFile(src, filepath.Join(stage, ImagesDir, name)); err != nil {
			return err
		}
	}

	tmpOut := outputPath + ".tmp"
	if err := archive.Pack(stage, tmpOut); err != nil {
		os.Remove(tmpOut)
		return err
	}
	if err := os.Rename(tmpOut, outputPath); err != nil {
		os.Remove(tmpOut)
		return fmt.Errorf("failed to move archive into place: %w", err)
	}

	s.log.Info(ctx, "snapshot exported", "path", outputPath,
		"timestamp", snap.ExportTimestamp, "images", len(snap.ImageFiles))
	return nil
}

// ImportFromArchive restores the store from a snapshot archive. Images are
// copied back first; the table replace runs as one transaction, so the store
// is either fully replaced or untouched.
func (s *Serializer) ImportFromArchive(ctx context.Context, inputPath string) error {
	stage, err := os.MkdirTemp("", "inventra-import-*")
	if err != nil {
		return fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	if err := archive.Unpack(inputPath, stage); err != nil {
		return err
	}

	snap, err := readManifest(filepath.Join(stage, ManifestName))
	if err != nil {
		return err
	}

	if _, err := filex.EnsureDir(s.imageDir); err != nil {
		return err
	}
	for _, name := range snap.ImageFiles {
		src := filepath.Join(stage, ImagesDir, name)
		if !filex.Exists(src) {
			s.log.Warn(ctx, "image listed in manifest missing from archive", "image", name)
			continue
		}
		if err := filex.CopyFile(src, filepath.Join(s.imageDir, name)); err != nil {
			return err
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return replaceAll(ctx, storage.NewRepositories(tx), snap)
	})
	if err != nil {
		return fmt.Errorf("failed to apply snapshot: %w", err)
	}

	s.log.Info(ctx, "snapshot imported", "path", inputPath,
		"timestamp", snap.ExportTimestamp)
	return nil
}

func readManifest(path string) (*ExportSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: missing manifest: %v", common.ErrorBadSnapshot, err)
	}
	var snap ExportSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorBadSnapshot, err)
	}
	if snap.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: got version %d, want %d",
			common.ErrorSchemaMismatch, snap.SchemaVersion, SchemaVersion)
	}
	return &snap, nil
}

// replaceAll wipes every table and re-inserts the snapshot's entities. Wipe
// order respects references (children before parents); insert order is the
// reverse.
func replaceAll(ctx context.Context, repos *storage.Repositories, snap *ExportSnapshot) error {
	for _, wipe := range []func(context.Context) error{
		repos.Inventory.DeleteAll,
		repos.Sales.DeleteAll,
		repos.Offers.DeleteAll,
		repos.Products.DeleteAllLinks,
		repos.Products.DeleteAll,
		repos.Categories.DeleteAll,
		repos.Events.DeleteAll,
		repos.PaymentMethods.DeleteAll,
		repos.Configurations.DeleteAll,
	} {
		if err := wipe(ctx); err != nil {
			return err
		}
	}

	for _, c := range snap.Categories {
		if err := repos.Categories.Add(ctx, c); err != nil {
			return err
		}
	}
	for _, p := range snap.Products {
		if err := repos.Products.Add(ctx, p); err != nil {
			return err
		}
	}
	for _, link := range snap.CategoryProducts {
		if err := repos.Products.Link(ctx, link.CategoryID, link.ProductID); err != nil {
			return err
		}
	}
	for _, o := range snap.Offers {
		if err := repos.Offers.Add(ctx, o); err != nil {
			return err
		}
	}
	for _, e := range snap.Events {
		if err := repos.Events.Add(ctx, e); err != nil {
			return err
		}
	}
	for _, sale := range snap.Sales {
		if err := repos.Sales.Insert(ctx, sale); err != nil {
			return err
		}
	}
	for _, tx := range snap.InventoryTransactions {
		if err := repos.Inventory.Record(ctx, tx); err != nil {
			return err
		}
	}
	for _, m := range snap.PaymentMethods {
		if err := repos.PaymentMethods.Save(ctx, m); err != nil {
			return err
		}
	}
	for _, c := range snap.Configurations {
		if err := repos.Configurations.Set(ctx, c.Key, c.Value); err != nil {
			return err
		}
	}
	return nil
}
