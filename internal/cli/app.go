// Package cli is the cobra command tree. Commands stay thin: parse flags,
// wire the app, call one core operation.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/bsobat/inventra/internal/checkout"
	"github.com/bsobat/inventra/internal/cloudsync"
	"github.com/bsobat/inventra/internal/config"
	"github.com/bsobat/inventra/internal/filex"
	"github.com/bsobat/inventra/internal/logging"
	"github.com/bsobat/inventra/internal/snapshot"
	"github.com/bsobat/inventra/internal/storage"
)

// App bundles the wired core components for one command invocation.
type App struct {
	Config       *config.Config
	Log          logging.Logger
	DB           *sql.DB
	Serializer   *snapshot.Serializer
	Orchestrator *cloudsync.Orchestrator
	Engine       *checkout.Engine
}

// NewApp opens the store and wires every component from cfg. Call Close when
// done.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, err
	}
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	serializer := snapshot.NewSerializer(db, cfg.ImageDir, log)

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	meta := cloudsync.NewMetadataStore(cfg.DataDir)
	orchestrator := cloudsync.NewOrchestrator(serializer, provider, meta,
		cfg.SyncTimeout, cfg.RetryAttempts, log)

	return &App{
		Config:       cfg,
		Log:          log,
		DB:           db,
		Serializer:   serializer,
		Orchestrator: orchestrator,
		Engine:       checkout.NewEngine(db, log),
	}, nil
}

func newProvider(ctx context.Context, cfg *config.Config) (cloudsync.CloudStorageProvider, error) {
	switch cfg.Provider {
	case config.BackendDir:
		return cloudsync.NewDirProvider(cfg.DirRoot)
	case config.BackendS3:
		return cloudsync.NewS3Provider(ctx, cloudsync.S3Config{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown backup provider %q", cfg.Provider)
	}
}

// Close releases the store handle.
func (a *App) Close() error {
	return a.DB.Close()
}
