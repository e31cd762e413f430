package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/bsobat/inventra/internal/common"
	"github.com/bsobat/inventra/internal/logging"
	"github.com/bsobat/inventra/internal/snapshot"
	"github.com/bsobat/inventra/internal/timex"
)

// ConflictResolution selects how Sync decides direction when local and remote
// backups both exist.
type ConflictResolution int

const (
	// NewestWins follows the export timestamps (the default).
	NewestWins ConflictResolution = iota
	// LocalWins forces an upload regardless of timestamps.
	LocalWins
	// RemoteWins forces a download regardless of timestamps.
	RemoteWins
	// AskUser performs no transfer when the timestamps differ and reports a
	// conflict carrying both, so a caller can decide and re-run.
	AskUser
)

// SyncAction is what a Sync call did (or, for ActionConflict, refused to do).
type SyncAction string

const (
	ActionUpload   SyncAction = "upload"
	ActionDownload SyncAction = "download"
	ActionNone     SyncAction = "none"
	ActionConflict SyncAction = "conflict"
)

// SyncResult reports the outcome of one sync pass.
type SyncResult struct {
	Action          SyncAction
	LocalTimestamp  string
	RemoteTimestamp string
}

// SyncInfo is the current sync state without performing a transfer.
type SyncInfo struct {
	Local        *SyncMetadata
	RemoteExists bool
}

// Orchestrator runs the sync protocol against one provider. A single sync
// pass runs at a time; concurrent calls fail fast with ErrorSyncInProgress.
type Orchestrator struct {
	serializer  *snapshot.Serializer
	provider    CloudStorageProvider
	meta        *MetadataStore
	callTimeout time.Duration
	attempts    uint64
	backoff     time.Duration
	log         logging.Logger

	mu sync.Mutex
}

// NewOrchestrator wires a sync orchestrator. callTimeout bounds each provider
// call, attempts is the retry budget per call (0 disables retries).
func NewOrchestrator(serializer *snapshot.Serializer, provider CloudStorageProvider,
	meta *MetadataStore, callTimeout time.Duration, attempts uint64, log logging.Logger) *Orchestrator {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &Orchestrator{
		serializer:  serializer,
		provider:    provider,
		meta:        meta,
		callTimeout: callTimeout,
		attempts:    attempts,
		backoff:     time.Second,
		log:         log,
	}
}

// Sync decides direction from the export timestamps and resolution, then
// performs at most one transfer.
func (o *Orchestrator) Sync(ctx context.Context, resolution ConflictResolution) (*SyncResult, error) {
	if !o.mu.TryLock() {
		return nil, common.ErrorSyncInProgress
	}
	defer o.mu.Unlock()

	local, err := o.meta.Load()
	if err != nil {
		return nil, err
	}

	var exists bool
	err = o.call(ctx, func(ctx context.Context) error {
		var err error
		exists, err = o.provider.FileExists(ctx, RemoteMetadataName)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !exists {
		o.log.Info(ctx, "no remote backup, uploading")
		return o.upload(ctx, local)
	}

	remote, err := o.fetchRemoteMetadata(ctx)
	if err != nil {
		return nil, err
	}

	switch resolution {
	case LocalWins:
		return o.upload(ctx, local)
	case RemoteWins:
		return o.download(ctx, local)
	case AskUser:
		if local.ExportTimestamp != remote.ExportTimestamp {
			return &SyncResult{
				Action:          ActionConflict,
				LocalTimestamp:  local.ExportTimestamp,
				RemoteTimestamp: remote.ExportTimestamp,
			}, nil
		}
		return noChange(local, remote), nil
	}

	switch {
	case local.ExportTimestamp > remote.ExportTimestamp:
		return o.upload(ctx, local)
	case local.ExportTimestamp < remote.ExportTimestamp:
		return o.download(ctx, local)
	default:
		o.log.Info(ctx, "backup already in sync", "timestamp", local.ExportTimestamp)
		return noChange(local, remote), nil
	}
}

// Upload exports the store and publishes it, regardless of remote state.
func (o *Orchestrator) Upload(ctx context.Context) (*SyncResult, error) {
	if !o.mu.TryLock() {
		return nil, common.ErrorSyncInProgress
	}
	defer o.mu.Unlock()

	local, err := o.meta.Load()
	if err != nil {
		return nil, err
	}
	return o.upload(ctx, local)
}

// Download replaces the store from the remote backup, regardless of
// timestamps.
func (o *Orchestrator) Download(ctx context.Context) (*SyncResult, error) {
	if !o.mu.TryLock() {
		return nil, common.ErrorSyncInProgress
	}
	defer o.mu.Unlock()

	local, err := o.meta.Load()
	if err != nil {
		return nil, err
	}
	return o.download(ctx, local)
}

// Status reports local metadata and whether a remote backup exists.
func (o *Orchestrator) Status(ctx context.Context) (*SyncInfo, error) {
	local, err := o.meta.Load()
	if err != nil {
		return nil, err
	}

	var exists bool
	err = o.call(ctx, func(ctx context.Context) error {
		var err error
		exists, err = o.provider.FileExists(ctx, RemoteArchiveName)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &SyncInfo{Local: local, RemoteExists: exists}, nil
}

// upload publishes archive first, metadata second. The metadata object is
// authoritative, so a crash between the two leaves the previous metadata
// pointing at a still-readable (older) view and the next sync repeats the
// upload.
func (o *Orchestrator) upload(ctx context.Context, local *SyncMetadata) (*SyncResult, error) {
	stage, err := os.MkdirTemp("", "inventra-sync-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	archivePath := filepath.Join(stage, RemoteArchiveName)
	if err := o.serializer.ExportToArchive(ctx, archivePath); err != nil {
		return nil, err
	}
	err = o.call(ctx, func(ctx context.Context) error {
		return o.provider.UploadFile(ctx, archivePath, RemoteArchiveName)
	})
	if err != nil {
		return nil, err
	}

	now := timex.Now()
	updated := &SyncMetadata{
		LastSyncTimestamp: now,
		ExportTimestamp:   clampStamp(local.ExportTimestamp, now),
		DeviceID:          local.DeviceID,
		SchemaVersion:     snapshot.SchemaVersion,
	}

	metaPath := filepath.Join(stage, RemoteMetadataName)
	data, err := json.Marshal(updated)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, data, 0o660); err != nil {
		return nil, fmt.Errorf("failed to stage sync metadata: %w", err)
	}
	err = o.call(ctx, func(ctx context.Context) error {
		return o.provider.UploadFile(ctx, metaPath, RemoteMetadataName)
	})
	if err != nil {
		return nil, err
	}

	if err := o.meta.Save(updated); err != nil {
		return nil, err
	}

	o.log.Info(ctx, "backup uploaded", "timestamp", updated.ExportTimestamp)
	return &SyncResult{
		Action:          ActionUpload,
		LocalTimestamp:  updated.ExportTimestamp,
		RemoteTimestamp: updated.ExportTimestamp,
	}, nil
}

// download replaces the local store from the remote archive and adopts the
// remote export timestamp. The device id stays local.
func (o *Orchestrator) download(ctx context.Context, local *SyncMetadata) (*SyncResult, error) {
	stage, err := os.MkdirTemp("", "inventra-sync-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	archivePath := filepath.Join(stage, RemoteArchiveName)
	err = o.call(ctx, func(ctx context.Context) error {
		return o.provider.DownloadFile(ctx, RemoteArchiveName, archivePath)
	})
	if err != nil {
		return nil, err
	}

	if err := o.serializer.ImportFromArchive(ctx, archivePath); err != nil {
		return nil, err
	}

	remote, err := o.fetchRemoteMetadata(ctx)
	if err != nil {
		return nil, err
	}

	updated := &SyncMetadata{
		LastSyncTimestamp: timex.Now(),
		ExportTimestamp:   remote.ExportTimestamp,
		DeviceID:          local.DeviceID,
		SchemaVersion:     remote.SchemaVersion,
	}
	if err := o.meta.Save(updated); err != nil {
		return nil, err
	}

	o.log.Info(ctx, "backup downloaded", "timestamp", updated.ExportTimestamp)
	return &SyncResult{
		Action:          ActionDownload,
		LocalTimestamp:  updated.ExportTimestamp,
		RemoteTimestamp: remote.ExportTimestamp,
	}, nil
}

func (o *Orchestrator) fetchRemoteMetadata(ctx context.Context) (*SyncMetadata, error) {
	stage, err := os.MkdirTemp("", "inventra-meta-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	localPath := filepath.Join(stage, RemoteMetadataName)
	err = o.call(ctx, func(ctx context.Context) error {
		return o.provider.DownloadFile(ctx, RemoteMetadataName, localPath)
	})
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote metadata: %w", err)
	}
	var m SyncMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse remote metadata: %w", err)
	}
	return &m, nil
}

// call runs one provider operation under the per-call timeout and retry
// policy. A missing remote object is terminal, not retried.
func (o *Orchestrator) call(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(o.attempts, retry.NewExponential(o.backoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		defer cancel()

		err := fn(attemptCtx)
		if err == nil || errors.Is(err, common.ErrorRemoteMissing) {
			return err
		}
		o.log.Warn(ctx, "provider call failed, may retry", "error", err)
		return retry.RetryableError(err)
	})
}

func noChange(local, remote *SyncMetadata) *SyncResult {
	return &SyncResult{
		Action:          ActionNone,
		LocalTimestamp:  local.ExportTimestamp,
		RemoteTimestamp: remote.ExportTimestamp,
	}
}
