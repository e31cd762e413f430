// Package cloudsync keeps the local store and a single remote backup in step.
// Direction is decided by comparing export timestamps, never by inspecting
// snapshot contents.
package cloudsync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bsobat/inventra/internal/snapshot"
	"github.com/bsobat/inventra/internal/timex"
)

// MetadataFileName is the local sync-state file inside the data directory.
const MetadataFileName = "sync_metadata.json"

// Well-known remote object names.
const (
	RemoteArchiveName  = "inventra_backup.zip"
	RemoteMetadataName = "inventra_backup_metadata.json"
)

// SyncMetadata is the small record exchanged alongside the backup archive.
// ExportTimestamp is the sole ordering key for sync direction; it is a
// fixed-width UTC stamp, so lexicographic comparison is chronological.
type SyncMetadata struct {
	LastSyncTimestamp string `json:"lastSyncTimestamp"`
	ExportTimestamp   string `json:"exportTimestamp"`
	DeviceID          string `json:"deviceId"`
	SchemaVersion     int    `json:"schemaVersion"`
}

// MetadataStore persists SyncMetadata as JSON in the data directory.
type MetadataStore struct {
	path string
}

// NewMetadataStore returns a store writing to dataDir/sync_metadata.json.
func NewMetadataStore(dataDir string) *MetadataStore {
	return &MetadataStore{path: filepath.Join(dataDir, MetadataFileName)}
}

// Load reads the persisted metadata. When the file is absent a fresh record
// with epoch timestamps and a newly generated device id is created and saved,
// so the device id stays stable across runs.
func (s *MetadataStore) Load() (*SyncMetadata, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		m := &SyncMetadata{
			LastSyncTimestamp: timex.EpochStamp,
			ExportTimestamp:   timex.EpochStamp,
			DeviceID:          uuid.NewString(),
			SchemaVersion:     snapshot.SchemaVersion,
		}
		if err := s.Save(m); err != nil {
			return nil, err
		}
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sync metadata: %w", err)
	}

	var m SyncMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse sync metadata: %w", err)
	}
	if m.LastSyncTimestamp == "" {
		m.LastSyncTimestamp = timex.EpochStamp
	}
	if m.ExportTimestamp == "" {
		m.ExportTimestamp = timex.EpochStamp
	}
	return &m, nil
}

// Save writes the metadata, creating the data directory if needed.
func (s *MetadataStore) Save(m *SyncMetadata) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o770); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sync metadata: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o660); err != nil {
		return fmt.Errorf("failed to write sync metadata: %w", err)
	}
	return nil
}

// clampStamp keeps export timestamps monotonically non-decreasing per device.
func clampStamp(prev, next string) string {
	if next < prev {
		return prev
	}
	return next
}
