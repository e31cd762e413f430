package cloudsync

import (
	"context"
	"time"
)

// RemoteFileInfo describes a remote object without fetching its body.
type RemoteFileInfo struct {
	Name         string
	Size         int64
	LastModified time.Time
}

// CloudStorageProvider is the boundary to a backup backend. Objects live in a
// flat namespace of well-known names; the orchestrator never lists.
type CloudStorageProvider interface {
	// UploadFile stores the file at localPath under remoteName, replacing any
	// previous object.
	UploadFile(ctx context.Context, localPath, remoteName string) error

	// DownloadFile fetches remoteName into localPath. Returns
	// common.ErrorRemoteMissing if the object does not exist.
	DownloadFile(ctx context.Context, remoteName, localPath string) error

	// GetFileMetadata stats remoteName. Returns common.ErrorRemoteMissing if
	// the object does not exist.
	GetFileMetadata(ctx context.Context, remoteName string) (*RemoteFileInfo, error)

	// FileExists reports whether remoteName exists.
	FileExists(ctx context.Context, remoteName string) (bool, error)
}
