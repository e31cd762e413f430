package cloudsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bsobat/inventra/internal/common"
	"github.com/bsobat/inventra/internal/filex"
)

// DirProvider implements CloudStorageProvider over a local directory, e.g. a
// mounted network share. Tests use it as an in-process backend.
type DirProvider struct {
	root string
}

// NewDirProvider returns a provider storing objects as files under root.
func NewDirProvider(root string) (*DirProvider, error) {
	if _, err := filex.EnsureDir(root); err != nil {
		return nil, err
	}
	return &DirProvider{root: root}, nil
}

func (p *DirProvider) UploadFile(_ context.Context, localPath, remoteName string) error {
	return filex.CopyFile(localPath, filepath.Join(p.root, remoteName))
}

func (p *DirProvider) DownloadFile(_ context.Context, remoteName, localPath string) error {
	src := filepath.Join(p.root, remoteName)
	if !filex.Exists(src) {
		return fmt.Errorf("%w: %s", common.ErrorRemoteMissing, remoteName)
	}
	return filex.CopyFile(src, localPath)
}

func (p *DirProvider) GetFileMetadata(_ context.Context, remoteName string) (*RemoteFileInfo, error) {
	fi, err := os.Stat(filepath.Join(p.root, remoteName))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", common.ErrorRemoteMissing, remoteName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", remoteName, err)
	}
	return &RemoteFileInfo{Name: remoteName, Size: fi.Size(), LastModified: fi.ModTime()}, nil
}

func (p *DirProvider) FileExists(_ context.Context, remoteName string) (bool, error) {
	return filex.Exists(filepath.Join(p.root, remoteName)), nil
}
