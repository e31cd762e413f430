// Package archive packs a directory tree into a zip file and unpacks it back.
// Entry names are slash-separated paths relative to the packed root, so an
// archive produced on one platform unpacks identically on another.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bsobat/inventra/internal/common"
)

// Pack writes everything under srcDir into a zip archive at destPath.
// Directories themselves are not stored, only files.
func Pack(srcDir, destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", destPath, err)
	}

	w := zip.NewWriter(out)

	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		return addFile(w, path, filepath.ToSlash(rel))
	})
	if err != nil {
		w.Close()
		out.Close()
		return fmt.Errorf("failed to pack %s: %w", srcDir, err)
	}

	if err := w.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return out.Close()
}

func addFile(w *zip.Writer, path, name string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	entry, err := w.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, in)
	return err
}

// Unpack extracts the zip archive at srcPath into destDir, creating
// subdirectories as needed. Entries that would escape destDir are rejected.
func Unpack(srcPath, destDir string) error {
	r, err := zip.OpenReader(srcPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrorBadArchive, srcPath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := extractFile(f, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, destDir string) error {
	target := filepath.Join(destDir, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("%w: entry %q escapes destination", common.ErrorBadArchive, f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o770)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o770); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}

	in, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: entry %q: %v", common.ErrorBadArchive, f.Name, err)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract %q: %w", f.Name, err)
	}
	return out.Close()
}
