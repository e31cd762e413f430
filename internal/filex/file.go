// Package filex provides small filesystem helpers shared by the snapshot
// serializer and the sync orchestrator.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if missing and returns it.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// CopyFile copies src to dst byte for byte, overwriting dst if it exists.
// Parent directories of dst must already exist.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return out.Close()
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// BaseName returns the file-name component of a path, tolerating both slash
// styles. Image fields may hold full paths from the platform image picker;
// only the base name is meaningful inside a snapshot.
func BaseName(path string) string {
	return filepath.Base(filepath.ToSlash(path))
}
