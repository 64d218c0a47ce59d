package download

import (
	"os"
	"path/filepath"
)

// ResolveDir returns the directory downloads are written to. An empty
// preference means the OS temp directory, as installers are run once and
// not kept.
func ResolveDir(preferred string) (string, error) {
	dir := preferred
	if dir == "" {
		dir = os.TempDir()
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func EnsureDir(p string) error {
	return os.MkdirAll(p, 0o755)
}
