// Package browse lists local directories for the in-app installer picker.
package browse

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry is one file or directory shown in the browser.
type Entry struct {
	Path    string
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Options filters ListDirectory output.
type Options struct {
	IncludeHidden bool
	// ExeOnly hides regular files that are not .exe. Directories are always listed.
	ExeOnly bool
}

// ListDirectory scans path once and returns its entries, directories first,
// then files, each group sorted case-insensitively by name. Entries that
// cannot be stat'ed are skipped.
func ListDirectory(path string, opts Options) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if !opts.IncludeHidden && IsHidden(name) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		full := filepath.Join(path, name)
		isDir := de.IsDir()
		if !isDir && info.Mode()&os.ModeSymlink != 0 {
			// Follow links so a linked folder can be entered.
			if target, err := os.Stat(full); err == nil {
				info = target
				isDir = target.IsDir()
			}
		}
		if opts.ExeOnly && !isDir && !IsExe(name) {
			continue
		}
		e := Entry{Path: full, Name: name, IsDir: isDir, ModTime: info.ModTime()}
		if !isDir {
			e.Size = info.Size()
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Parent returns the directory above path, or path itself at the root.
func Parent(path string) string {
	return filepath.Dir(filepath.Clean(path))
}

// IsHidden reports dot-files.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// IsExe reports a case-insensitive .exe suffix.
func IsExe(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".exe")
}
