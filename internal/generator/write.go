package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/spf13/afero"
)

// Destination receives generated files.
type Destination interface {
	WriteFile(name string, data []byte) error
	// List returns the file names currently in the destination. A
	// destination that does not exist yet lists nothing.
	List() ([]string, error)
	Remove(name string) error
}

// AtomicDir writes files into a directory on disk. Each file is written to
// a temporary file and renamed into place, so readers never see a partial
// sitemap.
type AtomicDir struct {
	Path string
}

func (d AtomicDir) WriteFile(name string, data []byte) error {
	if err := os.MkdirAll(d.Path, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	return renameio.WriteFile(filepath.Join(d.Path, name), data, 0644)
}

func (d AtomicDir) List() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (d AtomicDir) Remove(name string) error {
	err := os.Remove(filepath.Join(d.Path, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// FsDir writes files into a directory of an afero filesystem.
type FsDir struct {
	Fs   afero.Fs
	Path string
}

func (d FsDir) WriteFile(name string, data []byte) error {
	if err := d.Fs.MkdirAll(d.Path, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	return afero.WriteFile(d.Fs, filepath.Join(d.Path, name), data, 0644)
}

func (d FsDir) List() ([]string, error) {
	infos, err := afero.ReadDir(d.Fs, d.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		if fi.Mode().IsRegular() {
			names = append(names, fi.Name())
		}
	}
	return names, nil
}

func (d FsDir) Remove(name string) error {
	err := d.Fs.Remove(filepath.Join(d.Path, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Write stores every file of out in dst and returns the written names.
func Write(ctx context.Context, out *Output, dst Destination) ([]string, error) {
	written := make([]string, 0, len(out.Files))
	for _, f := range out.Files {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if err := dst.WriteFile(f.Name, f.Data); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		written = append(written, f.Name)
	}
	return written, nil
}

// Prune removes sitemap files named after base (<base>.xml and
// <base>-N.xml) that are not in keep, so chunks left over from a larger
// earlier run are no longer served. It returns the removed names.
func Prune(ctx context.Context, dst Destination, base string, keep []string) ([]string, error) {
	names, err := dst.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list output dir: %w", err)
	}

	kept := make(map[string]bool, len(keep))
	for _, name := range keep {
		kept[name] = true
	}

	var removed []string
	for _, name := range names {
		if kept[name] || !isSitemapFile(name, base) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := dst.Remove(name); err != nil {
			return removed, fmt.Errorf("failed to remove stale %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func isSitemapFile(name, base string) bool {
	stem, ok := strings.CutSuffix(name, ".xml")
	if !ok {
		return false
	}
	if stem == base {
		return true
	}
	n, ok := strings.CutPrefix(stem, base+"-")
	if !ok || n == "" {
		return false
	}
	_, err := strconv.ParseUint(n, 10, 64)
	return err == nil
}
