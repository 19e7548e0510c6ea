// Package pages discovers the routes of a built static site.
package pages

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Page is a file of the built site mapped to the route it is served at.
type Page struct {
	Route      string
	SourcePath string
	LastMod    time.Time
	HTML       bool
	NoIndex    bool
}

var htmlExtensions = map[string]bool{".html": true, ".htm": true}

// Scan walks root on fs and returns one Page per regular file, sorted by
// route. Hidden files and directories are skipped.
func Scan(ctx context.Context, fs afero.Fs, root string) ([]Page, error) {
	info, err := fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source dir %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", root)
	}

	var pages []Page
	err = afero.Walk(fs, root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != root && strings.HasPrefix(fi.Name(), ".") {
			if fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if fi.IsDir() || !fi.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		page := Page{
			Route:      Route(filepath.ToSlash(rel)),
			SourcePath: p,
			LastMod:    fi.ModTime(),
			HTML:       htmlExtensions[strings.ToLower(filepath.Ext(p))],
		}
		if page.HTML {
			noIndex, err := readNoIndex(fs, p)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", p, err)
			}
			page.NoIndex = noIndex
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Route < pages[j].Route })
	return pages, nil
}

// Route maps a slash-separated path relative to the site root to the
// route it is served at:
//
//	index.html          -> /
//	docs/index.html     -> /docs
//	docs/intro.html     -> /docs/intro
//	docs/_meta.json     -> /docs/_meta.json
func Route(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")

	ext := path.Ext(rel)
	if htmlExtensions[strings.ToLower(ext)] {
		rel = strings.TrimSuffix(rel, ext)
		if rel == "index" {
			rel = ""
		} else if strings.HasSuffix(rel, "/index") {
			rel = strings.TrimSuffix(rel, "/index")
		}
	}
	return "/" + rel
}
