package generator

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
	"github.com/romangod6/sitemapgen/internal/pages"
)

// Routes a static export always contains but never serves as content.
var internalRoutes = map[string]bool{
	"/404":       true,
	"/500":       true,
	"/_app":      true,
	"/_document": true,
	"/_error":    true,
}

// Non-HTML routes that may be listed unless an exclude pattern drops them.
var candidateExtensions = map[string]bool{
	"":      true,
	".json": true,
	".md":   true,
	".mdx":  true,
}

// Filter decides which routes are left out of the sitemap.
type Filter struct {
	patterns []string
	globs    []glob.Glob
}

// NewFilter compiles the exclude patterns. Patterns are matched against
// the whole route and compiled without separators, so * also matches /.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{patterns: append([]string{}, patterns...)}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Excluded returns true when route matches an exclude pattern or is an
// internal route.
func (f *Filter) Excluded(route string) bool {
	if internalRoutes[route] || route == "/_next" || strings.HasPrefix(route, "/_next/") {
		return true
	}
	for _, g := range f.globs {
		if g.Match(route) {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the exclude patterns.
func (f *Filter) Patterns() []string {
	return append([]string{}, f.patterns...)
}

// Listable returns false for static assets that never belong in a sitemap.
func Listable(p pages.Page) bool {
	if p.HTML {
		return true
	}
	return candidateExtensions[strings.ToLower(path.Ext(p.Route))]
}
