// Package generator builds sitemap.xml and robots.txt for a static site.
package generator

import (
	"context"
	"time"

	"github.com/romangod6/sitemapgen/config"
	"github.com/romangod6/sitemapgen/internal/pages"
	"github.com/romangod6/sitemapgen/internal/utils"
	"github.com/spf13/afero"
)

type Result struct {
	Files         []string
	URLCount      int
	ExcludedCount int
}

// Generate scans cfg.Generator.SourceDir on src, builds the sitemap files,
// writes them to dst and removes sitemap files of earlier runs that this
// run no longer produces.
func Generate(ctx context.Context, cfg *config.Config, src afero.Fs, dst Destination) (*Result, error) {
	logger := utils.WithComponent("generator")

	found, err := pages.Scan(ctx, src, cfg.Generator.SourceDir)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("pages", len(found)).Str("source", cfg.Generator.SourceDir).Msg("scanned source dir")

	out, err := Build(cfg, found, time.Now())
	if err != nil {
		return nil, err
	}

	files, err := Write(ctx, out, dst)
	if err != nil {
		return nil, err
	}

	removed, err := Prune(ctx, dst, cfg.Generator.SitemapBaseFileName, files)
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		logger.Info().Strs("files", removed).Msg("removed stale sitemap files")
	}

	logger.Info().
		Int("urls", out.URLCount).
		Int("excluded", out.ExcludedCount).
		Strs("files", files).
		Msg("sitemap generated")

	return &Result{
		Files:         files,
		URLCount:      out.URLCount,
		ExcludedCount: out.ExcludedCount,
	}, nil
}
