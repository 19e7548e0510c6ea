package generator

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/romangod6/sitemapgen/config"
	"github.com/romangod6/sitemapgen/internal/models"
	"github.com/romangod6/sitemapgen/internal/pages"
)

const robotsFileName = "robots.txt"

// File is a generated artifact relative to the output directory.
type File struct {
	Name string
	Data []byte
}

// Output is everything one generation produces, not yet written.
type Output struct {
	Files         []File
	URLCount      int
	ExcludedCount int
}

// Names lists the generated file names in write order.
func (o *Output) Names() []string {
	names := make([]string, 0, len(o.Files))
	for _, f := range o.Files {
		names = append(names, f.Name)
	}
	return names
}

// Build turns the discovered pages into sitemap files and, when enabled,
// robots.txt.
func Build(cfg *config.Config, found []pages.Page, now time.Time) (*Output, error) {
	filter, err := NewFilter(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	gen := cfg.Generator
	out := &Output{}

	var entries []models.URL
	seen := make(map[string]bool)
	for _, p := range found {
		if !Listable(p) {
			continue
		}
		if p.NoIndex || filter.Excluded(p.Route) {
			out.ExcludedCount++
			continue
		}

		loc := Loc(cfg.SiteURL, p.Route, gen.TrailingSlash)
		if seen[loc] {
			continue
		}
		seen[loc] = true

		entry := models.URL{
			Loc:        loc,
			ChangeFreq: gen.Changefreq,
			Priority:   strconv.FormatFloat(gen.Priority, 'f', -1, 64),
		}
		if gen.AutoLastmod {
			entry.LastMod = lastMod(p.LastMod, now)
		}
		entries = append(entries, entry)
	}
	out.URLCount = len(entries)

	chunks := chunk(entries, gen.SitemapSize)
	chunkNames := make([]string, len(chunks))
	for i := range chunks {
		chunkNames[i] = fmt.Sprintf("%s-%d.xml", gen.SitemapBaseFileName, i)
	}
	indexName := gen.SitemapBaseFileName + ".xml"
	if !gen.GenerateIndexSitemap && len(chunks) == 1 {
		chunkNames[0] = indexName
	}

	for i, urls := range chunks {
		data, err := encodeXML(models.Sitemap{Xmlns: models.SitemapNamespace, URLs: urls})
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", chunkNames[i], err)
		}
		out.Files = append(out.Files, File{Name: chunkNames[i], Data: data})
	}

	// Sitemaps announced in robots.txt.
	var listed []string
	if gen.GenerateIndexSitemap {
		index := models.SitemapIndex{Xmlns: models.SitemapNamespace}
		for _, name := range chunkNames {
			ref := models.SitemapRef{Loc: Loc(cfg.SiteURL, "/"+name, false)}
			if gen.AutoLastmod {
				ref.LastMod = lastMod(time.Time{}, now)
			}
			index.Sitemaps = append(index.Sitemaps, ref)
		}
		data, err := encodeXML(index)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", indexName, err)
		}
		out.Files = append(out.Files, File{Name: indexName, Data: data})

		listed = append(listed, Loc(cfg.SiteURL, "/"+indexName, false))
		if cfg.Robots.IncludeNonIndexSitemaps {
			for _, name := range chunkNames {
				listed = append(listed, Loc(cfg.SiteURL, "/"+name, false))
			}
		}
	} else {
		for _, name := range chunkNames {
			listed = append(listed, Loc(cfg.SiteURL, "/"+name, false))
		}
	}

	if cfg.GenerateRobotsTxt {
		listed = append(listed, cfg.Robots.AdditionalSitemaps...)
		out.Files = append(out.Files, File{
			Name: robotsFileName,
			Data: []byte(RobotsTxt(cfg.SiteURL, cfg.Robots.Policies, listed)),
		})
	}

	return out, nil
}

// chunk splits entries into groups of at most size. It always returns at
// least one group so an empty site still gets a valid sitemap.
func chunk(entries []models.URL, size int) [][]models.URL {
	if len(entries) == 0 {
		return [][]models.URL{{}}
	}
	var chunks [][]models.URL
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}
		chunks = append(chunks, entries[start:end])
	}
	return chunks
}

func lastMod(t, now time.Time) string {
	if t.IsZero() {
		t = now
	}
	return t.UTC().Format(time.RFC3339)
}

func encodeXML(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
