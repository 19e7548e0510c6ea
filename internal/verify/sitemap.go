package verify

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/romangod6/sitemapgen/internal/models"
)

// collectLocations reads the given sitemaps, following sitemap indexes one
// level deep, and returns the unique locations in document order together
// with every sitemap that was read.
func (v *Verifier) collectLocations(ctx context.Context, sitemaps []string) ([]string, []string, error) {
	var locs, visited []string
	seenLoc := make(map[string]bool)
	seenSitemap := make(map[string]bool)

	add := func(urls []models.URL) {
		for _, u := range urls {
			if u.Loc != "" && !seenLoc[u.Loc] {
				seenLoc[u.Loc] = true
				locs = append(locs, u.Loc)
			}
		}
	}

	for _, sm := range sitemaps {
		if seenSitemap[sm] {
			continue
		}
		seenSitemap[sm] = true

		urls, children, err := v.fetchSitemap(ctx, sm)
		if err != nil {
			return nil, nil, err
		}
		visited = append(visited, sm)
		add(urls)

		for _, child := range children {
			if seenSitemap[child] {
				continue
			}
			seenSitemap[child] = true

			urls, _, err := v.fetchSitemap(ctx, child)
			if err != nil {
				return nil, nil, err
			}
			visited = append(visited, child)
			add(urls)
		}
	}
	return locs, visited, nil
}

// fetchSitemap returns the URLs of a urlset, or the child sitemaps of a
// sitemap index.
func (v *Verifier) fetchSitemap(ctx context.Context, target string) ([]models.URL, []string, error) {
	resp, err := v.get(ctx, target)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch sitemap %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("failed to fetch sitemap %s: status %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return parseSitemap(body)
}

func parseSitemap(body []byte) ([]models.URL, []string, error) {
	var index models.SitemapIndex
	if err := xml.Unmarshal(body, &index); err == nil {
		children := make([]string, 0, len(index.Sitemaps))
		for _, ref := range index.Sitemaps {
			children = append(children, ref.Loc)
		}
		return nil, children, nil
	}

	var sitemap models.Sitemap
	if err := xml.Unmarshal(body, &sitemap); err != nil {
		return nil, nil, fmt.Errorf("failed to parse sitemap: %w", err)
	}
	return sitemap.URLs, nil, nil
}
