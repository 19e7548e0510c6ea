// Package verify checks a deployed site against its robots.txt and sitemap.
package verify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/romangod6/sitemapgen/internal/utils"
	"github.com/temoto/robotstxt"
)

type Options struct {
	SiteURL     string
	UserAgent   string
	Parallelism int
	Timeout     time.Duration
}

// URLStatus describes a sitemap location that could not be fetched.
type URLStatus struct {
	URL        string `json:"url"`
	StatusCode int    `json:"statusCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

type Report struct {
	RobotsFound bool        `json:"robotsFound"`
	Sitemaps    []string    `json:"sitemaps"`
	Checked     int         `json:"checked"`
	Broken      []URLStatus `json:"broken"`
	Disallowed  []string    `json:"disallowed"`
	Warnings    []string    `json:"warnings,omitempty"`
}

// OK is true when every location was reachable.
func (r *Report) OK() bool {
	return len(r.Broken) == 0
}

type Verifier struct {
	opts   Options
	client *http.Client
}

func New(opts Options) *Verifier {
	if opts.UserAgent == "" {
		opts.UserAgent = "sitemapgen-verify/1.0"
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Verifier{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// Verify reads robots.txt and the sitemaps it announces, then requests
// every listed location.
func (v *Verifier) Verify(ctx context.Context) (*Report, error) {
	logger := utils.WithComponent("verify")
	base := strings.TrimRight(v.opts.SiteURL, "/")
	report := &Report{Sitemaps: []string{}, Broken: []URLStatus{}, Disallowed: []string{}}

	robots, status, err := v.fetchRobots(ctx, base+"/robots.txt")
	if err != nil {
		return nil, err
	}
	found := status >= 200 && status < 300
	// A server error makes robotstxt disallow everything, which says
	// nothing about the rules the site meant to publish.
	serverError := status >= 500
	report.RobotsFound = found
	switch {
	case serverError:
		report.Warnings = append(report.Warnings, fmt.Sprintf("robots.txt returned status %d, rules not checked", status))
	case !found:
		report.Warnings = append(report.Warnings, "robots.txt not found")
	}

	sitemaps := robots.Sitemaps
	if len(sitemaps) == 0 {
		if found {
			report.Warnings = append(report.Warnings, "robots.txt lists no sitemap")
		}
		sitemaps = []string{base + "/sitemap.xml"}
	}

	locs, visited, err := v.collectLocations(ctx, sitemaps)
	if err != nil {
		return nil, err
	}
	report.Sitemaps = visited
	logger.Info().Int("sitemaps", len(visited)).Int("locations", len(locs)).Msg("sitemaps read")

	if !serverError {
		group := robots.FindGroup(v.opts.UserAgent)
		for _, loc := range locs {
			u, err := url.Parse(loc)
			if err != nil {
				continue
			}
			if !group.Test(u.RequestURI()) {
				report.Disallowed = append(report.Disallowed, loc)
			}
		}
	}

	report.Broken = v.checkLocations(ctx, locs)
	report.Checked = len(locs)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (v *Verifier) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", v.opts.UserAgent)
	return v.client.Do(req)
}

// fetchRobots returns the parsed robots.txt and the response status.
func (v *Verifier) fetchRobots(ctx context.Context, target string) (*robotstxt.RobotsData, int, error) {
	resp, err := v.get(ctx, target)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to parse robots.txt: %w", err)
	}
	return robots, resp.StatusCode, nil
}

// checkLocations visits every location and returns those that failed.
func (v *Verifier) checkLocations(ctx context.Context, locs []string) []URLStatus {
	c := colly.NewCollector(
		colly.UserAgent(v.opts.UserAgent),
		colly.Async(true),
	)
	c.SetRequestTimeout(v.opts.Timeout)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: v.opts.Parallelism,
	})

	var mu sync.Mutex
	broken := []URLStatus{}

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		defer mu.Unlock()
		broken = append(broken, URLStatus{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Error:      err.Error(),
		})
	})

	for _, loc := range locs {
		if ctx.Err() != nil {
			break
		}
		if err := c.Visit(loc); err != nil {
			mu.Lock()
			broken = append(broken, URLStatus{URL: loc, Error: err.Error()})
			mu.Unlock()
		}
	}
	c.Wait()

	sort.Slice(broken, func(i, j int) bool { return broken[i].URL < broken[j].URL })
	return broken
}
