package generator

import (
	"fmt"
	"strings"

	"github.com/romangod6/sitemapgen/config"
)

// RobotsTxt renders robots.txt: one block per policy, then the host and
// the sitemap locations.
func RobotsTxt(siteURL string, policies []config.RobotsPolicy, sitemaps []string) string {
	var b strings.Builder

	for i, p := range policies {
		if i > 0 {
			b.WriteString("\n")
		}
		agent := p.UserAgent
		if agent == "" {
			agent = "*"
		}
		fmt.Fprintf(&b, "# %s\nUser-agent: %s\n", agent, agent)
		for _, allow := range p.Allow {
			fmt.Fprintf(&b, "Allow: %s\n", allow)
		}
		for _, disallow := range p.Disallow {
			fmt.Fprintf(&b, "Disallow: %s\n", disallow)
		}
		if p.CrawlDelay > 0 {
			fmt.Fprintf(&b, "Crawl-delay: %d\n", p.CrawlDelay)
		}
	}

	if len(policies) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "# Host\nHost: %s\n", strings.TrimRight(siteURL, "/"))

	if len(sitemaps) > 0 {
		b.WriteString("\n# Sitemaps\n")
		for _, s := range sitemaps {
			fmt.Fprintf(&b, "Sitemap: %s\n", s)
		}
	}
	return b.String()
}
