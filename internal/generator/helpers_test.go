package generator

import (
	"github.com/romangod6/sitemapgen/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SiteSitemapConfig = config.SiteSitemapConfig{
		SiteURL:           "https://docs.publica.com",
		GenerateRobotsTxt: true,
		Exclude:           []string{"*/_meta.json"},
	}
	cfg.Generator = config.GeneratorConfig{
		SourceDir:            "out",
		OutDir:               "public",
		Changefreq:           "daily",
		Priority:             0.7,
		SitemapSize:          5000,
		SitemapBaseFileName:  "sitemap",
		GenerateIndexSitemap: true,
		AutoLastmod:          true,
	}
	cfg.Robots = config.RobotsConfig{
		Policies: []config.RobotsPolicy{{UserAgent: "*", Allow: []string{"/"}}},
	}
	return cfg
}
