package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	SiteSitemapConfig `mapstructure:",squash"`

	Generator GeneratorConfig `mapstructure:"generator"`
	Robots    RobotsConfig    `mapstructure:"robots"`
	Server    struct {
		Port               int
		RegenerateInterval string
	}
	Database struct {
		Driver string
		URL    string
	}
	Log struct {
		Level string
		Dir   string
	}
}

type GeneratorConfig struct {
	SourceDir            string  `mapstructure:"sourceDir"`
	OutDir               string  `mapstructure:"outDir"`
	Changefreq           string  `mapstructure:"changefreq"`
	Priority             float64 `mapstructure:"priority"`
	SitemapSize          int     `mapstructure:"sitemapSize"`
	SitemapBaseFileName  string  `mapstructure:"sitemapBaseFileName"`
	GenerateIndexSitemap bool    `mapstructure:"generateIndexSitemap"`
	AutoLastmod          bool    `mapstructure:"autoLastmod"`
	TrailingSlash        bool    `mapstructure:"trailingSlash"`
}

type RobotsConfig struct {
	Policies                []RobotsPolicy `mapstructure:"policies"`
	AdditionalSitemaps      []string       `mapstructure:"additionalSitemaps"`
	IncludeNonIndexSitemaps bool           `mapstructure:"includeNonIndexSitemaps"`
}

// RobotsPolicy is one User-agent group of robots.txt.
type RobotsPolicy struct {
	UserAgent  string   `mapstructure:"userAgent"`
	Allow      []string `mapstructure:"allow"`
	Disallow   []string `mapstructure:"disallow"`
	CrawlDelay int      `mapstructure:"crawlDelay"`
}

const (
	defaultChangefreq  = "daily"
	defaultPriority    = 0.7
	defaultSitemapSize = 5000
)

var changefreqs = map[string]bool{
	"always": true, "hourly": true, "daily": true, "weekly": true,
	"monthly": true, "yearly": true, "never": true,
}

// LoadConfig reads the application configuration. With an empty path it
// looks for sitemap.config.{yaml,json,toml} in . and ./config; when no
// file is found the compiled sitemap record is used. SITEMAP_* environment
// variables override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SITEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sitemap.config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		fileFound = false
	}

	// Without a file the compiled record applies. With one, absent fields
	// fall back to their zero defaults and siteUrl must be provided.
	if fileFound {
		v.SetDefault("siteUrl", "")
		v.SetDefault("generateRobotsTxt", false)
		v.SetDefault("exclude", []string{})
	} else {
		v.SetDefault("siteUrl", defaultSiteURL)
		v.SetDefault("generateRobotsTxt", defaultGenerateRobotsTxt)
		v.SetDefault("exclude", defaultExclude)
	}

	v.SetDefault("generator.sourceDir", "out")
	v.SetDefault("generator.outDir", "public")
	v.SetDefault("generator.changefreq", defaultChangefreq)
	v.SetDefault("generator.priority", defaultPriority)
	v.SetDefault("generator.sitemapSize", defaultSitemapSize)
	v.SetDefault("generator.sitemapBaseFileName", "sitemap")
	v.SetDefault("generator.generateIndexSitemap", true)
	v.SetDefault("generator.autoLastmod", true)
	v.SetDefault("generator.trailingSlash", false)

	v.SetDefault("robots.policies", []map[string]any{
		{"userAgent": "*", "allow": []string{"/"}},
	})
	v.SetDefault("robots.additionalSitemaps", []string{})
	v.SetDefault("robots.includeNonIndexSitemaps", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.regenerateinterval", "0")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "sitemapgen.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	sitemap, err := NewSitemapConfig(config.SiteURL, config.GenerateRobotsTxt, config.Exclude)
	if err != nil {
		return nil, err
	}
	config.SiteSitemapConfig = sitemap
	config.normalize()

	return &config, nil
}

// normalize replaces out-of-range generator values with their defaults.
func (c *Config) normalize() {
	g := &c.Generator
	if !changefreqs[strings.ToLower(g.Changefreq)] {
		g.Changefreq = defaultChangefreq
	}
	g.Changefreq = strings.ToLower(g.Changefreq)
	if g.Priority < 0 || g.Priority > 1 {
		g.Priority = defaultPriority
	}
	if g.SitemapSize <= 0 {
		g.SitemapSize = defaultSitemapSize
	}
	if g.SitemapBaseFileName == "" {
		g.SitemapBaseFileName = "sitemap"
	}
	for i := range c.Robots.Policies {
		if c.Robots.Policies[i].UserAgent == "" {
			c.Robots.Policies[i].UserAgent = "*"
		}
	}
}

// Sitemap returns the record the generator consumes.
func (c *Config) Sitemap() SiteSitemapConfig {
	return c.SiteSitemapConfig
}

func (c *Config) GetRegenerateInterval() time.Duration {
	duration, err := time.ParseDuration(c.Server.RegenerateInterval)
	if err != nil || duration < 0 {
		return 0
	}
	return duration
}
