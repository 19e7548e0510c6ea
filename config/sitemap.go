package config

import (
	"net/url"
)

// Values compiled into the provider.
const (
	defaultSiteURL           = "https://docs.publica.com"
	defaultGenerateRobotsTxt = true
)

var defaultExclude = []string{"*/_meta.json"}

// SiteSitemapConfig is the record handed to the sitemap generator.
// It is built once and treated as immutable for the rest of the run.
type SiteSitemapConfig struct {
	SiteURL           string   `mapstructure:"siteUrl" json:"siteUrl"`
	GenerateRobotsTxt bool     `mapstructure:"generateRobotsTxt" json:"generateRobotsTxt"`
	Exclude           []string `mapstructure:"exclude" json:"exclude"`
}

// LoadSitemapConfig returns the statically defined configuration.
func LoadSitemapConfig() (SiteSitemapConfig, error) {
	return NewSitemapConfig(defaultSiteURL, defaultGenerateRobotsTxt, defaultExclude)
}

// NewSitemapConfig builds a validated record. A nil exclude list becomes
// an empty one and the patterns are copied verbatim.
func NewSitemapConfig(siteURL string, generateRobotsTxt bool, exclude []string) (SiteSitemapConfig, error) {
	cfg := SiteSitemapConfig{
		SiteURL:           siteURL,
		GenerateRobotsTxt: generateRobotsTxt,
		Exclude:           append([]string{}, exclude...),
	}
	if err := cfg.Validate(); err != nil {
		return SiteSitemapConfig{}, err
	}
	return cfg, nil
}

// Validate checks that SiteURL is a non-empty absolute URL with a host.
// It is the only check on the record; the other fields always have a
// usable value.
func (c SiteSitemapConfig) Validate() error {
	if c.SiteURL == "" {
		return &ConfigurationError{Field: "siteUrl", Reason: "is required"}
	}
	u, err := url.Parse(c.SiteURL)
	if err != nil {
		return &ConfigurationError{Field: "siteUrl", Value: c.SiteURL, Reason: "is not a valid URL"}
	}
	if !u.IsAbs() || u.Host == "" {
		return &ConfigurationError{Field: "siteUrl", Value: c.SiteURL, Reason: "must be an absolute URL with scheme and host"}
	}
	return nil
}
