package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSitemapConfig(t *testing.T) {
	cfg, err := LoadSitemapConfig()
	require.NoError(t, err)

	assert.Equal(t, SiteSitemapConfig{
		SiteURL:           "https://docs.publica.com",
		GenerateRobotsTxt: true,
		Exclude:           []string{"*/_meta.json"},
	}, cfg)
}

func TestLoadSitemapConfig_DoesNotShareExclude(t *testing.T) {
	cfg, err := LoadSitemapConfig()
	require.NoError(t, err)
	cfg.Exclude[0] = "mutated"

	again, err := LoadSitemapConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"*/_meta.json"}, again.Exclude)
}

func TestNewSitemapConfig_SiteURLPreserved(t *testing.T) {
	urls := []string{
		"https://docs.publica.com",
		"https://docs.publica.com/",
		"http://localhost:3000",
		"https://example.com/base/path/",
		"https://EXAMPLE.com/Docs",
		"https://example.com?q=1",
	}
	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			cfg, err := NewSitemapConfig(u, false, nil)
			require.NoError(t, err)
			assert.Equal(t, u, cfg.SiteURL)
		})
	}
}

func TestNewSitemapConfig_ExcludeDefaultsToEmpty(t *testing.T) {
	cfg, err := NewSitemapConfig("https://docs.publica.com", false, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.Exclude)
	assert.Empty(t, cfg.Exclude)
	assert.False(t, cfg.GenerateRobotsTxt)
}

func TestNewSitemapConfig_ExcludePreservedLiterally(t *testing.T) {
	patterns := []string{"*/_meta.json"}
	cfg, err := NewSitemapConfig("https://docs.publica.com", true, patterns)
	require.NoError(t, err)
	assert.Equal(t, []string{"*/_meta.json"}, cfg.Exclude)
	assert.True(t, cfg.GenerateRobotsTxt)

	patterns[0] = "changed"
	assert.Equal(t, "*/_meta.json", cfg.Exclude[0])
}

func TestNewSitemapConfig_InvalidSiteURL(t *testing.T) {
	tests := []struct {
		name    string
		siteURL string
	}{
		{"empty", ""},
		{"relative", "/docs"},
		{"no scheme", "docs.publica.com"},
		{"no host", "https://"},
		{"opaque", "mailto:docs@publica.com"},
		{"malformed", "https://docs publica.com:abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSitemapConfig(tt.siteURL, true, nil)
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "siteUrl", cfgErr.Field)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfigurationError_Message(t *testing.T) {
	err := &ConfigurationError{Field: "siteUrl", Reason: "is required"}
	assert.Equal(t, "config: siteUrl: is required", err.Error())

	err = &ConfigurationError{Field: "siteUrl", Value: "/docs", Reason: "must be absolute"}
	assert.Equal(t, `config: siteUrl "/docs": must be absolute`, err.Error())
}
