package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/romangod6/sitemapgen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestCountSections(t *testing.T) {
	urls := []models.URL{
		{Loc: "https://docs.publica.com"},
		{Loc: "https://docs.publica.com/docs/intro"},
		{Loc: "https://docs.publica.com/docs/setup"},
		{Loc: "https://docs.publica.com/api"},
	}

	assert.Equal(t, []section{
		{Name: "/docs", Count: 2},
		{Name: "/", Count: 1},
		{Name: "/api", Count: 1},
	}, countSections(urls))
}

func TestInspectPage(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><head>
<title> Intro </title>
<link rel="canonical" href="https://docs.publica.com/docs/intro">
<meta name="robots" content="NoIndex, follow">
</head><body></body></html>`))
	require.NoError(t, err)

	meta := inspectPage(doc)
	assert.Equal(t, "Intro", meta.Title)
	assert.Equal(t, "https://docs.publica.com/docs/intro", meta.Canonical)
	assert.True(t, meta.NoIndex)
}

func TestLoadURLs_LocalIndex(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "sitemap.xml")
	require.NoError(t, os.WriteFile(index, []byte(`<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
<sitemap><loc>https://docs.invalid/sitemap-0.xml</loc></sitemap>
</sitemapindex>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sitemap-0.xml"), []byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
<url><loc>https://docs.invalid</loc></url>
<url><loc>https://docs.invalid/docs/intro</loc></url>
</urlset>`), 0644))

	urls, err := loadURLs(index)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, "https://docs.invalid/docs/intro", urls[1].Loc)
}

func TestResolveChild(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "sitemap.xml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sitemap-0.xml"), []byte("<urlset/>"), 0644))

	assert.Equal(t, filepath.Join(dir, "sitemap-0.xml"), resolveChild(index, "https://docs.invalid/sitemap-0.xml"))
	assert.Equal(t, "https://docs.invalid/sitemap-1.xml", resolveChild(index, "https://docs.invalid/sitemap-1.xml"))
	assert.Equal(t, "https://docs.invalid/sitemap-0.xml", resolveChild("https://docs.invalid/sitemap.xml", "https://docs.invalid/sitemap-0.xml"))
}
