package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/romangod6/sitemapgen/internal/models"
	"github.com/spf13/pflag"
	"golang.org/x/net/html"
)

func main() {
	source := pflag.StringP("sitemap", "s", "public/sitemap.xml", "sitemap file path or URL")
	samples := pflag.IntP("samples", "n", 3, "number of pages to fetch and inspect")
	pflag.Parse()

	urls, err := loadURLs(*source)
	if err != nil {
		log.Fatalf("Error loading sitemap: %v", err)
	}

	fmt.Printf("Total URLs found: %d\n\n", len(urls))

	fmt.Println("--- Sections ---")
	for _, s := range countSections(urls) {
		fmt.Printf("%-30s %d\n", s.Name, s.Count)
	}

	// Inspect a few pages to confirm they belong in the sitemap
	for i := 0; i < *samples && i < len(urls); i++ {
		pageURL := urls[i].Loc
		fmt.Printf("\n=== Analyzing URL %d/%d: %s ===\n", i+1, *samples, pageURL)

		doc, err := fetchAndParseHTML(pageURL)
		if err != nil {
			log.Printf("Error fetching page: %v", err)
			continue
		}

		meta := inspectPage(doc)
		fmt.Printf("  Title: %s\n", meta.Title)
		if meta.Canonical != "" {
			fmt.Printf("  Canonical: %s\n", meta.Canonical)
			if meta.Canonical != pageURL {
				fmt.Println("  WARNING: canonical differs from sitemap loc")
			}
		}
		if meta.Robots != "" {
			fmt.Printf("  Robots: %s\n", meta.Robots)
		}
		if meta.NoIndex {
			fmt.Println("  WARNING: page is marked noindex but listed in the sitemap")
		}
	}
}

type section struct {
	Name  string
	Count int
}

// countSections groups locations by their first path segment.
func countSections(urls []models.URL) []section {
	counts := make(map[string]int)
	for _, u := range urls {
		name := "/"
		if parsed, err := url.Parse(u.Loc); err == nil {
			trimmed := strings.Trim(parsed.Path, "/")
			if trimmed != "" {
				name = "/" + strings.SplitN(trimmed, "/", 2)[0]
			}
		}
		counts[name]++
	}

	sections := make([]section, 0, len(counts))
	for name, count := range counts {
		sections = append(sections, section{Name: name, Count: count})
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].Count != sections[j].Count {
			return sections[i].Count > sections[j].Count
		}
		return sections[i].Name < sections[j].Name
	})
	return sections
}

type pageMeta struct {
	Title     string
	Canonical string
	Robots    string
	NoIndex   bool
}

func inspectPage(n *html.Node) pageMeta {
	var meta pageMeta
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.Title == "" {
					meta.Title = getNodeText(n)
				}
			case "link":
				if strings.EqualFold(getAttr(n, "rel"), "canonical") {
					meta.Canonical = getAttr(n, "href")
				}
			case "meta":
				if strings.EqualFold(getAttr(n, "name"), "robots") {
					meta.Robots = getAttr(n, "content")
					for _, d := range strings.Split(strings.ToLower(meta.Robots), ",") {
						d = strings.TrimSpace(d)
						if d == "noindex" || d == "none" {
							meta.NoIndex = true
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return meta
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func getNodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var text string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text += getNodeText(c)
	}
	return strings.TrimSpace(text)
}

// loadURLs reads a urlset, or every urlset an index points to.
func loadURLs(source string) ([]models.URL, error) {
	body, err := readSource(source)
	if err != nil {
		return nil, err
	}

	var index models.SitemapIndex
	if err := xml.Unmarshal(body, &index); err == nil {
		var urls []models.URL
		for _, ref := range index.Sitemaps {
			child, err := readSource(resolveChild(source, ref.Loc))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ref.Loc, err)
			}
			var sitemap models.Sitemap
			if err := xml.Unmarshal(child, &sitemap); err != nil {
				return nil, fmt.Errorf("%s: %w", ref.Loc, err)
			}
			urls = append(urls, sitemap.URLs...)
		}
		return urls, nil
	}

	var sitemap models.Sitemap
	if err := xml.Unmarshal(body, &sitemap); err != nil {
		return nil, err
	}
	return sitemap.URLs, nil
}

// resolveChild maps an index entry to the chunk file next to a local
// index, so generated output can be analyzed before it is deployed. The
// live URL is used when the source is remote or the file is missing.
func resolveChild(source, loc string) string {
	if isRemote(source) {
		return loc
	}
	u, err := url.Parse(loc)
	if err != nil || u.Path == "" {
		return loc
	}
	local := filepath.Join(filepath.Dir(source), path.Base(u.Path))
	if _, err := os.Stat(local); err != nil {
		return loc
	}
	return local
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func readSource(source string) ([]byte, error) {
	if !isRemote(source) {
		return os.ReadFile(source)
	}

	resp, err := http.Get(source)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func fetchAndParseHTML(url string) (*html.Node, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	return doc, nil
}
