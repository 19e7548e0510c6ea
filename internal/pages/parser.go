package pages

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/afero"
	"golang.org/x/net/html"
)

// readNoIndex reports whether the HTML document at p opts out of indexing
// with <meta name="robots" content="noindex">.
func readNoIndex(fs afero.Fs, p string) (bool, error) {
	f, err := fs.Open(p)
	if err != nil {
		return false, err
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return false, err
	}
	return HasNoIndex(goquery.NewDocumentFromNode(root)), nil
}

// HasNoIndex checks every robots meta tag of doc for a noindex directive.
func HasNoIndex(doc *goquery.Document) bool {
	noIndex := false
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "robots") {
			return true
		}
		content, _ := s.Attr("content")
		for _, directive := range strings.Split(content, ",") {
			switch strings.ToLower(strings.TrimSpace(directive)) {
			case "noindex", "none":
				noIndex = true
				return false
			}
		}
		return true
	})
	return noIndex
}
