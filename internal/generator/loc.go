package generator

import (
	"net/url"
	"path"
	"strings"
)

// Loc joins the site URL and a route into an absolute location. The site
// URL's trailing slash is ignored; trailingSlash appends one to routes
// without an extension.
func Loc(siteURL, route string, trailingSlash bool) string {
	base := strings.TrimRight(siteURL, "/")
	if route == "" || route == "/" {
		if trailingSlash {
			return base + "/"
		}
		return base
	}

	escaped := (&url.URL{Path: route}).EscapedPath()
	if trailingSlash && path.Ext(route) == "" && !strings.HasSuffix(escaped, "/") {
		escaped += "/"
	}
	return base + escaped
}
