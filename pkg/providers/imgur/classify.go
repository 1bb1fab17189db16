// Package imgur knows about the different shapes of imgur URLs, and how to
// turn each of them into the URL of a single image on imgur's CDN.
package imgur

import (
	"net/url"
	"regexp"
	"strings"
)

// URLKind is the shape of an imgur URL.
type URLKind int

const (
	// Unknown is a URL that isn't recognizably an imgur URL.
	Unknown URLKind = iota
	// Image is a direct link to an image on i.imgur.com.
	Image
	// Post is a link to the page for a single image, like https://imgur.com/abc123.
	Post
	// Album is a link to an album or gallery, like https://imgur.com/a/abc123.
	Album
)

const cdnHost = "i.imgur.com"
const siteHost = "imgur.com"

var albumPathRegex = regexp.MustCompile(`/(?:a|gallery)/`)

func (kind URLKind) String() string {
	switch kind {
	case Image:
		return "image"
	case Post:
		return "post"
	case Album:
		return "album"
	default:
		return "unknown"
	}
}

// Classify works out what kind of imgur URL `rawURL` is.  A URL on the CDN
// host is always an Image, even if the path looks like an album.  Otherwise
// any URL with an `/a/` or `/gallery/` path segment is an Album, and any other
// URL on imgur.com is a Post.
func Classify(rawURL string) URLKind {
	host, path := splitURL(rawURL)

	switch {
	case isHost(host, cdnHost):
		return Image
	case albumPathRegex.MatchString(path):
		return Album
	case isHost(host, siteHost):
		return Post
	default:
		return Unknown
	}
}

// isHost returns true if `host` is `domain` or a subdomain of it.
func isHost(host string, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// splitURL returns the lower-cased host and the path of a URL.  URLs without
// a scheme (like "i.imgur.com/abc.png") are treated as if they started with "//".
func splitURL(rawURL string) (host string, path string) {
	rawURL = strings.TrimSpace(rawURL)

	parsed, err := url.Parse(rawURL)
	if err == nil && parsed.Host == "" && !strings.HasPrefix(rawURL, "/") {
		parsed, err = url.Parse("//" + rawURL)
	}
	if err != nil {
		return "", ""
	}

	return strings.ToLower(parsed.Hostname()), parsed.Path
}
