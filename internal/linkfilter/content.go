package linkfilter

import (
	"net/url"
	"strings"
)

// nonContentMarkers identify pages that never hold a single piece of media.
var nonContentMarkers = []string{
	"search_query=",
	"/results",
	"accounts.google",
	"google.com/settings",
}

// pathPrefixes are URL paths whose next segment is a content id.
var pathPrefixes = []string{"/shorts/", "/live/"}

// ContentID extracts the stable media id from a URL. It understands
// /watch?v=ID, youtu.be/ID, /shorts/ID and /live/ID and reports false for
// anything else.
func ContentID(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host == "youtu.be" || strings.HasSuffix(host, ".youtu.be") {
		return validID(firstSegment(u.Path))
	}
	if u.Path == "/watch" || u.Path == "/watch/" {
		return validID(u.Query().Get("v"))
	}
	for _, prefix := range pathPrefixes {
		if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
			return validID(firstSegment(rest))
		}
	}
	return "", false
}

// IsNonContent reports whether rawURL is a known non-content page.
func IsNonContent(rawURL string) bool {
	for _, marker := range nonContentMarkers {
		if strings.Contains(rawURL, marker) {
			return true
		}
	}
	return false
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}

// validID accepts ids made of the URL-safe base64 alphabet.
func validID(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", false
		}
	}
	return id, true
}
