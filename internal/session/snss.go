package session

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// urlPattern matches a URL-shaped byte run: a scheme followed by bytes that
// are neither control characters nor common delimiters.
var urlPattern = regexp.MustCompile("https?://[^\\x00-\\x20\\x7f\"<>|\\\\^`{}]+")

// HostPattern builds a pattern accepting URLs on any of domains or their
// subdomains. It returns nil when domains is empty.
func HostPattern(domains []string) *regexp.Regexp {
	if len(domains) == 0 {
		return nil
	}
	quoted := make([]string, len(domains))
	for i, d := range domains {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(d)))
	}
	return regexp.MustCompile(`(?i)^https?://([a-z0-9-]+\.)*(` + strings.Join(quoted, "|") + `)(:\d+)?(/|$)`)
}

// ScanSNSS extracts URLs from a Chrome SNSS session file.
//
// Chrome appends navigation records as the user browses, so the newest
// URLs are at the end of the stream; matches are returned newest first.
// Only URLs accepted by hosts are kept (nil keeps everything) and exact
// duplicates are dropped. Bytes that are not valid UTF-8 end a URL; they are
// usually the length field of the next record. Every link is labelled
// model.ActiveSessionGroup.
//
// ScanSNSS never fails; unreadable input yields an empty slice.
func ScanSNSS(data []byte, hosts *regexp.Regexp) []model.RawLink {
	matches := urlPattern.FindAll(blankInvalidUTF8(data), -1)
	links := make([]model.RawLink, 0)
	seen := make(map[string]struct{})

	for i := len(matches) - 1; i >= 0; i-- {
		url := string(matches[i])
		if hosts != nil && !hosts.MatchString(url) {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		links = append(links, model.RawLink{
			URL:    url,
			Group:  model.ActiveSessionGroup,
			Source: model.SourceSession,
		})
	}
	return links
}

// blankInvalidUTF8 returns a copy of b with every byte that is not part of
// a valid UTF-8 sequence replaced by NUL. The regexp package would
// otherwise match such bytes as U+FFFD.
func blankInvalidUTF8(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	for i := 0; i < len(out); {
		r, size := utf8.DecodeRune(out[i:])
		if r == utf8.RuneError && size <= 1 {
			out[i] = 0
			i++
			continue
		}
		i += size
	}
	return out
}
