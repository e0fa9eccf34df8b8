package postprocess

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// UntitledDir is used when a group name has no usable characters.
const UntitledDir = "Untitled"

// cleanupPatterns match bracketed upload noise in titles.
var cleanupPatterns = bracketed(
	`official\s*video`,
	`official\s*music\s*video`,
	`official\s*audio`,
	`official\s*lyric\s*video`,
	`video`,
	`audio`,
	`lyrics`,
	`visualizer`,
	`hq`,
	`hd`,
	`4k`,
	`new\s*single`,
	`live\s*@.*?`,
	`with\s*vocals`,
)

var (
	trailingSeparator = regexp.MustCompile(`\s*[-|]\s*$`)
	whitespace        = regexp.MustCompile(`\s+`)
)

func bracketed(words ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`(?i)\s*[({\[]\s*`+w+`\s*[)}\]]`))
	}
	return out
}

// Sanitize removes bracketed noise, trailing separators and repeated
// whitespace from a title.
//
//	Sanitize("Song - Artist (Official Video) [HD]") == "Song - Artist"
func Sanitize(title string) string {
	if title == "" {
		return ""
	}

	s := title
	for _, re := range cleanupPatterns {
		s = re.ReplaceAllString(s, "")
	}
	s = trailingSeparator.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	return strings.ReplaceAll(s, "..", ".")
}

// SafeDirName reduces a group name to letters, digits and spaces so it can
// be used as a directory name on every platform.
func SafeDirName(name string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		return s
	}
	return UntitledDir
}
