package backend

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// rule maps stderr markers (matched case-insensitively) onto a class.
type rule struct {
	class   model.OutcomeClass
	markers []string
}

// rules are checked in order; the first match wins.
var rules = []rule{
	{
		// Cookie store unreadable: the browser is open or the store encrypted.
		// The next rung uses another browser.
		class:   model.ClassAuthRequired,
		markers: []string{"failed to decrypt", "database is locked", "cookies database"},
	},
	{
		class:   model.ClassForbidden,
		markers: []string{"http error 403", "403 forbidden", "forbidden"},
	},
	{
		class: model.ClassAuthRequired,
		markers: []string{
			"sign in to confirm",
			"sign in if you've been granted access",
			"login required",
			"members-only",
			"join this channel",
			"private video",
			"age-restricted",
			"inappropriate for some users",
			"use --cookies",
		},
	},
	{
		// Signature or challenge solving failures surface as missing formats
		// but usually clear up with a signed-in session.
		class: model.ClassForbidden,
		markers: []string{
			"signature solving failed",
			"challenge solving failed",
			"only images are available",
			"requested format is not available",
		},
	},
	{
		class: model.ClassUnsupported,
		markers: []string{
			"unsupported url",
			"is not a valid url",
			"no video formats found",
			"video unavailable",
			"this video has been removed",
			"this live event will begin",
			// Conversion cannot succeed on any rung without ffmpeg.
			"ffmpeg not found",
		},
	},
}

// Classify maps the process error and stderr of a failed run onto an
// outcome class and a short message. Only the "ERROR:" lines are matched,
// since yt-dlp also warns about failures it recovered from; without any
// the whole stderr is used. Anything not recognized is transient.
func Classify(stderr string, runErr error) (model.OutcomeClass, string) {
	if errors.Is(runErr, exec.ErrNotFound) {
		return model.ClassUnsupported, "yt-dlp executable not found"
	}

	msg := errorLine(stderr)
	if msg == "" && runErr != nil {
		msg = runErr.Error()
	}

	subject := errorLines(stderr)
	if subject == "" {
		subject = stderr
	}
	lower := strings.ToLower(subject)
	for _, r := range rules {
		for _, m := range r.markers {
			if strings.Contains(lower, m) {
				return r.class, msg
			}
		}
	}
	return model.ClassTransient, msg
}

// errorLines returns every "ERROR:" line of stderr joined by newlines.
func errorLines(stderr string) string {
	var lines []string
	for line := range strings.SplitSeq(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// errorLine returns the last "ERROR:" line of stderr, or its last
// non-empty line.
func errorLine(stderr string) string {
	var last string
	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "ERROR:"); ok {
			return strings.TrimSpace(rest)
		}
		if last == "" {
			last = line
		}
	}
	return last
}
