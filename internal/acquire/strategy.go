package acquire

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// Strategy is one rung of the authentication ladder.
type Strategy struct {
	// Auth is the authentication context of the attempt.
	Auth model.AuthContext

	// Profile is the browser profile whose cookies are used.
	// It is nil for AuthNone.
	Profile *model.Profile

	// PlayerClients selects the host player clients the backend impersonates.
	// Empty means the backend default.
	PlayerClients []string
}

// String returns a short description for logs.
func (s Strategy) String() string {
	desc := string(s.Auth)
	if s.Profile != nil {
		desc = fmt.Sprintf("%s (%s)", s.Auth, s.Profile.Root)
	}
	if len(s.PlayerClients) > 0 {
		desc += " [" + strings.Join(s.PlayerClients, ",") + "]"
	}
	return desc
}

// sameContext reports whether two rungs authenticate the same way.
func (s Strategy) sameContext(other Strategy) bool {
	if s.Auth != other.Auth {
		return false
	}
	if s.Profile == nil || other.Profile == nil {
		return s.Profile == other.Profile
	}
	return s.Profile.Root == other.Profile.Root
}

var (
	// anonymousClients are used for the cookie-less rung.
	anonymousClients = []string{"default", "-web_safari"}

	// cookieClients are tried in order for every cookie rung. Signature
	// solving and image-only responses often differ between clients.
	cookieClients = [][]string{
		{"tv", "web"},
		{"web"},
		{"ios"},
	}
)

// DefaultLadder returns the standard ladder: anonymous first, then the
// cookies of the first Firefox profile, then the first Chrome profile.
// Each cookie context gets one rung per player client set. Browsers without
// a profile get no rung. Profiles are expected newest first, as returned by
// the browser locator.
func DefaultLadder(profiles []model.Profile) []Strategy {
	ladder := []Strategy{{Auth: model.AuthNone, PlayerClients: slices.Clone(anonymousClients)}}

	for _, kind := range []model.BrowserKind{model.BrowserFirefox, model.BrowserChrome} {
		for i := range profiles {
			if profiles[i].Kind != kind {
				continue
			}
			p := profiles[i]
			for _, clients := range cookieClients {
				ladder = append(ladder, Strategy{
					Auth:          model.AuthForBrowser(kind),
					Profile:       &p,
					PlayerClients: slices.Clone(clients),
				})
			}
			break
		}
	}
	return ladder
}
