package browser

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// profileRoot is a directory that contains profile directories.
type profileRoot struct {
	path    string
	variant model.InstallVariant
}

// Locator finds browser profiles.
type Locator struct {
	env    Env
	logger *slog.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// NewLocator creates a Locator for env.
func NewLocator(env Env, opts ...Option) *Locator {
	l := &Locator{
		env:    env,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Find returns every profile of kind, newest first.
// It returns an empty slice when none exist.
func (l *Locator) Find(kind model.BrowserKind) []model.Profile {
	profiles := make([]model.Profile, 0)
	seen := make(map[string]bool)

	for _, root := range l.roots(kind) {
		info, err := os.Stat(root.path)
		if err != nil || !info.IsDir() {
			continue
		}
		l.logger.Debug("checking profile root", "browser", kind, "root", root.path, "variant", root.variant)

		var found []model.Profile
		switch kind {
		case model.BrowserFirefox:
			found = firefoxProfiles(root)
		case model.BrowserChrome:
			found = chromeProfiles(root)
		}
		for _, p := range found {
			if seen[p.Root] {
				continue
			}
			seen[p.Root] = true
			profiles = append(profiles, p)
		}
	}

	sortNewestFirst(profiles)
	if len(profiles) == 0 {
		l.logger.Debug("no profiles found", "browser", kind)
	}
	return profiles
}

// FindAll runs Find for each kind and concatenates the results in kind order.
func (l *Locator) FindAll(kinds []model.BrowserKind) []model.Profile {
	all := make([]model.Profile, 0)
	for _, kind := range kinds {
		all = append(all, l.Find(kind)...)
	}
	return all
}

// roots returns the candidate profile roots for kind in search order.
func (l *Locator) roots(kind model.BrowserKind) []profileRoot {
	home := l.env.Home
	switch kind {
	case model.BrowserFirefox:
		switch l.env.GOOS {
		case "windows":
			if l.env.AppData == "" {
				return nil
			}
			return []profileRoot{
				{filepath.Join(l.env.AppData, "Mozilla", "Firefox", "Profiles"), model.VariantNative},
			}
		case "darwin":
			return []profileRoot{
				{filepath.Join(home, "Library", "Application Support", "Firefox", "Profiles"), model.VariantNative},
			}
		default:
			return []profileRoot{
				{filepath.Join(home, ".mozilla", "firefox"), model.VariantNative},
				{filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox"), model.VariantSnap},
				{filepath.Join(home, ".var", "app", "org.mozilla.firefox", ".mozilla", "firefox"), model.VariantFlatpak},
			}
		}
	case model.BrowserChrome:
		switch l.env.GOOS {
		case "windows":
			if l.env.LocalAppData == "" {
				return nil
			}
			return []profileRoot{
				{filepath.Join(l.env.LocalAppData, "Google", "Chrome", "User Data"), model.VariantNative},
			}
		case "darwin":
			return []profileRoot{
				{filepath.Join(home, "Library", "Application Support", "Google", "Chrome"), model.VariantNative},
			}
		default:
			configHome := l.env.ConfigHome
			if configHome == "" {
				configHome = filepath.Join(home, ".config")
			}
			return []profileRoot{
				{filepath.Join(configHome, "google-chrome"), model.VariantNative},
				{filepath.Join(configHome, "chromium"), model.VariantAlternate},
				{filepath.Join(home, "snap", "chromium", "common", "chromium"), model.VariantSnap},
				{filepath.Join(home, ".var", "app", "com.google.Chrome", "config", "google-chrome"), model.VariantFlatpak},
			}
		}
	}
	return nil
}

// firefoxProfiles lists "<salt>.<name>" directories under root.
func firefoxProfiles(root profileRoot) []model.Profile {
	matches, err := filepath.Glob(filepath.Join(root.path, "*.*"))
	if err != nil {
		return nil
	}
	profiles := make([]model.Profile, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}
		profiles = append(profiles, model.Profile{
			Kind:    model.BrowserFirefox,
			Root:    m,
			Variant: root.variant,
			Name:    filepath.Base(m),
		})
	}
	return profiles
}

// chromeProfiles lists "Default" and "Profile N" directories under root.
func chromeProfiles(root profileRoot) []model.Profile {
	entries, err := os.ReadDir(root.path)
	if err != nil {
		return nil
	}
	profiles := make([]model.Profile, 0)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if name != "Default" && !strings.HasPrefix(name, "Profile ") {
			continue
		}
		profiles = append(profiles, model.Profile{
			Kind:    model.BrowserChrome,
			Root:    filepath.Join(root.path, name),
			Variant: root.variant,
			Name:    name,
		})
	}
	return profiles
}

// sortNewestFirst orders profiles by last activity, newest first.
// Ties keep search order.
func sortNewestFirst(profiles []model.Profile) {
	mtimes := make(map[string]time.Time, len(profiles))
	for _, p := range profiles {
		mtimes[p.Root] = activityTime(p)
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return mtimes[profiles[i].Root].After(mtimes[profiles[j].Root])
	})
}

// activityTime approximates when a profile was last used. Chrome touches
// Preferences on every start; Firefox profile directories change often
// enough that their own mtime is a good proxy.
func activityTime(p model.Profile) time.Time {
	path := p.Root
	if p.Kind == model.BrowserChrome {
		path = filepath.Join(p.Root, "Preferences")
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
