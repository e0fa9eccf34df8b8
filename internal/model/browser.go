package model

import "strings"

// BrowserKind identifies which browser family a profile belongs to.
// The two families store session state in mutually incompatible formats.
type BrowserKind string

const (
	// BrowserFirefox is the Firefox family (jsonlz4 session store, places.sqlite).
	BrowserFirefox BrowserKind = "firefox"
	// BrowserChrome is the Chrome family (SNSS session files, Bookmarks JSON).
	BrowserChrome BrowserKind = "chrome"
)

// AllBrowsers lists the supported browser kinds in strategy ladder order.
var AllBrowsers = []BrowserKind{BrowserFirefox, BrowserChrome}

// String returns the lowercase identifier of the browser kind.
func (k BrowserKind) String() string {
	return string(k)
}

// DisplayName returns the product name shown to users.
func (k BrowserKind) DisplayName() string {
	switch k {
	case BrowserFirefox:
		return "Mozilla Firefox"
	case BrowserChrome:
		return "Google Chrome"
	default:
		return "Unknown Browser"
	}
}

// IsValid reports whether k is a supported browser kind.
func (k BrowserKind) IsValid() bool {
	return k == BrowserFirefox || k == BrowserChrome
}

// ParseBrowserKind converts a user supplied name into a BrowserKind.
// It accepts a few common aliases; unknown names return false.
func ParseBrowserKind(s string) (BrowserKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "firefox", "ff", "mozilla":
		return BrowserFirefox, true
	case "chrome", "google-chrome", "chromium":
		return BrowserChrome, true
	default:
		return "", false
	}
}

// InstallVariant describes how the browser was installed, which decides
// where its profile directory lives.
type InstallVariant string

const (
	// VariantNative is a regular system or user installation.
	VariantNative InstallVariant = "native"
	// VariantSnap is an Ubuntu Snap package (sandboxed home under ~/snap).
	VariantSnap InstallVariant = "snap"
	// VariantFlatpak is a Flatpak package (sandboxed home under ~/.var/app).
	VariantFlatpak InstallVariant = "flatpak"
	// VariantAlternate is an alternate user-data root such as Chromium's.
	VariantAlternate InstallVariant = "alternate"
)

// Profile is a browser profile directory found on disk.
// It is discovered at startup and never modified afterwards; the directory
// itself is only ever read through a snapshot copy.
type Profile struct {
	// Kind is the browser family owning this profile.
	Kind BrowserKind `json:"kind"`

	// Root is the absolute path of the profile directory.
	Root string `json:"root"`

	// Variant is the installation variant the profile was found under.
	Variant InstallVariant `json:"variant"`

	// Name is the profile directory's base name (e.g. "Default", "abcd.default-release").
	Name string `json:"name"`
}

// String returns a short human readable identifier for logs.
func (p Profile) String() string {
	return string(p.Kind) + ":" + p.Name + " (" + string(p.Variant) + ")"
}
