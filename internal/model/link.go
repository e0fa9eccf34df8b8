package model

// LinkSource records which kind of browser state a link was recovered from.
type LinkSource string

const (
	// SourceSession marks links recovered from open-tab session state.
	SourceSession LinkSource = "session"
	// SourceBookmark marks links recovered from a bookmark tree.
	SourceBookmark LinkSource = "bookmark"
)

// ActiveSessionGroup is the label given to loose open tabs recovered from a
// session file that carries no tab-group structure.
const ActiveSessionGroup = "[Active Session] Open Tabs"

// RawLink is a URL as produced by a decoder, before any filtering.
// Decoders create RawLinks and nothing mutates them afterwards.
type RawLink struct {
	// URL is the link exactly as stored by the browser.
	URL string `json:"url"`

	// Group is the user-defined label (tab group or bookmark folder).
	// Empty means the link had no label.
	Group string `json:"group,omitempty"`

	// Source is the kind of state the link came from.
	Source LinkSource `json:"source"`
}

// LinkGroup is a named, insertion-ordered set of links.
// Uniqueness is keyed by a caller supplied normalized key (the content id),
// so two links pointing at the same content can never both be present.
type LinkGroup struct {
	// Name is the group label shown to the user.
	Name string `json:"name"`

	// Browser is the browser whose state produced the group. Groups with the
	// same name from different browsers are separate groups.
	Browser BrowserKind `json:"browser"`

	// Links holds the group's entries in first-seen order.
	Links []RawLink `json:"links"`

	// keys holds the normalized key of every entry in Links.
	keys map[string]struct{}
}

// NewLinkGroup creates an empty group.
func NewLinkGroup(name string, browser BrowserKind) *LinkGroup {
	return &LinkGroup{
		Name:    name,
		Browser: browser,
		Links:   make([]RawLink, 0),
		keys:    make(map[string]struct{}),
	}
}

// Add appends link under key unless the key is already present.
// It reports whether the link was added.
func (g *LinkGroup) Add(key string, link RawLink) bool {
	if g.keys == nil {
		g.keys = make(map[string]struct{})
	}
	if _, ok := g.keys[key]; ok {
		return false
	}
	g.keys[key] = struct{}{}
	g.Links = append(g.Links, link)
	return true
}

// Contains reports whether an entry with key exists.
func (g *LinkGroup) Contains(key string) bool {
	_, ok := g.keys[key]
	return ok
}

// Len returns the number of entries.
func (g *LinkGroup) Len() int {
	return len(g.Links)
}

// URLs returns the entry URLs in order.
func (g *LinkGroup) URLs() []string {
	urls := make([]string, len(g.Links))
	for i, l := range g.Links {
		urls[i] = l.URL
	}
	return urls
}
