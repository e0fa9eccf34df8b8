package linkfilter

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// Normalizer filters and groups raw links.
type Normalizer struct {
	domains map[string]bool
	ignore  []glob.Glob
	logger  *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// New creates a Normalizer accepting links on contentDomains and hiding
// groups whose name matches any of ignoreGroups (glob syntax).
func New(contentDomains, ignoreGroups []string, opts ...Option) (*Normalizer, error) {
	n := &Normalizer{
		domains: make(map[string]bool, len(contentDomains)),
		logger:  slog.Default(),
	}
	for _, d := range contentDomains {
		n.domains[registrableDomain(d)] = true
	}
	for _, pattern := range ignoreGroups {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore_groups pattern %q: %w", pattern, err)
		}
		n.ignore = append(n.ignore, g)
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Normalize filters links decoded from one browser and groups them by
// label. Groups are ordered by their first link; within a group the first
// link per content id wins. Empty and ignored groups are omitted.
func (n *Normalizer) Normalize(browser model.BrowserKind, links []model.RawLink) []model.LinkGroup {
	var (
		order  []string
		groups = make(map[string]*model.LinkGroup)
	)

	for _, link := range links {
		label := CleanLabel(link.Group)
		if label == "" || n.Ignored(label) {
			continue
		}
		id, ok := n.Accept(link.URL)
		if !ok {
			n.logger.Debug("dropping non-content link", "group", label, "url", link.URL)
			continue
		}

		g, exists := groups[label]
		if !exists {
			g = model.NewLinkGroup(label, browser)
			groups[label] = g
			order = append(order, label)
		}
		if !g.Add(id, model.RawLink{URL: link.URL, Group: label, Source: link.Source}) {
			n.logger.Debug("dropping duplicate link", "group", label, "content_id", id)
		}
	}

	out := make([]model.LinkGroup, 0, len(order))
	for _, label := range order {
		out = append(out, *groups[label])
	}
	return out
}

// Accept returns the content id of rawURL when the URL is media content on
// a configured domain.
func (n *Normalizer) Accept(rawURL string) (string, bool) {
	if IsNonContent(rawURL) {
		return "", false
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !n.domains[registrableDomain(u.Hostname())] {
		return "", false
	}
	return ContentID(rawURL)
}

// Ignored reports whether a group name matches an ignore pattern.
func (n *Normalizer) Ignored(name string) bool {
	for _, g := range n.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Merge combines groups from several profiles. Groups with the same name
// and browser are joined, keeping the first link per content id; groups
// from different browsers stay separate.
func Merge(sets ...[]model.LinkGroup) []model.LinkGroup {
	type key struct {
		browser model.BrowserKind
		name    string
	}
	var order []key
	merged := make(map[key]*model.LinkGroup)

	for _, set := range sets {
		for _, g := range set {
			k := key{g.Browser, g.Name}
			dst, ok := merged[k]
			if !ok {
				dst = model.NewLinkGroup(g.Name, g.Browser)
				merged[k] = dst
				order = append(order, k)
			}
			for _, link := range g.Links {
				id, ok := ContentID(link.URL)
				if !ok {
					id = link.URL
				}
				dst.Add(id, link)
			}
		}
	}

	out := make([]model.LinkGroup, 0, len(order))
	for _, k := range order {
		out = append(out, *merged[k])
	}
	return out
}

// CleanLabel trims a group label and puts it in Unicode NFC form, so a
// name typed on different systems compares equal.
func CleanLabel(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}

// registrableDomain returns the eTLD+1 of host, or host itself when it has
// none (IP addresses, bare public suffixes).
func registrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}
