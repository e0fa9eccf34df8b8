package model

import "testing"

func TestParseBrowserKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   BrowserKind
		wantOK bool
	}{
		{in: "firefox", want: BrowserFirefox, wantOK: true},
		{in: " FF ", want: BrowserFirefox, wantOK: true},
		{in: "Chrome", want: BrowserChrome, wantOK: true},
		{in: "chromium", want: BrowserChrome, wantOK: true},
		{in: "safari", want: "", wantOK: false},
		{in: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseBrowserKind(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseBrowserKind(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBrowserKindDisplayName(t *testing.T) {
	t.Parallel()

	if BrowserFirefox.DisplayName() != "Mozilla Firefox" {
		t.Errorf("unexpected firefox name %q", BrowserFirefox.DisplayName())
	}
	if BrowserChrome.DisplayName() != "Google Chrome" {
		t.Errorf("unexpected chrome name %q", BrowserChrome.DisplayName())
	}
	if BrowserKind("opera").IsValid() {
		t.Error("expected opera to be invalid")
	}
}

func TestProfileString(t *testing.T) {
	t.Parallel()

	p := Profile{Kind: BrowserFirefox, Name: "abcd.default-release", Variant: VariantSnap}
	if got := p.String(); got != "firefox:abcd.default-release (snap)" {
		t.Errorf("unexpected profile string %q", got)
	}
}
