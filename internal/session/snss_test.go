package session

import (
	"math/rand/v2"
	"testing"
)

// TestScanSNSS tests URL recovery from a binary stream.
func TestScanSNSS(t *testing.T) {
	t.Parallel()

	data := []byte("SNSS\x03\x00\x00\x00" +
		"\x10\x00\x06https://www.youtube.com/watch?v=first000000\x00\x00" +
		"\x22\x01https://example.com/page\x00" +
		"\xff\xfe\x00https://youtu.be/second00000\x08\x00" +
		"junk\x01https://www.youtube.com/watch?v=first000000\x00" +
		"\"https://m.youtube.com/watch?v=third000000\"<tail")

	links := ScanSNSS(data, HostPattern([]string{"youtube.com", "youtu.be"}))

	want := []string{
		"https://m.youtube.com/watch?v=third000000",
		"https://www.youtube.com/watch?v=first000000",
		"https://youtu.be/second00000",
	}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d: %v", len(want), len(links), links)
	}
	for i, w := range want {
		if links[i].URL != w {
			t.Errorf("link %d = %q, want %q", i, links[i].URL, w)
		}
		if links[i].Group != "[Active Session] Open Tabs" {
			t.Errorf("link %d group = %q", i, links[i].Group)
		}
	}
}

// TestScanSNSS_HighByteAfterURL tests a record length with the high bit set
// directly after a URL.
func TestScanSNSS_HighByteAfterURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want []string
	}{
		{
			name: "pickle length follows the url",
			data: "\x2c\x00\x00\x00https://www.youtube.com/watch?v=aaaaaaaaaaa\x90\x00\x00\x00",
			want: []string{"https://www.youtube.com/watch?v=aaaaaaaaaaa"},
		},
		{
			name: "invalid byte inside the scheme tail",
			data: "https://\xffwww.youtube.com/watch?v=bbbbbbbbbbb",
			want: nil,
		},
		{
			name: "two urls separated only by a high byte",
			data: "https://youtu.be/ccccccccccc\xe0https://youtu.be/ddddddddddd\x00",
			want: []string{"https://youtu.be/ddddddddddd", "https://youtu.be/ccccccccccc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			links := ScanSNSS([]byte(tt.data), HostPattern([]string{"youtube.com", "youtu.be"}))
			if len(links) != len(tt.want) {
				t.Fatalf("expected %d links, got %v", len(tt.want), links)
			}
			for i, w := range tt.want {
				if links[i].URL != w {
					t.Errorf("link %d = %q, want %q", i, links[i].URL, w)
				}
			}
		})
	}
}

// TestScanSNSS_NilPatternKeepsAll tests scanning without a host filter.
func TestScanSNSS_NilPatternKeepsAll(t *testing.T) {
	t.Parallel()

	links := ScanSNSS([]byte("\x00http://a.example/\x00https://b.example/x\x00"), nil)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %v", links)
	}
	if links[0].URL != "https://b.example/x" {
		t.Errorf("expected newest first, got %q", links[0].URL)
	}
}

// TestScanSNSS_ArbitraryBytes tests that any input is tolerated.
func TestScanSNSS_ArbitraryBytes(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	hosts := HostPattern([]string{"youtube.com"})

	inputs := [][]byte{
		nil,
		{},
		[]byte("https://"),
		[]byte("https://www.youtube.com/watch?v=\xff\xfe"),
		[]byte("http\x00s://youtube.com"),
	}
	for range 200 {
		buf := make([]byte, rng.IntN(4096))
		for i := range buf {
			buf[i] = byte(rng.UintN(256))
		}
		inputs = append(inputs, buf)
	}

	for i, in := range inputs {
		links := ScanSNSS(in, hosts)
		if links == nil {
			t.Fatalf("input %d: expected empty slice, got nil", i)
		}
	}
}

// TestHostPattern tests domain matching.
func TestHostPattern(t *testing.T) {
	t.Parallel()

	p := HostPattern([]string{"youtube.com", "youtu.be"})
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=x", true},
		{"https://music.youtube.com/watch?v=x", true},
		{"http://youtu.be/x", true},
		{"https://YOUTUBE.COM/", true},
		{"https://notyoutube.com/watch?v=x", false},
		{"https://youtube.com.evil.example/watch", false},
		{"https://example.com/?u=https://youtube.com/", false},
	}
	for _, tt := range tests {
		if got := p.MatchString(tt.url); got != tt.want {
			t.Errorf("match(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}

	if HostPattern(nil) != nil {
		t.Error("expected nil pattern for no domains")
	}
}
