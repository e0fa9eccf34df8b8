package session

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nao1215/tabgroupdl/internal/model"
)

const chromeBookmarks = `{
  "checksum": "abc",
  "roots": {
    "bookmark_bar": {
      "children": [
        {"id": "5", "name": "loose", "type": "url", "url": "https://www.youtube.com/watch?v=loose000000"},
        {"id": "6", "name": "Workout", "type": "folder", "children": [
          {"id": "7", "name": "a", "type": "url", "url": "https://www.youtube.com/watch?v=workout0001"},
          {"id": "8", "name": "Warmup", "type": "folder", "children": [
            {"id": "9", "name": "b", "type": "url", "url": "https://youtu.be/warmup00001"}
          ]},
          {"id": "10", "name": "", "type": "folder", "children": [
            {"id": "11", "name": "c", "type": "url", "url": "https://youtu.be/unnamed0001"}
          ]}
        ]}
      ],
      "id": "1", "name": "Bookmarks bar", "type": "folder"
    },
    "other": {
      "children": [
        {"id": "12", "name": "Bookmarks bar", "type": "folder", "children": [
          {"id": "13", "name": "d", "type": "url", "url": "https://youtu.be/fakeroot001"}
        ]}
      ],
      "id": "2", "name": "Other bookmarks", "type": "folder"
    },
    "synced": {"children": [], "id": "3", "name": "Mobile bookmarks", "type": "folder"}
  },
  "sync_transaction_version": "1",
  "version": 1
}`

// TestDecodeChromeBookmarks tests nearest-named-folder labelling.
func TestDecodeChromeBookmarks(t *testing.T) {
	t.Parallel()

	links, err := DecodeChromeBookmarks([]byte(chromeBookmarks))
	if err != nil {
		t.Fatalf("DecodeChromeBookmarks() error = %v", err)
	}

	want := []model.RawLink{
		{URL: "https://www.youtube.com/watch?v=workout0001", Group: "Workout", Source: model.SourceBookmark},
		{URL: "https://youtu.be/warmup00001", Group: "Warmup", Source: model.SourceBookmark},
		{URL: "https://youtu.be/unnamed0001", Group: "Workout", Source: model.SourceBookmark},
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("DecodeChromeBookmarks() =\n%v\nwant\n%v", links, want)
	}
}

// TestDecodeChromeBookmarks_Invalid tests malformed input.
func TestDecodeChromeBookmarks_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "truncated", data: `{"roots": {"bookmark_bar": {`, wantErr: true},
		{name: "binary", data: "\x00\x01\x02", wantErr: true},
		{name: "no roots", data: `{"version": 1}`, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			links, err := DecodeChromeBookmarks([]byte(tt.data))
			if tt.wantErr {
				if !errors.Is(err, model.ErrDecodeCorrupt) {
					t.Errorf("expected ErrDecodeCorrupt, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(links) != 0 {
				t.Errorf("expected no links, got %v", links)
			}
		})
	}
}
