package session

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"
	"github.com/tidwall/gjson"

	"github.com/nao1215/tabgroupdl/internal/model"
)

const (
	// mozLZ4Magic starts every jsonlz4 file.
	mozLZ4Magic = "mozLz40\x00"

	// mozLZ4HeaderSize is the magic plus the uint32 size hint.
	mozLZ4HeaderSize = len(mozLZ4Magic) + 4

	// maxDecompressedSize caps the size hint. Real session stores are a
	// few megabytes; anything this large is a corrupt header.
	maxDecompressedSize = 256 << 20

	// UntitledGroup labels tab groups the user never named.
	UntitledGroup = "Untitled Group"
)

// DecompressMozLZ4 returns the payload of a jsonlz4 file.
func DecompressMozLZ4(data []byte) ([]byte, error) {
	if len(data) < mozLZ4HeaderSize {
		return nil, fmt.Errorf("%w: jsonlz4 file is %d bytes", model.ErrDecodeCorrupt, len(data))
	}
	if !bytes.Equal(data[:len(mozLZ4Magic)], []byte(mozLZ4Magic)) {
		return nil, fmt.Errorf("%w: missing mozLz40 magic", model.ErrDecodeCorrupt)
	}

	size := binary.LittleEndian.Uint32(data[len(mozLZ4Magic):mozLZ4HeaderSize])
	if size == 0 || size > maxDecompressedSize {
		return nil, fmt.Errorf("%w: implausible decompressed size %d", model.ErrDecodeCorrupt, size)
	}

	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data[mozLZ4HeaderSize:], dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 block: %w", model.ErrDecodeCorrupt, err)
	}
	if n != int(size) {
		return nil, fmt.Errorf("%w: decompressed %d bytes, header says %d", model.ErrDecodeCorrupt, n, size)
	}
	return dst, nil
}

// DecodeMozLZ4 decodes a Firefox jsonlz4 session store and returns the
// active URL of every tab that belongs to a tab group, in window then
// tab order.
func DecodeMozLZ4(data []byte) ([]model.RawLink, error) {
	doc, err := DecompressMozLZ4(data)
	if err != nil {
		return nil, err
	}
	return decodeFirefoxSession(doc)
}

func decodeFirefoxSession(doc []byte) ([]model.RawLink, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("%w: session payload is not valid JSON", model.ErrDecodeCorrupt)
	}

	links := make([]model.RawLink, 0)
	for _, window := range gjson.GetBytes(doc, "windows").Array() {
		titles := groupTitles(window.Get("groups"))
		if len(titles) == 0 {
			continue
		}

		for _, tab := range window.Get("tabs").Array() {
			label, ok := titles[tab.Get("groupId").String()]
			if !ok {
				continue
			}
			url := activeEntryURL(tab)
			if url == "" {
				continue
			}
			links = append(links, model.RawLink{
				URL:    url,
				Group:  label,
				Source: model.SourceSession,
			})
		}
	}
	return links, nil
}

// groupTitles maps tab group ids to their display titles.
func groupTitles(groups gjson.Result) map[string]string {
	titles := make(map[string]string)
	for _, g := range groups.Array() {
		id := g.Get("id").String()
		if id == "" {
			continue
		}
		title := g.Get("title").String()
		if title == "" {
			title = g.Get("name").String()
		}
		if title == "" {
			title = UntitledGroup
		}
		titles[id] = title
	}
	return titles
}

// activeEntryURL returns the URL of the history entry the tab shows.
// "index" is 1-based and defaults to the first entry.
func activeEntryURL(tab gjson.Result) string {
	entries := tab.Get("entries").Array()
	if len(entries) == 0 {
		return ""
	}
	idx := 1
	if v := tab.Get("index"); v.Exists() {
		idx = int(v.Int())
	}
	if idx < 1 || idx > len(entries) {
		return ""
	}
	return entries[idx-1].Get("url").String()
}
