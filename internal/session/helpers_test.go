package session

import (
	"bytes"
	"encoding/binary"
)

// lz4Literals encodes src as a single LZ4 block made of one literal run.
func lz4Literals(src []byte) []byte {
	var buf bytes.Buffer
	n := len(src)
	if n < 15 {
		buf.WriteByte(byte(n << 4))
	} else {
		buf.WriteByte(0xF0)
		rest := n - 15
		for rest >= 255 {
			buf.WriteByte(255)
			rest -= 255
		}
		buf.WriteByte(byte(rest))
	}
	buf.Write(src)
	return buf.Bytes()
}

// mozLZ4File wraps a block in the jsonlz4 container.
func mozLZ4File(size int, block []byte) []byte {
	out := []byte(mozLZ4Magic)
	out = binary.LittleEndian.AppendUint32(out, uint32(size))
	return append(out, block...)
}

// encodeSession builds a jsonlz4 file holding doc.
func encodeSession(doc string) []byte {
	return mozLZ4File(len(doc), lz4Literals([]byte(doc)))
}

// roadTripSession has one named group with five tabs: three distinct
// videos, one duplicate of the first by video id, and a search page.
// One tab outside any group must not be emitted.
const roadTripSession = `{
  "windows": [
    {
      "groups": [
        {"id": "g1", "name": "Road Trip", "color": "blue"},
        {"id": "g2", "title": ""}
      ],
      "tabs": [
        {"groupId": "g1", "index": 1, "entries": [{"url": "https://www.youtube.com/watch?v=aaaaaaaaaaa"}]},
        {"groupId": "g1", "index": 2, "entries": [{"url": "https://example.com/"}, {"url": "https://youtu.be/bbbbbbbbbbb"}]},
        {"groupId": "g1", "index": 1, "entries": [{"url": "https://www.youtube.com/watch?v=aaaaaaaaaaa&utm_source=share&t=10"}]},
        {"groupId": "g1", "index": 1, "entries": [{"url": "https://www.youtube.com/results?search_query=road+trip"}]},
        {"groupId": "g1", "index": 1, "entries": [{"url": "https://www.youtube.com/shorts/ccccccccccc"}]},
        {"index": 1, "entries": [{"url": "https://www.youtube.com/watch?v=ungrouped00"}]},
        {"groupId": "g2", "index": 1, "entries": [{"url": "https://www.youtube.com/watch?v=ddddddddddd"}]}
      ]
    }
  ]
}`
