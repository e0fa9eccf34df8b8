// Package session decodes browser state files into raw links.
//
// Three formats are supported, one decoder each:
//
//   - DecodeMozLZ4 reads Firefox's jsonlz4 session store: an 8 byte
//     "mozLz40\0" magic, a little-endian uint32 holding the decompressed
//     size, and a single LZ4 block containing the session JSON. Tabs that
//     belong to a named tab group are emitted with the group's title.
//   - ScanSNSS recovers URLs from Chrome's SNSS session files. The record
//     stream is proprietary and may be half written while Chrome runs, so
//     it is scanned for URL-shaped byte runs instead of being parsed. The
//     scanner never fails.
//   - DecodeChromeBookmarks walks Chrome's Bookmarks JSON tree and labels
//     every bookmark with its nearest named folder.
//
// DecodeFirefoxPlaces additionally reads bookmark folders from a snapshot
// of Firefox's places.sqlite.
//
// The byte decoders are pure functions of their input. Malformed input
// yields an error wrapping model.ErrDecodeCorrupt; callers treat that as
// "no links from this source".
package session
