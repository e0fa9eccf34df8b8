// Package database provides the SQLite download archive of tabgroupdl.
//
// The archive is opt-in. It stores:
//   - Downloaded content ids, so later runs can skip them
//   - Run records with their summary and full JSON report
//
// SQLite (via modernc.org/sqlite) keeps the archive a single CGO-free file
// in the XDG data directory. WAL mode lets the history command read while a
// download run writes.
package database
