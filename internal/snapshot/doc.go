// Package snapshot makes read-only copies of live browser profile files.
//
// Browsers keep their session and bookmark files open and rewrite them
// while running. Reading them in place risks torn reads and lock
// contention, so every file is copied into a process-scoped temporary
// directory first and decoded from there. The live profile is never
// written to.
//
// A Snapshot owns one temporary directory. Close removes it and may be
// called any number of times:
//
//	snap, err := snapshot.New("")
//	if err != nil {
//	    return err
//	}
//	defer snap.Close()
//
//	path, err := snap.Copy(ctx, "/home/me/.mozilla/firefox/x.default/sessionstore.jsonlz4")
//
// A copy whose source disappears mid-flight (the browser rotated the file)
// is retried once before model.ErrSnapshotUnavailable is returned.
//
// Copies are read-only except those made by CopyDatabase, which SQLite
// must be able to open in WAL mode.
package snapshot
