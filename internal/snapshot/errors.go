package snapshot

import "errors"

// ErrClosed is returned by Copy after Close.
var ErrClosed = errors.New("snapshot is closed")
