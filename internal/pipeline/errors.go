package pipeline

import "errors"

var (
	// ErrGroupNotFound is returned when no group has the requested name.
	ErrGroupNotFound = errors.New("link group not found")

	// ErrAmbiguousGroup is returned when a group name exists in more than
	// one browser and no browser was chosen.
	ErrAmbiguousGroup = errors.New("group name exists in several browsers")
)
