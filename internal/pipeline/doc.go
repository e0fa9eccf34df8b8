// Package pipeline runs link extraction over browser profiles.
//
// Each profile is processed by a Pipeline of steps sharing a
// model.Harvest: the snapshot step copies the profile's state files into
// the run's snapshot directory, the decode step turns the copies into raw
// links and the normalize step groups and filters them. Steps run in
// order and the context is checked before each one.
//
// A BatchProcessor runs one pipeline per profile with bounded concurrency,
// and Extract ties locating, batching and merging together for the CLI.
package pipeline
