// Package model defines the core data structures used throughout tabgroupdl.
//
// This package contains the following main types:
//   - Profile: A browser profile directory discovered on disk
//   - RawLink: A URL recovered from a session or bookmark source
//   - LinkGroup: A named, ordered, de-duplicated set of links
//   - Harvest: The accumulated state of one extraction run over a profile
//   - AcquisitionAttempt / AcquisitionResult: Download attempt history per URL
//
// Models live in their own package because the browser, session, linkfilter,
// pipeline, acquire and report packages all share them.
//
// The models are serializable to JSON for report output and archive storage.
package model
