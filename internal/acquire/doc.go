// Package acquire drives the resilient download of content URLs.
//
// Each URL walks an explicit ladder of authentication strategies:
//
//	PENDING -> TRYING(i) -> SUCCEEDED | TRYING(i+1) | FAILED
//
// Auth-required and forbidden outcomes advance the ladder, transient
// failures retry the same strategy up to a bound, and unsupported formats
// fail the URL at once. A failed URL never aborts the batch.
//
// The downloading itself is delegated to a Backend; results are collected
// by an Aggregator.
package acquire
