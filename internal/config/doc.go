// Package config provides configuration structures and utilities for tabgroupdl.
// It defines download settings, retry and timeout bounds for the acquisition
// orchestrator, link filtering options and the quality profiles offered to users.
package config
