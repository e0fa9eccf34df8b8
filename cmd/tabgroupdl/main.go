// Package main provides the entry point for the tabgroupdl CLI.
//
// tabgroupdl reads browser tab groups (Firefox session store, Chrome
// session files and bookmark folders) and downloads the media links of a
// chosen group as audio, walking a ladder of browser cookie strategies when
// a site asks for authentication.
//
// Usage:
//
//	tabgroupdl groups
//	tabgroupdl download --group "Road Trip"
//
// See --help for all available options.
package main

// main is the entry point for tabgroupdl.
func main() {
	Execute()
}
