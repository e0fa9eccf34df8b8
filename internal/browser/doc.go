// Package browser locates browser profile directories on disk.
//
// Firefox and Chrome keep their profiles in different places depending on
// the operating system and on how the browser was installed (native
// package, Snap, Flatpak, or Chromium's alternate user-data root). The
// Locator checks a fixed list of path templates for each browser kind and
// returns every profile it finds, newest first. Finding nothing is a normal
// outcome and yields an empty slice.
//
// The environment (GOOS and base directories) is passed in explicitly as
// an Env so tests can point the Locator at a temporary directory.
//
// StateFiles lists the session and bookmark files the extraction pipeline
// reads from a profile.
package browser
