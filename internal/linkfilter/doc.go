// Package linkfilter turns raw decoder output into named link groups.
//
// The Normalizer drops links that are not media content (search pages,
// account pages, homepages, foreign hosts), reduces every remaining URL to
// a content id and keeps only the first link per content id within a
// group. Groups are returned in first-seen order and links keep their
// original position, so the same input always yields the same output.
package linkfilter
