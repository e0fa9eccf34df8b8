// Package report renders tabgroupdl results.
//
// Three documents are produced:
//   - ProfilesReport: the browser profiles that were found
//   - GroupsReport: the link groups extracted from those profiles
//   - RunReport: the outcome of one download run
//
// Writers implement the Writer interface for plain text, JSON and
// Markdown, and can be combined with MultiWriter.
package report
