// Package backend provides the downloading backend used by the acquisition
// orchestrator. YtDlp runs the yt-dlp executable and classifies its
// diagnostics into outcome classes.
package backend
