package browser

import (
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// Decoder names used by StateFile.
const (
	DecoderMozLZ4          = "mozlz4"
	DecoderSNSS            = "snss"
	DecoderChromeBookmarks = "chrome-bookmarks"
	DecoderFirefoxPlaces   = "firefox-places"
)

// StateFile is a profile file holding links, paired with the decoder that reads it.
type StateFile struct {
	// Path is the live path inside the profile.
	Path string
	// Decoder is one of the Decoder* constants.
	Decoder string
	// Database is true for SQLite files that need their sidecars copied.
	Database bool
}

// firefoxSessionFiles are tried in order; the recovery file is the most
// current while the browser runs, sessionstore.jsonlz4 exists after a
// clean shutdown.
var firefoxSessionFiles = []string{
	filepath.Join("sessionstore-backups", "recovery.jsonlz4"),
	filepath.Join("sessionstore-backups", "previous.jsonlz4"),
	"sessionstore.jsonlz4",
}

// StateFiles returns the existing state files of p in decode order.
func StateFiles(p model.Profile) []StateFile {
	files := make([]StateFile, 0)
	switch p.Kind {
	case model.BrowserFirefox:
		for _, name := range firefoxSessionFiles {
			path := filepath.Join(p.Root, name)
			if isFile(path) {
				files = append(files, StateFile{Path: path, Decoder: DecoderMozLZ4})
			}
		}
		if path := filepath.Join(p.Root, "places.sqlite"); isFile(path) {
			files = append(files, StateFile{Path: path, Decoder: DecoderFirefoxPlaces, Database: true})
		}
	case model.BrowserChrome:
		if path := chromeSessionFile(p.Root); path != "" {
			files = append(files, StateFile{Path: path, Decoder: DecoderSNSS})
		}
		if path := filepath.Join(p.Root, "Bookmarks"); isFile(path) {
			files = append(files, StateFile{Path: path, Decoder: DecoderChromeBookmarks})
		}
	}
	return files
}

// chromeSessionFile returns the live session file of a Chrome profile:
// Sessions/Current Session (or the legacy top-level "Current Session"),
// falling back to the newest Sessions/Session_* file. Empty files are
// ignored. It returns "" when nothing usable exists.
func chromeSessionFile(root string) string {
	for _, path := range []string{
		filepath.Join(root, "Sessions", "Current Session"),
		filepath.Join(root, "Current Session"),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() && info.Size() > 0 {
			return path
		}
	}
	matches, err := filepath.Glob(filepath.Join(root, "Sessions", "Session_*"))
	if err != nil {
		return ""
	}
	var (
		newest     string
		newestTime time.Time
	)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() || info.Size() == 0 {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = m
			newestTime = info.ModTime()
		}
	}
	return newest
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
