package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/tabgroupdl/internal/model"
)

// placesQuery selects bookmark leaves with their parent folder title.
// Firefox's built-in roots are identified by fixed GUIDs.
const placesQuery = `
SELECT p.url, COALESCE(f.title, '')
FROM moz_bookmarks b
JOIN moz_places p ON p.id = b.fk
JOIN moz_bookmarks f ON f.id = b.parent AND f.type = 2
WHERE b.type = 1
  AND p.url IS NOT NULL
  AND f.guid NOT IN ('root________', 'menu________', 'toolbar_____', 'unfiled_____', 'mobile______', 'tags________')
ORDER BY b.parent, b.position`

// DecodeFirefoxPlaces reads bookmarks from a places.sqlite snapshot.
// path must be a copy in a writable directory: SQLite replays a -wal
// sidecar found next to it, which needs a -shm index beside the file.
// Bookmarks directly under a built-in root are dropped, like their Chrome
// counterparts.
func DecodeFirefoxPlaces(ctx context.Context, path string) ([]model.RawLink, error) {
	db, err := sql.Open("sqlite", snapshotDSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDecodeCorrupt, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, placesQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query places: %w", model.ErrDecodeCorrupt, err)
	}
	defer rows.Close()

	links := make([]model.RawLink, 0)
	for rows.Next() {
		var url, folder string
		if err := rows.Scan(&url, &folder); err != nil {
			return nil, fmt.Errorf("%w: scan places row: %w", model.ErrDecodeCorrupt, err)
		}
		if folder == "" {
			continue
		}
		links = append(links, model.RawLink{
			URL:    url,
			Group:  folder,
			Source: model.SourceBookmark,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate places: %w", model.ErrDecodeCorrupt, err)
	}
	return links, nil
}

// snapshotDSN builds an SQLite URI for a database copy. The connection
// refuses data changes but may build the WAL index.
func snapshotDSN(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "_pragma=query_only(1)"}
	return u.String()
}
