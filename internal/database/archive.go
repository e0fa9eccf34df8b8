package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/tabgroupdl/internal/model"
)

// FileName is the archive database file inside the archive directory.
const FileName = "archive.db"

// ErrArchiveNotFound is returned when opening a missing archive without
// CreateIfNotExists.
var ErrArchiveNotFound = errors.New("download archive not found")

// ArchiveDB stores downloaded content ids and run records.
type ArchiveDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// now is the clock; replaced in tests.
	now func() time.Time
}

// Options configures ArchiveDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the archive in dir.
func Open(dir string, opts Options) (*ArchiveDB, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrArchiveNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check archive path: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &ArchiveDB{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Path returns the database file path.
func (a *ArchiveDB) Path() string {
	return a.dbPath
}

// Close closes the database connection.
func (a *ArchiveDB) Close() error {
	return a.db.Close()
}

func (a *ArchiveDB) createTables() error {
	schema := `
	-- One row per acquired content id
	CREATE TABLE IF NOT EXISTS downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content_id TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		group_name TEXT NOT NULL,
		source TEXT,
		artifact_path TEXT,
		attempts INTEGER NOT NULL DEFAULT 0,
		run_id TEXT,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_downloads_group ON downloads(group_name);
	CREATE INDEX IF NOT EXISTS idx_downloads_run ON downloads(run_id);

	-- One row per download run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		group_name TEXT NOT NULL,
		browser TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		total INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		pending INTEGER NOT NULL DEFAULT 0,
		report_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_group ON runs(group_name);
	`

	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// DownloadRecord is one archived download.
type DownloadRecord struct {
	ID           int64
	ContentID    string
	URL          string
	Group        string
	Source       string
	ArtifactPath string
	Attempts     int
	RunID        string
	Timestamp    time.Time
}

// Has reports whether contentID is in the archive.
func (a *ArchiveDB) Has(ctx context.Context, contentID string) (bool, error) {
	var count int
	err := a.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM downloads WHERE content_id = ?", contentID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query archive: %w", err)
	}
	return count > 0, nil
}

// Record stores a succeeded result without a run id.
func (a *ArchiveDB) Record(ctx context.Context, link model.RawLink, result model.AcquisitionResult) error {
	return a.record(ctx, "", link, result)
}

// ForRun returns a recorder that tags every download with runID.
func (a *ArchiveDB) ForRun(runID string) *RunArchive {
	return &RunArchive{db: a, runID: runID}
}

// record inserts or refreshes a download. Only succeeded results with a
// content id are stored.
func (a *ArchiveDB) record(ctx context.Context, runID string, link model.RawLink, result model.AcquisitionResult) error {
	if result.State != model.StateSucceeded || result.ContentID == "" {
		return nil
	}

	query := `
	INSERT INTO downloads (content_id, url, group_name, source, artifact_path, attempts, run_id, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(content_id) DO UPDATE SET
		url = excluded.url,
		group_name = excluded.group_name,
		source = excluded.source,
		artifact_path = excluded.artifact_path,
		attempts = excluded.attempts,
		run_id = excluded.run_id,
		timestamp = excluded.timestamp
	`
	_, err := a.db.ExecContext(ctx, query,
		result.ContentID,
		result.URL,
		link.Group,
		link.Source,
		result.ArtifactPath,
		len(result.Attempts),
		runID,
		a.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}

// ListDownloads returns archived downloads, newest first. An empty group
// lists every group; limit <= 0 means no limit.
func (a *ArchiveDB) ListDownloads(ctx context.Context, group string, limit int) ([]DownloadRecord, error) {
	query := `
	SELECT id, content_id, url, group_name, source, artifact_path, attempts, run_id, timestamp
	FROM downloads
	WHERE (? = '' OR group_name = ?)
	ORDER BY id DESC
	`
	args := []any{group, group}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	defer rows.Close()

	var records []DownloadRecord
	for rows.Next() {
		var r DownloadRecord
		var source, artifact, runID sql.NullString
		var timestamp string
		if err := rows.Scan(&r.ID, &r.ContentID, &r.URL, &r.Group, &source, &artifact, &r.Attempts, &runID, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		r.Source = source.String
		r.ArtifactPath = artifact.String
		r.RunID = runID.String
		r.Timestamp = parseTimestamp(timestamp)
		records = append(records, r)
	}
	return records, rows.Err()
}

// RunArchive is an acquire.Archive bound to one run.
type RunArchive struct {
	db    *ArchiveDB
	runID string
}

// Has reports whether contentID is in the archive.
func (r *RunArchive) Has(ctx context.Context, contentID string) (bool, error) {
	return r.db.Has(ctx, contentID)
}

// Record stores a succeeded result tagged with the run id.
func (r *RunArchive) Record(ctx context.Context, link model.RawLink, result model.AcquisitionResult) error {
	return r.db.record(ctx, r.runID, link, result)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// parseTimestamp parses a stored timestamp. Unknown formats yield the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
