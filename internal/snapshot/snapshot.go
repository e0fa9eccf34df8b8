package snapshot

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/tabgroupdl/internal/model"
)

const (
	// fileMode is applied to copied files.
	fileMode fs.FileMode = 0o400
	// dirMode is applied to copied directories once they are complete.
	dirMode fs.FileMode = 0o500
	// workDirMode is used while a directory is being filled and before removal.
	workDirMode fs.FileMode = 0o700
	// dbFileMode is applied to database copies. SQLite needs to write the
	// shared-memory index next to a copy before it can replay its WAL.
	dbFileMode fs.FileMode = 0o600
)

// sqliteSidecars are the files SQLite keeps next to a database.
// Without the WAL a copy of a live database misses recent writes.
var sqliteSidecars = []string{"-wal", "-shm", "-journal"}

// Snapshot is a temporary directory holding copies of profile files.
// It is safe for concurrent use.
type Snapshot struct {
	dir    string
	logger *slog.Logger

	// stat inspects a source path; replaced in tests.
	stat func(name string) (fs.FileInfo, error)

	mu      sync.Mutex
	seq     int
	closed  bool
	digests map[string]string
}

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Snapshot) {
		s.logger = logger
	}
}

// New creates a snapshot directory under parentDir.
// An empty parentDir means the OS temporary directory.
func New(parentDir string, opts ...Option) (*Snapshot, error) {
	dir, err := os.MkdirTemp(parentDir, "tabgroupdl-snapshot-")
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	s := &Snapshot{
		dir:     dir,
		logger:  slog.Default(),
		stat:    os.Stat,
		digests: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the snapshot directory.
func (s *Snapshot) Dir() string {
	return s.dir
}

// Copy copies src (a file or a directory tree) into the snapshot and
// returns the path of the copy. If src vanishes during the copy it is
// retried once; a second failure wraps model.ErrSnapshotUnavailable.
func (s *Snapshot) Copy(ctx context.Context, src string) (string, error) {
	return s.copyWith(ctx, src, nil, fileMode, dirMode)
}

// CopyDatabase copies an SQLite database file together with any
// -wal, -shm and -journal sidecar files next to it. Unlike Copy, the copy
// and its directory stay writable by the owner so SQLite can open the
// database in WAL mode.
func (s *Snapshot) CopyDatabase(ctx context.Context, src string) (string, error) {
	return s.copyWith(ctx, src, sqliteSidecars, dbFileMode, workDirMode)
}

// Digest returns the hex SHA3-256 digest of a file copied by Copy or
// CopyDatabase, or "" for unknown paths and directories.
func (s *Snapshot) Digest(copyPath string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.digests[copyPath]
}

// Close removes the snapshot directory. It is idempotent.
func (s *Snapshot) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	// Read-only directories must be made writable before their entries can go.
	_ = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() {
			_ = os.Chmod(path, workDirMode)
		}
		return nil
	})
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove snapshot directory: %w", err)
	}
	s.logger.Debug("snapshot removed", "dir", s.dir)
	return nil
}

func (s *Snapshot) copyWith(ctx context.Context, src string, sidecars []string, perm, slotPerm fs.FileMode) (string, error) {
	slot, err := s.newSlot()
	if err != nil {
		return "", err
	}
	dst := filepath.Join(slot, filepath.Base(src))

	err = s.copyAny(ctx, src, dst, perm)
	if err != nil && errors.Is(err, fs.ErrNotExist) && ctx.Err() == nil {
		s.logger.Debug("snapshot source vanished, retrying once", "path", src)
		_ = removeAll(dst)
		err = s.copyAny(ctx, src, dst, perm)
	}
	if err != nil {
		_ = removeAll(dst)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %s: %w", model.ErrSnapshotUnavailable, src, ctxErr)
		}
		return "", fmt.Errorf("%w: %s: %w", model.ErrSnapshotUnavailable, src, err)
	}

	for _, suffix := range sidecars {
		side := src + suffix
		if _, statErr := os.Stat(side); statErr != nil {
			continue
		}
		// A sidecar that disappears was checkpointed away; the main file is complete.
		if err := s.copyFile(ctx, side, dst+suffix, perm); err != nil {
			s.logger.Debug("skipping sidecar", "path", side, "error", err)
			_ = removeAll(dst + suffix)
		}
	}

	if err := os.Chmod(slot, slotPerm); err != nil {
		return "", fmt.Errorf("failed to seal snapshot copy: %w", err)
	}
	return dst, nil
}

// newSlot creates a fresh sub directory so copies of files with the same
// base name never collide.
func (s *Snapshot) newSlot() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	s.seq++
	slot := filepath.Join(s.dir, strconv.Itoa(s.seq))
	if err := os.Mkdir(slot, workDirMode); err != nil {
		return "", fmt.Errorf("failed to create snapshot slot: %w", err)
	}
	return slot, nil
}

func (s *Snapshot) copyAny(ctx context.Context, src, dst string, perm fs.FileMode) error {
	info, err := s.stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return s.copyFile(ctx, src, dst, perm)
	}
	return s.copyDir(ctx, src, dst, perm)
}

func (s *Snapshot) copyDir(ctx context.Context, src, dst string, perm fs.FileMode) error {
	var dirs []string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, workDirMode); err != nil {
				return err
			}
			dirs = append(dirs, target)
			return nil
		case d.Type().IsRegular():
			return s.copyFile(ctx, path, target, perm)
		default:
			// Sockets, lock symlinks and the like are not state.
			return nil
		}
	})
	if err != nil {
		return err
	}
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := os.Chmod(dirs[i], dirMode); err != nil {
			return err
		}
	}
	return nil
}

func (s *Snapshot) copyFile(ctx context.Context, src, dst string, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	h := sha3.New256()
	_, err = io.Copy(io.MultiWriter(out, h), &ctxReader{ctx: ctx, r: in})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if err := os.Chmod(dst, perm); err != nil {
		return err
	}

	s.mu.Lock()
	s.digests[dst] = hex.EncodeToString(h.Sum(nil))
	s.mu.Unlock()
	return nil
}

// ctxReader stops a copy once its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// removeAll deletes a partial copy, including read-only directories.
func removeAll(path string) error {
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() {
			_ = os.Chmod(p, workDirMode)
		}
		return nil
	})
	return os.RemoveAll(path)
}
