package postprocess

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/tabgroupdl/internal/acquire"
)

// maxCollisions bounds the numbered names tried for one file.
const maxCollisions = 1000

// ErrNoFreeName is returned when every numbered candidate name is taken.
var ErrNoFreeName = errors.New("no free file name")

// Renamer renames downloaded files to their sanitized titles.
type Renamer struct {
	logger *slog.Logger
}

var _ acquire.Tagger = (*Renamer)(nil)

// RenamerOption configures a Renamer.
type RenamerOption func(*Renamer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) RenamerOption {
	return func(r *Renamer) {
		r.logger = logger
	}
}

// NewRenamer creates a Renamer.
func NewRenamer(opts ...RenamerOption) *Renamer {
	r := &Renamer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Tag renames path to its sanitized title and returns the new path.
// An existing file is never overwritten; a numeric suffix is added instead.
func (r *Renamer) Tag(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("stat artifact: %w", err)
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	clean := Sanitize(stem)
	if clean == "" || clean == stem {
		return path, nil
	}

	target, err := freeName(dir, clean, ext)
	if err != nil {
		return "", err
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("rename artifact: %w", err)
	}

	r.logger.Info("renamed", "from", filepath.Base(path), "to", filepath.Base(target))
	return target, nil
}

// freeName returns dir/stem+ext, or dir/stem_N+ext when taken.
func freeName(dir, stem, ext string) (string, error) {
	candidate := filepath.Join(dir, stem+ext)
	for i := 1; i <= maxCollisions; i++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check %s: %w", candidate, err)
		}
		candidate = filepath.Join(dir, stem+"_"+strconv.Itoa(i)+ext)
	}
	return "", fmt.Errorf("%w for %s%s", ErrNoFreeName, stem, ext)
}
