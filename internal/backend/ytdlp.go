package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/tabgroupdl/internal/acquire"
	"github.com/nao1215/tabgroupdl/internal/model"
)

const (
	// OutputTemplate names artifacts after the media title.
	OutputTemplate = "%(title)s.%(ext)s"

	defaultSocketTimeout = 30
	defaultRetries       = 15
	waitDelay            = 5 * time.Second
)

// sponsorCategories are cut from the audio when post-processing is on.
var sponsorCategories = []string{"sponsor", "intro", "outro", "selfpromo", "interaction", "music_offtopic"}

// strippedMetadata are metadata fields blanked before embedding.
var strippedMetadata = []string{"synopsis", "description", "comment", "purl", "encoder", "copyright"}

// runFunc runs a command and returns its output. Replaced in tests.
type runFunc func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// YtDlp is an acquire.Backend that runs the yt-dlp executable.
type YtDlp struct {
	path           string
	socketTimeout  int
	retries        int
	postprocessing bool
	logger         *slog.Logger
	run            runFunc
}

var _ acquire.Backend = (*YtDlp)(nil)

// Option configures YtDlp.
type Option func(*YtDlp)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(y *YtDlp) {
		y.logger = logger
	}
}

// WithPostprocessing toggles thumbnail and metadata embedding and
// sponsor segment removal. These need ffmpeg.
func WithPostprocessing(enabled bool) Option {
	return func(y *YtDlp) {
		y.postprocessing = enabled
	}
}

// WithSocketTimeout sets the per-socket timeout in seconds.
func WithSocketTimeout(seconds int) Option {
	return func(y *YtDlp) {
		if seconds > 0 {
			y.socketTimeout = seconds
		}
	}
}

// NewYtDlp creates a backend running the executable at path.
// An empty path means "yt-dlp" from PATH.
func NewYtDlp(path string, opts ...Option) *YtDlp {
	if path == "" {
		path = "yt-dlp"
	}
	y := &YtDlp{
		path:           path,
		socketTimeout:  defaultSocketTimeout,
		retries:        defaultRetries,
		postprocessing: HasFFmpeg(),
		run:            runCommand,
	}
	for _, opt := range opts {
		opt(y)
	}
	if y.logger == nil {
		y.logger = slog.Default()
	}
	return y
}

// Download runs one yt-dlp invocation and classifies the outcome.
func (y *YtDlp) Download(ctx context.Context, req acquire.Request) acquire.Response {
	args := y.Args(req)
	y.logger.Debug("running yt-dlp", "url", req.URL, "auth", req.Auth, "clients", req.PlayerClients)

	stdout, stderr, err := y.run(ctx, y.path, args...)
	if ctx.Err() != nil {
		return acquire.Response{Class: model.ClassTransient, Message: ctx.Err().Error()}
	}
	if err != nil {
		class, msg := Classify(string(stderr), err)
		return acquire.Response{Class: class, Message: msg}
	}

	path := lastLine(stdout)
	if path == "" {
		return acquire.Response{Class: model.ClassTransient, Message: "yt-dlp did not report an output file"}
	}
	return acquire.Response{Class: model.ClassSuccess, Path: path}
}

// Args builds the yt-dlp command line for req.
func (y *YtDlp) Args(req acquire.Request) []string {
	args := []string{
		"--no-playlist",
		"--windows-filenames",
		"--no-simulate",
		"--print", "after_move:filepath",
		"--output", filepath.Join(req.OutputDir, OutputTemplate),
		"--socket-timeout", strconv.Itoa(y.socketTimeout),
		"--retries", strconv.Itoa(y.retries),
		"--fragment-retries", strconv.Itoa(req.FragmentRetries),
		"--format", formatSelector(req),
	}

	if req.ResumeFragments {
		args = append(args, "--continue")
	} else {
		args = append(args, "--no-continue")
	}
	if req.AllowSkipFragments {
		args = append(args, "--skip-unavailable-fragments")
	} else {
		args = append(args, "--abort-on-unavailable-fragments")
	}

	if cookies := cookiesFromBrowser(req); cookies != "" {
		args = append(args, "--cookies-from-browser", cookies)
	}
	if len(req.PlayerClients) > 0 {
		args = append(args, "--extractor-args", "youtube:player_client="+strings.Join(req.PlayerClients, ","))
	}

	if req.Quality.Convert {
		args = append(args,
			"--extract-audio",
			"--audio-format", req.Quality.Codec,
			"--audio-quality", "0",
			"--postprocessor-args", "ExtractAudio:-bitexact -map_metadata -1",
		)
	}

	if y.postprocessing {
		args = append(args,
			"--embed-thumbnail",
			"--embed-metadata",
			"--sponsorblock-remove", strings.Join(sponsorCategories, ","),
		)
		for _, field := range strippedMetadata {
			args = append(args, "--parse-metadata", fmt.Sprintf(":(?P<meta_%s>)", field))
		}
	}

	return append(args, "--", req.URL)
}

// Version returns the version string of the executable.
func (y *YtDlp) Version(ctx context.Context) (string, error) {
	stdout, stderr, err := y.run(ctx, y.path, "--version")
	if err != nil {
		if msg := errorLine(string(stderr)); msg != "" {
			return "", fmt.Errorf("yt-dlp --version: %w: %s", err, msg)
		}
		return "", fmt.Errorf("yt-dlp --version: %w", err)
	}
	return lastLine(stdout), nil
}

// HasFFmpeg reports whether ffmpeg is on PATH.
func HasFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// formatSelector prefers audio-only streams. Signed-in sessions get a
// wider fallback list since some clients only expose webm audio.
func formatSelector(req acquire.Request) string {
	withCookies := req.Auth != model.AuthNone
	switch {
	case req.Quality.Convert && withCookies:
		return "bestaudio/bestvideo+bestaudio/bestaudio[ext=m4a]/bestaudio[ext=webm]/bestaudio/best"
	case req.Quality.Convert:
		return "bestaudio/bestvideo+bestaudio/best"
	case withCookies:
		return "bestaudio[ext=m4a]/bestaudio[ext=webm]/bestaudio/best"
	default:
		return "bestaudio[ext=m4a]/bestaudio/best"
	}
}

// cookiesFromBrowser returns the --cookies-from-browser value, e.g.
// "firefox:/home/u/.mozilla/firefox/abc.default".
func cookiesFromBrowser(req acquire.Request) string {
	var browser string
	switch req.Auth {
	case model.AuthFirefoxCookies:
		browser = "firefox"
	case model.AuthChromeCookies:
		browser = "chrome"
	default:
		return ""
	}
	if req.Profile == nil || req.Profile.Root == "" {
		return browser
	}
	return browser + ":" + req.Profile.Root
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = fmt.Errorf("yt-dlp exited with status %d: %w", exitErr.ExitCode(), err)
	}
	return stdout.Bytes(), stderr.Bytes(), err
}
