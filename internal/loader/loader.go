/*
PURPOSE:
  Discovers telemetry_*.json snapshots in one or more directories and
  parses them into model.Snapshot values.

REQUIREMENTS:
  User-specified:
  - Scan the default pair of report directories, or the caller's list.
  - Same file stem in two directories is loaded once (first directory wins).
  - A broken file is skipped with a warning; it never aborts the run.
  - Zero usable files is fatal (ErrNoInputData).

  Implementation-discovered:
  - Parsing is independent per file, so files are parsed concurrently
    and merged back in discovery order.
  - The caller needs to know how many files loaded and which were skipped.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine, internal/cli (list-files)
  - Produces: model.Snapshot

ERROR HANDLING:
  - Per-file failures become *UnreadableFileError in Result.Skipped.
  - ErrNoInputData when nothing loaded; context errors are returned as-is.

IMPLEMENTATION RULES:
  - Sort lexically within a directory; keep caller order across directories.
  - Each goroutine writes only its own result slot.

USAGE:
  res, err := loader.Load(ctx, loader.Options{Dirs: dirs, Workers: 4})

RELATED FILES:
  - internal/loader/decode.go
*/

package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/daryltucker/telemetry-report/internal/model"
	"github.com/daryltucker/telemetry-report/internal/output"
)

// DefaultPattern matches telemetry snapshot files.
const DefaultPattern = "telemetry_*.json"

// DefaultInputDirs are scanned when the caller gives no directories.
var DefaultInputDirs = []string{
	filepath.Join("public", "reports"),
	filepath.Join("public", "reports_local"),
}

// ErrNoInputData means no telemetry file could be loaded at all.
var ErrNoInputData = errors.New("no telemetry input data")

// UnreadableFileError reports a single file that failed to read or parse.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("unreadable telemetry file %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() error { return e.Err }

// File is one discovered snapshot file.
type File struct {
	Path string
	Dir  string
	Stem string
}

// Options controls discovery and parsing.
type Options struct {
	Dirs    []string
	Pattern string
	Workers int
}

// Result is the outcome of Load.
type Result struct {
	// Files holds the successfully loaded files, parallel to Snapshots.
	Files     []File
	Snapshots []model.Snapshot
	Skipped   []*UnreadableFileError
}

// Loaded returns the number of files that parsed successfully.
func (r *Result) Loaded() int { return len(r.Snapshots) }

// Discover lists matching files in dirs. Directories that do not exist are
// skipped. The result is deduplicated by stem, keeping the first occurrence.
func Discover(dirs []string, pattern string) ([]File, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	var files []File
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			output.Logger.Debug("Input directory not found, skipping", "dir", dir)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		sort.Strings(matches)

		for _, path := range matches {
			if st, err := os.Stat(path); err != nil || st.IsDir() {
				continue
			}
			base := filepath.Base(path)
			files = append(files, File{
				Path: path,
				Dir:  dir,
				Stem: strings.TrimSuffix(base, filepath.Ext(base)),
			})
		}
	}

	return lo.UniqBy(files, func(f File) string { return f.Stem }), nil
}

// Parse reads one snapshot file. Any failure is an *UnreadableFileError.
func Parse(f File) (model.Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return model.Snapshot{}, &UnreadableFileError{Path: f.Path, Err: err}
	}
	snap, err := decodeSnapshot(data, f.Stem)
	if err != nil {
		return model.Snapshot{}, &UnreadableFileError{Path: f.Path, Err: err}
	}
	snap.SourcePath = f.Path
	return snap, nil
}

type parsed struct {
	snap model.Snapshot
	err  error
}

// Load discovers and parses all snapshots. It fails with ErrNoInputData when
// nothing could be loaded.
func Load(ctx context.Context, opts Options) (*Result, error) {
	dirs := opts.Dirs
	if len(dirs) == 0 {
		dirs = DefaultInputDirs
	}

	files, err := Discover(dirs, opts.Pattern)
	if err != nil {
		return nil, err
	}
	output.Logger.Info("Discovered telemetry files", "count", len(files), "dirs", dirs)

	results := make([]parsed, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			snap, err := Parse(f)
			results[i] = parsed{snap: snap, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	for i, r := range results {
		if r.err != nil {
			var ue *UnreadableFileError
			if !errors.As(r.err, &ue) {
				ue = &UnreadableFileError{Path: files[i].Path, Err: r.err}
			}
			output.Logger.Warn("Skipping unreadable telemetry file", "path", ue.Path, "error", ue.Err)
			res.Skipped = append(res.Skipped, ue)
			continue
		}
		res.Files = append(res.Files, files[i])
		res.Snapshots = append(res.Snapshots, r.snap)
	}

	if res.Loaded() == 0 {
		return res, fmt.Errorf("%w: no readable %s files in %s", ErrNoInputData, patternOrDefault(opts.Pattern), strings.Join(dirs, ", "))
	}

	output.Logger.Info("Loaded telemetry files", "loaded", res.Loaded(), "skipped", len(res.Skipped))
	return res, nil
}

func patternOrDefault(p string) string {
	if p == "" {
		return DefaultPattern
	}
	return p
}
