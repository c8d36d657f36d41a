package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"cuekit/internal/captions"
	"cuekit/internal/fileutil"
	"cuekit/internal/logging"
	"cuekit/internal/pipeline"
	"cuekit/internal/services"
)

// Options controls a batch run.
type Options struct {
	// OutputDir receives the cleaned tracks. Empty parses without writing.
	OutputDir string
	// Format forces the output format. Empty keeps each file's own format.
	Format              captions.Format
	StripAdvertisements bool
	MaxConcurrent       int
}

// FileResult describes the outcome for one input file.
type FileResult struct {
	Path       string          `json:"path"`
	OutputPath string          `json:"output_path,omitempty"`
	Format     captions.Format `json:"format,omitempty"`
	Cues       int             `json:"cues"`
	Skipped    int             `json:"skipped"`
	AdsRemoved int             `json:"ads_removed"`
	Cached     bool            `json:"cached"`
	Err        error           `json:"-"`
	Error      string          `json:"error,omitempty"`
}

// Failed reports whether the file could not be processed.
func (r FileResult) Failed() bool { return r.Err != nil }

// CleanFiles processes paths with at most opts.MaxConcurrent files in flight.
// Results follow input order. Per-file problems land in FileResult; the
// returned error is reserved for cancellation and an unusable output
// directory.
func CleanFiles(ctx context.Context, svc *pipeline.Service, logger *slog.Logger, paths []string, opts Options) ([]FileResult, error) {
	logger = logging.NewComponentLogger(logger, "batch")
	if opts.Format != "" {
		format, err := captions.ParseFormat(string(opts.Format))
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "batch", "options", "output format", err)
		}
		opts.Format = format
	}
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	limit := opts.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := cleanFile(gctx, svc, path, opts)
			if result.Err != nil {
				result.Error = result.Err.Error()
				logging.WarnWithContext(logger, "caption file failed", "batch_file_failed",
					logging.String(logging.FieldSource, path),
					logging.Error(result.Err),
					logging.String(logging.FieldImpact, "file left unchanged"),
				)
			} else {
				logger.Info("caption file cleaned",
					logging.String(logging.FieldSource, path),
					logging.String(logging.FieldFormat, string(result.Format)),
					logging.Int(logging.FieldCueCount, result.Cues),
					logging.Int("ads_removed", result.AdsRemoved),
				)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func cleanFile(ctx context.Context, svc *pipeline.Service, path string, opts Options) FileResult {
	result := FileResult{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = services.Wrap(services.ErrNotFound, "batch", "read", path, err)
		return result
	}
	content := string(data)
	inFormat := captions.FormatForPath(path, content)

	track, err := svc.Captions(services.WithSource(ctx, path), content, inFormat)
	if err != nil {
		result.Err = err
		return result
	}
	cues := track.Cues
	if opts.StripAdvertisements {
		cues, result.AdsRemoved = captions.StripAdvertisements(cues)
	}
	result.Cues = len(cues)
	result.Skipped = len(track.Skipped)
	result.Cached = track.Cached

	outFormat := opts.Format
	if outFormat == "" {
		outFormat = track.Format
	}
	result.Format = outFormat
	if opts.OutputDir == "" {
		return result
	}
	rendered, err := captions.Render(cues, outFormat)
	if err != nil {
		result.Err = err
		return result
	}
	out := filepath.Join(opts.OutputDir, fileutil.ReplaceExt(path, outFormat.Extension()))
	if err := fileutil.WriteFileAtomic(out, []byte(rendered), 0o644); err != nil {
		result.Err = fmt.Errorf("write %s: %w", out, err)
		return result
	}
	result.OutputPath = out
	return result
}

// Summary counts successes and failures across results.
func Summary(results []FileResult) (ok, failed int) {
	for _, r := range results {
		if r.Failed() {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}
