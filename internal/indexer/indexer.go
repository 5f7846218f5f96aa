// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package indexer schedules bounded-parallel fingerprint+classify jobs
// over the files a Walker discovers, and hands the resulting records to
// a single-writer Store upsert.
package indexer

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/allaunthefox/DeDupeLab/internal/contextclass"
	"github.com/allaunthefox/DeDupeLab/internal/fingerprint"
	"github.com/allaunthefox/DeDupeLab/internal/log"
	"github.com/allaunthefox/DeDupeLab/internal/mimeresolve"
	"github.com/allaunthefox/DeDupeLab/internal/record"
	"github.com/allaunthefox/DeDupeLab/internal/walker"
)

// ProgressFunc is invoked periodically (by default every whole percent,
// and always for the final file) as files finish processing. It may be
// nil. The Indexer never depends on any UI library; a caller wanting a
// progress bar supplies this callback.
type ProgressFunc func(processed, total int)

// Options configures a single Run.
type Options struct {
	Roots       []string
	Ignore      []string
	Parallelism int // 0 = auto (runtime.GOMAXPROCS(0))
	Progress    ProgressFunc
}

// Result is the outcome of a full indexing run.
type Result struct {
	Records  []record.File
	Duration time.Duration
	Total    int
}

func effectiveParallelism(p int) int {
	if p > 0 {
		return p
	}
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}

// Run discovers files under opts.Roots (honoring opts.Ignore), and
// fingerprints, classifies, and MIME-resolves each one using a bounded
// pool of goroutines. Per-file errors are logged and the offending file
// is dropped from the result; the batch never aborts because one file
// failed. Result ordering is unspecified.
func Run(ctx context.Context, opts Options) (Result, error) {
	logger := log.FromContext(ctx, "indexer")
	start := time.Now()

	var paths []string
	if err := walker.Walk(ctx, opts.Roots, opts.Ignore, func(path string) error {
		paths = append(paths, path)
		return nil
	}); err != nil {
		return Result{}, err
	}

	total := len(paths)
	if total == 0 {
		return Result{Records: nil, Duration: time.Since(start), Total: 0}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(effectiveParallelism(opts.Parallelism))

	var (
		mu        sync.Mutex
		records   = make([]record.File, 0, total)
		processed int64
	)

	reportEvery := total / 100
	if reportEvery < 1 {
		reportEvery = 1
	}

	for _, p := range paths {
		p := p
		g.Go(func() error {
			rec, err := indexOne(gctx, p)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn().Err(err).Str("path", p).Msg("index: dropping unreadable file")
			} else {
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
			}

			done := atomic.AddInt64(&processed, 1)
			if opts.Progress != nil && (done%int64(reportEvery) == 0 || int(done) == total) {
				opts.Progress(int(done), total)
			}
			return nil
		})
	}

	// Errors from indexOne are handled per-file above; g.Wait only
	// returns an error if the context itself was cancelled.
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return Result{
		Records:  records,
		Duration: time.Since(start),
		Total:    total,
	}, nil
}

func indexOne(ctx context.Context, path string) (record.File, error) {
	select {
	case <-ctx.Done():
		return record.File{}, ctx.Err()
	default:
	}

	// Record paths are absolute: they are the store's unique key and the
	// Planner derives move destinations from them.
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	sha, err := fingerprint.File(path)
	if err != nil {
		return record.File{}, err
	}

	info, err := statFile(path)
	if err != nil {
		return record.File{}, err
	}

	return record.File{
		Path:       path,
		Size:       info.size,
		MTime:      info.mtime,
		SHA256:     sha,
		MIME:       mimeresolve.Resolve(path),
		ContextTag: contextclass.Classify(path),
	}, nil
}
