package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/mgpai22/shabd/internal/logging"
)

// LockFileName is created in the output directory while a run is active.
const LockFileName = ".shabd.lock"

// Job is one input file and the output it produces.
type Job struct {
	Input  string
	Output string
}

// JobFunc performs a single job. It must honor ctx.
type JobFunc func(ctx context.Context, job Job) error

type Failure struct {
	Input string
	Err   error
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID     string
	Succeeded int
	Skipped   int
	Failed    int
	Failures  []Failure
	Elapsed   time.Duration
}

func (s Summary) Total() int {
	return s.Succeeded + s.Skipped + s.Failed
}

// Runner applies a JobFunc to many jobs with bounded concurrency. Completion
// order is unspecified. One job's failure never stops the others.
type Runner struct {
	Concurrency int
	// Overwrite regenerates outputs that already exist instead of skipping
	// them.
	Overwrite bool
	// OutputDir, when set, is locked for the duration of the run.
	OutputDir string
	Logger    *logging.Logger
}

// Plan lists the regular files directly inside inputDir accepted by match,
// sorted by name, pairing each with outputDir/<base><ext>.
func Plan(inputDir, outputDir string, match func(name string) bool, ext string) ([]Job, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, classifyRead(inputDir, err)
	}

	var jobs []Job
	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		name := entry.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))
		jobs = append(jobs, Job{
			Input:  filepath.Join(inputDir, name),
			Output: filepath.Join(outputDir, base+ext),
		})
	}
	return jobs, nil
}

// MatchExt accepts file names with any of the given extensions, ignoring case.
func MatchExt(exts ...string) func(string) bool {
	return func(name string) bool {
		ext := strings.ToLower(filepath.Ext(name))
		for _, e := range exts {
			if ext == strings.ToLower(e) {
				return true
			}
		}
		return false
	}
}

// Run executes jobs and returns once every dispatched job has finished. When
// ctx is cancelled, jobs not yet dispatched are recorded as failed with the
// context's error. The only error returned is ErrBatchLocked or a failure to
// take the lock; per-job errors are reported in the Summary.
func (r *Runner) Run(ctx context.Context, jobs []Job, fn JobFunc) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	logger := r.Logger.With("run_id", summary.RunID)

	if r.OutputDir != "" {
		unlock, err := lockDir(r.OutputDir)
		if err != nil {
			return summary, err
		}
		defer unlock()
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > len(jobs) {
		concurrency = max(len(jobs), 1)
	}

	logger.Infow("Starting batch",
		"jobs", len(jobs),
		"concurrency", concurrency,
		"overwrite", r.Overwrite,
	)

	var mu sync.Mutex
	record := func(job Job, skipped bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Input: job.Input, Err: err})
		case skipped:
			summary.Skipped++
		default:
			summary.Succeeded++
		}
	}

	work := make(chan Job)
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Go(func() {
			for job := range work {
				skipped, err := r.runOne(ctx, job, fn, logger)
				record(job, skipped, err)
			}
		})
	}

dispatch:
	for i, job := range jobs {
		select {
		case <-ctx.Done():
			for _, rest := range jobs[i:] {
				record(rest, false, ctx.Err())
			}
			logger.Warnw("Batch cancelled",
				"undispatched", len(jobs)-i,
				"error", ctx.Err(),
			)
			break dispatch
		case work <- job:
		}
	}
	close(work)
	wg.Wait()

	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].Input < summary.Failures[j].Input
	})
	summary.Elapsed = time.Since(started)

	logger.Infow("Batch complete",
		"succeeded", summary.Succeeded,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"elapsed", summary.Elapsed,
	)
	return summary, nil
}

func (r *Runner) runOne(ctx context.Context, job Job, fn JobFunc, logger *logging.Logger) (skipped bool, err error) {
	if !r.Overwrite {
		if _, statErr := os.Stat(job.Output); statErr == nil {
			logger.Debugw("Output exists, skipping", "input", job.Input, "output", job.Output)
			return true, nil
		}
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while processing %s: %v", job.Input, p)
		}
		if err != nil {
			logger.Errorw("File failed", "input", job.Input, "error", err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	logger.Debugw("Processing file", "input", job.Input, "output", job.Output)
	if err := fn(ctx, job); err != nil {
		return false, err
	}
	logger.Infow("File done", "input", job.Input, "output", job.Output)
	return false, nil
}

func lockDir(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create output directory: %w", ErrOutputWrite, err)
	}
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBatchLocked, dir)
	}
	return func() {
		_ = lock.Unlock()
	}, nil
}

// Err summarizes failures as a single error, or nil when every job succeeded
// or was skipped.
func (s Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}
	errs := make([]error, 0, len(s.Failures))
	for _, f := range s.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Input, f.Err))
	}
	return fmt.Errorf("%d of %d files failed: %w", s.Failed, s.Total(), errors.Join(errs...))
}
