// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/appshelf/appshelf/internal/software"
	"github.com/appshelf/appshelf/pkg/platform"
)

var (
	// ErrScanBusy is returned by Scan while another job is running.
	ErrScanBusy = errors.New("a scan is already in progress")
	// ErrCancelled is the cancellation cause recorded by Job.Cancel and Scanner.Cancel.
	ErrCancelled = errors.New("scan cancelled")
	// ErrInvalidExclude is reported when an exclude pattern is malformed.
	ErrInvalidExclude = errors.New("invalid exclude pattern")
)

type (
	// Scanner walks directories looking for software. It runs at most one
	// Job at a time and is safe for concurrent use.
	Scanner struct {
		mu           sync.Mutex
		active       *Job
		logger       *log.Logger
		heuristic    Heuristic
		defaultRoots func() ([]string, error)
		excludes     []string
		clock        software.Clock
	}

	// Option configures a Scanner.
	Option func(*Scanner)
)

// WithLogger sets the scanner logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHeuristic overrides the heuristic of the running OS.
func WithHeuristic(h Heuristic) Option {
	return func(s *Scanner) {
		if h != nil {
			s.heuristic = h
		}
	}
}

// WithDefaultRoots sets the function resolving roots when Scan is called
// without any.
func WithDefaultRoots(fn func() ([]string, error)) Option {
	return func(s *Scanner) {
		if fn != nil {
			s.defaultRoots = fn
		}
	}
}

// WithExcludes sets doublestar patterns matched against slash-separated
// absolute paths. Matching directories are not descended into and matching
// files are not classified.
func WithExcludes(patterns ...string) Option {
	return func(s *Scanner) {
		s.excludes = append(s.excludes, patterns...)
	}
}

// WithClock sets the clock stamped on discovered records.
func WithClock(c software.Clock) Option {
	return func(s *Scanner) {
		if c != nil {
			s.clock = c
		}
	}
}

// New creates a Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		logger:       log.Default(),
		heuristic:    HeuristicFor(platform.Current()),
		defaultRoots: HostDefaultRoots,
		clock:        software.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan starts walking roots in the background and returns the running
// Job. With no roots the default application directories are used. If a
// job is already running Scan returns ErrScanBusy and no job.
//
// Cancelling ctx cancels the job.
func (s *Scanner) Scan(ctx context.Context, roots []string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.logger.Warn("scan already in progress, request ignored")
		return nil, ErrScanBusy
	}

	roots = slices.Clone(roots)
	var setupErr error
	if len(roots) == 0 {
		roots, setupErr = s.defaultRoots()
	}
	if setupErr == nil {
		setupErr = s.validateExcludes()
	}

	job := newJob(ctx, roots)
	s.active = job

	s.logger.Debug("scan started", "roots", roots)
	go s.run(job, setupErr)
	return job, nil
}

// Cancel requests cancellation of the running job, if any.
func (s *Scanner) Cancel() {
	s.mu.Lock()
	job := s.active
	s.mu.Unlock()
	if job != nil {
		job.Cancel()
	}
}

// IsScanning reports whether a job is running.
func (s *Scanner) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

func (s *Scanner) validateExcludes() error {
	for _, p := range s.excludes {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrInvalidExclude, p)
		}
	}
	return nil
}

// run is the job worker. It always ends the job with exactly one Result.
func (s *Scanner) run(job *Job, setupErr error) {
	var result Result
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scan worker panicked", "panic", r)
			result = Result{Outcome: OutcomeError, Records: result.Records, Err: fmt.Errorf("scan worker panicked: %v", r)}
		}
		s.release(job)
		job.finish(result)
	}()

	if setupErr != nil {
		s.logger.Error("scan could not start", "error", setupErr)
		result = Result{Outcome: OutcomeError, Err: setupErr}
		return
	}

	w := &walker{
		job:       job,
		heuristic: s.heuristic,
		excludes:  s.excludes,
		logger:    s.logger,
		recordOpts: []software.Option{
			software.WithClock(s.clock),
			software.WithLogger(s.logger),
		},
	}

	total := len(job.roots)
	for i, root := range job.roots {
		if job.cancelled() {
			break
		}
		w.walkRoot(root)
		if job.cancelled() {
			break
		}
		job.report((i + 1) * 100 / total)
	}

	records := w.records
	if records == nil {
		records = []software.Record{}
	}

	if job.cancelled() {
		cause := context.Cause(job.ctx)
		s.logger.Info("scan cancelled", "found", len(records), "cause", cause)
		result = Result{Outcome: OutcomeCancelled, Records: records, Err: cause}
		return
	}

	s.logger.Info("scan finished", "roots", total, "found", len(records))
	result = Result{Outcome: OutcomeFinished, Records: records}
}

// release clears the active job so a new scan can start once Done closes.
func (s *Scanner) release(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == job {
		s.active = nil
	}
}
