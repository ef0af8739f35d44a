// Package engine runs independent jobs on a bounded number of goroutines.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Job is one unit of work. Steps run in order; the first failing step
// ends the job.
type Job interface {
	Info() string
	Prepare(ctx context.Context) error
	Run(ctx context.Context) error
	Finish(ctx context.Context) error
}

type traceKey struct{}

// TraceID returns the id of the engine run ctx belongs to.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

type Engine struct {
	concurrency int
	jobs        []Job
}

// NewEngine creates an engine. A concurrency <= 0 uses one goroutine per CPU.
func NewEngine(concurrency int, jobs []Job) *Engine {
	return &Engine{
		concurrency: concurrency,
		jobs:        jobs,
	}
}

// Execute runs every job and returns the joined step errors.
func (e *Engine) Execute(ctx context.Context) error {
	mainLogger := log.With().
		Int("concurrency", e.concurrency).
		Int("total_jobs", len(e.jobs)).
		Logger()

	if len(e.jobs) == 0 {
		mainLogger.Debug().Msg("No jobs to execute")
		return nil
	}

	traceID := uuid.New().String()
	ctx = context.WithValue(ctx, traceKey{}, traceID)

	mainLogger = mainLogger.With().Str("trace_id", traceID).Logger()
	mainLogger.Debug().Msg("Starting engine execution")

	concurrency := e.concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
		mainLogger.Debug().Int("adjusted_concurrency", concurrency).Msg("Adjusted concurrency")
	}

	sem := make(chan struct{}, concurrency)
	errCh := make(chan error, len(e.jobs))
	var wg sync.WaitGroup

	for i, jb := range e.jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			info := jb.Info()
			jobLogger := mainLogger.With().
				Int("job_index", i).
				Str("job_info", info).
				Logger()

			jobLogger.Debug().Msg("Starting job execution")
			jobStartTime := time.Now()

			step := func(name string, fn func(context.Context) error) bool {
				stepLogger := jobLogger.With().Str("step", name).Logger()
				stepStartTime := time.Now()

				if err := fn(ctx); err != nil {
					stepLogger.Error().
						Err(err).
						Dur("duration", time.Since(stepStartTime)).
						Msg("Step failed")

					errCh <- fmt.Errorf("job %d|%s: %s: %w", i, info, name, err)
					return false
				}
				stepLogger.Debug().
					Dur("duration", time.Since(stepStartTime)).
					Msg("Step completed")
				return true
			}

			if !step("prepare", jb.Prepare) || !step("run", jb.Run) || !step("finish", jb.Finish) {
				jobLogger.Warn().
					Dur("duration", time.Since(jobStartTime)).
					Msg("Job execution terminated with errors")
				return
			}

			jobLogger.Debug().
				Dur("duration", time.Since(jobStartTime)).
				Msg("Job completed")
		}()
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
