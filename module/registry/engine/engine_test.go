package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	name     string
	failStep string
	steps    []string
	traceID  string

	running *atomic.Int32
	peak    *atomic.Int32
	mu      sync.Mutex
}

func (j *fakeJob) Info() string { return j.name }

func (j *fakeJob) record(ctx context.Context, step string) error {
	j.mu.Lock()
	j.steps = append(j.steps, step)
	j.traceID = TraceID(ctx)
	j.mu.Unlock()
	if step == j.failStep {
		return errors.New("boom")
	}
	return nil
}

func (j *fakeJob) Prepare(ctx context.Context) error { return j.record(ctx, "prepare") }

func (j *fakeJob) Run(ctx context.Context) error {
	if j.running != nil {
		n := j.running.Add(1)
		for {
			p := j.peak.Load()
			if n <= p || j.peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		j.running.Add(-1)
	}
	return j.record(ctx, "run")
}

func (j *fakeJob) Finish(ctx context.Context) error { return j.record(ctx, "finish") }

func TestExecuteRunsAllSteps(t *testing.T) {
	a := &fakeJob{name: "a"}
	b := &fakeJob{name: "b"}

	err := NewEngine(2, []Job{a, b}).Execute(context.Background())
	require.NoError(t, err)

	for _, j := range []*fakeJob{a, b} {
		assert.Equal(t, []string{"prepare", "run", "finish"}, j.steps)
	}
	assert.NotEmpty(t, a.traceID)
	assert.Equal(t, a.traceID, b.traceID)
}

func TestExecuteJoinsFailures(t *testing.T) {
	ok := &fakeJob{name: "ok"}
	early := &fakeJob{name: "early", failStep: "prepare"}
	late := &fakeJob{name: "late", failStep: "run"}

	err := NewEngine(0, []Job{ok, early, late}).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "early: prepare: boom")
	assert.Contains(t, err.Error(), "late: run: boom")
	assert.NotContains(t, err.Error(), "ok")

	assert.Equal(t, []string{"prepare"}, early.steps)
	assert.Equal(t, []string{"prepare", "run"}, late.steps)
	assert.Equal(t, []string{"prepare", "run", "finish"}, ok.steps)
}

func TestExecuteBoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = &fakeJob{name: "j", running: &running, peak: &peak}
	}

	require.NoError(t, NewEngine(2, jobs).Execute(context.Background()))
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestExecuteWithoutJobs(t *testing.T) {
	assert.NoError(t, NewEngine(4, nil).Execute(context.Background()))
}
