package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epscreen/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	err      error
	block    chan struct{}
	started  chan struct{}
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	j.calls.Add(1)
	if j.started != nil {
		j.started <- struct{}{}
	}
	if j.block != nil {
		select {
		case <-j.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return j.err
}

func newJob(name string) *fakeJob {
	return &fakeJob{name: name, schedule: "0 30 16 * * 1-5"}
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(newJob("b")))
	require.NoError(t, s.AddJob(newJob("a")))

	err := s.AddJob(newJob("a"))
	assert.Error(t, err)
	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())
}

func TestScheduler_AddJob_InvalidSchedule(t *testing.T) {
	s := New(logger.Nop())

	job := newJob("bad")
	job.schedule = "not a cron"

	assert.Error(t, s.AddJob(job))
	assert.Empty(t, s.GetAllJobs())
}

func TestScheduler_RemoveJob(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(newJob("a")))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Empty(t, s.cron.Entries())

	assert.Error(t, s.RemoveJob("a"))
}

func TestScheduler_RunJob_NoRetry(t *testing.T) {
	s := New(logger.Nop())
	job := newJob("failing")
	job.err = errors.New("provider down")
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob("failing")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "provider down", result.Error)
	assert.Equal(t, int32(1), job.calls.Load())
}

func TestScheduler_RunJob_Unknown(t *testing.T) {
	s := New(logger.Nop())

	_, err := s.RunJob("missing")
	assert.Error(t, err)
}

func TestScheduler_SkipsOverlappingRun(t *testing.T) {
	s := New(logger.Nop())
	job := newJob("slow")
	job.block = make(chan struct{})
	job.started = make(chan struct{}, 1)
	require.NoError(t, s.AddJob(job))

	var wg sync.WaitGroup
	wg.Add(1)
	var first JobResult
	go func() {
		defer wg.Done()
		first, _ = s.RunJob("slow")
	}()
	<-job.started

	second, err := s.RunJob("slow")
	require.NoError(t, err)
	assert.True(t, second.Skipped)

	close(job.block)
	wg.Wait()

	assert.True(t, first.Success)
	assert.Equal(t, int32(1), job.calls.Load())
}

func TestScheduler_StopCancelsRunningJob(t *testing.T) {
	s := New(logger.Nop())
	job := newJob("slow")
	job.block = make(chan struct{})
	job.started = make(chan struct{}, 1)
	require.NoError(t, s.AddJob(job))
	s.Start()

	done := make(chan JobResult, 1)
	go func() {
		r, _ := s.RunJob("slow")
		done <- r
	}()
	<-job.started

	s.Stop()

	select {
	case r := <-done:
		assert.False(t, r.Success)
		assert.Contains(t, r.Error, "context canceled")
	case <-time.After(2 * time.Second):
		t.Fatal("job was not cancelled")
	}
}

func TestScheduler_HistoryAndStats(t *testing.T) {
	s := New(logger.Nop())
	ok := newJob("ok")
	bad := newJob("bad")
	bad.err = errors.New("boom")
	require.NoError(t, s.AddJob(ok))
	require.NoError(t, s.AddJob(bad))

	for i := 0; i < 3; i++ {
		_, _ = s.RunJob("ok")
	}
	_, _ = s.RunJob("bad")

	history, err := s.GetJobHistory("ok", 10)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	// returned slice is a copy
	history[0].JobName = "mutated"
	again, _ := s.GetJobHistory("ok", 10)
	assert.Equal(t, "ok", again[0].JobName)

	_, err = s.GetJobHistory("missing", 1)
	assert.Error(t, err)

	stats := s.GetJobStats()
	require.Contains(t, stats, "ok")
	assert.Equal(t, 3, stats["ok"].TotalRuns)
	assert.Equal(t, 3, stats["ok"].SuccessCount)
	assert.InDelta(t, 1.0, stats["ok"].SuccessRate, 1e-9)
	assert.NotNil(t, stats["ok"].LastSuccess)

	assert.Equal(t, 1, stats["bad"].FailureCount)
	assert.InDelta(t, 0.0, stats["bad"].SuccessRate, 1e-9)
	assert.NotNil(t, stats["bad"].LastFailure)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+5; i++ {
		h.AddResult(JobResult{JobName: "j", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, maxHistory)

	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Len(t, h.GetLatestResults(1000), maxHistory)
	assert.Empty(t, h.GetLatestResults(0))

	h = &JobHistory{}
	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Skipped: true})
	h.AddResult(JobResult{Error: "x"})

	assert.Len(t, h.GetFailedResults(), 1)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
	assert.InDelta(t, 0.0, (&JobHistory{}).GetSuccessRate(), 1e-9)
}
