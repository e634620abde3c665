package harness

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/fanout/internal/errors"
)

// failingLauncher refuses the failOn-th launch and runs every other one.
type failingLauncher struct {
	g      errgroup.Group
	calls  int
	failOn int
}

func (l *failingLauncher) TryGo(f func() error) bool {
	l.calls++
	if l.calls == l.failOn {
		return false
	}
	l.g.Go(f)
	return true
}

func (l *failingLauncher) Wait() error { return l.g.Wait() }

func labels(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Item.Label
	}
	return out
}

// TestRunAll_ThreadScenario runs the two-thread fixture end to end.
func TestRunAll_ThreadScenario(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := New(WithTask(NewEchoTask(&buf)))

	results, err := h.RunAll(context.Background(), Items("Thread 1", "Thread 2"))
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, want := range []string{"Thread 1", "Thread 2"} {
		if !results[i].Success() {
			t.Errorf("result %d: expected success, got %v (%v)", i, results[i].Status, results[i].Err)
		}
		if results[i].Output != want {
			t.Errorf("result %d: expected output %q, got %q", i, want, results[i].Output)
		}
		if got := results[i].String(); got != want+" returns: 0" {
			t.Errorf("result %d: expected %q, got %q", i, want+" returns: 0", got)
		}
		if n := strings.Count(buf.String(), want+"\n"); n != 1 {
			t.Errorf("expected %q echoed once, got %d times in %q", want, n, buf.String())
		}
	}
}

// TestRunAll_Empty verifies that no worker is spawned for an empty input.
func TestRunAll_Empty(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	h := New(WithTask(TaskFunc(func(context.Context, WorkItem) (string, error) {
		calls.Add(1)
		return "", nil
	})))

	for _, items := range [][]WorkItem{nil, {}} {
		results, err := h.RunAll(context.Background(), items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results == nil || len(results) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", results)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("expected no task invocations, got %d", calls.Load())
	}
}

// TestRunAll_OrderIndependentOfCompletion makes early items finish last.
func TestRunAll_OrderIndependentOfCompletion(t *testing.T) {
	t.Parallel()
	in := []string{"a", "b", "c", "d", "e"}
	delays := map[string]time.Duration{
		"a": 40 * time.Millisecond,
		"b": 30 * time.Millisecond,
		"c": 20 * time.Millisecond,
		"d": 10 * time.Millisecond,
		"e": 0,
	}
	var mu sync.Mutex
	var completion []string
	h := New(WithTask(TaskFunc(func(_ context.Context, item WorkItem) (string, error) {
		time.Sleep(delays[item.Label])
		mu.Lock()
		completion = append(completion, item.Label)
		mu.Unlock()
		return item.Label, nil
	})))

	results, err := h.RunAll(context.Background(), Items(in...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := labels(results)
	for i := range in {
		if got[i] != in[i] || results[i].Output != in[i] {
			t.Fatalf("expected input order %v, got %v", in, got)
		}
	}
	if len(completion) != len(in) {
		t.Errorf("expected %d completions, got %d", len(in), len(completion))
	}
}

// TestRunAll_CapturesFailures checks that worker errors and panics end up in
// results and never in the returned error.
func TestRunAll_CapturesFailures(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	h := New(WithTask(TaskFunc(func(_ context.Context, item WorkItem) (string, error) {
		switch item.Label {
		case "plain":
			return "", boom
		case "coded":
			return "", apperrors.WorkerError{Code: 42, Cause: boom}
		case "panic":
			var arr []int
			_ = arr[3]
		}
		return item.Label, nil
	})))

	results, err := h.RunAll(context.Background(), Items("ok", "plain", "coded", "panic"))
	if err != nil {
		t.Fatalf("worker failures must not surface as an error, got %v", err)
	}

	tests := []struct {
		label  string
		status Status
		code   int
	}{
		{"ok", StatusSuccess, 0},
		{"plain", StatusFailure, apperrors.FailureCodeGeneric},
		{"coded", StatusFailure, 42},
		{"panic", StatusFailure, apperrors.FailureCodePanic},
	}
	for i, tt := range tests {
		r := results[i]
		if r.Item.Label != tt.label || r.Status != tt.status || r.Code != tt.code {
			t.Errorf("result %d: expected %s/%v/%d, got %s/%v/%d", i, tt.label, tt.status, tt.code, r.Item.Label, r.Status, r.Code)
		}
	}
	if !errors.Is(results[1].Err, boom) || !errors.Is(results[2].Err, boom) {
		t.Error("captured errors should preserve their cause")
	}
	var pe apperrors.PanicError
	if !errors.As(results[3].Err, &pe) {
		t.Errorf("expected PanicError, got %T", results[3].Err)
	}
	if !AnyFailed(results) {
		t.Error("AnyFailed should report the failures")
	}
}

// TestRunAll_ResourceExhaustedJoinsSpawned simulates a refused second spawn.
func TestRunAll_ResourceExhaustedJoinsSpawned(t *testing.T) {
	t.Parallel()
	var firstFinished atomic.Bool
	var spawned atomic.Int32
	h := New(
		withLauncher(&failingLauncher{failOn: 2}),
		WithTask(TaskFunc(func(_ context.Context, item WorkItem) (string, error) {
			spawned.Add(1)
			time.Sleep(20 * time.Millisecond)
			firstFinished.Store(true)
			return item.Label, nil
		})),
	)

	results, err := h.RunAll(context.Background(), Items("Thread 1", "Thread 2", "Thread 3"))
	if !errors.Is(err, apperrors.ErrResourceExhausted) {
		t.Fatalf("expected ErrResourceExhausted, got %v", err)
	}
	if !firstFinished.Load() {
		t.Error("first worker must be joined before the error is returned")
	}
	if spawned.Load() != 1 {
		t.Errorf("expected only the first worker to run, got %d", spawned.Load())
	}
	if len(results) != 1 || results[0].Item.Label != "Thread 1" || !results[0].Success() {
		t.Errorf("expected the joined first result, got %+v", results)
	}
}

// TestSpawn_WorkerLimit exercises the real errgroup limit.
func TestSpawn_WorkerLimit(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	h := New(WithMaxWorkers(1), WithTask(TaskFunc(func(_ context.Context, item WorkItem) (string, error) {
		<-release
		return item.Label, nil
	})))

	first, err := h.Spawn(context.Background(), WorkItem{Label: "Thread 1"})
	if err != nil {
		t.Fatalf("first spawn failed: %v", err)
	}

	second, err := h.Spawn(context.Background(), WorkItem{Label: "Thread 2"})
	if second != nil {
		t.Error("refused spawn must not return a handle")
	}
	var re apperrors.ResourceExhaustedError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResourceExhaustedError, got %v", err)
	}
	if re.Label != "Thread 2" || re.Limit != 1 {
		t.Errorf("unexpected error fields: %+v", re)
	}

	close(release)
	if res := h.MustJoin(first); !res.Success() {
		t.Errorf("expected first worker to succeed, got %v", res.Err)
	}

	// The slot is free again once the first worker has returned.
	h.Wait()
	third, err := h.Spawn(context.Background(), WorkItem{Label: "Thread 3"})
	if err != nil {
		t.Fatalf("spawn after release failed: %v", err)
	}
	h.MustJoin(third)
}

// TestJoin_InvalidHandle covers every way a handle can be rejected.
func TestJoin_InvalidHandle(t *testing.T) {
	t.Parallel()
	h := New()
	other := New()

	hd, err := h.Spawn(context.Background(), WorkItem{Label: "once"})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	foreign, err := other.Spawn(context.Background(), WorkItem{Label: "foreign"})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	defer other.MustJoin(foreign)

	if _, err := h.Join(hd); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if !hd.Joined() {
		t.Error("handle should report joined")
	}

	tests := []struct {
		name   string
		handle *Handle
	}{
		{"second join", hd},
		{"nil handle", nil},
		{"foreign handle", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				res, err := h.Join(tt.handle)
				if !errors.Is(err, apperrors.ErrInvalidHandle) {
					t.Fatalf("attempt %d: expected ErrInvalidHandle, got %v", i, err)
				}
				if res.Status != StatusUnknown {
					t.Errorf("attempt %d: rejected join must not return a result", i)
				}
			}
		})
	}
	if foreign.Joined() {
		t.Error("rejected foreign join must not consume the handle")
	}
}

// TestJoin_ConcurrentSingleWinner races many joins on one handle.
func TestJoin_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()
	h := New()
	hd, err := h.Spawn(context.Background(), WorkItem{Label: "race"})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	var ok, invalid atomic.Int32
	var wg sync.WaitGroup
	barrier := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-barrier
			if _, err := h.Join(hd); err == nil {
				ok.Add(1)
			} else if errors.Is(err, apperrors.ErrInvalidHandle) {
				invalid.Add(1)
			}
		}()
	}
	close(barrier)
	wg.Wait()

	if ok.Load() != 1 || invalid.Load() != 49 {
		t.Errorf("expected exactly one successful join, got ok=%d invalid=%d", ok.Load(), invalid.Load())
	}
}

func TestMustJoin_PanicsOnInvalidHandle(t *testing.T) {
	t.Parallel()
	h := New()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, apperrors.ErrInvalidHandle) {
			t.Errorf("expected panic with ErrInvalidHandle, got %v", r)
		}
	}()
	h.MustJoin(nil)
}

// TestHandle_StateMachine walks a worker through Created, Running, Completed
// and another through Failed.
func TestHandle_StateMachine(t *testing.T) {
	t.Parallel()
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	h := New(WithTask(TaskFunc(func(_ context.Context, item WorkItem) (string, error) {
		started <- struct{}{}
		<-release
		if item.Label == "bad" {
			return "", errors.New("bad item")
		}
		return item.Label, nil
	})))

	good, err := h.Spawn(context.Background(), WorkItem{Label: "good"})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	bad, err := h.Spawn(context.Background(), WorkItem{Label: "bad"})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	<-started
	<-started

	if good.State() != StateRunning || bad.State() != StateRunning {
		t.Errorf("expected running, got %v and %v", good.State(), bad.State())
	}

	close(release)
	h.MustJoin(good)
	h.MustJoin(bad)

	if good.State() != StateCompleted {
		t.Errorf("expected completed, got %v", good.State())
	}
	if bad.State() != StateFailed {
		t.Errorf("expected failed, got %v", bad.State())
	}
	if !good.State().Terminal() || StateRunning.Terminal() {
		t.Error("Terminal should only hold for completed and failed")
	}
}

func TestHandle_CreatedBeforeLaunch(t *testing.T) {
	t.Parallel()
	hd := newHandle(New().ID(), 1, WorkItem{Label: "x"})
	if hd.State() != StateCreated {
		t.Errorf("expected created, got %v", hd.State())
	}
	if hd.ID() != 1 || hd.Item().Label != "x" {
		t.Errorf("unexpected handle fields: id=%d item=%+v", hd.ID(), hd.Item())
	}
}

// TestWait_UnjoinedWorkers verifies Wait covers handles nobody joined.
func TestWait_UnjoinedWorkers(t *testing.T) {
	t.Parallel()
	var finished atomic.Int32
	h := New(WithTask(TaskFunc(func(_ context.Context, item WorkItem) (string, error) {
		time.Sleep(10 * time.Millisecond)
		finished.Add(1)
		return item.Label, nil
	})))

	for _, item := range Items("a", "b", "c") {
		if _, err := h.Spawn(context.Background(), item); err != nil {
			t.Fatalf("spawn failed: %v", err)
		}
	}
	h.Wait()
	if finished.Load() != 3 {
		t.Errorf("expected 3 finished workers after Wait, got %d", finished.Load())
	}
}

func TestStateAndStatusStrings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		got, want string
	}{
		{StateCreated.String(), "created"},
		{StateRunning.String(), "running"},
		{StateCompleted.String(), "completed"},
		{StateFailed.String(), "failed"},
		{State(9).String(), "state(9)"},
		{StatusSuccess.String(), "success"},
		{StatusFailure.String(), "failure"},
		{StatusUnknown.String(), "unknown"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, tt.got)
		}
	}
}

func TestMaxWorkers(t *testing.T) {
	t.Parallel()
	if got := New(WithMaxWorkers(4)).MaxWorkers(); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := New(WithMaxWorkers(-1)).MaxWorkers(); got != 0 {
		t.Errorf("expected 0 for unlimited, got %d", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestEchoTask_WriteError(t *testing.T) {
	t.Parallel()
	h := New(WithTask(NewEchoTask(failingWriter{})))
	results, err := h.RunAll(context.Background(), Items("Thread 1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Success() || results[0].Code != apperrors.FailureCodeGeneric {
		t.Errorf("expected generic failure, got %+v", results[0])
	}
}

// TestWait_ConcurrentWithSpawn runs Wait in a loop while another goroutine
// keeps spawning and joining on the same harness.
func TestWait_ConcurrentWithSpawn(t *testing.T) {
	t.Parallel()
	h := New()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				h.Wait()
			}
		}
	}()

	for i := 0; i < 2000; i++ {
		hd, err := h.Spawn(context.Background(), WorkItem{Label: "w"})
		if err != nil {
			t.Fatalf("spawn %d failed: %v", i, err)
		}
		if res := h.MustJoin(hd); !res.Success() {
			t.Fatalf("worker %d failed: %+v", i, res)
		}
	}
	close(stop)
	wg.Wait()
	h.Wait()
}

// TestWait_ConcurrentRunAll overlaps two RunAll calls and a Wait on one harness.
func TestWait_ConcurrentRunAll(t *testing.T) {
	t.Parallel()
	h := New()
	items := Items("a", "b", "c", "d")

	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			for j := 0; j < 200; j++ {
				results, err := h.RunAll(context.Background(), items)
				if err != nil {
					return err
				}
				if len(results) != len(items) {
					return errors.New("short result set")
				}
				h.Wait()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent RunAll failed: %v", err)
	}
}

type panickingObserver struct {
	NopObserver
}

func (panickingObserver) WorkerStarted(uint64, WorkItem) { panic("observer bug") }

type finishCounter struct {
	NopObserver
	n atomic.Int32
}

func (c *finishCounter) WorkerFinished(uint64, Result) { c.n.Add(1) }

// TestObserver_PanicDoesNotStopWorker checks that a panicking observer
// neither kills the worker nor hides events from later observers.
func TestObserver_PanicDoesNotStopWorker(t *testing.T) {
	t.Parallel()
	counter := &finishCounter{}
	h := New(WithObserver(panickingObserver{}, counter))

	results, err := h.RunAll(context.Background(), Items("Thread 1", "Thread 2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range results {
		if !r.Success() {
			t.Errorf("result %d: expected success, got %+v", i, r)
		}
	}
	if got := counter.n.Load(); got != 2 {
		t.Errorf("expected 2 finished events after the panicking observer, got %d", got)
	}
}

func TestObservers_EachCollectsPanics(t *testing.T) {
	t.Parallel()
	counter := &finishCounter{}
	obs := Observers{panickingObserver{}, counter, panickingObserver{}}

	err := obs.each(func(o Observer) {
		o.WorkerStarted(1, WorkItem{})
		o.WorkerFinished(1, Result{})
	})
	var pe apperrors.PanicError
	if !errors.As(err, &pe) || pe.Value != "observer bug" {
		t.Fatalf("expected joined PanicError, got %v", err)
	}
	if got := counter.n.Load(); got != 1 {
		t.Errorf("expected the healthy observer to be notified once, got %d", got)
	}
}
