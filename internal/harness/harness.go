package harness

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/fanout/internal/errors"
	"github.com/agbru/fanout/internal/logging"
)

const tracerName = "github.com/agbru/fanout/internal/harness"

// launcher starts goroutines subject to a concurrency limit.
// *errgroup.Group satisfies it.
type launcher interface {
	TryGo(f func() error) bool
	Wait() error
}

// Harness spawns, tracks and joins workers.
// A Harness is safe for concurrent use. Wait excludes Spawn while it runs, so
// a task must not spawn on its own harness while another goroutine waits.
type Harness struct {
	id        uuid.UUID
	task      Task
	limit     int
	launcher  launcher
	observers Observers
	logger    logging.Logger
	tracer    trace.Tracer
	seq       atomic.Uint64

	// launchMu is held shared around launches and exclusively by Wait.
	launchMu sync.RWMutex
}

// Option configures a Harness during construction.
type Option func(*Harness)

// WithTask sets the body every worker runs. Defaults to RecordTask.
func WithTask(t Task) Option {
	return func(h *Harness) { h.task = t }
}

// WithMaxWorkers caps the number of concurrently running workers.
// Spawn fails with ErrResourceExhausted once the cap is reached.
// n <= 0 removes the cap.
func WithMaxWorkers(n int) Option {
	return func(h *Harness) { h.limit = n }
}

// WithObserver registers lifecycle observers.
func WithObserver(obs ...Observer) Option {
	return func(h *Harness) { h.observers = append(h.observers, obs...) }
}

// WithLogger sets the harness logger. Defaults to a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(h *Harness) { h.tracer = t }
}

func withLauncher(l launcher) Option {
	return func(h *Harness) { h.launcher = l }
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		id:     uuid.New(),
		task:   RecordTask{},
		logger: logging.Nop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.launcher == nil {
		g := new(errgroup.Group)
		if h.limit > 0 {
			g.SetLimit(h.limit)
		}
		h.launcher = g
	}
	return h
}

// ID returns the harness instance identifier.
func (h *Harness) ID() uuid.UUID { return h.id }

// MaxWorkers returns the concurrency cap, 0 when unlimited.
func (h *Harness) MaxWorkers() int {
	if h.limit < 0 {
		return 0
	}
	return h.limit
}

// Spawn starts a worker for item and returns its handle.
// It fails with a ResourceExhaustedError when the worker cap is reached; the
// spawn is not retried. ctx is handed to the task and to tracing; the harness
// never cancels a worker.
func (h *Harness) Spawn(ctx context.Context, item WorkItem) (*Handle, error) {
	hd := newHandle(h.id, h.seq.Add(1), item)

	h.launchMu.RLock()
	launched := h.launcher.TryGo(func() error {
		h.run(ctx, hd)
		return nil
	})
	h.launchMu.RUnlock()
	if !launched {
		err := apperrors.ResourceExhaustedError{Label: item.Label, Limit: h.limit}
		h.logger.Error("worker spawn refused", err,
			logging.String("label", item.Label), logging.Int("limit", h.limit))
		h.notify("spawn rejected", func(o Observer) { o.SpawnRejected(item, err) })
		return nil, err
	}

	h.logger.Debug("worker spawned",
		logging.Uint64("worker", hd.id), logging.String("label", item.Label))
	h.notify("worker spawned", func(o Observer) { o.WorkerSpawned(hd.id, item) })
	close(hd.launched)
	return hd, nil
}

// run is the worker goroutine body.
func (h *Harness) run(ctx context.Context, hd *Handle) {
	<-hd.launched

	ctx, span := h.tracer.Start(ctx, "harness.worker", trace.WithAttributes(
		attribute.String("fanout.label", hd.item.Label),
		attribute.Int64("fanout.worker", int64(hd.id)),
	))
	defer span.End()

	hd.setState(StateRunning)
	h.notify("worker started", func(o Observer) { o.WorkerStarted(hd.id, hd.item) })

	start := time.Now()
	output, err := h.invoke(ctx, hd.item)
	res := Result{Item: hd.item, Output: output, Duration: time.Since(start)}

	if err != nil {
		res.Status = StatusFailure
		res.Code = apperrors.FailureCode(err)
		res.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.Error("worker failed", err,
			logging.Uint64("worker", hd.id), logging.String("label", hd.item.Label), logging.Int("code", res.Code))
		hd.setState(StateFailed)
	} else {
		res.Status = StatusSuccess
		span.SetStatus(codes.Ok, "")
		hd.setState(StateCompleted)
	}
	span.SetAttributes(attribute.Int("fanout.code", res.Code))

	hd.result = res
	h.notify("worker finished", func(o Observer) { o.WorkerFinished(hd.id, res) })
	close(hd.done)
}

// notify delivers an event to the observers, logging any observer panic.
func (h *Harness) notify(event string, fn func(Observer)) {
	if err := h.observers.each(fn); err != nil {
		h.logger.Error("observer panicked", err, logging.String("event", event))
	}
}

// invoke runs the task, converting a panic into a PanicError.
func (h *Harness) invoke(ctx context.Context, item WorkItem) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			output, err = "", apperrors.PanicError{Value: r}
		}
	}()
	return h.task.Run(ctx, item)
}

// Join blocks until the worker behind hd terminates and returns its result.
// Each handle can be joined once. A nil handle, a handle from another harness
// or a second Join returns an InvalidHandleError.
func (h *Harness) Join(hd *Handle) (Result, error) {
	if hd == nil {
		return Result{}, apperrors.InvalidHandleError{Reason: "nil handle"}
	}
	if hd.owner != h.id {
		return Result{}, apperrors.InvalidHandleError{Reason: "handle belongs to harness " + hd.owner.String()}
	}
	if !hd.joined.CompareAndSwap(false, true) {
		return Result{}, apperrors.InvalidHandleError{Reason: "worker already joined"}
	}

	<-hd.done
	h.logger.Debug("worker joined",
		logging.Uint64("worker", hd.id), logging.String("status", hd.result.Status.String()))
	return hd.result, nil
}

// MustJoin is like Join but panics on an invalid handle.
func (h *Harness) MustJoin(hd *Handle) Result {
	res, err := h.Join(hd)
	if err != nil {
		panic(err)
	}
	return res
}

// RunAll spawns one worker per item, joins every spawned worker and returns
// the results in input order. An empty input returns an empty slice without
// spawning anything.
//
// If a spawn is refused, no further items are spawned; the workers already
// running are joined, their results returned, and the refusal is returned
// as the error. Worker failures are reported in the results, not as an error.
func (h *Harness) RunAll(ctx context.Context, items []WorkItem) ([]Result, error) {
	handles := make([]*Handle, 0, len(items))
	var spawnErr error
	for _, item := range items {
		hd, err := h.Spawn(ctx, item)
		if err != nil {
			spawnErr = err
			break
		}
		handles = append(handles, hd)
	}

	results := make([]Result, 0, len(handles))
	for _, hd := range handles {
		results = append(results, h.MustJoin(hd))
	}

	if spawnErr != nil {
		return results, apperrors.WrapError(spawnErr, "spawned %d of %d workers", len(handles), len(items))
	}
	return results, nil
}

// Wait blocks until every worker spawned so far has terminated, including
// workers whose handles were never joined. Spawns issued meanwhile block until
// Wait returns.
func (h *Harness) Wait() {
	h.launchMu.Lock()
	defer h.launchMu.Unlock()
	_ = h.launcher.Wait()
}
