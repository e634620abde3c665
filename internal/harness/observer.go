//go:generate mockgen -source=observer.go -destination=mocks/mock_observer.go -package=mocks

package harness

import (
	"errors"

	apperrors "github.com/agbru/fanout/internal/errors"
)

// Observer receives worker lifecycle events. Methods are called from worker
// goroutines and must be safe for concurrent use. For a given worker the
// events arrive in order: WorkerSpawned, WorkerStarted, WorkerFinished.
// WorkerFinished is delivered before Join returns. A panicking observer is
// recovered by the harness and skipped for that event.
type Observer interface {
	WorkerSpawned(id uint64, item WorkItem)
	WorkerStarted(id uint64, item WorkItem)
	WorkerFinished(id uint64, result Result)
	SpawnRejected(item WorkItem, err error)
}

// NopObserver ignores every event. Embed it to implement only some hooks.
type NopObserver struct{}

func (NopObserver) WorkerSpawned(uint64, WorkItem) {}
func (NopObserver) WorkerStarted(uint64, WorkItem) {}
func (NopObserver) WorkerFinished(uint64, Result)  {}
func (NopObserver) SpawnRejected(WorkItem, error)  {}

// Observers fans every event out to each observer in order.
type Observers []Observer

// Verify interface compliance.
var (
	_ Observer = NopObserver{}
	_ Observer = Observers(nil)
)

func (o Observers) WorkerSpawned(id uint64, item WorkItem) {
	o.each(func(obs Observer) { obs.WorkerSpawned(id, item) })
}

func (o Observers) WorkerStarted(id uint64, item WorkItem) {
	o.each(func(obs Observer) { obs.WorkerStarted(id, item) })
}

func (o Observers) WorkerFinished(id uint64, result Result) {
	o.each(func(obs Observer) { obs.WorkerFinished(id, result) })
}

func (o Observers) SpawnRejected(item WorkItem, err error) {
	o.each(func(obs Observer) { obs.SpawnRejected(item, err) })
}

// each delivers an event to every observer. A panic in one observer does not
// stop delivery to the rest; the recovered values are returned joined.
func (o Observers) each(fn func(Observer)) error {
	var errs []error
	for _, obs := range o {
		if err := deliver(obs, fn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deliver(obs Observer, fn func(Observer)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.PanicError{Value: r}
		}
	}()
	fn(obs)
	return nil
}
