// control/eventlog.go
// Author: momentics <momentics@gmail.com>
//
// Bounded history of diagnostic events: invalid frees, lock misuse and
// other programming errors reported by the runtime.

package control

import (
	"errors"
	"sync"
	"time"

	"github.com/eapache/queue"
	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
)

// DefaultEventLogCapacity is used when NewEventLog gets a non-positive capacity.
const DefaultEventLogCapacity = 256

// EventLog keeps the most recent diagnostic events, evicting the oldest.
type EventLog struct {
	mu       sync.Mutex
	q        *queue.Queue
	capacity int
	total    uint64
	dropped  uint64
	log      *zap.Logger
}

// NewEventLog creates a log holding at most capacity events. Every recorded
// event is also written to l at warn level; nil disables that.
func NewEventLog(capacity int, l *zap.Logger) *EventLog {
	if capacity <= 0 {
		capacity = DefaultEventLogCapacity
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &EventLog{
		q:        queue.New(),
		capacity: capacity,
		log:      l,
	}
}

// Record appends ev, stamping it when At is zero.
func (el *EventLog) Record(ev api.DiagnosticEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	el.mu.Lock()
	if el.q.Length() == el.capacity {
		el.q.Remove()
		el.dropped++
	}
	el.q.Add(ev)
	el.total++
	el.mu.Unlock()

	el.log.Warn("diagnostic event",
		zap.Stringer("code", ev.Code),
		zap.String("source", ev.Source),
		zap.String("detail", ev.Detail))
}

// RecordError records err under source. Structured errors keep their code;
// anything else is filed as internal.
func (el *EventLog) RecordError(source string, err error) {
	if err == nil {
		return
	}
	code := api.ErrCodeInternal
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}
	el.Record(api.DiagnosticEvent{Code: code, Source: source, Detail: err.Error()})
}

// Events returns the retained events, oldest first.
func (el *EventLog) Events() []api.DiagnosticEvent {
	el.mu.Lock()
	defer el.mu.Unlock()
	out := make([]api.DiagnosticEvent, el.q.Length())
	for i := range out {
		out[i] = el.q.Get(i).(api.DiagnosticEvent)
	}
	return out
}

// Count returns how many retained events carry code.
func (el *EventLog) Count(code api.ErrorCode) int {
	el.mu.Lock()
	defer el.mu.Unlock()
	n := 0
	for i := 0; i < el.q.Length(); i++ {
		if el.q.Get(i).(api.DiagnosticEvent).Code == code {
			n++
		}
	}
	return n
}

// Len returns the number of retained events.
func (el *EventLog) Len() int {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.q.Length()
}

// Total returns the number of events ever recorded.
func (el *EventLog) Total() uint64 {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.total
}

// Dropped returns the number of events evicted by capacity.
func (el *EventLog) Dropped() uint64 {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.dropped
}
