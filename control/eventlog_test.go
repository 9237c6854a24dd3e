package control

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/momentics/hioload-rt/api"
)

func TestEventLog_EvictsOldest(t *testing.T) {
	el := NewEventLog(3, nil)
	for i := 0; i < 5; i++ {
		el.Record(api.DiagnosticEvent{Code: api.ErrCodeInvalidFree, Detail: string(rune('a' + i))})
	}
	events := el.Events()
	if len(events) != 3 || events[0].Detail != "c" || events[2].Detail != "e" {
		t.Fatalf("events = %+v", events)
	}
	if el.Total() != 5 || el.Dropped() != 2 || el.Len() != 3 {
		t.Fatalf("total=%d dropped=%d len=%d", el.Total(), el.Dropped(), el.Len())
	}
	if events[0].At.IsZero() {
		t.Fatal("events must be timestamped")
	}
}

func TestEventLog_RecordError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	el := NewEventLog(0, zap.New(core))

	el.RecordError("pool", api.ErrInvalidFree.With("addr", 1))
	el.RecordError("lock", api.ErrLockMisuse)
	el.RecordError("other", errors.New("boom"))
	el.RecordError("none", nil)

	if el.Count(api.ErrCodeInvalidFree) != 1 || el.Count(api.ErrCodeLockMisuse) != 1 || el.Count(api.ErrCodeInternal) != 1 {
		t.Fatalf("events = %+v", el.Events())
	}
	if logs.Len() != 3 {
		t.Fatalf("logged %d events, want 3", logs.Len())
	}
}
