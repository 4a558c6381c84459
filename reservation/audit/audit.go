package audit

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Entry is one audit record: the operation, its normalized parameters,
// and the outcome. Informational only; never read back for recovery.
type Entry struct {
	Op      string
	Params  map[string]string
	Outcome string
	Error   string
}

type Recorder interface {
	Record(e Entry)
}

// LogRecorder emits one structured log event per executed operation.
// Parameters are logged as fields, not substituted into query text.
type LogRecorder struct{}

func (LogRecorder) Record(e Entry) {
	var ev *zerolog.Event
	if e.Error != "" {
		ev = log.Warn()
	} else {
		ev = log.Info()
	}
	ev = ev.Str("op", e.Op).Str("outcome", e.Outcome)
	for k, v := range e.Params {
		ev = ev.Str("param_"+k, v)
	}
	if e.Error != "" {
		ev = ev.Str("error", e.Error)
	}
	ev.Msg("dispatch")
}

// MemoryRecorder keeps the entries in order. Test use.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *MemoryRecorder) Record(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *MemoryRecorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
