package report

import (
	"fmt"
	"sync"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Event is a single progress, warning or failure notification. Table is
// empty for run-wide events.
type Event struct {
	Level   Level
	Table   string
	Message string
	Err     error
}

// Reporter receives events from the seeding and anonymization runs. How they
// are rendered is up to the implementation.
type Reporter interface {
	Report(Event)
}

type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

// Discard drops every event.
var Discard Reporter = ReporterFunc(func(Event) {})

func Info(r Reporter, table, format string, args ...any) {
	r.Report(Event{Level: LevelInfo, Table: table, Message: fmt.Sprintf(format, args...)})
}

func Success(r Reporter, table, format string, args ...any) {
	r.Report(Event{Level: LevelSuccess, Table: table, Message: fmt.Sprintf(format, args...)})
}

func Warn(r Reporter, table string, err error) {
	r.Report(Event{Level: LevelWarn, Table: table, Message: err.Error(), Err: err})
}

func Error(r Reporter, table string, err error) {
	r.Report(Event{Level: LevelError, Table: table, Message: err.Error(), Err: err})
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Report(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByLevel returns the recorded events of the given level in arrival order.
func (r *Recorder) ByLevel(level Level) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
