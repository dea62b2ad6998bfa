package audio

import (
	"context"
	"sync"

	"github.com/opd-ai/go-spaceshooter/pkg/entity"
	"github.com/opd-ai/go-spaceshooter/pkg/logging"
)

// Call methods recorded by Recorder
const (
	MethodPlay   = "play"
	MethodPause  = "pause"
	MethodResume = "resume"
	MethodStop   = "stop"
	MethodPan    = "pan"
)

// Call is one call received by a Recorder
type Call struct {
	Method string
	Event  string
	Object entity.ObjectID
	ID     entity.PlayingID
	X      float64
}

// Recorder is an AudioSink that keeps every call. It is safe for
// concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	next  entity.PlayingID
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *Recorder) PlayEvent(event string, obj entity.ObjectID) entity.PlayingID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.calls = append(r.calls, Call{Method: MethodPlay, Event: event, Object: obj, ID: r.next})
	return r.next
}

func (r *Recorder) PauseEvent(event string, obj entity.ObjectID, id entity.PlayingID) {
	r.record(Call{Method: MethodPause, Event: event, Object: obj, ID: id})
}

func (r *Recorder) ResumeEvent(event string, obj entity.ObjectID, id entity.PlayingID) {
	r.record(Call{Method: MethodResume, Event: event, Object: obj, ID: id})
}

func (r *Recorder) StopEvent(event string, obj entity.ObjectID, id entity.PlayingID) {
	r.record(Call{Method: MethodStop, Event: event, Object: obj, ID: id})
}

func (r *Recorder) SetPositionalParameter(obj entity.ObjectID, x float64) {
	r.record(Call{Method: MethodPan, Object: obj, X: x})
}

// Calls returns a copy of every recorded call
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many times method was called for event
func (r *Recorder) Count(method, event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Method == method && c.Event == event {
			n++
		}
	}
	return n
}

// Played returns the played event names in order
func (r *Recorder) Played() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.calls {
		if c.Method == MethodPlay {
			out = append(out, c.Event)
		}
	}
	return out
}

// Reset forgets every recorded call
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// LoggingSink writes every sound event to a logger at debug level and
// forwards it to an optional next sink.
type LoggingSink struct {
	Next   entity.AudioSink
	logger *logging.Logger
}

// NewLoggingSink wraps next. A nil next only logs.
func NewLoggingSink(logger *logging.Logger, next entity.AudioSink) *LoggingSink {
	if next == nil {
		next = entity.NopAudio{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LoggingSink{Next: next, logger: logger.With("component", "audio")}
}

func (l *LoggingSink) PlayEvent(event string, obj entity.ObjectID) entity.PlayingID {
	id := l.Next.PlayEvent(event, obj)
	l.logger.Debug(context.Background(), "sound play", "event", event, "object", uint64(obj), "playing_id", uint64(id))
	return id
}

func (l *LoggingSink) PauseEvent(event string, obj entity.ObjectID, id entity.PlayingID) {
	l.logger.Debug(context.Background(), "sound pause", "event", event, "object", uint64(obj), "playing_id", uint64(id))
	l.Next.PauseEvent(event, obj, id)
}

func (l *LoggingSink) ResumeEvent(event string, obj entity.ObjectID, id entity.PlayingID) {
	l.logger.Debug(context.Background(), "sound resume", "event", event, "object", uint64(obj), "playing_id", uint64(id))
	l.Next.ResumeEvent(event, obj, id)
}

func (l *LoggingSink) StopEvent(event string, obj entity.ObjectID, id entity.PlayingID) {
	l.logger.Debug(context.Background(), "sound stop", "event", event, "object", uint64(obj), "playing_id", uint64(id))
	l.Next.StopEvent(event, obj, id)
}

func (l *LoggingSink) SetPositionalParameter(obj entity.ObjectID, x float64) {
	l.Next.SetPositionalParameter(obj, x)
}
