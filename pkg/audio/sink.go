// Package audio provides AudioSink implementations: a synthesizing beep
// mixer for real output, a recorder for tests and a logging sink for
// headless runs.
package audio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-spaceshooter/pkg/config"
	"github.com/opd-ai/go-spaceshooter/pkg/entity"
	"github.com/opd-ai/go-spaceshooter/pkg/logging"
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// voice is one playing instance of an event
type voice struct {
	event string
	obj   entity.ObjectID
	ctrl  *beep.Ctrl
	done  atomic.Bool
}

// BeepSink plays sound events through a beep mixer. Every event is
// synthesized from a Patch, panned by the emitter's x position and added
// to the mixer. The mixer is only attached to the speaker by Start, so the
// sink also works without an audio device.
type BeepSink struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	buffer  time.Duration
	mixer   *beep.Mixer
	master  *effects.Volume
	patches map[string]Patch
	voices  map[entity.PlayingID]*voice
	pan     map[entity.ObjectID]float64
	next    entity.PlayingID
	started bool
	logger  *logging.Logger
}

// NewBeepSink creates a sink from the audio configuration.
func NewBeepSink(cfg config.AudioConfig, logger *logging.Logger) *BeepSink {
	if logger == nil {
		logger = logging.NewNop()
	}
	rate := beep.SampleRate(cfg.SampleRate)
	if rate <= 0 {
		rate = 44100
	}
	mixer := &beep.Mixer{}
	master := newVolume(mixer, cfg.MasterVolume).(*effects.Volume)

	return &BeepSink{
		rate:    rate,
		buffer:  time.Duration(cfg.BufferMillis) * time.Millisecond,
		mixer:   mixer,
		master:  master,
		patches: DefaultPatches(),
		voices:  make(map[entity.PlayingID]*voice),
		pan:     make(map[entity.ObjectID]float64),
		logger:  logger,
	}
}

// Start opens the audio device and begins playback.
func (b *BeepSink) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}
	buffer := b.buffer
	if buffer <= 0 {
		buffer = 50 * time.Millisecond
	}
	if err := speaker.Init(b.rate, b.rate.N(buffer)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(b.master)
	b.started = true
	b.logger.Info(context.Background(), "audio started", "sample_rate", int(b.rate))
	return nil
}

// Close stops every sound and releases the audio device.
func (b *BeepSink) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.withSpeaker(func() {
		for _, v := range b.voices {
			v.ctrl.Streamer = nil
		}
		b.mixer.Clear()
	})
	b.voices = make(map[entity.PlayingID]*voice)
	if b.started {
		speaker.Close()
		b.started = false
	}
}

// Streamer returns the master output. Hosts without a speaker (and tests)
// can pull samples from it directly.
func (b *BeepSink) Streamer() beep.Streamer {
	return b.master
}

// SetPatch replaces the sound used for an event.
func (b *BeepSink) SetPatch(event string, p Patch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.patches[event] = p
}

// withSpeaker runs f under the speaker lock once playback has started.
// Callers hold b.mu.
func (b *BeepSink) withSpeaker(f func()) {
	if b.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	f()
}

// PlayEvent starts a new instance of event on obj.
func (b *BeepSink) PlayEvent(event string, obj entity.ObjectID) entity.PlayingID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune()

	patch, ok := b.patches[event]
	if !ok {
		b.logger.Warn(context.Background(), "unknown sound event", "event", event)
		return 0
	}

	b.next++
	id := b.next
	v := &voice{event: event, obj: obj}

	var s beep.Streamer = &effects.Pan{Streamer: patch.Build(b.rate), Pan: b.pan[obj]}
	if !patch.Loop {
		s = beep.Seq(s, beep.Callback(func() { v.done.Store(true) }))
	}
	v.ctrl = &beep.Ctrl{Streamer: s}

	b.withSpeaker(func() { b.mixer.Add(v.ctrl) })
	b.voices[id] = v
	return id
}

// PauseEvent pauses the matching instances.
func (b *BeepSink) PauseEvent(event string, obj entity.ObjectID, id entity.PlayingID) {
	b.setPaused(event, obj, id, true)
}

// ResumeEvent resumes the matching instances.
func (b *BeepSink) ResumeEvent(event string, obj entity.ObjectID, id entity.PlayingID) {
	b.setPaused(event, obj, id, false)
}

func (b *BeepSink) setPaused(event string, obj entity.ObjectID, id entity.PlayingID, paused bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.withSpeaker(func() {
		for _, v := range b.match(event, obj, id) {
			v.ctrl.Paused = paused
		}
	})
}

// StopEvent stops the matching instances. A stopped voice drains out of
// the mixer on its next pull.
func (b *BeepSink) StopEvent(event string, obj entity.ObjectID, id entity.PlayingID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.withSpeaker(func() {
		for vid, v := range b.matchIDs(event, obj, id) {
			v.ctrl.Streamer = nil
			delete(b.voices, vid)
		}
	})
}

// SetPositionalParameter pans obj according to x: the left edge of the
// world is hard left, the right edge hard right.
func (b *BeepSink) SetPositionalParameter(obj entity.ObjectID, x float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pan[obj] = PanForX(x)
}

// PanForX maps a world x coordinate to a pan value in [-1, 1].
func PanForX(x float64) float64 {
	p := x/physics.WorldWidth*2 - 1
	switch {
	case p < -1:
		return -1
	case p > 1:
		return 1
	}
	return p
}

// Active returns the number of tracked voices that have not finished.
func (b *BeepSink) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prune()
	return len(b.voices)
}

// match returns the voices addressed by (event, obj, id). Id 0 addresses
// every instance of the event on obj.
func (b *BeepSink) match(event string, obj entity.ObjectID, id entity.PlayingID) []*voice {
	var out []*voice
	for _, v := range b.matchIDs(event, obj, id) {
		out = append(out, v)
	}
	return out
}

func (b *BeepSink) matchIDs(event string, obj entity.ObjectID, id entity.PlayingID) map[entity.PlayingID]*voice {
	out := make(map[entity.PlayingID]*voice)
	if id != 0 {
		if v, ok := b.voices[id]; ok && v.event == event && v.obj == obj {
			out[id] = v
		}
		return out
	}
	for vid, v := range b.voices {
		if v.event == event && v.obj == obj {
			out[vid] = v
		}
	}
	return out
}

// prune forgets voices whose sound has played to the end.
func (b *BeepSink) prune() {
	for id, v := range b.voices {
		if v.done.Load() {
			delete(b.voices, id)
		}
	}
}
