package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/opd-ai/go-spaceshooter/pkg/entity"
)

// WaveType selects an oscillator shape
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a raw wave. A zero duration streams forever.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	noise    *rand.Rand
}

// NewOscillator creates an oscillator. Pass duration 0 for an endless one.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		noise:    rand.New(rand.NewPCG(uint64(freq*1000)+1, 0x5eed)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.duration > 0 && o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = o.noise.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay fades a stream out exponentially and ends it after duration.
type decay struct {
	streamer beep.Streamer
	rate     beep.SampleRate
	speed    float64
	position int
	total    int
}

// NewDecay shapes s with a sharp attack and an exponential tail.
func NewDecay(s beep.Streamer, duration time.Duration, speed float64, rate beep.SampleRate) beep.Streamer {
	return &decay{streamer: s, rate: rate, speed: speed, total: rate.N(duration)}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	if d.position >= d.total {
		return 0, false
	}
	if remaining := d.total - d.position; len(samples) > remaining {
		samples = samples[:remaining]
	}
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		t := float64(d.position) / float64(d.rate)
		vol := math.Exp(-t * d.speed)
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// arpeggio loops a note sequence forever. Used for the music tracks.
type arpeggio struct {
	notes    []float64
	noteLen  int
	position int
	phase    float64
	rate     beep.SampleRate
}

func newArpeggio(notes []float64, noteLen time.Duration, rate beep.SampleRate) beep.Streamer {
	return &arpeggio{notes: notes, noteLen: rate.N(noteLen), rate: rate}
}

func (a *arpeggio) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		note := (a.position / a.noteLen) % len(a.notes)
		inNote := float64(a.position%a.noteLen) / float64(a.noteLen)
		env := 1 - inNote

		val := 0.5 * env * math.Sin(2*math.Pi*a.phase)
		samples[i][0] = val
		samples[i][1] = val

		a.phase += a.notes[note] / float64(a.rate)
		a.phase -= math.Floor(a.phase)
		a.position++
	}
	return len(samples), true
}

func (a *arpeggio) Err() error { return nil }

// newVolume scales a stream linearly. math.Log2(0) is -Inf, so zero maps
// to silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// sineBurst is a pure tone of the given length with a decay tail.
func sineBurst(freq float64, d time.Duration, speed float64, rate beep.SampleRate) beep.Streamer {
	tone, err := generators.SineTone(rate, freq)
	if err != nil {
		tone = NewOscillator(freq, d, WaveSine, rate)
	}
	return NewDecay(tone, d, speed, rate)
}

// Patch builds a fresh streamer for a sound event. Loop reports whether
// the sound runs until it is stopped.
type Patch struct {
	Loop  bool
	Build func(rate beep.SampleRate) beep.Streamer
}

// DefaultPatches synthesizes every sound event the game emits.
func DefaultPatches() map[string]Patch {
	return map[string]Patch{
		entity.SoundTitleMusic: {Loop: true, Build: func(r beep.SampleRate) beep.Streamer {
			return newVolume(newArpeggio([]float64{220, 277.18, 329.63, 440}, 250*time.Millisecond, r), 0.3)
		}},
		entity.SoundGameMusic: {Loop: true, Build: func(r beep.SampleRate) beep.Streamer {
			return newVolume(newArpeggio([]float64{110, 130.81, 146.83, 164.81, 146.83, 130.81}, 180*time.Millisecond, r), 0.3)
		}},
		entity.SoundThrust: {Loop: true, Build: func(r beep.SampleRate) beep.Streamer {
			return newVolume(NewOscillator(0, 0, WaveNoise, r), 0.15)
		}},
		entity.SoundShoot: {Build: func(r beep.SampleRate) beep.Streamer {
			return newVolume(NewDecay(NewOscillator(880, 0, WaveSquare, r), 120*time.Millisecond, 25, r), 0.25)
		}},
		entity.SoundShield: {Build: func(r beep.SampleRate) beep.Streamer {
			return newVolume(sineBurst(523.25, time.Second, 3, r), 0.3)
		}},
		entity.SoundPause: {Build: func(r beep.SampleRate) beep.Streamer {
			return beep.Seq(
				newVolume(sineBurst(660, 80*time.Millisecond, 10, r), 0.4),
				newVolume(sineBurst(440, 80*time.Millisecond, 10, r), 0.4),
			)
		}},
		entity.SoundCollision: {Build: func(r beep.SampleRate) beep.Streamer {
			return newVolume(sineBurst(70, 200*time.Millisecond, 15, r), 0.5)
		}},
		entity.SoundExplosion: {Build: func(r beep.SampleRate) beep.Streamer {
			return newVolume(NewDecay(NewOscillator(0, 0, WaveNoise, r), 1500*time.Millisecond, 3, r), 0.6)
		}},
		entity.SoundBigAsteroid: {Build: func(r beep.SampleRate) beep.Streamer {
			return noiseThump(90, 600*time.Millisecond, 6, r)
		}},
		entity.SoundMediumAsteroid: {Build: func(r beep.SampleRate) beep.Streamer {
			return noiseThump(140, 400*time.Millisecond, 9, r)
		}},
		entity.SoundSmallAsteroid: {Build: func(r beep.SampleRate) beep.Streamer {
			return noiseThump(220, 250*time.Millisecond, 14, r)
		}},
		entity.SoundPowerUp: {Build: func(r beep.SampleRate) beep.Streamer {
			return beep.Seq(
				newVolume(sineBurst(987.77, 90*time.Millisecond, 8, r), 0.4),
				newVolume(sineBurst(1318.51, 180*time.Millisecond, 8, r), 0.4),
			)
		}},
	}
}

// noiseThump mixes a low tone with noise for the asteroid explosions.
func noiseThump(freq float64, d time.Duration, speed float64, rate beep.SampleRate) beep.Streamer {
	return beep.Mix(
		newVolume(sineBurst(freq, d, speed, rate), 0.4),
		newVolume(NewDecay(NewOscillator(0, 0, WaveNoise, rate), d, speed, rate), 0.3),
	)
}
