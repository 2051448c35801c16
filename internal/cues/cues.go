// Package cues plays the audible feedback of a workout: the pulse on set
// completion, the rest-countdown beeps and the rest-over alarm. Playback is
// strictly best-effort; a missing or broken audio device never affects
// session state.
package cues

import (
	"bytes"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 24000
	channelCount = 1
)

// tone is one sine segment of a cue.
type tone struct {
	freq     float64
	duration time.Duration
}

// Cue melodies. Frequencies follow the app's established sound language: a
// rising triad for success, a low single beep for the countdown and an
// insistent three-note alarm when rest is over.
var (
	setCompleteTones = []tone{{880, 120 * time.Millisecond}}
	countdownTones   = []tone{{440, 150 * time.Millisecond}}
	restAlarmTones   = []tone{
		{1000, 180 * time.Millisecond},
		{1200, 180 * time.Millisecond},
		{1000, 260 * time.Millisecond},
	}
	workoutDoneTones = []tone{
		{660, 150 * time.Millisecond},
		{880, 150 * time.Millisecond},
		{1100, 250 * time.Millisecond},
	}
)

// Beeper synthesizes cue tones through the system audio device.
type Beeper struct {
	ctx *oto.Context
	log *slog.Logger

	mu      sync.Mutex
	playing *oto.Player
}

// NewBeeper initializes the audio context. Returns an error when no audio
// device is available; callers typically fall back to a silent notifier.
func NewBeeper(log *slog.Logger) (*Beeper, error) {
	if log == nil {
		log = slog.Default()
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	log.Debug("audio cues initialized", "rate", sampleRate)
	return &Beeper{ctx: ctx, log: log}, nil
}

func (b *Beeper) SetComplete()     { b.play(setCompleteTones) }
func (b *Beeper) CountdownBeep()   { b.play(countdownTones) }
func (b *Beeper) RestComplete()    { b.play(restAlarmTones) }
func (b *Beeper) WorkoutComplete() { b.play(workoutDoneTones) }

// play starts the melody asynchronously, cutting off any cue still going.
func (b *Beeper) play(melody []tone) {
	pcm := renderPCM(melody)
	player := b.ctx.NewPlayer(bytes.NewReader(pcm))

	b.mu.Lock()
	if b.playing != nil {
		b.playing.Pause()
		b.playing.Close()
	}
	b.playing = player
	b.mu.Unlock()

	player.Play()
}

// Close stops any active cue and releases the player.
func (b *Beeper) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.playing != nil {
		b.playing.Pause()
		b.playing.Close()
		b.playing = nil
	}
}

// renderPCM synthesizes 16-bit little-endian mono PCM for a melody. A short
// linear fade at each tone's edges avoids clicks.
func renderPCM(melody []tone) []byte {
	var out []byte
	for _, t := range melody {
		n := int(float64(sampleRate) * t.duration.Seconds())
		fade := sampleRate / 100 // 10ms
		for i := 0; i < n; i++ {
			v := math.Sin(2 * math.Pi * t.freq * float64(i) / sampleRate)
			gain := 0.4
			if i < fade {
				gain *= float64(i) / float64(fade)
			} else if n-i < fade {
				gain *= float64(n-i) / float64(fade)
			}
			s := int16(v * gain * math.MaxInt16)
			out = append(out, byte(s), byte(s>>8))
		}
	}
	return out
}
