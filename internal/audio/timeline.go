package audio

import (
	"time"
)

// Silence returns zeroed interleaved samples covering the given
// duration, rounded down to a whole sample per channel.
func Silence(d time.Duration) []int16 {
	if d <= 0 {
		return nil
	}
	frames := int(d.Seconds() * float64(SampleRate))
	return make([]int16, frames*Channels)
}

// Timeline is a growable PCM buffer that clips and silences are
// appended to in playback order.
type Timeline struct {
	samples []int16
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) Append(samples []int16) {
	t.samples = append(t.samples, samples...)
}

func (t *Timeline) AppendSilence(d time.Duration) {
	t.samples = append(t.samples, Silence(d)...)
}

// Len returns the number of interleaved samples accumulated so far.
func (t *Timeline) Len() int {
	return len(t.samples)
}

// Duration returns the playback time of the accumulated audio.
func (t *Timeline) Duration() time.Duration {
	frames := len(t.samples) / Channels
	return time.Duration(frames) * time.Second / SampleRate
}

// Samples exposes the accumulated buffer for export.
func (t *Timeline) Samples() []int16 {
	return t.samples
}
