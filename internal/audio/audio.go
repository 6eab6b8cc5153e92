// Package audio decodes MP3 clips to raw PCM, synthesizes silence, and
// assembles clips into a single exportable timeline.
package audio

const (
	SampleRate     = 44100
	Channels       = 2
	BytesPerSample = 2 // int16

	// Interleaved samples per second of audio.
	SamplesPerSecond = SampleRate * Channels
)
