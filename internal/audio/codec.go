package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"

	"github.com/listenbank/listenbank-backend/internal/pkg/logger"
)

// Codec loads clips into PCM and writes PCM back out as MP3. The
// production implementation shells out to ffmpeg; tests substitute a
// fake so the pipeline can be exercised without system binaries.
type Codec interface {
	Decode(ctx context.Context, path string) ([]int16, error)
	EncodeMP3(ctx context.Context, samples []int16, outPath string) error
}

type ffmpegCodec struct {
	log        *logger.Logger
	ffmpegPath string
}

func NewFFmpegCodec(ffmpegPath string, baseLog *logger.Logger) Codec {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &ffmpegCodec{
		log:        baseLog.With("service", "FFmpegCodec"),
		ffmpegPath: ffmpegPath,
	}
}

// AssertReady verifies the ffmpeg binary is reachable.
func AssertReady(ffmpegPath string) error {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if _, err := exec.LookPath(ffmpegPath); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", ffmpegPath, err)
	}
	return nil
}

// Decode runs ffmpeg to decode an audio file to interleaved stereo
// s16le samples at SampleRate.
func (c *ffmpegCodec) Decode(ctx context.Context, path string) ([]int16, error) {
	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(SampleRate),
		"-ac", fmt.Sprint(Channels),
		"-loglevel", "error",
		"pipe:1",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode %s: %w: %s", path, err, stderr.String())
	}

	// Ensure even byte count for int16 alignment
	if len(out)%2 != 0 {
		out = out[:len(out)-1]
	}

	samples := make([]int16, len(out)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(out[i*2 : i*2+2]))
	}
	return samples, nil
}

// EncodeMP3 runs ffmpeg to encode raw PCM samples to an MP3 file.
func (c *ffmpegCodec) EncodeMP3(ctx context.Context, samples []int16, outPath string) error {
	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-y",
		"-f", "s16le",
		"-ar", fmt.Sprint(SampleRate),
		"-ac", fmt.Sprint(Channels),
		"-i", "pipe:0",
		"-codec:a", "libmp3lame",
		"-qscale:a", "2",
		"-loglevel", "error",
		outPath,
	)
	cmd.Stdin = bytes.NewReader(SamplesToBytes(samples))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg encode %s: %w: %s", outPath, err, stderr.String())
	}
	return nil
}

// SamplesToBytes converts int16 samples to little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}
