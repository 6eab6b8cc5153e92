package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/listenbank/listenbank-backend/internal/apierr"
	"github.com/listenbank/listenbank-backend/internal/audio"
	"github.com/listenbank/listenbank-backend/internal/metrics"
	"github.com/listenbank/listenbank-backend/internal/pkg/logger"
	"github.com/listenbank/listenbank-backend/internal/types"
)

// fakeCodec decodes by file path from a fixed table and "encodes" by
// dumping raw samples, so the pipeline runs without ffmpeg.
type fakeCodec struct {
	clips map[string][]int16
}

func (f *fakeCodec) Decode(_ context.Context, path string) ([]int16, error) {
	samples, ok := f.clips[filepath.Base(path)]
	if !ok {
		return nil, fmt.Errorf("no such clip %s", path)
	}
	return samples, nil
}

func (f *fakeCodec) EncodeMP3(_ context.Context, samples []int16, outPath string) error {
	return os.WriteFile(outPath, audio.SamplesToBytes(samples), 0o644)
}

func seconds(n int) []int16 {
	return make([]int16, n*audio.SamplesPerSecond)
}

type assemblyEnv struct {
	*testEnv
	codec *fakeCodec
	svc   AssemblyService
}

func newAssemblyEnv(t *testing.T) *assemblyEnv {
	t.Helper()
	env := newTestEnv(t)
	codec := &fakeCodec{clips: map[string][]int16{}}
	svc := NewAssemblyService(logger.NewNop(), env.repo, env.store, codec, metrics.New(prometheus.NewRegistry()))
	return &assemblyEnv{testEnv: env, codec: codec, svc: svc}
}

// addQuestion inserts a catalog row and registers a decodable clip of
// the given duration with the fake codec.
func (e *assemblyEnv) addQuestion(t *testing.T, clipSeconds int) int64 {
	t.Helper()
	name := fmt.Sprintf("clip%d.mp3", len(e.codec.clips))
	q := &types.ListeningQuestion{
		AudioPath:    name,
		QuestionText: "问题",
		Answer:       "答案",
		Level:        "HSK3",
		Source:       "real_exam",
	}
	if err := e.db.Create(q).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	if _, err := e.store.SaveUpload(name, strings.NewReader("mp3")); err != nil {
		t.Fatalf("seed clip: %v", err)
	}
	e.codec.clips[name] = seconds(clipSeconds)
	return q.ID
}

// addFixedClip places an announcement or ending clip on disk and in the
// fake codec's table.
func (e *assemblyEnv) addFixedClip(t *testing.T, name string, clipSeconds int) {
	t.Helper()
	path := e.store.EndingPath()
	path = filepath.Join(filepath.Dir(path), name)
	if err := os.WriteFile(path, []byte("mp3"), 0o644); err != nil {
		t.Fatalf("write fixed clip: %v", err)
	}
	e.codec.clips[name] = seconds(clipSeconds)
}

func (e *assemblyEnv) countGenerated(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Dir(e.store.GeneratedPath("x")))
	if err != nil {
		t.Fatalf("read generated dir: %v", err)
	}
	return len(entries)
}

func TestAssembleEmptyOrderRejected(t *testing.T) {
	env := newAssemblyEnv(t)
	_, err := env.svc.Assemble(context.Background(), AssembleRequest{})
	if !apierr.Is(err, apierr.CodeEmptySelection) {
		t.Fatalf("err = %v, want empty_selection", err)
	}
	if env.countGenerated(t) != 0 {
		t.Error("output file produced for empty selection")
	}
}

func TestAssembleTotalDuration(t *testing.T) {
	env := newAssemblyEnv(t)
	idA := env.addQuestion(t, 2) // 2s clip
	idB := env.addQuestion(t, 3) // 3s clip
	env.addFixedClip(t, "01.mp3", 1)
	env.addFixedClip(t, "02.mp3", 1)
	env.addFixedClip(t, "ending.mp3", 1)

	result, err := env.svc.Assemble(context.Background(), AssembleRequest{
		QuestionOrder: []int64{idA, idB},
		Durations: map[string]int{
			strconv.FormatInt(idA, 10): 5,
			strconv.FormatInt(idB, 10): 10,
		},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	// 1 + 2 + 5 + 1 + 3 + 10 + 1 seconds
	if result.Duration != 23*time.Second {
		t.Errorf("Duration = %v, want 23s", result.Duration)
	}
	if len(result.MissingClips) != 0 {
		t.Errorf("MissingClips = %v, want none", result.MissingClips)
	}
	if !strings.HasPrefix(result.Filename, "combined_") || !strings.HasSuffix(result.Filename, ".mp3") {
		t.Errorf("Filename = %q", result.Filename)
	}
	out := env.store.GeneratedPath(result.Filename)
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	wantBytes := int64(23 * audio.SamplesPerSecond * audio.BytesPerSample)
	if info.Size() != wantBytes {
		t.Errorf("output size = %d, want %d", info.Size(), wantBytes)
	}
}

func TestAssembleDefaultPause(t *testing.T) {
	env := newAssemblyEnv(t)
	id := env.addQuestion(t, 2)

	result, err := env.svc.Assemble(context.Background(), AssembleRequest{
		QuestionOrder: []int64{id},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// 2s clip + 5s default pause; announcement and ending are absent.
	if result.Duration != 7*time.Second {
		t.Errorf("Duration = %v, want 7s", result.Duration)
	}
}

func TestAssembleMissingAnnouncementAdvisory(t *testing.T) {
	env := newAssemblyEnv(t)
	id := env.addQuestion(t, 1)
	env.addFixedClip(t, "ending.mp3", 1)

	result, err := env.svc.Assemble(context.Background(), AssembleRequest{
		QuestionOrder: []int64{id},
		Durations:     map[string]int{strconv.FormatInt(id, 10): 5},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(result.MissingClips) != 1 || result.MissingClips[0] != "01.mp3" {
		t.Fatalf("MissingClips = %v, want [01.mp3]", result.MissingClips)
	}
	// Clip still plays without its announcement: 1s clip + 5s pause + 1s ending.
	if result.Duration != 7*time.Second {
		t.Errorf("Duration = %v, want 7s", result.Duration)
	}
}

func TestAssembleMissingEndingAdvisory(t *testing.T) {
	env := newAssemblyEnv(t)
	id := env.addQuestion(t, 1)
	env.addFixedClip(t, "01.mp3", 1)

	result, err := env.svc.Assemble(context.Background(), AssembleRequest{
		QuestionOrder: []int64{id},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(result.MissingClips) != 1 || result.MissingClips[0] != "ending.mp3" {
		t.Fatalf("MissingClips = %v, want [ending.mp3]", result.MissingClips)
	}
}

func TestAssembleUnknownIDSkipsPosition(t *testing.T) {
	env := newAssemblyEnv(t)
	id := env.addQuestion(t, 2)

	result, err := env.svc.Assemble(context.Background(), AssembleRequest{
		QuestionOrder: []int64{999999, id},
		Durations:     map[string]int{"999999": 30, strconv.FormatInt(id, 10): 5},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// The unknown id contributes neither clip nor silence: 2s + 5s.
	if result.Duration != 7*time.Second {
		t.Errorf("Duration = %v, want 7s", result.Duration)
	}
}

func TestAssembleAllUnknownIDs(t *testing.T) {
	env := newAssemblyEnv(t)

	// No catalog rows, no announcement or ending clips on disk: every
	// position is skipped and the export still succeeds, empty.
	result, err := env.svc.Assemble(context.Background(), AssembleRequest{
		QuestionOrder: []int64{999998, 999999},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if result.Duration != 0 {
		t.Errorf("Duration = %v, want 0", result.Duration)
	}
	want := []string{"01.mp3", "02.mp3", "ending.mp3"}
	if len(result.MissingClips) != len(want) {
		t.Fatalf("MissingClips = %v, want %v", result.MissingClips, want)
	}
	for i, name := range want {
		if result.MissingClips[i] != name {
			t.Errorf("MissingClips[%d] = %q, want %q", i, result.MissingClips[i], name)
		}
	}
	if _, err := os.Stat(env.store.GeneratedPath(result.Filename)); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestAssembleRespectsPlaybackOrder(t *testing.T) {
	env := newAssemblyEnv(t)
	idA := env.addQuestion(t, 1)
	idB := env.addQuestion(t, 2)

	// Mark clips with distinct sample values so order is observable.
	for name, samples := range env.codec.clips {
		v := int16(1)
		if name == "clip1.mp3" {
			v = 2
		}
		for i := range samples {
			samples[i] = v
		}
	}

	result, err := env.svc.Assemble(context.Background(), AssembleRequest{
		QuestionOrder: []int64{idB, idA},
		Durations:     map[string]int{strconv.FormatInt(idA, 10): 5, strconv.FormatInt(idB, 10): 5},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	raw, err := os.ReadFile(env.store.GeneratedPath(result.Filename))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	// idB's clip (value 2) must come first.
	if raw[0] != 2 {
		t.Errorf("first sample byte = %d, want clip B first", raw[0])
	}
}

func TestAssembleDecodeFailureIsFatal(t *testing.T) {
	env := newAssemblyEnv(t)
	id := env.addQuestion(t, 1)
	// Break the codec's knowledge of the stored clip.
	for name := range env.codec.clips {
		delete(env.codec.clips, name)
	}

	_, err := env.svc.Assemble(context.Background(), AssembleRequest{QuestionOrder: []int64{id}})
	if !apierr.Is(err, apierr.CodePipeline) {
		t.Fatalf("err = %v, want pipeline_error", err)
	}
	if env.countGenerated(t) != 0 {
		t.Error("output file left behind after fatal decode failure")
	}
}
