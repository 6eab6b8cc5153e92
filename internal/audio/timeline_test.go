package audio

import (
	"testing"
	"time"
)

func TestSilenceSampleCount(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{-time.Second, 0},
		{time.Second, SamplesPerSecond},
		{5 * time.Second, 5 * SamplesPerSecond},
		{500 * time.Millisecond, SamplesPerSecond / 2},
	}
	for _, tt := range tests {
		got := len(Silence(tt.d))
		if got != tt.want {
			t.Errorf("Silence(%v) length = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestSilenceIsZeroed(t *testing.T) {
	for i, s := range Silence(10 * time.Millisecond) {
		if s != 0 {
			t.Fatalf("Silence sample[%d] = %d, want 0", i, s)
		}
	}
}

func TestTimelineAppendAccumulates(t *testing.T) {
	tl := NewTimeline()
	tl.Append([]int16{1, 2, 3, 4})
	tl.Append([]int16{5, 6})
	if tl.Len() != 6 {
		t.Fatalf("Len = %d, want 6", tl.Len())
	}
	want := []int16{1, 2, 3, 4, 5, 6}
	for i, s := range tl.Samples() {
		if s != want[i] {
			t.Errorf("sample[%d] = %d, want %d", i, s, want[i])
		}
	}
}

func TestTimelineDuration(t *testing.T) {
	tl := NewTimeline()
	tl.Append(make([]int16, 2*SamplesPerSecond))
	tl.AppendSilence(3 * time.Second)
	if got := tl.Duration(); got != 5*time.Second {
		t.Errorf("Duration = %v, want 5s", got)
	}
}

func TestTimelineEmptyDuration(t *testing.T) {
	tl := NewTimeline()
	if got := tl.Duration(); got != 0 {
		t.Errorf("empty timeline Duration = %v, want 0", got)
	}
}

func TestSamplesToBytes(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 256}
	buf := SamplesToBytes(samples)
	if len(buf) != len(samples)*2 {
		t.Fatalf("SamplesToBytes length = %d, want %d", len(buf), len(samples)*2)
	}
	// 256 = 0x0100 -> little-endian [0x00, 0x01]
	idx := 5 * 2
	if buf[idx] != 0x00 || buf[idx+1] != 0x01 {
		t.Errorf("Sample 256 encoded as [%02x, %02x], want [00, 01]", buf[idx], buf[idx+1])
	}
}
