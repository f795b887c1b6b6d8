package resample

import (
	"math"
	"testing"
)

func TestProcessFrameCountApproximatesRatio(t *testing.T) {
	r := New(228000, 192000)
	const chunk = 1024
	const chunks = 200
	in := make([]float64, chunk)
	total := 0
	for c := 0; c < chunks; c++ {
		out := r.Process(in)
		total += len(out)
	}
	want := float64(chunk*chunks) * r.ratio
	if diff := math.Abs(float64(total) - want); diff > 4 {
		t.Fatalf("total output frames %d too far from expected %.1f (diff %.2f)", total, want, diff)
	}
}

func TestProcessPassesDCAtUnityGain(t *testing.T) {
	r := New(228000, 192000)
	in := make([]float64, 8192)
	for i := range in {
		in[i] = 1.0
	}
	out := r.Process(in)
	// skip the filter's startup transient; the steady-state region
	// should sit close to 1.0 since each polyphase branch is
	// normalized to unity DC gain.
	if len(out) < 100 {
		t.Fatalf("not enough output samples to check steady state: %d", len(out))
	}
	for i := len(out) - 50; i < len(out); i++ {
		if math.Abs(out[i]-1.0) > 0.05 {
			t.Fatalf("sample %d = %v, want close to 1.0", i, out[i])
		}
	}
}

func TestProcessHandlesUpsampling(t *testing.T) {
	r := New(192000, 228000)
	in := make([]float64, 4096)
	out := r.Process(in)
	want := float64(len(in)) * r.ratio
	if diff := math.Abs(float64(len(out)) - want); diff > 4 {
		t.Fatalf("upsampled output frames %d too far from expected %.1f", len(out), want)
	}
}
