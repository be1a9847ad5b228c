package metrics

import (
	"testing"
	"time"
)

func TestWindowSnapshot(t *testing.T) {
	var w Window

	w.Record(64, 10*time.Millisecond, 40*time.Millisecond, 1.5, 0.8)
	w.Record(64, 30*time.Millisecond, 20*time.Millisecond, 1.2, 0.9)

	snap := w.Snapshot()

	if snap.Steps != 2 {
		t.Errorf("Steps = %d, want 2", snap.Steps)
	}
	// 128 samples over 100ms total.
	if snap.SamplesPerSec < 1279 || snap.SamplesPerSec > 1281 {
		t.Errorf("SamplesPerSec = %v, want ~1280", snap.SamplesPerSec)
	}
	if snap.AvgDataMS != 20 {
		t.Errorf("AvgDataMS = %v, want 20", snap.AvgDataMS)
	}
	if snap.AvgComputeMS != 30 {
		t.Errorf("AvgComputeMS = %v, want 30", snap.AvgComputeMS)
	}
	// Losses report the latest step, not an average.
	if snap.DiscriminatorLoss != 1.2 || snap.GeneratorLoss != 0.9 {
		t.Errorf("losses = %v/%v, want 1.2/0.9", snap.DiscriminatorLoss, snap.GeneratorLoss)
	}
}

func TestWindowResetsAfterSnapshot(t *testing.T) {
	var w Window

	w.Record(32, time.Millisecond, time.Millisecond, 1, 1)
	_ = w.Snapshot()

	empty := w.Snapshot()
	if empty.Steps != 0 || empty.SamplesPerSec != 0 {
		t.Errorf("window not reset: %+v", empty)
	}
}

func TestWindowZeroValueUsable(t *testing.T) {
	var w Window
	snap := w.Snapshot()
	if snap.Steps != 0 || snap.AvgDataMS != 0 {
		t.Errorf("zero window snapshot = %+v", snap)
	}
}
