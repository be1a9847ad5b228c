// Package metrics accumulates per-step training statistics over a logging
// window.
package metrics

import "time"

// Window accumulates timing and loss stats across multiple training steps.
// The zero value is ready to use.
type Window struct {
	samples   int
	data      time.Duration
	compute   time.Duration
	steps     int
	lastDLoss float64
	lastGLoss float64
}

// Record adds a new step measurement to the window.
func (w *Window) Record(batchSize int, dataTime, computeTime time.Duration, dLoss, gLoss float64) {
	w.samples += batchSize
	w.data += dataTime
	w.compute += computeTime
	w.steps++
	w.lastDLoss = dLoss
	w.lastGLoss = gLoss
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{}
	total := w.data + w.compute
	if total > 0 {
		snap.SamplesPerSec = float64(w.samples) / total.Seconds()
	}
	if w.steps > 0 {
		snap.AvgDataMS = (w.data.Seconds() * 1000) / float64(w.steps)
		snap.AvgComputeMS = (w.compute.Seconds() * 1000) / float64(w.steps)
	}
	snap.Steps = w.steps
	snap.DiscriminatorLoss = w.lastDLoss
	snap.GeneratorLoss = w.lastGLoss

	*w = Window{}
	return snap
}

// Snapshot represents loggable metrics for one window.
type Snapshot struct {
	SamplesPerSec     float64
	AvgDataMS         float64
	AvgComputeMS      float64
	Steps             int
	DiscriminatorLoss float64
	GeneratorLoss     float64
}
