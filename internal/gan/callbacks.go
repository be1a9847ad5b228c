package gan

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/gannet-ml/gannet/internal/metrics"
)

// Callback observes epoch boundaries of a fit loop.
type Callback interface {
	// OnEpochEnd is invoked after the last step of each epoch. An error
	// aborts the run.
	OnEpochEnd(m EpochMetrics) error
}

// EpochMetrics is what a fit loop hands to callbacks at an epoch boundary.
type EpochMetrics struct {
	Epoch    int // Zero-based epoch index
	Step     int // Global step count after this epoch
	Snapshot metrics.Snapshot
}

// LoggingCallback prints one key=value line per epoch to the standard
// logger.
type LoggingCallback struct{}

// OnEpochEnd implements Callback.
func (LoggingCallback) OnEpochEnd(m EpochMetrics) error {
	log.Printf("epoch=%d step=%d d_loss=%.4f g_loss=%.4f samples_per_sec=%.1f data_ms=%.2f compute_ms=%.2f",
		m.Epoch, m.Step,
		m.Snapshot.DiscriminatorLoss, m.Snapshot.GeneratorLoss,
		m.Snapshot.SamplesPerSec, m.Snapshot.AvgDataMS, m.Snapshot.AvgComputeMS)
	return nil
}

// Checkpointer is the persistence hook CheckpointCallback drives. The GAN
// model implements it by snapshotting its parameters and optimizer state.
type Checkpointer interface {
	SaveCheckpoint(path string, m EpochMetrics) error
}

// CheckpointCallback writes one checkpoint file per epoch into a run
// directory created under the model directory. The run directory name is a
// fresh UUID so concurrent or repeated runs never clobber each other.
type CheckpointCallback struct {
	target Checkpointer
	runDir string
}

// NewCheckpointCallback creates the per-run directory under modelDir and
// returns a callback that checkpoints target into it.
func NewCheckpointCallback(target Checkpointer, modelDir string) (*CheckpointCallback, error) {
	runDir := filepath.Join(modelDir, uuid.NewString())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: creating run directory: %w", err)
	}
	return &CheckpointCallback{target: target, runDir: runDir}, nil
}

// RunDir returns the directory checkpoints are written into.
func (c *CheckpointCallback) RunDir() string {
	return c.runDir
}

// OnEpochEnd implements Callback.
func (c *CheckpointCallback) OnEpochEnd(m EpochMetrics) error {
	path := filepath.Join(c.runDir, fmt.Sprintf("step-%08d.ckpt", m.Step))
	if err := c.target.SaveCheckpoint(path, m); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}
