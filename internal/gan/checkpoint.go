package gan

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/gannet-ml/gannet/internal/tensor"
)

// Checkpoint is a restorable snapshot of a training run: model parameters,
// optimizer state, and enough bookkeeping to resume the step schedule.
type Checkpoint struct {
	Epoch             int
	Step              int
	DiscriminatorLoss float64
	GeneratorLoss     float64
	State             map[string]*tensor.RawTensor
}

// The on-disk layout is a little-endian uint32 header length, a JSON
// header, then the float32 payloads of every entry concatenated in header
// order. Tensor data stays binary so checkpoints round-trip exactly.
type checkpointHeader struct {
	Epoch             int               `json:"epoch"`
	Step              int               `json:"step"`
	DiscriminatorLoss float64           `json:"d_loss"`
	GeneratorLoss     float64           `json:"g_loss"`
	Entries           []checkpointEntry `json:"entries"`
}

type checkpointEntry struct {
	Name  string `json:"name"`
	Shape []int  `json:"shape"`
}

// SaveCheckpoint writes ckpt to path atomically: it writes a temp file in
// the same directory and renames it into place.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	header := checkpointHeader{
		Epoch:             ckpt.Epoch,
		Step:              ckpt.Step,
		DiscriminatorLoss: ckpt.DiscriminatorLoss,
		GeneratorLoss:     ckpt.GeneratorLoss,
	}

	// Map iteration order is random in Go, so the sorted entry list fixes
	// the payload order explicitly.
	names := make([]string, 0, len(ckpt.State))
	for name := range ckpt.State {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		header.Entries = append(header.Entries, checkpointEntry{
			Name:  name,
			Shape: ckpt.State[name].Shape(),
		})
	}

	headerBytes, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("checkpoint: encoding header: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	w := bufio.NewWriter(f)

	writeErr := func() error {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(headerBytes))); err != nil {
			return err
		}
		if _, err := w.Write(headerBytes); err != nil {
			return err
		}
		var buf [4]byte
		for _, name := range names {
			for _, v := range ckpt.State[name].Data() {
				binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
				if _, err := w.Write(buf[:]); err != nil {
					return err
				}
			}
		}
		return w.Flush()
	}()
	if writeErr != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("checkpoint: writing %s: %w", tmp, writeErr)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint written by SaveCheckpoint.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %w", err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var headerLen uint32
	if err := binary.Read(r, binary.LittleEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("checkpoint: reading header length: %w", err)
	}
	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("checkpoint: reading header: %w", err)
	}
	var header checkpointHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("checkpoint: decoding header: %w", err)
	}

	ckpt := &Checkpoint{
		Epoch:             header.Epoch,
		Step:              header.Step,
		DiscriminatorLoss: header.DiscriminatorLoss,
		GeneratorLoss:     header.GeneratorLoss,
		State:             make(map[string]*tensor.RawTensor, len(header.Entries)),
	}

	var buf [4]byte
	for _, entry := range header.Entries {
		raw, err := tensor.NewRaw(tensor.Shape(entry.Shape), tensor.CPU)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: entry %q: %w", entry.Name, err)
		}
		data := raw.Data()
		for i := range data {
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return nil, fmt.Errorf("checkpoint: reading payload of %q: %w", entry.Name, err)
			}
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))
		}
		ckpt.State[entry.Name] = raw
	}
	return ckpt, nil
}
