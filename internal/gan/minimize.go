package gan

import (
	"fmt"

	"github.com/gannet-ml/gannet/internal/autodiff"
	"github.com/gannet-ml/gannet/internal/nn"
	"github.com/gannet-ml/gannet/internal/optim"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// LossFunc produces a scalar loss tensor. It is evaluated under a
// recording tape, so every backend operation it performs becomes part of
// the differentiated graph.
type LossFunc[B tensor.Backend] func() (*tensor.Tensor[B], error)

// Minimize runs one gradient descent step: it evaluates lossFn while
// recording the computation, backpropagates the scalar loss, pairs each
// parameter in params with its gradient, applies the optimizer update, and
// returns the loss value that was computed so the caller can monitor it.
//
// The tape is cleared before and after the step, so Minimize can be called
// once per training step indefinitely; the only state that survives a call
// is the optimizer's own (moments, velocities).
//
// A parameter that the loss never touched has no gradient and is left
// unchanged; that is not an error. A loss that is NaN or Inf aborts the
// step with ErrComputation before the optimizer sees any gradients.
func Minimize[B tensor.Backend](
	backend *autodiff.AutodiffBackend[B],
	optimizer optim.Optimizer,
	lossFn LossFunc[*autodiff.AutodiffBackend[B]],
	params []*nn.Parameter[*autodiff.AutodiffBackend[B]],
) (*tensor.Tensor[*autodiff.AutodiffBackend[B]], error) {
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()
	loss, err := lossFn()
	tape.StopRecording()
	if err != nil {
		tape.Clear()
		return nil, err
	}
	if loss == nil {
		tape.Clear()
		return nil, fmt.Errorf("minimize: loss function returned no value: %w", ErrInvalidArgument)
	}
	if err := checkFinite("minimize", loss.Item()); err != nil {
		tape.Clear()
		return nil, err
	}

	grads := autodiff.Backward(loss, backend)
	tape.Clear()

	// Restrict the update to exactly the requested variables, in order.
	paired := make(map[*tensor.RawTensor]*tensor.RawTensor, len(params))
	for _, p := range params {
		grad, ok := grads[p.Tensor().Raw()]
		if !ok {
			continue
		}
		paired[p.Tensor().Raw()] = grad
		p.SetGrad(tensor.New(grad, backend))
	}
	optimizer.Step(paired)

	return loss, nil
}

// MinimizeOp composes a minimization step once and returns it as a
// deferred operation to be executed repeatedly, for callers that separate
// building a training step from running it. Each invocation behaves
// exactly like a Minimize call.
func MinimizeOp[B tensor.Backend](
	backend *autodiff.AutodiffBackend[B],
	optimizer optim.Optimizer,
	lossFn LossFunc[*autodiff.AutodiffBackend[B]],
	params []*nn.Parameter[*autodiff.AutodiffBackend[B]],
) func() (*tensor.Tensor[*autodiff.AutodiffBackend[B]], error) {
	return func() (*tensor.Tensor[*autodiff.AutodiffBackend[B]], error) {
		return Minimize(backend, optimizer, lossFn, params)
	}
}
