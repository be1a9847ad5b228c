package optim

import (
	"fmt"

	"github.com/gannet-ml/gannet/internal/nn"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD[B tensor.Backend] struct {
	params     []*nn.Parameter[B]
	lr         float32
	momentum   float32
	velocities map[*nn.Parameter[B]]*tensor.RawTensor
	backend    B
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig, backend B) *SGD[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD[B]{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter[B]]*tensor.RawTensor),
		backend:    backend,
	}
}

// Step performs a single optimization step.
//
// Parameters with no gradient (not in the computation graph) are skipped.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range s.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}

		paramData := param.Tensor().Data()
		gradData := grad.Data()

		if s.momentum == 0 {
			for i := range paramData {
				paramData[i] -= s.lr * gradData[i]
			}
			continue
		}

		velocity, ok := s.velocities[param]
		if !ok {
			var err error
			velocity, err = tensor.NewRaw(param.Tensor().Shape(), s.backend.Device())
			if err != nil {
				panic(err)
			}
			s.velocities[param] = velocity
		}

		velocityData := velocity.Data()
		for i := range paramData {
			velocityData[i] = s.momentum*velocityData[i] + gradData[i]
			paramData[i] -= s.lr * velocityData[i]
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD[B]) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (s *SGD[B]) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
// Useful for learning rate scheduling during training.
func (s *SGD[B]) SetLR(lr float32) {
	s.lr = lr
}

// StateDict returns velocity buffers for serialization, keyed as
// "velocity.{param_index}". Without momentum the state is empty.
func (s *SGD[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	if s.momentum == 0 {
		return stateDict
	}

	for i, param := range s.params {
		velocity, ok := s.velocities[param]
		if !ok {
			continue
		}
		stateDict[fmt.Sprintf("velocity.%d", i)] = velocity
	}
	return stateDict
}

// LoadStateDict restores velocity buffers saved by StateDict.
// Returns an error if a velocity shape doesn't match its parameter.
func (s *SGD[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if s.momentum == 0 {
		return nil
	}

	s.velocities = make(map[*nn.Parameter[B]]*tensor.RawTensor)
	for i, param := range s.params {
		raw, ok := stateDict[fmt.Sprintf("velocity.%d", i)]
		if !ok {
			// Missing velocity is initialized on the next step.
			continue
		}
		if !raw.Shape().Equal(param.Tensor().Shape()) {
			return fmt.Errorf("velocity shape mismatch for parameter %d: expected %v, got %v",
				i, param.Tensor().Shape(), raw.Shape())
		}
		s.velocities[param] = raw
	}
	return nil
}
