package optim

import (
	"fmt"
	"math"

	"github.com/gannet-ml/gannet/internal/nn"
	"github.com/gannet-ml/gannet/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014).
// The BigGAN-style defaults used here (lr 1e-4/4e-4, beta1 0) live in the
// config package; this type takes whatever it is given.
type Adam[B tensor.Backend] struct {
	params  []*nn.Parameter[B]
	lr      float32
	beta1   float32
	beta2   float32
	eps     float32
	t       int // Timestep for bias correction
	m       map[*nn.Parameter[B]]*tensor.RawTensor
	v       map[*nn.Parameter[B]]*tensor.RawTensor
	backend B
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LR    float32    // Learning rate (default: 0.001)
	Betas [2]float32 // Running average coefficients (default: [0.9, 0.999])
	Eps   float32    // Numerical stability term (default: 1e-8)
}

// NewAdam creates a new Adam optimizer with bias correction.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig, backend B) *Adam[B] {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 && config.Betas[1] == 0 {
		config.Betas = [2]float32{0.9, 0.999}
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam[B]{
		params:  params,
		lr:      config.LR,
		beta1:   config.Betas[0],
		beta2:   config.Betas[1],
		eps:     config.Eps,
		m:       make(map[*nn.Parameter[B]]*tensor.RawTensor),
		v:       make(map[*nn.Parameter[B]]*tensor.RawTensor),
		backend: backend,
	}
}

// Step performs a single Adam optimization step.
// Parameters with no gradient are skipped.
func (a *Adam[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	a.t++

	biasCorrection1 := float32(1.0 - math.Pow(float64(a.beta1), float64(a.t)))
	biasCorrection2 := float32(1.0 - math.Pow(float64(a.beta2), float64(a.t)))

	for _, param := range a.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}

		m := a.moment(a.m, param)
		v := a.moment(a.v, param)

		gradData := grad.Data()
		mData := m.Data()
		vData := v.Data()
		paramData := param.Tensor().Data()

		for i := range paramData {
			g := gradData[i]
			mData[i] = a.beta1*mData[i] + (1.0-a.beta1)*g
			vData[i] = a.beta2*vData[i] + (1.0-a.beta2)*g*g

			mHat := mData[i] / biasCorrection1
			vHat := vData[i] / biasCorrection2

			paramData[i] -= a.lr * mHat / (float32(math.Sqrt(float64(vHat))) + a.eps)
		}
	}
}

// moment returns the stored moment buffer for a parameter, creating a
// zeroed one on first use.
func (a *Adam[B]) moment(store map[*nn.Parameter[B]]*tensor.RawTensor, param *nn.Parameter[B]) *tensor.RawTensor {
	buf, ok := store[param]
	if !ok {
		var err error
		buf, err = tensor.NewRaw(param.Tensor().Shape(), a.backend.Device())
		if err != nil {
			panic(err)
		}
		store[param] = buf
	}
	return buf
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam[B]) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (a *Adam[B]) GetLR() float32 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam[B]) SetLR(lr float32) {
	a.lr = lr
}

// GetTimestep returns the current timestep.
func (a *Adam[B]) GetTimestep() int {
	return a.t
}

// StateDict exports moment buffers, keyed "m.{i}" and "v.{i}", plus the
// bias-correction timestep under "t". Without the timestep a restored
// optimizer would re-correct late-training moments as if they were fresh,
// shrinking its first updates by orders of magnitude.
func (a *Adam[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, param := range a.params {
		if m, ok := a.m[param]; ok {
			stateDict[fmt.Sprintf("m.%d", i)] = m
		}
		if v, ok := a.v[param]; ok {
			stateDict[fmt.Sprintf("v.%d", i)] = v
		}
	}

	step, err := tensor.NewRaw(tensor.Shape{1}, a.backend.Device())
	if err != nil {
		panic(err) // Shape{1} always validates
	}
	step.Data()[0] = float32(a.t)
	stateDict["t"] = step

	return stateDict
}

// LoadStateDict restores moment buffers and the timestep saved by
// StateDict. Entries absent from the dict leave the buffers to be
// re-created lazily and the timestep at zero.
func (a *Adam[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	a.m = make(map[*nn.Parameter[B]]*tensor.RawTensor)
	a.v = make(map[*nn.Parameter[B]]*tensor.RawTensor)

	a.t = 0
	if raw, ok := stateDict["t"]; ok {
		a.t = int(raw.Data()[0])
	}

	for i, param := range a.params {
		for prefix, store := range map[string]map[*nn.Parameter[B]]*tensor.RawTensor{"m": a.m, "v": a.v} {
			raw, ok := stateDict[fmt.Sprintf("%s.%d", prefix, i)]
			if !ok {
				continue
			}
			if !raw.Shape().Equal(param.Tensor().Shape()) {
				return fmt.Errorf("%s moment shape mismatch for parameter %d: expected %v, got %v",
					prefix, i, param.Tensor().Shape(), raw.Shape())
			}
			store[param] = raw
		}
	}
	return nil
}
