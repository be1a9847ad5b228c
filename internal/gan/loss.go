package gan

import (
	"fmt"
	"math"

	"github.com/gannet-ml/gannet/internal/tensor"
)

// DiscriminatorHingeLoss computes the hinge discriminator loss given two
// discriminator outputs for real and generated samples.
//
// Cf. Miyato et al., https://arxiv.org/pdf/1802.05957.pdf, equation 16:
//
//	L_D = (sum(relu(1 - logits_real)) + sum(relu(1 + logits_fake))) / globalBatchSize
//
// The division by the global batch size, rather than the local one, keeps
// the per-sample averaging correct when a step is split across replicas.
// Both hinge terms are non-negative, so the loss is always >= 0.
func DiscriminatorHingeLoss[B tensor.Backend](logitsReal, logitsFake *tensor.Tensor[B], globalBatchSize int) (*tensor.Tensor[B], error) {
	if globalBatchSize <= 0 {
		return nil, fmt.Errorf("discriminator hinge loss: global batch size must be positive, got %d: %w",
			globalBatchSize, ErrInvalidArgument)
	}
	if !logitsReal.Shape().Equal(logitsFake.Shape()) {
		return nil, fmt.Errorf("discriminator hinge loss: real and fake logits must have the same shape, got %v and %v: %w",
			logitsReal.Shape(), logitsFake.Shape(), ErrInvalidArgument)
	}

	realTerm := logitsReal.MulScalar(-1).AddScalar(1).ReLU().Sum()
	fakeTerm := logitsFake.AddScalar(1).ReLU().Sum()
	loss := realTerm.Add(fakeTerm).MulScalar(1 / float32(globalBatchSize))

	return loss, checkFinite("discriminator hinge loss", loss.Item())
}

// GeneratorHingeLoss computes the hinge generator loss given the
// discriminator output for generated samples.
//
// Cf. Miyato et al., https://arxiv.org/pdf/1802.05957.pdf, equation 17:
//
//	L_G = -sum(logits_fake) / globalBatchSize
func GeneratorHingeLoss[B tensor.Backend](logitsFake *tensor.Tensor[B], globalBatchSize int) (*tensor.Tensor[B], error) {
	if globalBatchSize <= 0 {
		return nil, fmt.Errorf("generator hinge loss: global batch size must be positive, got %d: %w",
			globalBatchSize, ErrInvalidArgument)
	}

	loss := logitsFake.Sum().MulScalar(-1 / float32(globalBatchSize))

	return loss, checkFinite("generator hinge loss", loss.Item())
}

// HingeLoss computes the full hinge GAN objective given discriminator
// outputs for real and generated samples.
//
// Returns the generator loss and the discriminator loss, in that order,
// each exactly equal to the corresponding standalone function.
func HingeLoss[B tensor.Backend](logitsReal, logitsFake *tensor.Tensor[B], globalBatchSize int) (genLoss, discLoss *tensor.Tensor[B], err error) {
	genLoss, err = GeneratorHingeLoss(logitsFake, globalBatchSize)
	if err != nil {
		return nil, nil, err
	}
	discLoss, err = DiscriminatorHingeLoss(logitsReal, logitsFake, globalBatchSize)
	if err != nil {
		return nil, nil, err
	}
	return genLoss, discLoss, nil
}

// checkFinite surfaces NaN/Inf loss values as ErrComputation instead of
// letting them poison the optimizer state silently.
func checkFinite(what string, v float32) error {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%s: non-finite value %v: %w", what, v, ErrComputation)
	}
	return nil
}
