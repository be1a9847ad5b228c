package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros(Shape{3, 4}, backend)
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	raw, err := NewRaw(shape, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return New(raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return Full(shape, 1, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full(Shape{3, 3}, 3.14, backend)
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	t := Zeros(shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from a standard normal
// distribution using the Box-Muller transform.
//
// Uses math/rand, not crypto/rand: reproducibility matters more than
// unpredictability for training.
func Randn[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[B] {
	t := Zeros(shape, b)
	data := t.Data()
	for i := 0; i < len(data); i += 2 {
		// Float64 is in [0, 1) and log(0) is -Inf; shift to (0, 1].
		u1 := 1 - rng.Float64()
		u2 := rng.Float64()
		r := math.Sqrt(-2.0 * math.Log(u1))
		data[i] = float32(r * math.Cos(2.0*math.Pi*u2))
		if i+1 < len(data) {
			data[i+1] = float32(r * math.Sin(2.0*math.Pi*u2))
		}
	}
	return t
}

// Rand creates a tensor with values uniformly distributed in [0, 1).
func Rand[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[B] {
	t := Zeros(shape, b)
	data := t.Data()
	for i := range data {
		data[i] = rng.Float32()
	}
	return t
}
