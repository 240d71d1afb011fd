package selector

import (
	"math"
	"math/rand/v2"
)

// sampleGaussian draws one sample from Normal(mean, stddev) via the
// Box-Muller transform. No third-party Gaussian sampler appears anywhere in
// the example pack; math/rand/v2 is the stdlib's own source of uniform
// randomness and Box-Muller is the standard textbook transform, so this is
// implemented directly rather than imported (see DESIGN.md).
func sampleGaussian(mean, stddev float64) float64 {
	if stddev <= 0 {
		return mean
	}
	u1 := rand.Float64()
	for u1 == 0 {
		u1 = rand.Float64()
	}
	u2 := rand.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stddev*z
}
