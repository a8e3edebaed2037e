package bandit

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	SamplerBeta   = "beta"
	SamplerNormal = "normal"
)

// Sampler draws one Thompson sample from Beta(alpha, beta). Implementations
// need not be safe for concurrent use; the engine calls them under its lock.
type Sampler interface {
	Sample(alpha, beta float64) float64
}

// BetaSampler draws exact Beta variates (ratio of two Gamma draws).
type BetaSampler struct {
	src rand.Source
}

// NewBetaSampler seeds a PCG source. Equal seeds replay equal draws.
func NewBetaSampler(seed uint64) *BetaSampler {
	return &BetaSampler{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

func (s *BetaSampler) Sample(alpha, beta float64) float64 {
	d := distuv.Beta{Alpha: alpha, Beta: beta, Src: s.src}
	return clamp01(d.Rand())
}

// NormalApproxSampler reproduces the legacy behaviour: a normal draw with
// the Beta mean and variance, clamped into [0, 1]. Only for parity runs.
type NormalApproxSampler struct {
	rnd *rand.Rand
}

func NewNormalApproxSampler(seed uint64) *NormalApproxSampler {
	return &NormalApproxSampler{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *NormalApproxSampler) Sample(alpha, beta float64) float64 {
	sum := alpha + beta
	mean := alpha / sum
	variance := (alpha * beta) / (sum * sum * (sum + 1))
	return clamp01(mean + s.rnd.NormFloat64()*math.Sqrt(variance))
}

func newSampler(kind string, seed uint64) Sampler {
	if kind == SamplerNormal {
		return NewNormalApproxSampler(seed)
	}
	return NewBetaSampler(seed)
}
