package sampler

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler is the distribution capability injected into the stochastic
// stages of the pipeline. Implementations must be deterministic for a
// fixed underlying source so that a fixed seed reproduces identical
// output; custom distribution families plug in by implementing this
// interface.
type Sampler interface {
	// Binomial draws the number of successes out of n independent trials
	// with success probability p.
	Binomial(n int, p float64) int
	// Bernoulli reports a single success draw with probability p.
	Bernoulli(p float64) bool
	// Exponential draws a non-negative value with the given mean.
	Exponential(mean float64) float64
	// Gamma draws from a gamma distribution with the given shape and rate.
	Gamma(shape, rate float64) float64
	// Poisson draws a non-negative count with the given mean.
	Poisson(mean float64) int
	// UniformInt draws uniformly from {0, ..., n-1}.
	UniformInt(n int) int
}

// distSampler implements Sampler on top of gonum's distuv families,
// all drawing from a single shared source.
type distSampler struct {
	src rand.Source
	rng *rand.Rand
}

// New returns a Sampler drawing from the provided source.
//
//nolint:ireturn // Returning the capability interface is the point of the constructor.
func New(src rand.Source) Sampler {
	return &distSampler{src: src, rng: rand.New(src)}
}

// NewSeeded returns a Sampler over a fresh source seeded with seed.
//
//nolint:ireturn // See New.
func NewSeeded(seed uint64) Sampler {
	return New(rand.NewSource(seed))
}

// Binomial draws from Binomial(n, p), degenerating cleanly at the edges.
func (d *distSampler) Binomial(n int, p float64) int {
	switch {
	case n <= 0 || p <= 0:
		return 0
	case p >= 1:
		return n
	}

	k := int(distuv.Binomial{N: float64(n), P: p, Src: d.src}.Rand())
	if k > n {
		k = n
	}

	if k < 0 {
		k = 0
	}

	return k
}

// Bernoulli reports a single success draw with probability p.
func (d *distSampler) Bernoulli(p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}

	return distuv.Bernoulli{P: p, Src: d.src}.Rand() == 1
}

// Exponential draws from Exponential with the given mean (scale).
func (d *distSampler) Exponential(mean float64) float64 {
	if mean <= 0 {
		return 0
	}

	return distuv.Exponential{Rate: 1 / mean, Src: d.src}.Rand()
}

// Gamma draws from Gamma(shape, rate).
func (d *distSampler) Gamma(shape, rate float64) float64 {
	if shape <= 0 || rate <= 0 {
		return 0
	}

	return distuv.Gamma{Alpha: shape, Beta: rate, Src: d.src}.Rand()
}

// Poisson draws from Poisson with the given mean.
func (d *distSampler) Poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}

	k := int(distuv.Poisson{Lambda: mean, Src: d.src}.Rand())
	if k < 0 {
		k = 0
	}

	return k
}

// UniformInt draws uniformly from {0, ..., n-1}, returning 0 for n <= 1.
func (d *distSampler) UniformInt(n int) int {
	if n <= 1 {
		return 0
	}

	return d.rng.Intn(n)
}
