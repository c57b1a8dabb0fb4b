// Package sampler provides the seedable distribution capability used by the
// stochastic pipeline stages.
//
// The Sampler interface covers the binomial, Bernoulli, exponential, gamma,
// and Poisson families; the default implementation draws from gonum's
// distuv distributions over an explicit rand.Source, so a fixed seed
// reproduces identical draws. Custom families plug in by implementing the
// interface.
package sampler
