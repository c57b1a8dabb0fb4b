// Package simulation generates multi-year stochastic outbreak datasets.
//
// Each season follows a discrete-day SIR process with a jittered start day,
// binomial transmission draws, a fixed infectious duration, and a thinned,
// exponentially delayed reported-case series. All randomness flows through
// an injected sampler so a fixed seed reproduces datasets bit-for-bit.
package simulation
