// Package physics provides the grid, constants and source model of the
// scalar field.
//
//   - [Grid]: immutable non-uniform coordinates, usually from [FibonacciGrid]
//   - [Params]: coupling and scale constants, fixed for a run
//   - [Densities]: per-point source densities, constant for a run
//   - [GaussianPulse]: baseline field with a localized perturbation
//
// # Coherence
//
// [Params.Coherence] is the five-term multiplier applied to the density
// sum at each point. Two of its inputs, the entanglement and vacuum
// proxies, are derived from the field value itself, so the field sources
// its own multiplier:
//
//	f := p.Coherence(s[i], samples[i])
//	rhs := p.Source(samples[i], f)
package physics
