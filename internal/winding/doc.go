// Package winding implements the winding transform over composite signals.
//
// A time series is wrapped around a circle at an analysis lap rate (laps per
// 1000 ms of signal time). Each sample becomes a point whose distance from
// the center is the base radius modulated by the sample value. Averaging the
// wound points gives a centroid that approximates the Fourier coefficient of
// the signal at the lap rate:
//
//   - [Mapper]: one sample to one planar point
//   - [Centroid]: mean of a full winding at a fixed analysis radius
//   - [Sweep]: centroid X across a range of lap rates
//   - [Analyze]: recompute every derived view from one set of inputs
//
// # Resonance
//
// When the lap rate matches a frequency present in the signal the wound
// trace leans to one side and the centroid leaves the origin:
//
//	c := winding.Centroid(oscs, 5, 0, 1000, winding.DefaultCentroidResolution)
//	if c.Norm() > 1 {
//	    // 5 Hz is present
//	}
//
// All functions are pure and safe for concurrent use.
package winding
