// Package wave provides the signal model for composite sinusoidal signals.
//
// The package covers everything that happens before a signal is wound:
//
//   - [Oscillator]: a sine generator with a frequency in Hz and a phase in degrees
//   - [Bank]: an ordered oscillator set carrying its own id counter
//   - [Evaluate]: composite value of a set of oscillators at an instant
//   - [Sample]: discretize a time range into (time, value) samples
//   - [ScaleFactor]: guarded amplitude normalization
//
// # Example
//
//	bank := wave.NewBank().Add(220, 90)
//	s := wave.Sample(bank.Snapshot(), 0, 16, 200)
//	amp := 0.4 * height / s.Scale()
//
// # Thread Safety
//
// Every function in this package is pure. [Bank] is a value type: mutating
// methods return a new Bank and never alter the receiver's backing array,
// so a snapshot handed to an evaluation stays stable.
package wave
