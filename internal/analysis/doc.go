// Package analysis characterizes the motion of simulated tails.
//
//   - [Spectrum]: windowed power spectrum of one sampled tail component
//   - [DominantFrequency]: strongest non-DC sway frequency
//   - [SettleTime]: time after which a series stays within a band of its
//     final value
//
// Series come from [sim.Result.Series]:
//
//	s := analysis.Spectrum(res.Series(0, 0), cfg.Dt)
//	f := s.DominantFrequency()
package analysis
