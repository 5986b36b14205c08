// Package analysis characterizes recorded or freshly simulated double
// pendulum motion:
//
//   - [PowerSpectrum], [DominantFrequency]: frequency content of one series
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [BifurcationDiagram]: Poincare values of link 2 across a parameter sweep
//   - [NewPhasePortrait], [NewPoincareSection]: 2D views of a run
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(p, s0, dt, duration, 1e-8)
//	if lambda > 0 {
//	    // sensitive to initial conditions
//	}
package analysis
