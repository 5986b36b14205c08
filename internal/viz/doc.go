// Package viz is the interactive terminal driver for the pendulum, built on
// Bubble Tea:
//
//   - [Model]: the live simulation with mouse grab and parameter tuning
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - Theme selection with built-in color schemes
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	R      - Reset to hanging at rest
//	I      - Reset to the initial state
//	Tab    - Cycle parameters
//	Up/K   - Increase parameter (+5%)
//	Down/J - Decrease parameter (-5%)
//	T      - Cycle color themes
//	?      - Show help overlay
//
// # Mouse
//
// Press near a bob to grab it. Dragging bob 1 imposes link 1's angle and
// lets link 2 swing from it; dragging bob 2 holds link 2 while link 1
// reacts. Releasing hands the estimated angular velocity back to the
// simulation, so a flick throws the pendulum.
package viz
