// Package dynamo provides the shared ODE vocabulary used across doubleswing.
//
// The package defines the fundamental interfaces and types for fixed-step
// numerical integration:
//
//   - [State]: flat state vector
//   - [Control]: input held constant across one step
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical integrator interface
//   - [Metric], [Observer]: per-frame diagnostics hooks
//   - [Configurable]: named parameters for live tuning
//
// # Example
//
//	p := physics.DefaultParams()
//	dyn := physics.NewDoublePendulum(&p)
//	rk := integrators.NewRK4()
//	x = rk.Step(dyn, x, nil, t, dt)
//
// # Thread Safety
//
// Nothing in this package synchronizes. Systems and integrators hold scratch
// buffers and must be owned by a single goroutine.
package dynamo
