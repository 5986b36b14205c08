// Package drag estimates the angular velocity of a link that is being moved
// by hand. Drivers sample the pointer angle once per frame; the filter turns
// that noisy stream into a bounded, smoothed velocity that can be fed back
// into the dynamics and carried over on release.
package drag

import (
	"math"

	"github.com/san-kum/doubleswing/internal/angle"
)

const (
	DefaultAlpha    = 0.15
	DefaultOmegaMax = 10.0 // rad/s
	DefaultDeadband = 0.05 // rad/s
)

// Settings is the per-driver tuning of a Filter.
type Settings struct {
	Alpha    float64 `yaml:"alpha" json:"alpha"`
	OmegaMax float64 `yaml:"omega_max" json:"omega_max"`
	Deadband float64 `yaml:"deadband" json:"deadband"`
}

func DefaultSettings() Settings {
	return Settings{
		Alpha:    DefaultAlpha,
		OmegaMax: DefaultOmegaMax,
		Deadband: DefaultDeadband,
	}
}

// Filter is a first-order low-pass over wrap-safe, clamped angle differences.
// The zero value is ready to use and behaves as if just reset.
type Filter struct {
	omega     float64
	prevTheta float64
	hasPrev   bool
}

// Reset starts a new gesture at theta. The next Update only records its
// sample and reports zero velocity.
func (f *Filter) Reset(theta float64) {
	f.prevTheta = angle.Normalize(theta)
	f.omega = 0
	f.hasPrev = false
}

// Update feeds one angle sample taken dt seconds after the previous one and
// returns the filtered angular velocity.
func (f *Filter) Update(theta, dt, alpha, omegaMax float64) float64 {
	if !(dt > 0) {
		return f.omega
	}

	theta = angle.Normalize(theta)

	if !f.hasPrev {
		f.prevTheta = theta
		f.omega = 0
		f.hasPrev = true
		return 0
	}

	raw := angle.UnwrapDelta(theta, f.prevTheta) / dt
	raw = angle.ClampAbs(raw, omegaMax)

	alpha = math.Max(0, math.Min(1, alpha))
	f.omega = (1-alpha)*f.omega + alpha*raw

	f.prevTheta = theta
	return f.omega
}

// Estimate runs Update with s and snaps results inside the deadband to zero.
// Only the returned value is snapped; the running estimate is untouched.
func (f *Filter) Estimate(theta, dt float64, s Settings) float64 {
	w := f.Update(theta, dt, s.Alpha, s.OmegaMax)
	if math.Abs(w) < s.Deadband {
		return 0
	}
	return w
}

func (f *Filter) Omega() float64 { return f.omega }

// Primed reports whether the filter holds a sample to difference against.
func (f *Filter) Primed() bool { return f.hasPrev }
