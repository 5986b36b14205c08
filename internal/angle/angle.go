// Package angle holds the small angle helpers shared by the core and its
// drivers. Angles are radians measured from the downward vertical.
package angle

import "math"

const twoPi = 2 * math.Pi

// Normalize maps a into (-pi, pi]. Both pi and -pi map to pi.
func Normalize(a float64) float64 {
	r := math.Remainder(a, twoPi)
	if r <= -math.Pi {
		r += twoPi
	}
	return r
}

// ClampAbs limits |v| to vmax keeping the sign of v. A negative vmax is
// treated as zero.
func ClampAbs(v, vmax float64) float64 {
	if vmax < 0 {
		vmax = 0
	}
	if math.Abs(v) > vmax {
		if v < 0 {
			return -vmax
		}
		return vmax
	}
	return v
}

// UnwrapDelta returns newTheta - prevTheta wrapped into (-pi, pi], so a sample
// pair straddling the wrap boundary yields the short way round.
func UnwrapDelta(newTheta, prevTheta float64) float64 {
	return Normalize(newTheta - prevTheta)
}

func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// FromOffset converts a screen-space offset (+x right, +y down) from a joint
// into the link angle that points at it, matching x = l*sin(th), y = l*cos(th).
func FromOffset(dx, dy float64) float64 {
	return Normalize(math.Atan2(dx, dy))
}
