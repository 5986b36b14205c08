package metrics

import (
	"math"

	"github.com/san-kum/doubleswing/internal/dynamo"
)

// SpeedBound reports the fraction of frames in which both angular velocities
// stayed within threshold. State layout is [th1, w1, th2, w2].
type SpeedBound struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewSpeedBound(threshold float64) *SpeedBound {
	return &SpeedBound{
		name:      "speed_bound",
		threshold: threshold,
	}
}

func (s *SpeedBound) Name() string {
	return s.name
}

func (s *SpeedBound) Observe(x dynamo.State, u dynamo.Control, t float64) {
	s.samples++
	for i := 1; i < len(x); i += 2 {
		if math.Abs(x[i]) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *SpeedBound) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *SpeedBound) Reset() {
	s.violations = 0
	s.samples = 0
}
