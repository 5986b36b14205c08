package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/doubleswing/internal/dynamo"
)

// DriveEffort is the mean magnitude of the control vector per frame. For the
// pendulum the control is the acceleration a hand imposes: the pivot of link 2
// while link 1 is held, or bob 2 relative to bob 1 while link 2 is held. Free
// frames count as zero effort.
type DriveEffort struct {
	name    string
	sum     float64
	samples int
}

func NewDriveEffort() *DriveEffort {
	return &DriveEffort{
		name: "drive_effort",
	}
}

func (d *DriveEffort) Name() string {
	return d.name
}

func (d *DriveEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(u) > 0 {
		d.sum += floats.Norm(u, 2)
	}
	d.samples++
}

func (d *DriveEffort) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *DriveEffort) Reset() {
	d.sum = 0
	d.samples = 0
}
