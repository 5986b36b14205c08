package engine_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/doubleswing/internal/engine"
	"github.com/san-kum/doubleswing/internal/physics"
)

const frame = 1.0 / 240

var _ = Describe("Engine", func() {
	var (
		params physics.Params
		start  physics.State
	)

	BeforeEach(func() {
		params = physics.DefaultParams()
		start = physics.State{Th1: 0.3, Th2: -0.2}
	})

	Describe("free stepping", func() {
		It("is deterministic", func() {
			a := engine.New(params, physics.State{Th1: 2.1, W1: 1, Th2: -1.3, W2: 4})
			b := engine.New(params, physics.State{Th1: 2.1, W1: 1, Th2: -1.3, W2: 4})

			for i := 0; i < 2000; i++ {
				a.Step(frame)
				b.Step(frame)
			}
			Expect(a.State()).To(Equal(b.State()))
		})

		It("keeps both angles in (-pi, pi] after every step", func() {
			e := engine.New(params, physics.State{Th1: 2.5, W1: 6, Th2: -2.8, W2: -9})

			for i := 0; i < 5000; i++ {
				e.Step(1.0 / 60)
				s := e.State()
				Expect(s.Th1).To(And(BeNumerically(">", -math.Pi), BeNumerically("<=", math.Pi)))
				Expect(s.Th2).To(And(BeNumerically(">", -math.Pi), BeNumerically("<=", math.Pi)))
			}
		})

		It("conserves energy to within 1% without damping", func() {
			e := engine.New(params, start)
			e0 := e.Energy()

			for i := 0; i < 10000; i++ {
				e.Step(frame)
			}
			Expect(math.Abs(e.Energy()-e0) / math.Abs(e0)).To(BeNumerically("<", 0.01))
		})

		It("leaves the rest state untouched", func() {
			e := engine.New(params, physics.State{})
			for i := 0; i < 1000; i++ {
				e.Step(frame)
			}
			Expect(e.State()).To(Equal(physics.State{}))
		})

		It("treats a stalled frame as MaxStep", func() {
			a := engine.New(params, start)
			b := engine.New(params, start)
			a.Step(10)
			b.Step(engine.MaxStep)
			Expect(a.State()).To(Equal(b.State()))
		})
	})

	Describe("damping", func() {
		var damped physics.Params

		BeforeEach(func() {
			damped = params
			damped.Damping = 0.2
		})

		It("never gains energy", func() {
			e := engine.New(damped, physics.State{Th1: 0.6, Th2: -0.4})
			prev := e.Energy()

			for i := 0; i < 5000; i++ {
				e.Step(frame)
				cur := e.Energy()
				Expect(cur).To(BeNumerically("<=", prev+1e-8))
				prev = cur
			}
		})

		It("stays below the undamped energy", func() {
			free := engine.New(params, start)
			slow := engine.New(damped, start)

			for i := 0; i < 2400; i++ {
				free.Step(frame)
				slow.Step(frame)
				Expect(slow.Energy()).To(BeNumerically("<=", free.Energy()+1e-9))
			}
		})
	})

	Describe("driven stepping", func() {
		It("reproduces the free link-2 motion when link 1 follows its free path", func() {
			ref := engine.New(params, start)
			driven := engine.New(params, start)

			for i := 0; i < 10; i++ {
				s := ref.State()
				a1, _ := params.Accelerations(s)

				driven.StepDrag(frame, s.Th1, s.W1, a1)
				ref.Step(frame)

				Expect(driven.State().Th2).To(BeNumerically("~", ref.State().Th2, 1e-2))
				Expect(driven.State().W2).To(BeNumerically("~", ref.State().W2, 1e-2))
			}
		})

		It("clamps the frame time like free stepping", func() {
			a := engine.New(params, start)
			b := engine.New(params, start)
			a.StepDrag(5, 0.4, 1, 0)
			b.StepDrag(engine.MaxStep, 0.4, 1, 0)
			Expect(a.State()).To(Equal(b.State()))
		})

		DescribeTable("normalizes the imposed angle",
			func(in, want float64) {
				e := engine.New(params, physics.State{})
				e.StepDrag(0, in, 0, 0)
				Expect(e.State().Th1).To(BeNumerically("~", want, 1e-12))
			},
			Entry("inside range", 1.0, 1.0),
			Entry("one turn over", 1.0+2*math.Pi, 1.0),
			Entry("negative pi", -math.Pi, math.Pi),
		)

		It("keeps both angles in (-pi, pi] while link 2 spins across the seam", func() {
			e := engine.New(params, physics.State{Th1: 0.5, Th2: 3.0, W2: 40})
			prev := e.State().Th2
			wraps := 0

			for i := 0; i < 2400; i++ {
				th1 := 0.5 + 3*math.Sin(float64(i)*frame)
				e.StepDrag(frame, th1, 0, 0)

				s := e.State()
				Expect(s.Th1).To(BeNumerically(">", -math.Pi))
				Expect(s.Th1).To(BeNumerically("<=", math.Pi))
				Expect(s.Th2).To(BeNumerically(">", -math.Pi))
				Expect(s.Th2).To(BeNumerically("<=", math.Pi))
				if math.Abs(s.Th2-prev) > math.Pi {
					wraps++
				}
				prev = s.Th2
			}
			Expect(wraps).To(BeNumerically(">", 1))
		})

		DescribeTable("matches one free step with a1 = 0",
			func(s physics.State, tol float64) {
				ref := engine.New(params, s)
				driven := engine.New(params, s)

				driven.StepDrag(frame, s.Th1, s.W1, 0)
				ref.Step(frame)

				Expect(driven.State().Th2).To(BeNumerically("~", ref.State().Th2, tol))
				Expect(driven.State().W2).To(BeNumerically("~", ref.State().W2, tol))
			},
			// link 1 has no angular acceleration through the bottom
			Entry("swinging through the bottom", physics.State{W1: 1, W2: 1}, 1e-3),
			Entry("at rest hanging", physics.State{}, 1e-12),
			Entry("small angles", physics.State{Th1: 0.3, Th2: -0.2}, 3e-2),
		)
	})
})
