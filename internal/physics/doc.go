// Package physics evaluates the equations of motion of a planar double
// pendulum: two point masses on massless rods, link 1 pinned at the origin.
//
// Two evaluators are provided:
//
//   - [Params.Accelerations]: both angular accelerations of the free system
//   - [Params.MovingPivotAccel]: link 2 alone, hanging from a suspension
//     point whose acceleration is imposed from outside
//
// [Params.PivotAccel] turns an imposed (th1, w1, a1) for link 1 into the
// cartesian acceleration of bob 1 that feeds the moving-pivot evaluator.
//
// [DoublePendulum] and [MovingPivot] wrap the evaluators as [dynamo.System]
// values so the generic integrators can step them. [DoublePendulum] also
// implements [dynamo.Hamiltonian].
//
// # Conventions
//
// Angles are measured from the downward vertical; bob positions use
// x = l*sin(th), y = l*cos(th) with +y pointing down. Potential energy is
// zero at the pivot.
package physics
