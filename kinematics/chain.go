package kinematics

import "math"

// Point is a world-frame position in millimeters.
type Point struct {
	X, Y, Z float64
}

// Chain returns the world positions of the joint centers for the given joint
// state: base, shoulder, elbow, wrist, and tool center point. The points are
// partial sums of the same cylindrical construction Pose uses, so the last
// entry always agrees with Pose's position.
func (p Params) Chain(j Joints) [5]Point {
	s := j[J1] * degToRad
	theta2, theta3, theta4 := p.thetas(j)

	cs, sn := math.Cos(s), math.Sin(s)
	world := func(r, z float64) Point {
		return Point{X: cs * r, Y: sn * r, Z: z}
	}

	r := p.ShoulderOffset
	z := p.BaseHeight
	shoulder := world(r, z)

	r += p.LowerArmLength * math.Cos(theta2)
	z += p.LowerArmLength * math.Sin(theta2)
	elbow := world(r, z)

	r += p.UpperArmLength * math.Cos(theta3)
	z += p.UpperArmLength * math.Sin(theta3)
	wrist := world(r, z)

	r += p.ToolLength * math.Cos(theta4)
	z += p.ToolLength * math.Sin(theta4)
	tcp := world(r, z)

	return [5]Point{{0, 0, 0}, shoulder, elbow, wrist, tcp}
}
