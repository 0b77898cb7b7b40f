// Package kinematics implements the closed-form forward kinematics model for
// the HS220 six-axis arm. The model is geometric, not a full DH chain: the
// planar reach of the three pitch links is rotated about the vertical base
// axis, and the tool orientation frame is selected by the sign of that reach.
package kinematics

import "math"

// Joint indices into Joints, using the HS220 axis names.
const (
	J1 = iota // S: swivel about the vertical base axis
	J2        // H: lower-arm elevation
	J3        // V: upper-arm elevation, relative to the lower arm
	J4        // R2: forearm roll, orientation only
	J5        // B: wrist bend, accumulates with H and V
	J6        // R1: tool twist, orientation only
)

// Joints holds the six joint angles in degrees, J1..J6.
type Joints [6]float64

// Pose is a tool-center-point pose: position in millimeters, orientation as a
// fixed-axis roll/pitch/yaw triple in degrees.
type Pose struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
	RZ float64 `json:"rz"`
}

// Params holds the kinematic calibration constants, all lengths in
// millimeters and the elbow offset in degrees.
type Params struct {
	BaseHeight     float64 `json:"base_height_mm"`
	ShoulderOffset float64 `json:"shoulder_offset_mm"`
	LowerArmLength float64 `json:"lower_arm_length_mm"`
	UpperArmLength float64 `json:"upper_arm_length_mm"`
	ToolLength     float64 `json:"tool_length_mm"`
	ElbowOffsetDeg float64 `json:"elbow_offset_deg"`
}

// DefaultParams are the HS220 constants fitted against controller readings.
// These must not be changed: poses computed with different constants are not
// comparable with recorded controller data.
var DefaultParams = Params{
	BaseHeight:     643.0,
	ShoulderOffset: 352.0,
	LowerArmLength: 1075.0,
	UpperArmLength: 1210.0,
	ToolLength:     0.0,
	ElbowOffsetDeg: -90.0,
}

const degToRad = math.Pi / 180

// PlanarReach returns the signed reach of the arm in the vertical plane swept
// by J1. A negative value means the arm has folded back past its own base
// column ("back reach"), which flips the tool orientation frame.
func (p Params) PlanarReach(j Joints) float64 {
	theta2, theta3, theta4 := p.thetas(j)
	return p.ShoulderOffset +
		p.LowerArmLength*math.Cos(theta2) +
		p.UpperArmLength*math.Cos(theta3) +
		p.ToolLength*math.Cos(theta4)
}

// Pose computes the tool-center-point pose for the given joint angles. It is
// pure and total over all finite inputs; callers are responsible for clamping
// out-of-range angles and rejecting NaN before calling.
func (p Params) Pose(j Joints) Pose {
	s := j[J1] * degToRad
	theta2, theta3, theta4 := p.thetas(j)

	// Reach in the plane swept by the base swivel, then rotated into world
	// coordinates. This is a cylindrical construction: J4 and J6 are rolls
	// about the arm's own axis and never move the TCP in this model.
	rxy := p.ShoulderOffset +
		p.LowerArmLength*math.Cos(theta2) +
		p.UpperArmLength*math.Cos(theta3) +
		p.ToolLength*math.Cos(theta4)

	x := math.Cos(s) * rxy
	y := math.Sin(s) * rxy
	z := p.BaseHeight +
		p.LowerArmLength*math.Sin(theta2) +
		p.UpperArmLength*math.Sin(theta3) +
		p.ToolLength*math.Sin(theta4)

	// The orientation convention is only defined up to a reflection once the
	// arm folds back past the base column. The two branches were calibrated
	// independently on each side of rxy == 0; there is no continuous blend
	// between them, and no smoothing should ever be added here.
	pitch := theta4 / degToRad
	var rx, ry, rz float64
	if rxy >= 0 {
		rx, rz = 180, 180
		ry = pitch + 90
	} else {
		rx, rz = 0, 0
		ry = 90 - pitch
	}

	// One step is enough: the unnormalized value is bounded by construction
	// for in-range joints.
	if ry > 180 {
		ry -= 360
	} else if ry <= -180 {
		ry += 360
	}

	// A pitch sitting a float ulp past the half turn normalizes to just above
	// -180 and then rounds onto the open end of the interval. Report the half
	// turn as +180, never -180.
	ry = tidyAngle(ry)
	if ry == -180 {
		ry = 180
	}

	return Pose{
		X:  x,
		Y:  y,
		Z:  z,
		RX: tidyAngle(rx),
		RY: ry,
		RZ: tidyAngle(rz),
	}
}

// FrontReach reports whether the joints put the arm in the front-reach
// orientation frame.
func (p Params) FrontReach(j Joints) bool {
	return p.PlanarReach(j) >= 0
}

// thetas returns the cumulative link pitch angles in radians, all measured
// from horizontal. The elbow offset compensates for V being defined
// perpendicular to the lower arm at its zero position.
func (p Params) thetas(j Joints) (theta2, theta3, theta4 float64) {
	h := j[J2] * degToRad
	v := j[J3] * degToRad
	b := j[J5] * degToRad
	elbow := p.ElbowOffsetDeg * degToRad

	theta2 = h
	theta3 = h + v + elbow
	theta4 = h + v + b + elbow
	return theta2, theta3, theta4
}

// tidyAngle rounds a reported orientation angle to two decimals and squashes
// float noise below a millidegree to exactly zero. Positions are reported at
// full precision; only orientation goes through this.
func tidyAngle(deg float64) float64 {
	if math.Abs(deg) < 0.001 {
		return 0
	}
	return math.Round(deg*100) / 100
}
