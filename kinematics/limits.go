package kinematics

import "math"

// Limits holds the per-axis closed [min, max] intervals in degrees.
type Limits [6][2]float64

// DefaultLimits are the HS220 joint ranges from the controller manual.
var DefaultLimits = Limits{
	{-180, 180}, // J1 swivel
	{0, 160},    // J2 lower arm
	{-180, 90},  // J3 upper arm
	{-360, 360}, // J4 forearm roll
	{-180, 180}, // J5 wrist bend
	{-360, 360}, // J6 tool twist
}

// Clamp returns j with every axis clamped into its limit interval. Clamping
// an already-in-range joint state is a no-op.
func (l Limits) Clamp(j Joints) Joints {
	for i := range j {
		if j[i] < l[i][0] {
			j[i] = l[i][0]
		} else if j[i] > l[i][1] {
			j[i] = l[i][1]
		}
	}
	return j
}

// Contains reports whether every axis of j lies within its limit interval.
func (l Limits) Contains(j Joints) bool {
	for i := range j {
		if j[i] < l[i][0] || j[i] > l[i][1] {
			return false
		}
	}
	return true
}

// Finite reports whether every axis of j is a finite number. NaN and Inf must
// be rejected before a joint state reaches the store or the solver.
func Finite(j Joints) bool {
	for i := range j {
		if math.IsNaN(j[i]) || math.IsInf(j[i], 0) {
			return false
		}
	}
	return true
}
