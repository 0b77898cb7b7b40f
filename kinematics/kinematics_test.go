package kinematics

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// Poses recorded from the calibrated solver at known controller joint sets.
// The first entry reproduces the controller reading the model was fitted
// against exactly; the others pin the solver's behavior on each side of the
// front/back boundary.
func TestPoseRegression(t *testing.T) {
	tests := []struct {
		name   string
		joints Joints
		want   Pose
	}{
		{
			name:   "front reach, wrist folded to horizontal tool",
			joints: Joints{0, 90, 0, 0, -90, 0},
			want:   Pose{X: 1562.0, Y: 0, Z: 1718.0, RX: 180, RY: 0, RZ: 180},
		},
		{
			name:   "back reach past the base column",
			joints: Joints{0, 155, 0, 0, 0, 0},
			want:   Pose{X: -110.912774, Y: 0, Z: 2193.947054, RX: 0, RY: 25, RZ: 0},
		},
		{
			name:   "low front reach below the base plate",
			joints: Joints{0, 10, 0, 0, 0, 0},
			want:   Pose{X: 1620.782629, Y: 0, Z: -361.945590, RX: 180, RY: 10, RZ: 180},
		},
		{
			name:   "swiveled general pose",
			joints: Joints{30, 45, -20, 15, 30, -40},
			want:   Pose{X: 1405.999073, Y: 811.753943, Z: 306.507367, RX: 180, RY: 55, RZ: 180},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DefaultParams.Pose(tc.joints)

			if !almostEqual(got.X, tc.want.X, 1e-3) ||
				!almostEqual(got.Y, tc.want.Y, 1e-3) ||
				!almostEqual(got.Z, tc.want.Z, 1e-3) {
				t.Errorf("position mismatch: got (%.6f, %.6f, %.6f), want (%.6f, %.6f, %.6f)",
					got.X, got.Y, got.Z, tc.want.X, tc.want.Y, tc.want.Z)
			}
			if got.RX != tc.want.RX || got.RZ != tc.want.RZ {
				t.Errorf("frame mismatch: got rx=%v rz=%v, want rx=%v rz=%v",
					got.RX, got.RZ, tc.want.RX, tc.want.RZ)
			}
			if !almostEqual(got.RY, tc.want.RY, 1e-2) {
				t.Errorf("ry mismatch: got %v, want %v", got.RY, tc.want.RY)
			}
		})
	}
}

func TestPoseDeterministic(t *testing.T) {
	j := Joints{12.5, 80, -35, 120, -45, 200}
	first := DefaultParams.Pose(j)
	for i := 0; i < 100; i++ {
		if got := DefaultParams.Pose(j); got != first {
			t.Fatalf("iteration %d: pose changed from %+v to %+v", i, first, got)
		}
	}
}

// The orientation frame is a hard switch at rxy == 0, not a blend. With all
// other joints zero the boundary sits between J2=150.9 (rxy ~ +1.16mm) and
// J2=151.0 (rxy ~ -1.60mm).
func TestFrontBackBoundary(t *testing.T) {
	front := Joints{0, 150.9, 0, 0, 0, 0}
	back := Joints{0, 151.0, 0, 0, 0, 0}

	if r := DefaultParams.PlanarReach(front); r <= 0 {
		t.Fatalf("expected positive reach just before the boundary, got %v", r)
	}
	if r := DefaultParams.PlanarReach(back); r >= 0 {
		t.Fatalf("expected negative reach just past the boundary, got %v", r)
	}

	fp := DefaultParams.Pose(front)
	if fp.RX != 180 || fp.RZ != 180 {
		t.Errorf("front side must hold rx=rz=180 exactly, got rx=%v rz=%v", fp.RX, fp.RZ)
	}
	if !almostEqual(fp.RY, 150.9, 1e-2) {
		t.Errorf("front side ry: got %v, want 150.9", fp.RY)
	}

	bp := DefaultParams.Pose(back)
	if bp.RX != 0 || bp.RZ != 0 {
		t.Errorf("back side must hold rx=rz=0 exactly, got rx=%v rz=%v", bp.RX, bp.RZ)
	}
	if !almostEqual(bp.RY, 29.0, 1e-2) {
		t.Errorf("back side ry: got %v, want 29.0", bp.RY)
	}

	// Exactly zero reach belongs to the front branch.
	zero := Params{ShoulderOffset: 0, LowerArmLength: 0, UpperArmLength: 0}
	if p := zero.Pose(Joints{}); p.RX != 180 || p.RZ != 180 {
		t.Errorf("rxy == 0 must select the front frame, got rx=%v rz=%v", p.RX, p.RZ)
	}
}

func TestRYAlwaysNormalized(t *testing.T) {
	// Sweep the pitch-relevant joints across their full ranges.
	for h := 0.0; h <= 160; h += 16 {
		for v := -180.0; v <= 90; v += 27 {
			for b := -180.0; b <= 180; b += 36 {
				j := Joints{0, h, v, 0, b, 0}
				p := DefaultParams.Pose(j)
				if p.RY <= -180 || p.RY > 180 {
					t.Fatalf("ry out of (-180, 180] for joints %v: %v", j, p.RY)
				}
			}
		}
	}
}

// A joint state whose cumulative pitch is mathematically exactly -90 degrees
// lands a float ulp past the half turn after the degree/radian round trip.
// Normalization then leaves ry just above -180, and the two-decimal rounding
// would snap it onto the open end of the interval. The half turn must always
// be reported as +180.
func TestRYHalfTurnBoundary(t *testing.T) {
	states := []Joints{
		{0, 50, -170, 0, 120, 0},
		{90, 50, -140, 0, 90, 0},
		{0, 90, 0, 0, 90, 0},
	}
	for _, j := range states {
		p := DefaultParams.Pose(j)
		if p.RY != 180 {
			t.Errorf("expected ry 180 at the half turn for joints %v, got %v", j, p.RY)
		}
		if p.RY <= -180 || p.RY > 180 {
			t.Errorf("ry out of (-180, 180] for joints %v: %v", j, p.RY)
		}
	}
}

func TestOrientationNoiseSuppression(t *testing.T) {
	// H+V+B sums to half a millidegree; the reported ry must be exactly zero,
	// not a near-zero float artifact.
	j := Joints{0, 30, -29.9995, 0, 0, 0}
	p := DefaultParams.Pose(j)
	if p.RY != 0 {
		t.Errorf("expected ry exactly 0, got %v", p.RY)
	}
}

func TestPoseTotalOverOutOfRangeInput(t *testing.T) {
	// The solver must not panic or produce non-finite output for any finite
	// angle, including ones far outside the joint limits.
	extremes := []Joints{
		{720, -500, 1000, 1e6, -1e6, 3600},
		{-1e9, 1e9, -1e9, 1e9, -1e9, 1e9},
	}
	for _, j := range extremes {
		p := DefaultParams.Pose(j)
		for _, v := range []float64{p.X, p.Y, p.Z, p.RX, p.RY, p.RZ} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite output %v for joints %v", p, j)
			}
		}
	}
}

func TestClamp(t *testing.T) {
	t.Run("clamps each axis to its own interval", func(t *testing.T) {
		got := DefaultLimits.Clamp(Joints{-200, 200, 100, 400, -181, -400})
		want := Joints{-180, 160, 90, 360, -180, -360}
		if got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("is a no-op on in-range joints", func(t *testing.T) {
		j := Joints{10, 20, -30, 40, -50, 60}
		if got := DefaultLimits.Clamp(j); got != j {
			t.Errorf("clamp changed in-range joints: %v -> %v", j, got)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		once := DefaultLimits.Clamp(Joints{-999, 999, -999, 999, -999, 999})
		twice := DefaultLimits.Clamp(once)
		if once != twice {
			t.Errorf("re-clamping changed joints: %v -> %v", once, twice)
		}
	})
}

func TestFinite(t *testing.T) {
	if !Finite(Joints{0, 1, 2, 3, 4, 5}) {
		t.Error("finite joints reported non-finite")
	}
	if Finite(Joints{0, math.NaN(), 0, 0, 0, 0}) {
		t.Error("NaN joint reported finite")
	}
	if Finite(Joints{0, 0, math.Inf(1), 0, 0, 0}) {
		t.Error("Inf joint reported finite")
	}
}

func TestContains(t *testing.T) {
	if !DefaultLimits.Contains(Joints{0, 80, 0, 0, 0, 0}) {
		t.Error("in-range joints reported out of range")
	}
	if DefaultLimits.Contains(Joints{0, -1, 0, 0, 0, 0}) {
		t.Error("J2 below range reported in range")
	}
}
