package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainAgreesWithPose(t *testing.T) {
	tests := []struct {
		name   string
		joints Joints
	}{
		{
			name:   "upright",
			joints: Joints{0, 90, 0, 0, -90, 0},
		},
		{
			name:   "back reach",
			joints: Joints{0, 155, 0, 0, 0, 0},
		},
		{
			name:   "swiveled",
			joints: Joints{30, 45, -20, 15, 30, -40},
		},
		{
			name:   "negative swivel",
			joints: Joints{-120, 80, -60, 0, 45, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := DefaultParams.Chain(tt.joints)
			pose := DefaultParams.Pose(tt.joints)

			tcp := chain[4]
			assert.InDelta(t, pose.X, tcp.X, 1e-9)
			assert.InDelta(t, pose.Y, tcp.Y, 1e-9)
			assert.InDelta(t, pose.Z, tcp.Z, 1e-9)
		})
	}
}

func TestChainStructure(t *testing.T) {
	chain := DefaultParams.Chain(Joints{})

	assert.Equal(t, Point{0, 0, 0}, chain[0], "base is the world origin")
	assert.Equal(t, Point{X: DefaultParams.ShoulderOffset, Z: DefaultParams.BaseHeight}, chain[1])

	// At zero elevation the lower arm points straight out
	assert.InDelta(t, DefaultParams.ShoulderOffset+DefaultParams.LowerArmLength, chain[2].X, 1e-9)
	assert.InDelta(t, DefaultParams.BaseHeight, chain[2].Z, 1e-9)

	// Zero tool length puts the TCP at the wrist
	assert.Equal(t, chain[3], chain[4])
}

func TestChainFollowsSwivel(t *testing.T) {
	straight := DefaultParams.Chain(Joints{0, 90, 0, 0, -90, 0})
	swiveled := DefaultParams.Chain(Joints{90, 90, 0, 0, -90, 0})

	// A 90 degree swivel maps x onto y for every point above the base
	for i := 1; i < len(straight); i++ {
		assert.InDelta(t, straight[i].X, swiveled[i].Y, 1e-9)
		assert.InDelta(t, 0, swiveled[i].X, 1e-9)
		assert.InDelta(t, straight[i].Z, swiveled[i].Z, 1e-9)
	}
}
