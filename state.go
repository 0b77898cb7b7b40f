package hs220

import (
	"fmt"
	"sync"

	"github.com/davincikj153/HS220-simulator/kinematics"
)

// JointStore owns the current joint state of one simulated arm. It is the
// single writer boundary in front of the pure solver: every set is clamped to
// the HS220 joint limits and non-finite input is rejected, so the solver only
// ever sees defined, bounded angles.
type JointStore struct {
	mu     sync.RWMutex
	params kinematics.Params
	limits kinematics.Limits
	joints kinematics.Joints
}

// NewJointStore creates a store with the given constants, limits, and start
// position. The start position is clamped like any other input.
func NewJointStore(params kinematics.Params, limits kinematics.Limits, start kinematics.Joints) *JointStore {
	return &JointStore{
		params: params,
		limits: limits,
		joints: limits.Clamp(start),
	}
}

// Joints returns a copy of the current joint angles in degrees.
func (s *JointStore) Joints() kinematics.Joints {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.joints
}

// SetJoints clamps j into the joint limits and stores it, returning the
// clamped value. Non-finite input is rejected and leaves the state unchanged.
func (s *JointStore) SetJoints(j kinematics.Joints) (kinematics.Joints, error) {
	if !kinematics.Finite(j) {
		return s.Joints(), fmt.Errorf("joint state contains NaN or Inf: %v", j)
	}

	clamped := s.limits.Clamp(j)

	s.mu.Lock()
	s.joints = clamped
	s.mu.Unlock()

	return clamped, nil
}

// SetJoint updates a single axis (0-based), clamped to that axis' limits.
func (s *JointStore) SetJoint(axis int, deg float64) (float64, error) {
	if axis < 0 || axis > 5 {
		return 0, fmt.Errorf("axis must be 0-5, got %d", axis)
	}

	s.mu.Lock()
	j := s.joints
	s.mu.Unlock()

	j[axis] = deg
	stored, err := s.SetJoints(j)
	if err != nil {
		return 0, err
	}
	return stored[axis], nil
}

// Pose recomputes the tool-center-point pose from the current joint state.
// Poses have no identity of their own; they are derived on every read.
func (s *JointStore) Pose() kinematics.Pose {
	s.mu.RLock()
	j := s.joints
	p := s.params
	s.mu.RUnlock()
	return p.Pose(j)
}

// PlanarReach returns the signed reach for the current joint state.
func (s *JointStore) PlanarReach() float64 {
	s.mu.RLock()
	j := s.joints
	p := s.params
	s.mu.RUnlock()
	return p.PlanarReach(j)
}

// Params returns the kinematic constants this store was built with.
func (s *JointStore) Params() kinematics.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Limits returns the joint limits this store clamps against.
func (s *JointStore) Limits() kinematics.Limits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits
}
