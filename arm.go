package hs220

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	commonpb "go.viam.com/api/common/v1"
	"go.viam.com/rdk/components/arm"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/motionplan/armplanning"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/spatialmath"
	rutils "go.viam.com/rdk/utils"
	"go.viam.com/utils/rpc"

	"github.com/davincikj153/HS220-simulator/kinematics"
)

var HS220Model = resource.NewModel("davincikj153", "arm", "hs220")

func init() {
	resource.RegisterComponent(arm.API, HS220Model,
		resource.Registration[arm.Arm, *HS220Config]{
			Constructor: newHS220,
		},
	)
}

// animationStep is the joint interpolation interval for simulated motion.
const animationStep = 20 * time.Millisecond

type hs220 struct {
	resource.AlwaysRebuild

	name   resource.Name
	logger logging.Logger
	cfg    *HS220Config
	store  *JointStore
	model  referenceframe.Model

	// Motion control
	moveLock      sync.Mutex
	isMoving      atomic.Bool
	stopRequested atomic.Bool

	mu    sync.RWMutex
	speed float64 // degrees per second

	cancelCtx  context.Context
	cancelFunc func()
}

func newHS220(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (arm.Arm, error) {
	conf, err := resource.NativeConfig[*HS220Config](rawConf)
	if err != nil {
		return nil, err
	}
	conf.Logger = logger
	return NewHS220(ctx, deps, rawConf.ResourceName(), conf, logger)
}

// NewHS220 creates a simulated HS220 arm. The joint store it creates is
// registered under the arm's short name so the pose sensor and suggestion
// service can attach to it.
func NewHS220(ctx context.Context, deps resource.Dependencies, name resource.Name, conf *HS220Config, logger logging.Logger) (arm.Arm, error) {
	if conf.Logger == nil {
		conf.Logger = logger
	}
	if conf.SpeedDegsPerSec == 0 {
		conf.SpeedDegsPerSec = 90
	}

	params, fromFile := conf.LoadKinematics(logger)

	model, err := createHS220Model()
	if err != nil {
		return nil, fmt.Errorf("failed to create kinematic model: %w", err)
	}

	store, err := GetSharedStore(name.ShortName(), params, kinematics.DefaultLimits, conf.startJoints())
	if err != nil {
		return nil, fmt.Errorf("failed to register joint store: %w", err)
	}

	cancelCtx, cancelFunc := context.WithCancel(context.Background())

	s := &hs220{
		name:       name,
		logger:     logger,
		cfg:        conf,
		store:      store,
		model:      model,
		speed:      conf.SpeedDegsPerSec,
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}

	logger.Infof("HS220 simulator %q initialized (constants from file: %v, speed: %.1f deg/s)",
		name.ShortName(), fromFile, conf.SpeedDegsPerSec)
	return s, nil
}

func (s *hs220) Name() resource.Name {
	return s.name
}

func (s *hs220) NewClientFromConn(ctx context.Context, conn rpc.ClientConn, remoteName string, name resource.Name, logger logging.Logger) (arm.Arm, error) {
	return nil, errors.New("remote client not implemented")
}

func (s *hs220) EndPosition(ctx context.Context, extra map[string]interface{}) (spatialmath.Pose, error) {
	p := s.store.Pose()
	return spatialmath.NewPose(
		r3.Vector{X: p.X, Y: p.Y, Z: p.Z},
		&spatialmath.EulerAngles{
			Roll:  rutils.DegToRad(p.RX),
			Pitch: rutils.DegToRad(p.RY),
			Yaw:   rutils.DegToRad(p.RZ),
		},
	), nil
}

func (s *hs220) MoveToPosition(ctx context.Context, pose spatialmath.Pose, extra map[string]interface{}) error {
	return armplanning.MoveArm(ctx, s.logger, s, pose)
}

func (s *hs220) MoveToJointPositions(ctx context.Context, positions []referenceframe.Input, extra map[string]interface{}) error {
	s.moveLock.Lock()
	defer s.moveLock.Unlock()

	if len(positions) != 6 {
		return fmt.Errorf("expected 6 joint positions for HS220, got %d", len(positions))
	}

	var target kinematics.Joints
	for i, input := range positions {
		target[i] = rutils.RadToDeg(input)
	}
	if !kinematics.Finite(target) {
		return fmt.Errorf("joint positions contain NaN or Inf: %v", target)
	}

	// Clamp to joint limits
	limits := s.store.Limits()
	for i := range target {
		min, max := limits[i][0], limits[i][1]
		if target[i] < min {
			s.logger.Warnf("Joint %d angle %.3f deg below limit %.3f deg, clamping", i+1, target[i], min)
			target[i] = min
		} else if target[i] > max {
			s.logger.Warnf("Joint %d angle %.3f deg above limit %.3f deg, clamping", i+1, target[i], max)
			target[i] = max
		}
	}

	s.isMoving.Store(true)
	defer s.isMoving.Store(false)
	s.stopRequested.Store(false)

	return s.animateTo(ctx, target)
}

// animateTo interpolates the store from its current joints to target at the
// configured joint speed, stepping every animationStep. Stop holds the arm at
// whatever joints the interpolation has reached.
func (s *hs220) animateTo(ctx context.Context, target kinematics.Joints) error {
	start := s.store.Joints()

	maxDelta := 0.0
	for i := range target {
		if d := math.Abs(target[i] - start[i]); d > maxDelta {
			maxDelta = d
		}
	}

	speed := s.jointSpeed()
	if maxDelta == 0 || speed <= 0 {
		_, err := s.store.SetJoints(target)
		return err
	}

	total := time.Duration(maxDelta / speed * float64(time.Second))
	if total <= animationStep {
		_, err := s.store.SetJoints(target)
		return err
	}

	startTime := time.Now()
	ticker := time.NewTicker(animationStep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.cancelCtx.Done():
			return s.cancelCtx.Err()
		case <-ticker.C:
			if s.stopRequested.Load() {
				return nil
			}

			frac := float64(time.Since(startTime)) / float64(total)
			if frac >= 1 {
				_, err := s.store.SetJoints(target)
				return err
			}

			var j kinematics.Joints
			for i := range j {
				j[i] = start[i] + (target[i]-start[i])*frac
			}
			if _, err := s.store.SetJoints(j); err != nil {
				return err
			}
		}
	}
}

func (s *hs220) MoveThroughJointPositions(ctx context.Context, positions [][]referenceframe.Input, options *arm.MoveOptions, extra map[string]interface{}) error {
	for _, jointPositions := range positions {
		if err := s.MoveToJointPositions(ctx, jointPositions, extra); err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

func (s *hs220) JointPositions(ctx context.Context, extra map[string]interface{}) ([]referenceframe.Input, error) {
	joints := s.store.Joints()

	positions := make([]referenceframe.Input, 6)
	for i, deg := range joints {
		positions[i] = referenceframe.Input(rutils.DegToRad(deg))
	}
	return positions, nil
}

func (s *hs220) Stop(ctx context.Context, extra map[string]interface{}) error {
	s.stopRequested.Store(true)
	s.isMoving.Store(false)
	return nil
}

func (s *hs220) Kinematics(ctx context.Context) (referenceframe.Model, error) {
	return s.model, nil
}

func (s *hs220) CurrentInputs(ctx context.Context) ([]referenceframe.Input, error) {
	return s.JointPositions(ctx, nil)
}

func (s *hs220) GoToInputs(ctx context.Context, inputSteps ...[]referenceframe.Input) error {
	return s.MoveThroughJointPositions(ctx, inputSteps, nil, nil)
}

func (s *hs220) IsMoving(ctx context.Context) (bool, error) {
	return s.isMoving.Load(), nil
}

// Geometries approximates the arm with spheres at the joint centers, sized
// from the calibrated link lengths.
func (s *hs220) Geometries(ctx context.Context, extra map[string]interface{}) ([]spatialmath.Geometry, error) {
	params := s.store.Params()
	chain := s.store.Params().Chain(s.store.Joints())

	radii := []float64{
		params.BaseHeight / 2,
		params.LowerArmLength / 4,
		params.UpperArmLength / 4,
		150,
		100,
	}
	labels := []string{"base", "shoulder", "elbow", "wrist", "tool"}

	geometries := make([]spatialmath.Geometry, 0, len(chain))
	for i, pt := range chain {
		sphere, err := spatialmath.NewSphere(
			spatialmath.NewPoseFromPoint(r3.Vector{X: pt.X, Y: pt.Y, Z: pt.Z}),
			radii[i],
			fmt.Sprintf("%s_%s", s.name.ShortName(), labels[i]),
		)
		if err != nil {
			return nil, err
		}
		geometries = append(geometries, sphere)
	}
	return geometries, nil
}

// Get3DModels returns the 3D models of the arm. Unknown arm models return an
// empty map.
func (s *hs220) Get3DModels(ctx context.Context, extra map[string]interface{}) (map[string]*commonpb.Mesh, error) {
	return map[string]*commonpb.Mesh{}, nil
}

func (s *hs220) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	switch cmd["command"] {
	case "get_pose":
		p := s.store.Pose()
		reach := "front"
		if s.store.PlanarReach() < 0 {
			reach = "back"
		}
		return map[string]interface{}{
			"x": p.X, "y": p.Y, "z": p.Z,
			"rx": p.RX, "ry": p.RY, "rz": p.RZ,
			"reach": reach,
		}, nil

	case "get_joints":
		joints := s.store.Joints()
		out := make([]interface{}, 6)
		for i, v := range joints {
			out[i] = v
		}
		return map[string]interface{}{"joints_deg": out}, nil

	case "set_joints":
		raw, ok := cmd["joints"].([]interface{})
		if !ok || len(raw) != 6 {
			return nil, fmt.Errorf("set_joints command requires a 'joints' array of 6 numbers (degrees)")
		}
		var target kinematics.Joints
		for i, v := range raw {
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("joint %d is not a number", i+1)
			}
			target[i] = f
		}
		stored, err := s.store.SetJoints(target)
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, 6)
		for i, v := range stored {
			out[i] = v
		}
		return map[string]interface{}{"joints_deg": out}, nil

	case "home":
		if _, err := s.store.SetJoints(kinematics.Joints{}); err != nil {
			return nil, err
		}
		return map[string]interface{}{"success": true}, nil

	case "set_speed":
		speedVal, ok := cmd["speed_degs_per_sec"].(float64)
		if !ok || speedVal <= 0 {
			return nil, fmt.Errorf("set_speed command requires a positive 'speed_degs_per_sec' number")
		}
		s.mu.Lock()
		s.speed = speedVal
		s.mu.Unlock()
		return map[string]interface{}{"speed_set": speedVal}, nil

	case "get_kinematic_params":
		p := s.store.Params()
		return map[string]interface{}{
			"base_height_mm":      p.BaseHeight,
			"shoulder_offset_mm":  p.ShoulderOffset,
			"lower_arm_length_mm": p.LowerArmLength,
			"upper_arm_length_mm": p.UpperArmLength,
			"tool_length_mm":      p.ToolLength,
			"elbow_offset_deg":    p.ElbowOffsetDeg,
		}, nil

	default:
		return nil, fmt.Errorf("unknown command: %v", cmd["command"])
	}
}

func (s *hs220) jointSpeed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.speed
}

func (s *hs220) Close(context.Context) error {
	s.logger.Info("Closing HS220 simulator")
	s.cancelFunc()
	ReleaseSharedStore(s.name.ShortName())
	return nil
}
