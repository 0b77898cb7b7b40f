package hs220

import (
	"context"
	"fmt"

	"go.viam.com/rdk/components/sensor"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
)

var HS220PoseSensorModel = resource.NewModel("davincikj153", "hs220", "pose")

func init() {
	resource.RegisterComponent(sensor.API, HS220PoseSensorModel,
		resource.Registration[sensor.Sensor, *HS220PoseSensorConfig]{
			Constructor: NewHS220PoseSensor,
		},
	)
}

// HS220PoseSensorConfig points the sensor at the arm whose pose it reports.
type HS220PoseSensorConfig struct {
	Arm string `json:"arm"`
}

// Validate ensures all parts of the config are valid
func (cfg *HS220PoseSensorConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Arm == "" {
		return nil, nil, fmt.Errorf("must specify the arm whose pose to report")
	}
	return []string{cfg.Arm}, nil, nil
}

// hs220PoseSensor publishes the TCP pose of a running HS220 simulator. It
// attaches to the arm's shared joint store, so readings always reflect the
// joints the arm is holding, including mid-animation states.
type hs220PoseSensor struct {
	resource.AlwaysRebuild

	name   resource.Name
	logger logging.Logger
	cfg    *HS220PoseSensorConfig
	store  *JointStore
}

func NewHS220PoseSensor(
	ctx context.Context,
	deps resource.Dependencies,
	rawConf resource.Config,
	logger logging.Logger,
) (sensor.Sensor, error) {
	conf, err := resource.NativeConfig[*HS220PoseSensorConfig](rawConf)
	if err != nil {
		return nil, err
	}

	store, err := AttachSharedStore(conf.Arm)
	if err != nil {
		return nil, fmt.Errorf("failed to attach to arm %q: %w", conf.Arm, err)
	}

	ps := &hs220PoseSensor{
		name:   rawConf.ResourceName(),
		logger: logger,
		cfg:    conf,
		store:  store,
	}

	logger.Infof("HS220 pose sensor initialized for arm %q", conf.Arm)
	return ps, nil
}

func (ps *hs220PoseSensor) Name() resource.Name {
	return ps.name
}

// Readings returns the TCP pose, the joint state it was computed from, and
// which side of the base the wrist is reaching toward.
func (ps *hs220PoseSensor) Readings(ctx context.Context, extra map[string]any) (map[string]any, error) {
	joints := ps.store.Joints()
	pose := ps.store.Pose()

	reach := "front"
	if ps.store.PlanarReach() < 0 {
		reach = "back"
	}

	jointValues := make([]any, 6)
	for i, v := range joints {
		jointValues[i] = v
	}

	return map[string]any{
		"x_mm":       pose.X,
		"y_mm":       pose.Y,
		"z_mm":       pose.Z,
		"rx_deg":     pose.RX,
		"ry_deg":     pose.RY,
		"rz_deg":     pose.RZ,
		"joints_deg": jointValues,
		"reach":      reach,
	}, nil
}

// DoCommand exposes the kinematic constants the pose is computed with.
func (ps *hs220PoseSensor) DoCommand(ctx context.Context, cmd map[string]any) (map[string]any, error) {
	command, ok := cmd["command"].(string)
	if !ok {
		return nil, fmt.Errorf("command must be a string")
	}

	switch command {
	case "get_kinematic_params":
		p := ps.store.Params()
		return map[string]any{
			"base_height_mm":      p.BaseHeight,
			"shoulder_offset_mm":  p.ShoulderOffset,
			"lower_arm_length_mm": p.LowerArmLength,
			"upper_arm_length_mm": p.UpperArmLength,
			"tool_length_mm":      p.ToolLength,
			"elbow_offset_deg":    p.ElbowOffsetDeg,
		}, nil

	default:
		return nil, fmt.Errorf("unknown command: %s", command)
	}
}

func (ps *hs220PoseSensor) Close(ctx context.Context) error {
	ReleaseSharedStore(ps.cfg.Arm)
	return nil
}
