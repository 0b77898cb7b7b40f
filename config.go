package hs220

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.viam.com/rdk/logging"

	"github.com/davincikj153/HS220-simulator/kinematics"
)

// HS220Config configures the simulated HS220 arm.
type HS220Config struct {
	// StartJoints are the initial joint angles in degrees (default: all zero).
	StartJoints []float64 `json:"start_joints,omitempty"`

	// SpeedDegsPerSec is the simulated joint speed (default: 90).
	SpeedDegsPerSec float64 `json:"speed_degs_per_sec,omitempty"`

	// CalibrationFile optionally overrides the built-in kinematic constants.
	CalibrationFile string `json:"calibration_file,omitempty"`

	// Not serialized
	Logger logging.Logger `json:"-"`
}

// Validate ensures all parts of the config are valid
func (cfg *HS220Config) Validate(path string) ([]string, []string, error) {
	if cfg.SpeedDegsPerSec == 0 {
		cfg.SpeedDegsPerSec = 90
	}
	if cfg.SpeedDegsPerSec < 0 {
		return nil, nil, fmt.Errorf("speed_degs_per_sec must be positive, got %v", cfg.SpeedDegsPerSec)
	}

	if len(cfg.StartJoints) != 0 {
		if len(cfg.StartJoints) != 6 {
			return nil, nil, fmt.Errorf("expected 6 start joints, got %d", len(cfg.StartJoints))
		}
		for i, v := range cfg.StartJoints {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, fmt.Errorf("start joint %d is not a finite number", i+1)
			}
		}
	}

	return nil, nil, nil
}

// startJoints returns the configured start joints clamped into the HS220
// limits, or the home position when none are configured.
func (cfg *HS220Config) startJoints() kinematics.Joints {
	var j kinematics.Joints
	for i := 0; i < len(cfg.StartJoints) && i < 6; i++ {
		j[i] = cfg.StartJoints[i]
	}
	return kinematics.DefaultLimits.Clamp(j)
}

// LoadKinematics loads kinematic constants from the configured file or
// returns the built-in HS220 constants.
// Returns (params, fromFile) where fromFile indicates if loaded from file.
func (cfg *HS220Config) LoadKinematics(logger logging.Logger) (kinematics.Params, bool) {
	if cfg.CalibrationFile == "" {
		if logger != nil {
			logger.Debug("No calibration file specified, using built-in HS220 constants")
		}
		return kinematics.DefaultParams, false
	}

	// Handle relative paths using VIAM_MODULE_DATA
	if !filepath.IsAbs(cfg.CalibrationFile) {
		moduleDataDir := os.Getenv("VIAM_MODULE_DATA")
		if moduleDataDir == "" {
			moduleDataDir = "/tmp" // Fallback if VIAM_MODULE_DATA not set
		}
		cfg.CalibrationFile = filepath.Join(moduleDataDir, cfg.CalibrationFile)
	}

	params, err := LoadParamsFromFile(cfg.CalibrationFile)
	if err != nil {
		if logger != nil {
			logger.Warnf("Failed to load kinematics from %s: %v, using built-in constants", cfg.CalibrationFile, err)
		}
		return kinematics.DefaultParams, false
	}

	if logger != nil {
		logger.Infof("Loaded kinematic constants from %s", cfg.CalibrationFile)
	}
	return params, true
}

// LoadParamsFromFile loads and validates kinematic constants from a JSON file.
func LoadParamsFromFile(filePath string) (kinematics.Params, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return kinematics.Params{}, fmt.Errorf("failed to read calibration file: %w", err)
	}

	var params kinematics.Params
	if err := json.Unmarshal(data, &params); err != nil {
		return kinematics.Params{}, fmt.Errorf("failed to parse calibration JSON: %w", err)
	}

	if err := ValidateParams(params); err != nil {
		return kinematics.Params{}, fmt.Errorf("calibration validation failed: %w", err)
	}

	return params, nil
}

// SaveParamsToFile saves kinematic constants to a JSON file.
func SaveParamsToFile(filePath string, params kinematics.Params) error {
	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal calibration: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write calibration file: %w", err)
	}

	return nil
}

// ValidateParams validates that kinematic constants are usable.
func ValidateParams(p kinematics.Params) error {
	values := []struct {
		name string
		v    float64
	}{
		{"base_height_mm", p.BaseHeight},
		{"shoulder_offset_mm", p.ShoulderOffset},
		{"lower_arm_length_mm", p.LowerArmLength},
		{"upper_arm_length_mm", p.UpperArmLength},
		{"tool_length_mm", p.ToolLength},
		{"elbow_offset_deg", p.ElbowOffsetDeg},
	}
	for _, f := range values {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s is not a finite number", f.name)
		}
	}

	if p.LowerArmLength <= 0 || p.UpperArmLength <= 0 {
		return fmt.Errorf("link lengths must be positive, got %v and %v", p.LowerArmLength, p.UpperArmLength)
	}
	if p.ToolLength < 0 {
		return fmt.Errorf("tool_length_mm must not be negative, got %v", p.ToolLength)
	}

	return nil
}
