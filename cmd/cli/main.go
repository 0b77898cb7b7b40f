package main

import (
	"flag"
	"fmt"
	"os"

	"go.viam.com/rdk/logging"

	hs220 "github.com/davincikj153/HS220-simulator"
	"github.com/davincikj153/HS220-simulator/kinematics"
)

// Offline forward-kinematics calculator. Feed it six joint angles in degrees
// and it prints the TCP pose the simulator would report, without standing up
// a viam-server.
func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain() error {
	var (
		j1 = flag.Float64("j1", 0, "swivel angle in degrees")
		j2 = flag.Float64("j2", 90, "lower arm angle in degrees")
		j3 = flag.Float64("j3", 0, "upper arm angle in degrees")
		j4 = flag.Float64("j4", 0, "arm roll angle in degrees")
		j5 = flag.Float64("j5", -90, "wrist bend angle in degrees")
		j6 = flag.Float64("j6", 0, "tool roll angle in degrees")

		paramsFile = flag.String("params", "", "optional kinematic constants JSON file")
		showChain  = flag.Bool("chain", false, "also print the joint center positions")
	)
	flag.Parse()

	logger := logging.NewLogger("hs220-cli")

	params := kinematics.DefaultParams
	if *paramsFile != "" {
		loaded, err := hs220.LoadParamsFromFile(*paramsFile)
		if err != nil {
			return fmt.Errorf("failed to load kinematic constants: %w", err)
		}
		params = loaded
		logger.Infof("Loaded kinematic constants from %s", *paramsFile)
	}

	requested := kinematics.Joints{*j1, *j2, *j3, *j4, *j5, *j6}
	if !kinematics.Finite(requested) {
		return fmt.Errorf("joint angles must be finite, got %v", requested)
	}

	joints := kinematics.DefaultLimits.Clamp(requested)
	for i := range joints {
		if joints[i] != requested[i] {
			logger.Warnf("Joint %d angle %.3f deg out of range, clamped to %.3f deg", i+1, requested[i], joints[i])
		}
	}

	pose := params.Pose(joints)

	reach := "front"
	if params.PlanarReach(joints) < 0 {
		reach = "back"
	}

	fmt.Printf("Joints (deg): S=%.3f H=%.3f V=%.3f R2=%.3f B=%.3f R1=%.3f\n",
		joints[0], joints[1], joints[2], joints[3], joints[4], joints[5])
	fmt.Printf("TCP position (mm): X=%.6f Y=%.6f Z=%.6f\n", pose.X, pose.Y, pose.Z)
	fmt.Printf("TCP orientation (deg): RX=%.2f RY=%.2f RZ=%.2f\n", pose.RX, pose.RY, pose.RZ)
	fmt.Printf("Reach: %s\n", reach)

	if *showChain {
		chain := params.Chain(joints)
		labels := []string{"base", "shoulder", "elbow", "wrist", "tcp"}
		for i, pt := range chain {
			fmt.Printf("  %-8s X=%.3f Y=%.3f Z=%.3f\n", labels[i], pt.X, pt.Y, pt.Z)
		}
	}

	return nil
}
