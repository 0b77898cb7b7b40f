package hs220

import (
	_ "embed"
	"encoding/json"

	"github.com/pkg/errors"
	"go.viam.com/rdk/referenceframe"
)

//go:embed hs220.json
var hs220ModelJSON []byte

// createHS220Model parses the embedded DH model used for frame-system
// integration and motion planning. The simulator's own pose reporting does
// not go through this model; it uses the calibrated closed-form solver.
func createHS220Model() (referenceframe.Model, error) {
	m := &referenceframe.ModelConfigJSON{
		OriginalFile: &referenceframe.ModelFile{
			Bytes:     hs220ModelJSON,
			Extension: "json",
		},
	}
	if err := json.Unmarshal(hs220ModelJSON, m); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal embedded hs220.json")
	}

	return m.ParseConfig("hs220")
}
