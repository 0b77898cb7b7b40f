package main

import (
	"go.viam.com/rdk/components/arm"
	"go.viam.com/rdk/components/sensor"
	"go.viam.com/rdk/module"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/generic"

	hs220 "github.com/davincikj153/HS220-simulator"
)

func main() {
	// ModularMain can take multiple APIModel arguments, if your module implements multiple models.
	module.ModularMain(
		resource.APIModel{API: arm.API, Model: hs220.HS220Model},
		resource.APIModel{API: sensor.API, Model: hs220.HS220PoseSensorModel},
		resource.APIModel{API: generic.API, Model: hs220.HS220SuggestModel},
	)
}
