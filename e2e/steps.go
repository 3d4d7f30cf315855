package e2e

import (
	"github.com/cucumber/godog"

	"projet/e2e/steps/common"
	"projet/e2e/steps/registry"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and response assertions
	common.RegisterSteps(ctx, tc)

	// Region, city and player fixtures
	registry.RegisterSteps(ctx, tc)
}
