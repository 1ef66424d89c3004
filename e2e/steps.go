package e2e

import (
	"github.com/cucumber/godog"

	"pkgconfirm/e2e/steps/common"
	"pkgconfirm/e2e/steps/confirm"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	confirm.RegisterSteps(ctx, tc)
}
