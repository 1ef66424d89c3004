//go:build property
// +build property

package confirm

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"pkgconfirm/internal/confirm/models"
)

func newProperties(minSuccessful int) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = minSuccessful
	return gopter.NewProperties(parameters)
}

func setOf(personalNames, deviceNames []string) models.PermissionSet {
	return models.NewPermissionSet(append(personal(personalNames...), device(deviceNames...)...)...)
}

// TestPlanProperties checks the decision engine invariants over generated
// permission sets.
func TestPlanProperties(t *testing.T) {
	properties := newProperties(200)
	names := gen.SliceOf(gen.Identifier())

	properties.Property("fresh install is never an update and has nothing new", prop.ForAll(
		func(p, d []string) bool {
			plan := Plan(models.PackageSnapshot{PackageName: pkgName, Permissions: setOf(p, d)}, nil)
			return !plan.IsUpdate && !plan.HasNewPermissions && plan.NewPermissions.IsEmpty()
		},
		names, names,
	))

	properties.Property("identical permission sets have nothing new", prop.ForAll(
		func(p, d []string, system bool) bool {
			perms := setOf(p, d)
			installed := models.PackageSnapshot{PackageName: pkgName, Permissions: perms, SystemApp: system}
			plan := Plan(models.PackageSnapshot{PackageName: pkgName, Permissions: perms}, &installed)
			return plan.IsUpdate && !plan.HasNewPermissions
		},
		names, names, gen.Bool(),
	))

	properties.Property("strict superset reports exactly the difference", prop.ForAll(
		func(base, extra []string) bool {
			installedSet := setOf(base, nil)
			added := []string{}
			for _, e := range extra {
				if !installedSet.Contains("extra." + e) {
					added = append(added, "extra."+e)
				}
			}
			if len(added) == 0 {
				return true
			}
			candidateSet := setOf(base, added)
			installed := models.PackageSnapshot{PackageName: pkgName, Permissions: installedSet}
			plan := Plan(models.PackageSnapshot{PackageName: pkgName, Permissions: candidateSet}, &installed)

			want := candidateSet.Minus(installedSet)
			return plan.HasNewPermissions && plan.NewPermissions.Equal(want) && want.Len() == setOf(nil, added).Len()
		},
		names, gen.SliceOf(gen.Identifier()).SuchThat(func(v []string) bool { return len(v) > 0 }),
	))

	properties.Property("acknowledgement is required iff any permission is declared", prop.ForAll(
		func(cp, cd, ip, id []string, update bool) bool {
			candidate := models.PackageSnapshot{PackageName: pkgName, Permissions: setOf(cp, cd)}
			var installed *models.PackageSnapshot
			if update {
				installed = &models.PackageSnapshot{PackageName: pkgName, Permissions: setOf(ip, id)}
			}
			plan := Plan(candidate, installed)

			shown := plan.HasPersonalPermissions || plan.HasDevicePermissions
			if plan.IsUpdate {
				shown = shown || plan.HasNewPermissions
			}
			return plan.RequiresAcknowledgement == shown &&
				plan.RequiresAcknowledgement == !candidate.Permissions.IsEmpty() &&
				(InitialState(plan) == models.GateUnlocked) == !plan.RequiresAcknowledgement
		},
		names, names, names, names, gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestGateProperties checks gesture idempotence and cancel reachability for
// arbitrary signal sequences.
func TestGateProperties(t *testing.T) {
	properties := newProperties(200)
	signals := gen.SliceOf(gen.IntRange(0, 2))

	properties.Property("acknowledging twice equals acknowledging once", prop.ForAll(
		func(locked bool) bool {
			once := NewGate(models.ConfirmationPlan{RequiresAcknowledgement: locked})
			twice := NewGate(models.ConfirmationPlan{RequiresAcknowledgement: locked})
			_, _ = once.Acknowledge()
			_, _ = twice.Acknowledge()
			_, _ = twice.Acknowledge()
			return once.State() == twice.State() && once.Outcome() == twice.Outcome()
		},
		gen.Bool(),
	))

	properties.Property("cancel is reachable from every open state and is terminal", prop.ForAll(
		func(locked bool, seq []int) bool {
			g := NewGate(models.ConfirmationPlan{RequiresAcknowledgement: locked})
			for _, s := range seq {
				if g.Outcome() != models.OutcomeNone {
					break
				}
				switch s {
				case 0:
					_, _ = g.Acknowledge()
				case 1:
					_, _ = g.TryProceed()
				}
			}
			if g.Outcome() != models.OutcomeNone {
				return true
			}
			outcome, err := g.Cancel()
			if err != nil || outcome != models.OutcomeCancelled {
				return false
			}
			_, ackErr := g.Acknowledge()
			_, proceedErr := g.TryProceed()
			return ackErr != nil && proceedErr != nil && g.Outcome() == models.OutcomeCancelled
		},
		gen.Bool(), signals,
	))

	properties.Property("gate never relocks", prop.ForAll(
		func(seq []int) bool {
			g := NewGate(models.ConfirmationPlan{RequiresAcknowledgement: true})
			unlocked := false
			for _, s := range seq {
				switch s {
				case 0:
					_, _ = g.Acknowledge()
				case 1:
					_, _ = g.TryProceed()
				case 2:
					_, _ = g.Cancel()
				}
				if unlocked && g.State() == models.GateLocked {
					return false
				}
				unlocked = unlocked || g.State() == models.GateUnlocked
			}
			return true
		},
		signals,
	))

	properties.TestingRun(t)
}
