package confirm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(ctx context.Context, path string, body any) error
	GET(ctx context.Context, path string) error
	GetLastStatus() int
	GetResponseField(field string) (any, error)
	GetSessionID() string
	SetSessionID(id string)
}

// RegisterSteps registers confirmation flow steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &confirmSteps{tc: tc}

	ctx.Step(`^I start a confirmation for "([^"]*)"$`, steps.startConfirmation)
	ctx.Step(`^I tap install$`, steps.tapInstall)
	ctx.Step(`^I scroll to the bottom$`, steps.scrollToBottom)
	ctx.Step(`^I cancel the confirmation$`, steps.cancel)
	ctx.Step(`^I fetch the confirmation$`, steps.fetch)

	ctx.Step(`^the install action should be (locked|unlocked)$`, steps.gateShouldBe)
	ctx.Step(`^the decision should be "([^"]*)"$`, steps.decisionShouldBe)
	ctx.Step(`^the new permissions should be "([^"]*)"$`, steps.newPermissionsShouldBe)
	ctx.Step(`^the sections should be "([^"]*)"$`, steps.sectionsShouldBe)
}

type confirmSteps struct {
	tc TestContext
}

func (s *confirmSteps) path(suffix string) string {
	return "/confirmations/" + s.tc.GetSessionID() + suffix
}

func (s *confirmSteps) startConfirmation(ctx context.Context, uri string) error {
	if err := s.tc.POST(ctx, "/confirmations", map[string]string{"package_uri": uri}); err != nil {
		return err
	}
	if s.tc.GetLastStatus() != 201 {
		return fmt.Errorf("start confirmation: status %d", s.tc.GetLastStatus())
	}
	id, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.SetSessionID(fmt.Sprint(id))
	return nil
}

func (s *confirmSteps) tapInstall(ctx context.Context) error {
	return s.tc.POST(ctx, s.path("/proceed"), nil)
}

func (s *confirmSteps) scrollToBottom(ctx context.Context) error {
	return s.tc.POST(ctx, s.path("/acknowledge"), nil)
}

func (s *confirmSteps) cancel(ctx context.Context) error {
	return s.tc.POST(ctx, s.path("/cancel"), nil)
}

func (s *confirmSteps) fetch(ctx context.Context) error {
	return s.tc.GET(ctx, s.path(""))
}

func (s *confirmSteps) gateShouldBe(ctx context.Context, state string) error {
	if err := s.fetch(ctx); err != nil {
		return err
	}
	got, err := s.tc.GetResponseField("state")
	if err != nil {
		return err
	}
	if got != state {
		return fmt.Errorf("expected gate %s, got %v", state, got)
	}
	return nil
}

func (s *confirmSteps) decisionShouldBe(_ context.Context, want string) error {
	got, err := s.tc.GetResponseField("decision")
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected decision %q, got %v", want, got)
	}
	return nil
}

func (s *confirmSteps) newPermissionsShouldBe(_ context.Context, want string) error {
	return s.listShouldBe("new_permissions", want, true)
}

func (s *confirmSteps) sectionsShouldBe(_ context.Context, want string) error {
	return s.listShouldBe("sections", want, false)
}

func (s *confirmSteps) listShouldBe(field, want string, unordered bool) error {
	raw, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	var got []string
	if items, ok := raw.([]any); ok {
		for _, item := range items {
			got = append(got, fmt.Sprint(item))
		}
	}
	var expected []string
	if want != "" {
		expected = strings.Split(want, ",")
	}
	if unordered {
		sort.Strings(got)
		sort.Strings(expected)
	}
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		return fmt.Errorf("expected %s %v, got %v", field, expected, got)
	}
	return nil
}
