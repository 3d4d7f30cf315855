package registry

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	Status() int
	GetResponseField(field string) (any, error)
	SaveID(name, value string)
	Expand(s string) string
}

// RegisterSteps registers fixture steps that create records and remember
// their ids for later {name} placeholders.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &registrySteps{tc: tc}

	ctx.Step(`^a region "([^"]*)" saved as "([^"]*)"$`, steps.createRegion)
	ctx.Step(`^a city "([^"]*)" in region "([^"]*)" saved as "([^"]*)"$`, steps.createCityInRegion)
	ctx.Step(`^a player "([^"]*)" with secret "([^"]*)" in city "([^"]*)" saved as "([^"]*)"$`, steps.createPlayerInCity)
	ctx.Step(`^I save the response id as "([^"]*)"$`, steps.saveResponseID)
}

type registrySteps struct {
	tc TestContext
}

func (s *registrySteps) createRegion(ctx context.Context, name, alias string) error {
	return s.create("/api/regions", map[string]any{"name": name}, alias)
}

func (s *registrySteps) createCityInRegion(ctx context.Context, name, region, alias string) error {
	regionID, err := s.savedID(region)
	if err != nil {
		return err
	}
	return s.create("/api/cities", map[string]any{
		"name":   name,
		"region": map[string]any{"id": regionID},
	}, alias)
}

func (s *registrySteps) createPlayerInCity(ctx context.Context, playerAlias, secret, city, alias string) error {
	cityID, err := s.savedID(city)
	if err != nil {
		return err
	}
	return s.create("/api/players", map[string]any{
		"alias":            playerAlias,
		"credentialSecret": secret,
		"isAdministrator":  false,
		"city":             map[string]any{"id": cityID},
	}, alias)
}

func (s *registrySteps) saveResponseID(ctx context.Context, alias string) error {
	value, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	n, ok := value.(float64)
	if !ok {
		return fmt.Errorf("response id is %T, not a number", value)
	}
	s.tc.SaveID(alias, strconv.FormatInt(int64(n), 10))
	return nil
}

func (s *registrySteps) create(path string, body map[string]any, alias string) error {
	if err := s.tc.POST(path, body); err != nil {
		return err
	}
	if s.tc.Status() != 201 {
		return fmt.Errorf("POST %s returned %d", path, s.tc.Status())
	}
	return s.saveResponseID(context.Background(), alias)
}

func (s *registrySteps) savedID(alias string) (int64, error) {
	raw := s.tc.Expand("{" + alias + "}")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("no saved id named %q", alias)
	}
	return n, nil
}
