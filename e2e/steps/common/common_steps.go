package common

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path, contentType, body string) error
	GET(path string) error
	Status() int
	Header(name string) string
	GetResponseField(field string) (any, error)
	Expand(s string) string
}

// RegisterSteps registers request and assertion step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the registry API is running$`, steps.apiIsRunning)
	ctx.Step(`^I (GET|DELETE) "([^"]*)"$`, steps.requestWithoutBody)
	ctx.Step(`^I (POST|PUT|PATCH) "([^"]*)" with body:$`, steps.requestWithBody)
	ctx.Step(`^I PATCH "([^"]*)" as "([^"]*)" with body:$`, steps.patchWithContentType)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, steps.headerShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be null$`, steps.fieldShouldBeNull)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items?$`, steps.fieldShouldHaveItems)
	ctx.Step(`^the response should not contain field "([^"]*)"$`, steps.fieldShouldBeAbsent)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) apiIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/healthz"); err != nil {
		return err
	}
	if s.tc.Status() != 200 {
		return fmt.Errorf("health check returned %d", s.tc.Status())
	}
	return nil
}

func (s *commonSteps) requestWithoutBody(ctx context.Context, method, path string) error {
	return s.tc.Do(method, path, "", "")
}

func (s *commonSteps) requestWithBody(ctx context.Context, method, path string, body *godog.DocString) error {
	return s.tc.Do(method, path, "", body.Content)
}

func (s *commonSteps) patchWithContentType(ctx context.Context, path, contentType string, body *godog.DocString) error {
	return s.tc.Do("PATCH", path, contentType, body.Content)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, expected int) error {
	if s.tc.Status() != expected {
		return fmt.Errorf("expected status %d, got %d", expected, s.tc.Status())
	}
	return nil
}

func (s *commonSteps) headerShouldBe(ctx context.Context, name, expected string) error {
	expected = s.tc.Expand(expected)
	if got := s.tc.Header(name); got != expected {
		return fmt.Errorf("expected header %s=%q, got %q", name, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	expected = s.tc.Expand(expected)
	var got string
	switch v := value.(type) {
	case float64:
		got = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		got = strconv.FormatBool(v)
	case string:
		got = v
	default:
		return fmt.Errorf("field %q has unexpected type %T", field, value)
	}
	if got != expected {
		return fmt.Errorf("expected %s=%q, got %q", field, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeNull(ctx context.Context, field string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if value != nil {
		return fmt.Errorf("expected %s to be null, got %v", field, value)
	}
	return nil
}

func (s *commonSteps) fieldShouldHaveItems(ctx context.Context, field string, count int) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field %q is not an array", field)
	}
	if len(items) != count {
		return fmt.Errorf("expected %d items in %s, got %d", count, field, len(items))
	}
	return nil
}

func (s *commonSteps) fieldShouldBeAbsent(ctx context.Context, field string) error {
	if _, err := s.tc.GetResponseField(field); err == nil {
		return fmt.Errorf("expected field %q to be absent", field)
	}
	return nil
}
