package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// It selects one schedule from a CUE directory and asserts on the report
// produced for it.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs is the directory of CUE files holding the schedule.
	// Relative paths are resolved against the scenario file location.
	Specs string `yaml:"specs"`

	// Schedule is the label under `schedule:` to analyse.
	Schedule string `yaml:"schedule"`

	// Assertions validate the report.
	// Supported types: conflict, compatible, ambiguity_count, param_error, warning
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of the report.
type Assertion struct {
	// Type specifies the assertion type:
	// - "conflict": systems A and B conflict
	// - "compatible": systems A and B may run together
	// - "ambiguity_count": exactly Count unordered conflicts
	// - "param_error": analysis fails with Code on System's Param
	// - "warning": some warning contains Contains
	Type string `yaml:"type"`

	// A and B name the systems (used by conflict and compatible).
	A string `yaml:"a,omitempty"`
	B string `yaml:"b,omitempty"`

	// Components and Resources, when set, must equal the conflicting names
	// exactly (used by conflict). Order does not matter.
	Components []string `yaml:"components,omitempty"`
	Resources  []string `yaml:"resources,omitempty"`

	// All, when set, must match whether the conflict covers every component
	// (used by conflict).
	All *bool `yaml:"all,omitempty"`

	// Ordered, when set, must match whether before/after keeps the pair
	// apart (used by conflict).
	Ordered *bool `yaml:"ordered,omitempty"`

	// Count is the expected number of ambiguities (used by ambiguity_count).
	Count int `yaml:"count,omitempty"`

	// Code, System and Param identify the expected parameter conflict
	// (used by param_error). System and Param are optional.
	Code   string `yaml:"code,omitempty"`
	System string `yaml:"system,omitempty"`
	Param  *int   `yaml:"param,omitempty"`

	// Contains is a substring of the expected warning (used by warning).
	Contains string `yaml:"contains,omitempty"`
}

// Assertion type constants.
const (
	AssertConflict       = "conflict"
	AssertCompatible     = "compatible"
	AssertAmbiguityCount = "ambiguity_count"
	AssertParamError     = "param_error"
	AssertWarning        = "warning"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative specs path is resolved against the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative specs path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the specs path BEFORE validation
	if scenario.Specs != "" && !filepath.IsAbs(scenario.Specs) && basePath != "" {
		scenario.Specs = filepath.Join(basePath, scenario.Specs)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Specs == "" {
		return fmt.Errorf("specs directory is required")
	}

	if s.Schedule == "" {
		return fmt.Errorf("schedule is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	info, err := os.Stat(s.Specs)
	if os.IsNotExist(err) {
		return fmt.Errorf("specs directory not found: %s", s.Specs)
	}
	if err != nil {
		return fmt.Errorf("specs directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("specs is not a directory: %s", s.Specs)
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertConflict, AssertCompatible:
		if a.A == "" || a.B == "" {
			return fmt.Errorf("assertions[%d]: a and b are required for %s", index, a.Type)
		}
	case AssertAmbiguityCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for ambiguity_count", index)
		}
	case AssertParamError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for param_error", index)
		}
		if a.Param != nil && *a.Param < 0 {
			return fmt.Errorf("assertions[%d]: param must be non-negative for param_error", index)
		}
	case AssertWarning:
		if a.Contains == "" {
			return fmt.Errorf("assertions[%d]: contains is required for warning", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
