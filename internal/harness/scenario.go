package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/clientbook/internal/change"
	"github.com/roach88/clientbook/internal/filter"
	"github.com/roach88/clientbook/internal/store"
)

// Scenario defines a store scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Driver selects the database driver. Empty means store.DriverCGO.
	Driver string `yaml:"driver,omitempty"`

	// Setup lists clients inserted before the flow, in order. Their ids
	// are 1, 2, ... on the fresh table.
	Setup []ClientSpec `yaml:"setup,omitempty"`

	// Flow contains the store operations to perform, with expectations.
	Flow []Step `yaml:"flow"`

	// Assertions validate the trace and the final table.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one store operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// ID is the target client id for get, update and remove.
	ID int64 `yaml:"id,omitempty"`

	// Client is the record to insert.
	Client *ClientSpec `yaml:"client,omitempty"`

	// Changes is the change set for update, keyed by field name.
	Changes map[string]any `yaml:"changes,omitempty"`

	// Criteria are the search fields for find. A key mapped to "" matches
	// empty values only.
	Criteria map[string]string `yaml:"criteria,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the step must merely succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies expected step outcomes. Unset fields are not checked.
type Expect struct {
	ID      *int64      `yaml:"id,omitempty"`
	Found   *bool       `yaml:"found,omitempty"`
	Client  *ClientSpec `yaml:"client,omitempty"`
	IDs     []int64     `yaml:"ids,omitempty"`
	Applied *bool       `yaml:"applied,omitempty"`
	Count   *int        `yaml:"count,omitempty"`

	// Error is "persistence" or "connection" when the step must fail.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the trace or the final table.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// ID is the row checked by final_state.
	ID int64 `yaml:"id,omitempty"`

	// Exists, when false, requires final_state's row to be absent.
	Exists *bool `yaml:"exists,omitempty"`

	// Client holds the expected fields for final_state (subset match).
	Client *ClientSpec `yaml:"client,omitempty"`

	// Op is the operation counted by trace_count.
	Op string `yaml:"op,omitempty"`

	// Count is the expected number for row_count and trace_count.
	Count int `yaml:"count"`
}

// Operation names.
const (
	OpInsert = "insert"
	OpGet    = "get"
	OpFind   = "find"
	OpUpdate = "update"
	OpRemove = "remove"
	OpCount  = "count"
)

var ops = []string{OpInsert, OpGet, OpFind, OpUpdate, OpRemove, OpCount}

// Assertion type constants.
const (
	AssertFinalState = "final_state"
	AssertRowCount   = "row_count"
	AssertTraceCount = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
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

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
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

	if s.Driver != "" && !slices.Contains(store.Drivers, s.Driver) {
		return fmt.Errorf("unknown driver %q", s.Driver)
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(assertion); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}

	return nil
}

func validateStep(step Step) error {
	switch step.Op {
	case OpInsert:
		if step.Client == nil {
			return fmt.Errorf("client is required for insert")
		}
	case OpGet, OpRemove:
		if step.ID == 0 {
			return fmt.Errorf("id is required for %s", step.Op)
		}
	case OpUpdate:
		if step.ID == 0 {
			return fmt.Errorf("id is required for update")
		}
		if _, err := change.FromMap(step.Changes); err != nil {
			return err
		}
	case OpFind:
		if _, err := filter.ParseCriteria(step.Criteria); err != nil {
			return err
		}
	case OpCount:
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q: must be one of %v", step.Op, ops)
	}

	if step.Expect != nil {
		switch step.Expect.Error {
		case "", "persistence", "connection":
		default:
			return fmt.Errorf("expect.error %q must be persistence or connection", step.Expect.Error)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertFinalState:
		if a.ID == 0 {
			return fmt.Errorf("id is required for final_state")
		}
		if a.Client == nil && a.Exists == nil {
			return fmt.Errorf("client or exists is required for final_state")
		}
	case AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for row_count")
		}
	case AssertTraceCount:
		if !slices.Contains(ops, a.Op) {
			return fmt.Errorf("unknown op %q for trace_count", a.Op)
		}
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for trace_count")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
