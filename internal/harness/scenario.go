package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/axtree/internal/schema"
)

// Scenario is a tree scenario: an initial tree, steps that drive the bridge,
// and assertions on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Surface is the native surface id. Defaults to 1.
	Surface uint64 `yaml:"surface,omitempty"`

	// StructureEvents enables structure-changed notifications.
	StructureEvents bool `yaml:"structure_events,omitempty"`

	// Initial is the tree built on the first query or update.
	Initial Payload `yaml:"initial"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions are checked after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Payload is a tree update in its JSON field layout, kept as decoded YAML
// until it is converted with Update.
type Payload map[string]any

// Update converts the payload to a TreeUpdate. Unknown fields are errors.
func (p Payload) Update() (schema.TreeUpdate, error) {
	var u schema.TreeUpdate
	raw, err := json.Marshal(map[string]any(p))
	if err != nil {
		return u, fmt.Errorf("encode update: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&u); err != nil {
		return u, fmt.Errorf("decode update: %w", err)
	}
	return u, nil
}

// Step is one bridge operation. Exactly one of Update, UpdateIfActive,
// Query and Close is set.
type Step struct {
	Update         Payload    `yaml:"update,omitempty"`
	UpdateIfActive Payload    `yaml:"update_if_active,omitempty"`
	Query          *QueryStep `yaml:"query,omitempty"`
	Close          bool       `yaml:"close,omitempty"`

	// Expect, if set, is checked against what the step produced.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Kind returns the step's operation name.
func (s *Step) Kind() string {
	switch {
	case s.Update != nil:
		return StepUpdate
	case s.UpdateIfActive != nil:
		return StepUpdateIfActive
	case s.Query != nil:
		return StepQuery
	case s.Close:
		return StepClose
	default:
		return ""
	}
}

// Step kinds.
const (
	StepUpdate         = "update"
	StepUpdateIfActive = "update_if_active"
	StepQuery          = "query"
	StepClose          = "close"
)

// QueryStep is a native object query.
type QueryStep struct {
	ObjID int32 `yaml:"objid"`
}

// Expect lists what a step must produce. Unset fields are not checked.
type Expect struct {
	// Changes are the exact tree changes, in order (e.g. "node_updated(3)").
	Changes []string `yaml:"changes,omitempty"`

	// Native are the exact native calls, in order.
	Native []string `yaml:"native,omitempty"`

	// NoChanges requires that the step produced no tree change.
	NoChanges bool `yaml:"no_changes,omitempty"`

	// Violation is the expected invariant violation code.
	Violation string `yaml:"violation,omitempty"`

	// Reply is whether a query must be answered.
	Reply *bool `yaml:"reply,omitempty"`

	// ProducerCalled is whether update_if_active must run its producer.
	ProducerCalled *bool `yaml:"producer_called,omitempty"`
}

// Assertion checks the final state of a scenario.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Node is the node id (node_exists, node_absent, root_is, focus_is).
	// For focus_is, 0 means no node has focus.
	Node schema.NodeID `yaml:"node,omitempty"`

	// Name optionally checks the node's name (node_exists).
	Name *string `yaml:"name,omitempty"`

	// Kind filters change_count by change kind and native_count by call name.
	Kind string `yaml:"kind,omitempty"`

	// Count is the expected count (change_count, native_count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertNodeExists  = "node_exists"
	AssertNodeAbsent  = "node_absent"
	AssertRootIs      = "root_is"
	AssertFocusIs     = "focus_is"
	AssertChangeCount = "change_count"
	AssertNativeCount = "native_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
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
	if s.Initial == nil {
		return fmt.Errorf("initial tree is required")
	}
	if _, err := s.Initial.Update(); err != nil {
		return fmt.Errorf("initial: %w", err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i := range s.Steps {
		step := &s.Steps[i]
		set := 0
		for _, present := range []bool{step.Update != nil, step.UpdateIfActive != nil, step.Query != nil, step.Close} {
			if present {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("steps[%d]: exactly one of update, update_if_active, query, close is required", i)
		}
		for _, p := range []Payload{step.Update, step.UpdateIfActive} {
			if p == nil {
				continue
			}
			if _, err := p.Update(); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		}
		if e := step.Expect; e != nil {
			if e.Reply != nil && step.Query == nil {
				return fmt.Errorf("steps[%d].expect: reply only applies to query steps", i)
			}
			if e.ProducerCalled != nil && step.UpdateIfActive == nil {
				return fmt.Errorf("steps[%d].expect: producer_called only applies to update_if_active steps", i)
			}
			if e.NoChanges && len(e.Changes) > 0 {
				return fmt.Errorf("steps[%d].expect: no_changes conflicts with changes", i)
			}
		}
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
	case AssertNodeExists, AssertNodeAbsent, AssertRootIs:
		if a.Node == 0 {
			return fmt.Errorf("assertions[%d]: node is required for %s", index, a.Type)
		}
	case AssertFocusIs:
	case AssertChangeCount, AssertNativeCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Name != nil && a.Type != AssertNodeExists {
		return fmt.Errorf("assertions[%d]: name only applies to node_exists", index)
	}
	return nil
}
