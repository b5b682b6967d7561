package harness

import (
	"github.com/roach88/clientbook/internal/client"
)

// TraceEvent records one executed step.
// Fields are declared in key order so that snapshots read top to bottom.
type TraceEvent struct {
	Args    any    `json:"args"`
	Error   string `json:"error,omitempty"`
	Op      string `json:"op"`
	Outcome any    `json:"outcome,omitempty"`
	Seq     int64  `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains the executed steps in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step to the trace. seq is assigned in order from 1.
func (r *Result) AddTrace(event TraceEvent) {
	event.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, event)
}

// ClientSpec describes a client in a scenario. As an expectation it is a
// subset match: only fields that are set are compared. A present phones key,
// even an empty list, is compared exactly.
type ClientSpec struct {
	FirstName *string  `yaml:"first_name,omitempty"`
	LastName  *string  `yaml:"last_name,omitempty"`
	Email     *string  `yaml:"email,omitempty"`
	Phones    []string `yaml:"phones,omitempty"`
}

// Client builds an unsaved client from the spec. Unset fields are empty.
func (s ClientSpec) Client() client.Client {
	return *client.New(deref(s.FirstName), deref(s.LastName), deref(s.Email), s.Phones...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
