package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/clientbook/internal/store"
)

// AssertionContext provides what assertions need to inspect the final table.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %v", event.Seq, event.Op, event.Args)
		if event.Error != "" {
			fmt.Fprintf(&buf, " -> %s error", event.Error)
		}
		buf.WriteByte('\n')
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertFinalState:
			err = assertFinalState(result.Trace, a, actx)
		case AssertRowCount:
			err = assertRowCount(result.Trace, a, actx)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

// assertFinalState checks the stored row for a.ID against the expected fields.
func assertFinalState(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	c, ok, err := actx.Store.FindByID(actx.Ctx, a.ID)
	if err != nil {
		return fmt.Errorf("final_state: reading client %d: %w", a.ID, err)
	}

	wantExists := a.Exists == nil || *a.Exists
	if ok != wantExists {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("client %d exists = %t", a.ID, wantExists),
			Actual:   fmt.Sprintf("exists = %t", ok),
			Trace:    trace,
		}
	}
	if !ok || a.Client == nil {
		return nil
	}

	if msg := matchClient(c, *a.Client); msg != "" {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("client %d matching %s", a.ID, describeSpec(*a.Client)),
			Actual:   msg,
			Trace:    trace,
		}
	}
	return nil
}

// assertRowCount checks the number of stored clients.
func assertRowCount(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	n, err := actx.Store.Count(actx.Ctx)
	if err != nil {
		return fmt.Errorf("row_count: %w", err)
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows", a.Count),
			Actual:   fmt.Sprintf("%d rows", n),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceCount checks if the op appears exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == a.Op {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s appears %d times", a.Op, a.Count),
			Actual:   fmt.Sprintf("%s appears %d times", a.Op, count),
			Trace:    trace,
		}
	}
	return nil
}

func describeSpec(s ClientSpec) string {
	var parts []string
	if s.FirstName != nil {
		parts = append(parts, fmt.Sprintf("first_name=%q", *s.FirstName))
	}
	if s.LastName != nil {
		parts = append(parts, fmt.Sprintf("last_name=%q", *s.LastName))
	}
	if s.Email != nil {
		parts = append(parts, fmt.Sprintf("email=%q", *s.Email))
	}
	if s.Phones != nil {
		parts = append(parts, fmt.Sprintf("phones=%q", s.Phones))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
