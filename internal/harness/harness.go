package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/clientbook/internal/change"
	"github.com/roach88/clientbook/internal/client"
	"github.com/roach88/clientbook/internal/filter"
	"github.com/roach88/clientbook/internal/store"
)

// Harness executes scenario steps against one store.
type Harness struct {
	store  *store.Store
	result *Result
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, so ids
// are assigned from 1 and results are reproducible.
//
// Execution flow:
// 1. Create fresh in-memory database and the clients table
// 2. Insert setup clients
// 3. Execute flow steps with expect validation
// 4. Evaluate assertions
//
// An error is returned only when the scenario cannot run at all; failed
// expectations are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(store.Config{Driver: scenario.Driver, Name: ":memory:"})
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.CreateSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	for i, spec := range scenario.Setup {
		if _, err := st.Insert(ctx, spec.Client()); err != nil {
			return nil, fmt.Errorf("setup[%d]: %w", i, err)
		}
	}

	h := &Harness{store: st, result: NewResult()}
	for i, step := range scenario.Flow {
		if err := h.executeStep(ctx, i, step); err != nil {
			return nil, fmt.Errorf("flow[%d]: %w", i, err)
		}
	}

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions, actx) {
		h.result.AddError(msg)
	}

	return h.result, nil
}

// executeStep performs one step, records it in the trace and checks its
// expectation. Store failures are outcomes, not errors: only a malformed
// step is returned as an error.
func (h *Harness) executeStep(ctx context.Context, index int, step Step) error {
	event := TraceEvent{Op: step.Op}
	expect := step.Expect
	if expect == nil {
		expect = &Expect{}
	}
	fail := func(format string, args ...any) {
		h.result.AddError(fmt.Sprintf("flow[%d] %s: ", index, step.Op) + fmt.Sprintf(format, args...))
	}

	var opErr error
	switch step.Op {
	case OpInsert:
		c := step.Client.Client()
		event.Args = canonical(c)
		var id int64
		id, opErr = h.store.Insert(ctx, c)
		if opErr == nil {
			event.Outcome = map[string]any{"id": id}
			if expect.ID != nil && *expect.ID != id {
				fail("id = %d, expected %d", id, *expect.ID)
			}
		}

	case OpGet:
		event.Args = map[string]any{"id": step.ID}
		var (
			c  client.Client
			ok bool
		)
		c, ok, opErr = h.store.FindByID(ctx, step.ID)
		if opErr == nil {
			outcome := map[string]any{"found": ok}
			if ok {
				outcome["client"] = canonical(c)
			}
			event.Outcome = outcome
			if expect.Found != nil && *expect.Found != ok {
				fail("found = %t, expected %t", ok, *expect.Found)
			}
			if expect.Client != nil {
				if !ok {
					fail("client %d not found", step.ID)
				} else if msg := matchClient(c, *expect.Client); msg != "" {
					fail("%s", msg)
				}
			}
		}

	case OpFind:
		event.Args = criteriaArgs(step.Criteria)
		criteria, err := filter.ParseCriteria(step.Criteria)
		if err != nil {
			return err
		}
		var found []client.Client
		found, opErr = h.store.FindByCriteria(ctx, criteria)
		if opErr == nil {
			ids := make([]int64, len(found))
			for i, c := range found {
				ids[i] = c.ID
			}
			event.Outcome = map[string]any{"ids": ids}
			if expect.IDs != nil && !slices.Equal(expect.IDs, ids) {
				fail("ids = %v, expected %v", ids, expect.IDs)
			}
		}

	case OpUpdate:
		changes, err := change.FromMap(step.Changes)
		if err != nil {
			return err
		}
		event.Args = map[string]any{"id": step.ID, "fields": changes.String()}
		var applied bool
		applied, opErr = h.store.Update(ctx, step.ID, changes)
		if opErr == nil {
			event.Outcome = map[string]any{"applied": applied}
			if expect.Applied != nil && *expect.Applied != applied {
				fail("applied = %t, expected %t", applied, *expect.Applied)
			}
		}

	case OpRemove:
		event.Args = map[string]any{"id": step.ID}
		opErr = h.store.Remove(ctx, step.ID)

	case OpCount:
		event.Args = map[string]any{}
		var n int
		n, opErr = h.store.Count(ctx)
		if opErr == nil {
			event.Outcome = map[string]any{"count": n}
			if expect.Count != nil && *expect.Count != n {
				fail("count = %d, expected %d", n, *expect.Count)
			}
		}

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	if opErr != nil {
		event.Error = errorKind(opErr)
	}
	if event.Error != expect.Error {
		switch {
		case expect.Error == "":
			fail("unexpected error: %v", opErr)
		case opErr == nil:
			fail("succeeded, expected %s error", expect.Error)
		default:
			fail("%s error, expected %s: %v", event.Error, expect.Error, opErr)
		}
	}

	h.result.AddTrace(event)
	return nil
}

// errorKind names the class of a store error for traces.
func errorKind(err error) string {
	switch {
	case store.IsPersistenceError(err):
		return "persistence"
	case store.IsConnectionError(err):
		return "connection"
	case errors.Is(err, store.ErrClosed):
		return "closed"
	default:
		return "other"
	}
}

// canonical renders c in its canonical JSON form for the trace.
func canonical(c client.Client) json.RawMessage {
	data, err := client.MarshalCanonical(c.View())
	if err != nil {
		// Only string encoding can fail, and strings always encode.
		panic(err)
	}
	return data
}

func criteriaArgs(criteria map[string]string) map[string]any {
	args := make(map[string]any, len(criteria))
	for k, v := range criteria {
		args[k] = v
	}
	return args
}

// matchClient compares the fields set in want against c and describes the
// first mismatch, or returns "".
func matchClient(c client.Client, want ClientSpec) string {
	checks := []struct {
		name      string
		want, got *string
	}{
		{"first_name", want.FirstName, &c.FirstName},
		{"last_name", want.LastName, &c.LastName},
		{"email", want.Email, &c.Email},
	}
	for _, check := range checks {
		if check.want != nil && *check.want != *check.got {
			return fmt.Sprintf("%s = %q, expected %q", check.name, *check.got, *check.want)
		}
	}
	if want.Phones != nil && !slices.Equal(want.Phones, c.Phones) {
		return fmt.Sprintf("phones = %q, expected %q", c.Phones, want.Phones)
	}
	return ""
}
