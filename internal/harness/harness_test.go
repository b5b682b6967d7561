package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/clientbook/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestRun_Scenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".yaml"), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(scenario.Flow))
		})
	}
}

func TestRun_BothDrivers(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/find_by_first_name.yaml")
	require.NoError(t, err)

	for _, driver := range store.Drivers {
		t.Run(driver, func(t *testing.T) {
			s := *scenario
			s.Driver = driver
			result, err := Run(&s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"add_phone_then_update", "update_missing_is_noop"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata/scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_TraceSequence(t *testing.T) {
	scenario := &Scenario{
		Name:        "sequence",
		Description: "seq numbers follow the flow",
		Flow: []Step{
			{Op: OpInsert, Client: &ClientSpec{FirstName: ptr("Иван")}},
			{Op: OpCount},
			{Op: OpRemove, ID: 1},
			{Op: OpGet, ID: 1, Expect: &Expect{Found: ptr(false)}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 4)

	for i, event := range result.Trace {
		assert.Equal(t, int64(i+1), event.Seq)
		assert.Equal(t, scenario.Flow[i].Op, event.Op)
	}
	assert.Equal(t, map[string]any{"id": int64(1)}, result.Trace[0].Outcome)
	assert.Equal(t, map[string]any{"count": 1}, result.Trace[1].Outcome)
	assert.Nil(t, result.Trace[2].Outcome)
	assert.Equal(t, map[string]any{"found": false}, result.Trace[3].Outcome)
}

func TestRun_FailedExpectations(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "every expectation is wrong",
		Setup:       []ClientSpec{{FirstName: ptr("Иван"), Phones: []string{"+7 1"}}},
		Flow: []Step{
			{Op: OpInsert, Client: &ClientSpec{}, Expect: &Expect{ID: ptr(int64(5))}},
			{Op: OpGet, ID: 1, Expect: &Expect{Client: &ClientSpec{FirstName: ptr("Петр")}}},
			{Op: OpGet, ID: 1, Expect: &Expect{Client: &ClientSpec{Phones: []string{}}}},
			{Op: OpFind, Criteria: map[string]string{"first_name": "Иван"}, Expect: &Expect{IDs: []int64{2}}},
			{Op: OpUpdate, ID: 9, Changes: map[string]any{"email": "a@b"}, Expect: &Expect{Applied: ptr(true)}},
			{Op: OpCount, Expect: &Expect{Count: ptr(0)}},
			{Op: OpRemove, ID: 1, Expect: &Expect{Error: "persistence"}},
		},
		Assertions: []Assertion{{Type: AssertRowCount, Count: 7}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 8)

	assert.Contains(t, result.Errors[0], "flow[0] insert: id = 2, expected 5")
	assert.Contains(t, result.Errors[1], `first_name = "Иван", expected "Петр"`)
	assert.Contains(t, result.Errors[2], "phones =")
	assert.Contains(t, result.Errors[3], "ids = [1], expected [2]")
	assert.Contains(t, result.Errors[4], "applied = false, expected true")
	assert.Contains(t, result.Errors[5], "count = 2, expected 0")
	assert.Contains(t, result.Errors[6], "succeeded, expected persistence error")
	assert.Contains(t, result.Errors[7], "Assertion failed: row_count")
}

func TestRun_UnexpectedStoreError(t *testing.T) {
	long := strings.Repeat("x", 41)
	scenario := &Scenario{
		Name:        "unexpected",
		Description: "a constraint violation without an expectation fails the run",
		Flow: []Step{
			{Op: OpInsert, Client: &ClientSpec{LastName: &long}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unexpected error")
	assert.Equal(t, "persistence", result.Trace[0].Error)
	assert.Nil(t, result.Trace[0].Outcome)
}

func TestRun_SetupFailure(t *testing.T) {
	long := strings.Repeat("x", 81)
	scenario := &Scenario{
		Name:        "bad_setup",
		Description: "setup rows must be valid",
		Setup:       []ClientSpec{{Email: &long}},
		Flow:        []Step{{Op: OpCount}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup[0]")
}

func TestRun_UnknownDriver(t *testing.T) {
	_, err := Run(&Scenario{Name: "x", Description: "x", Driver: "postgres", Flow: []Step{{Op: OpCount}}})
	require.Error(t, err)
}

func TestMarshalSnapshot_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/update_last_name_clears_phones.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := MarshalSnapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := MarshalSnapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.True(t, strings.HasSuffix(string(a), "}\n"))
}
