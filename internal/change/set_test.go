package change

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_ZeroValueChangesNothing(t *testing.T) {
	var s Set
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Len())
	for _, f := range allFields {
		assert.False(t, s.Has(f), string(f))
	}
}

func TestSet_Setters(t *testing.T) {
	s := Set{}.LastName("X").Phones("1", "2")

	assert.Equal(t, []Field{LastName, Phones}, s.Fields())
	assert.True(t, s.Has(LastName))
	assert.True(t, s.Has(Phones))
	assert.False(t, s.Has(FirstName))
	assert.Equal(t, "{last_name, phones}", s.String())
}

func TestSet_SettersDoNotAliasCaller(t *testing.T) {
	phones := []string{"1"}
	s := Set{}.Phones(phones...)
	phones[0] = "changed"

	got := Merge(clientWith(), s)
	assert.Equal(t, []string{"1"}, got.Phones)
}

func TestSet_ClearPhonesIsPresent(t *testing.T) {
	s := Set{}.ClearPhones()
	assert.True(t, s.Has(Phones))
	assert.Equal(t, 1, s.Len())
}

func TestSet_ChainingLeavesOriginal(t *testing.T) {
	base := Set{}.FirstName("a")
	extended := base.Email("e")

	assert.False(t, base.Has(Email))
	assert.True(t, extended.Has(FirstName))
	assert.True(t, extended.Has(Email))
}

func TestParseField(t *testing.T) {
	f, err := ParseField("email")
	require.NoError(t, err)
	assert.Equal(t, Email, f)

	_, err = ParseField("id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidField))
}

func TestFromMap(t *testing.T) {
	testCases := []struct {
		name   string
		input  map[string]any
		fields []Field
	}{
		{name: "empty", input: map[string]any{}, fields: nil},
		{name: "text fields", input: map[string]any{"first_name": "a", "email": ""}, fields: []Field{FirstName, Email}},
		{name: "phones as strings", input: map[string]any{"phones": []string{"1"}}, fields: []Field{Phones}},
		{name: "phones as any", input: map[string]any{"phones": []any{"1", "2"}}, fields: []Field{Phones}},
		{name: "phones nil clears", input: map[string]any{"phones": nil}, fields: []Field{Phones}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := FromMap(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.fields, s.Fields())
		})
	}
}

func TestFromMap_NilPhonesClears(t *testing.T) {
	s, err := FromMap(map[string]any{"phones": nil})
	require.NoError(t, err)

	got := Merge(clientWith("1", "2"), s)
	assert.Equal(t, []string{}, got.Phones)
}

func TestFromMap_UnknownField(t *testing.T) {
	_, err := FromMap(map[string]any{"last_name": "X", "nickname": "y"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidField))

	var ife *InvalidFieldError
	require.True(t, errors.As(err, &ife))
	assert.Equal(t, "nickname", ife.Field)
}

func TestFromMap_RejectsID(t *testing.T) {
	_, err := FromMap(map[string]any{"id": int64(3)})
	assert.True(t, errors.Is(err, ErrInvalidField))
}

func TestFromMap_WrongTypes(t *testing.T) {
	testCases := []struct {
		name  string
		input map[string]any
	}{
		{name: "int name", input: map[string]any{"first_name": 1}},
		{name: "nil email", input: map[string]any{"email": nil}},
		{name: "phones string", input: map[string]any{"phones": "+7 1"}},
		{name: "phones mixed", input: map[string]any{"phones": []any{"1", 2}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromMap(tc.input)
			require.Error(t, err)
			var te *TypeError
			assert.True(t, errors.As(err, &te))
			assert.False(t, errors.Is(err, ErrInvalidField))
		})
	}
}
