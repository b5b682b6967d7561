package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalPhones(t *testing.T) {
	testCases := []struct {
		name   string
		phones []string
		want   string
	}{
		{name: "nil", phones: nil, want: "[]"},
		{name: "empty", phones: []string{}, want: "[]"},
		{name: "order kept", phones: []string{"+7 2", "+7 1", "+7 2"}, want: `["+7 2","+7 1","+7 2"]`},
		{name: "no html escaping", phones: []string{"<1>&"}, want: `["<1>&"]`},
		{name: "unicode kept", phones: []string{"доб. 12"}, want: `["доб. 12"]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := marshalPhones(tc.phones)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUnmarshalPhones(t *testing.T) {
	for _, data := range []string{"", "[]", "null"} {
		got, err := unmarshalPhones(data)
		require.NoError(t, err)
		assert.Equal(t, []string{}, got, "input %q", data)
	}

	got, err := unmarshalPhones(`["a","b"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestUnmarshalPhones_Invalid(t *testing.T) {
	_, err := unmarshalPhones(`[1, 2]`)
	assert.Error(t, err)

	_, err = unmarshalPhones(`{`)
	assert.Error(t, err)
}
