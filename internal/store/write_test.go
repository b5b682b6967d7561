package store

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/clientbook/internal/change"
	"github.com/roach88/clientbook/internal/client"
	"github.com/roach88/clientbook/internal/filter"
)

func TestInsert_RoundTrip(t *testing.T) {
	records := []*client.Client{
		client.New("Иван", "Ивановский", "ivnanushka@mail.ru", "+7 211 122-17-12", "+7 122 211-92-11"),
		client.New("", "", ""),
		client.New("dup", "dup", "dup@x", "1", "1", "1"),
		client.New("a<b>&c", "quote\"d", "e@x", "ёжик"),
	}

	forEachDriver(t, func(t *testing.T, s *Store) {
		ctx := context.Background()
		for _, r := range records {
			id, err := s.Insert(ctx, *r)
			require.NoError(t, err)
			assert.Positive(t, id)

			got, ok, err := s.FindByID(ctx, id)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, id, got.ID)
			assert.True(t, r.Equal(got), "stored %v, read back %v", r, got)
		}
	})
}

func TestInsert_IgnoresCallerID(t *testing.T) {
	s := createTestStore(t)
	c := client.New("a", "b", "c")
	c.ID = 999

	id, err := s.Insert(context.Background(), *c)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestInsert_NilPhonesStoredAsEmptyList(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, client.Client{FirstName: "Сидр", LastName: "Сидорин", Email: "mister-sidr@ne-pey.ego"})
	require.NoError(t, err)

	var raw string
	require.NoError(t, s.db.QueryRow("SELECT phones FROM clients WHERE id = ?", id).Scan(&raw))
	assert.Equal(t, "[]", raw)

	got, ok, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotNil(t, got.Phones)
	assert.Empty(t, got.Phones)
}

func TestInsert_IDsNeverReused(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := mustInsert(t, s, client.New("a", "", ""))
	second := mustInsert(t, s, client.New("b", "", ""))
	require.NoError(t, s.Remove(ctx, second.ID))
	require.NoError(t, s.Remove(ctx, first.ID))

	third := mustInsert(t, s, client.New("c", "", ""))
	assert.Greater(t, third.ID, second.ID)
}

func TestInsert_ConstraintViolations(t *testing.T) {
	testCases := []struct {
		name   string
		client client.Client
	}{
		{name: "first name too long", client: client.Client{FirstName: strings.Repeat("я", 41)}},
		{name: "last name too long", client: client.Client{LastName: strings.Repeat("x", 41)}},
		{name: "email too long", client: client.Client{Email: strings.Repeat("x", 81)}},
		{name: "phone too long", client: client.Client{Phones: []string{"1", strings.Repeat("9", 31)}}},
	}

	forEachDriver(t, func(t *testing.T, s *Store) {
		ctx := context.Background()
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := s.Insert(ctx, tc.client)
				require.Error(t, err)
				assert.True(t, IsPersistenceError(err), "got %v", err)
				assert.False(t, IsConnectionError(err))
			})
		}

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n, "failed inserts must not leave rows")
	})
}

func TestInsert_LimitsAreInclusive(t *testing.T) {
	s := createTestStore(t)
	c := client.Client{
		FirstName: strings.Repeat("я", 40),
		LastName:  strings.Repeat("x", 40),
		Email:     strings.Repeat("x", 80),
		Phones:    []string{strings.Repeat("9", 30)},
	}
	_, err := s.Insert(context.Background(), c)
	assert.NoError(t, err)
}

func TestUpdate_MergesAndRewrites(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		ctx := context.Background()
		stored := mustInsert(t, s, client.New("Сидр", "Сидорин", "mister-sidr@ne-pey.ego", "+7 1"))

		applied, err := s.Update(ctx, stored.ID, change.Set{}.LastName("X").ClearPhones())
		require.NoError(t, err)
		assert.True(t, applied)

		got, ok, err := s.FindByID(ctx, stored.ID)
		require.NoError(t, err)
		require.True(t, ok)

		want := client.Client{
			ID:        stored.ID,
			FirstName: "Сидр",
			LastName:  "X",
			Email:     "mister-sidr@ne-pey.ego",
			Phones:    []string{},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("updated record mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestUpdate_MissingIDIsNoOp(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, client.New("a", "b", "c"))

	applied, err := s.Update(ctx, 404, change.Set{}.FirstName("ghost").Phones("1"))
	require.NoError(t, err)
	assert.False(t, applied)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "update of a missing id must not create a row")

	ghosts, err := s.FindByCriteria(ctx, filter.Criteria{FirstName: filter.Eq("ghost")})
	require.NoError(t, err)
	assert.Empty(t, ghosts)
}

func TestUpdate_EmptySetRewritesUnchanged(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	stored := mustInsert(t, s, client.New("a", "b", "c", "1", "2"))

	applied, err := s.Update(ctx, stored.ID, change.Set{})
	require.NoError(t, err)
	assert.True(t, applied)

	got, _, err := s.FindByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestUpdate_ConstraintViolationLeavesRow(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	stored := mustInsert(t, s, client.New("a", "b", "c", "1"))

	_, err := s.Update(ctx, stored.ID, change.Set{}.Email("ok").Phones(strings.Repeat("9", 31)))
	require.Error(t, err)
	assert.True(t, IsPersistenceError(err), "got %v", err)

	got, _, err := s.FindByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, got, "failed update must not change the row")
}

func TestUpdate_OnlyTargetRow(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	a := mustInsert(t, s, client.New("a", "a", "a", "1"))
	b := mustInsert(t, s, client.New("b", "b", "b", "2"))

	_, err := s.Update(ctx, a.ID, change.Set{}.FirstName("changed"))
	require.NoError(t, err)

	got, _, err := s.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestRemove(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	stored := mustInsert(t, s, client.New("a", "b", "c"))

	require.NoError(t, s.Remove(ctx, stored.ID))

	_, ok, err := s.FindByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.False(t, ok, "removed id must read as not found")
}

func TestRemove_Twice(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	stored := mustInsert(t, s, client.New("a", "b", "c"))

	require.NoError(t, s.Remove(ctx, stored.ID))
	assert.NoError(t, s.Remove(ctx, stored.ID), "second remove must not error")
}

func TestRemove_MissingID(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.Remove(context.Background(), 12345))
}
