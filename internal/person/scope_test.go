package person

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineage/internal/access"
	dErrors "lineage/pkg/domain-errors"
)

func newPerson(id int64, visibility Visibility, owner *int64) *Person {
	return &Person{ID: id, Gender: GenderMale, Visibility: visibility, OwnerUserID: owner}
}

func TestScopeAdmits(t *testing.T) {
	owner := int64(42)
	public := newPerson(1, VisibilityPublic, nil)
	private := newPerson(2, VisibilityPrivate, nil)
	owned := newPerson(3, VisibilityPrivate, &owner)

	t.Run("anonymous sees public only", func(t *testing.T) {
		scope := ScopeFor(access.Anonymous)
		assert.True(t, scope.Admits(public))
		assert.False(t, scope.Admits(private))
		assert.False(t, scope.Admits(owned))
	})

	t.Run("authenticated sees public and own", func(t *testing.T) {
		scope := ScopeFor(access.Context{UserID: 42, Authenticated: true})
		assert.True(t, scope.Admits(public))
		assert.False(t, scope.Admits(private))
		assert.True(t, scope.Admits(owned))
	})

	t.Run("mismatched owner is not admitted", func(t *testing.T) {
		scope := ScopeFor(access.Context{UserID: 7, Authenticated: true})
		assert.False(t, scope.Admits(owned))
	})

	t.Run("privileged sees everything", func(t *testing.T) {
		scope := ScopeFor(access.Context{UserID: 7, Authenticated: true, Privileged: true})
		assert.True(t, scope.Admits(public))
		assert.True(t, scope.Admits(private))
		assert.True(t, scope.Admits(owned))
		assert.True(t, scope.AdmitsAll())
	})
}

func TestMemoryStoreScoping(t *testing.T) {
	ctx := context.Background()
	owner := int64(42)
	store := NewMemoryStore()
	store.Put(newPerson(1, VisibilityPublic, nil))
	store.Put(newPerson(2, VisibilityPrivate, nil))
	store.Put(newPerson(3, VisibilityPrivate, &owner))

	t.Run("non-admitted row reads as not found", func(t *testing.T) {
		_, err := store.GetByID(ctx, 2, ScopeFor(access.Anonymous))
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})

	t.Run("missing row reads identically", func(t *testing.T) {
		_, err := store.GetByID(ctx, 99, ScopeFor(access.Anonymous))
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})

	t.Run("list silently omits non-admitted ids", func(t *testing.T) {
		scope := ScopeFor(access.Context{UserID: 42, Authenticated: true})
		got, err := store.ListByIDs(ctx, []int64{1, 2, 3, 99}, scope)
		require.NoError(t, err)
		ids := make([]int64, 0, len(got))
		for _, p := range got {
			ids = append(ids, p.ID)
		}
		assert.ElementsMatch(t, []int64{1, 3}, ids)
	})
}

func TestYearAccessors(t *testing.T) {
	est := 1890
	p := &Person{EstimatedBirthYear: &est}
	require.NotNil(t, p.BirthYear())
	assert.Equal(t, 1890, *p.BirthYear())

	date := mustDate(t, "1892-03-14")
	p.BirthDate = &date
	assert.Equal(t, 1892, *p.BirthYear(), "exact date takes precedence over estimate")

	assert.Nil(t, p.DeathYear())
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
