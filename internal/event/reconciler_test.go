package event

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReconciler(store ParticipantStore) *Reconciler {
	return NewReconciler(store, nil, slog.New(slog.DiscardHandler))
}

func ptr[T any](v T) *T { return &v }

func roleRows(t *testing.T, store *MemoryParticipantStore, eventID int64, role Role) []*Participant {
	t.Helper()
	rows, err := store.ListByEventRole(context.Background(), eventID, role.ID())
	require.NoError(t, err)
	return rows
}

func TestReconcileInsertsWhenRoleEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryParticipantStore()
	r := newTestReconciler(store)

	require.NoError(t, r.Reconcile(ctx, 1, RoleChild, ptr(int64(7)), nil))

	rows := roleRows(t, store, 1, RoleChild)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].PersonID)
}

func TestReconcileUpdatesOccupant(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryParticipantStore()
	r := newTestReconciler(store)

	require.NoError(t, r.Reconcile(ctx, 1, RoleChild, ptr(int64(7)), nil))
	require.NoError(t, r.Reconcile(ctx, 1, RoleChild, ptr(int64(9)), nil))

	rows := roleRows(t, store, 1, RoleChild)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(9), rows[0].PersonID)
}

func TestReconcileNoopWhenUnchanged(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryParticipantStore()
	r := newTestReconciler(store)

	info := ptr("witness present")
	require.NoError(t, r.Reconcile(ctx, 1, RoleGroom, ptr(int64(4)), info))
	before := roleRows(t, store, 1, RoleGroom)
	require.Len(t, before, 1)

	require.NoError(t, r.Reconcile(ctx, 1, RoleGroom, ptr(int64(4)), info))
	after := roleRows(t, store, 1, RoleGroom)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
}

func TestReconcileUpdatesAdditionalInfoOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryParticipantStore()
	r := newTestReconciler(store)

	require.NoError(t, r.Reconcile(ctx, 1, RoleBride, ptr(int64(4)), nil))
	require.NoError(t, r.Reconcile(ctx, 1, RoleBride, ptr(int64(4)), ptr("second marriage")))

	rows := roleRows(t, store, 1, RoleBride)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].AdditionalInfo)
	assert.Equal(t, "second marriage", *rows[0].AdditionalInfo)
}

func TestReconcileClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryParticipantStore()
	r := newTestReconciler(store)

	require.NoError(t, r.Reconcile(ctx, 1, RoleChild, ptr(int64(7)), nil))
	require.NoError(t, r.Reconcile(ctx, 1, RoleChild, nil, nil))
	assert.Empty(t, roleRows(t, store, 1, RoleChild))

	// Second clear is a no-op, zero rows remain.
	require.NoError(t, r.Reconcile(ctx, 1, RoleChild, nil, nil))
	assert.Empty(t, roleRows(t, store, 1, RoleChild))
}

func TestReconcileRepairsDuplicateOccupancy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryParticipantStore()
	store.Seed(&Participant{ID: 1, EventID: 1, PersonID: 7, RoleID: RoleChild.ID()})
	store.Seed(&Participant{ID: 2, EventID: 1, PersonID: 8, RoleID: RoleChild.ID()})
	store.Seed(&Participant{ID: 3, EventID: 1, PersonID: 9, RoleID: RoleChild.ID()})
	r := newTestReconciler(store)

	require.NoError(t, r.Reconcile(ctx, 1, RoleChild, ptr(int64(11)), nil))

	rows := roleRows(t, store, 1, RoleChild)
	require.Len(t, rows, 1, "invariant holds even after repair")
	assert.Equal(t, int64(1), rows[0].ID, "first row is kept")
	assert.Equal(t, int64(11), rows[0].PersonID)
}

func TestReconcileScopesToEventAndRole(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryParticipantStore()
	r := newTestReconciler(store)

	require.NoError(t, r.Reconcile(ctx, 1, RoleChild, ptr(int64(7)), nil))
	require.NoError(t, r.Reconcile(ctx, 1, RoleFather, ptr(int64(8)), nil))
	require.NoError(t, r.Reconcile(ctx, 2, RoleChild, ptr(int64(9)), nil))

	require.NoError(t, r.Reconcile(ctx, 1, RoleChild, nil, nil))

	assert.Empty(t, roleRows(t, store, 1, RoleChild))
	assert.Len(t, roleRows(t, store, 1, RoleFather), 1)
	assert.Len(t, roleRows(t, store, 2, RoleChild), 1)
}
