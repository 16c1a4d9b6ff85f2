package event

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineage/internal/audit"
	dErrors "lineage/pkg/domain-errors"
)

type passthroughTxRunner struct{}

func (passthroughTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRebuilder struct {
	calls []int64
	err   error
}

func (f *fakeRebuilder) RebuildForEvent(_ context.Context, eventID int64) error {
	f.calls = append(f.calls, eventID)
	return f.err
}

type serviceFixture struct {
	service   *Service
	events    *MemoryStore
	parts     *MemoryParticipantStore
	rebuilder *fakeRebuilder
	published *audit.MemoryPublisher
}

func newServiceFixture() *serviceFixture {
	logger := slog.New(slog.DiscardHandler)
	events := NewMemoryStore()
	parts := NewMemoryParticipantStore()
	rebuilder := &fakeRebuilder{}
	published := audit.NewMemoryPublisher()

	service := NewService(
		events,
		NewReconciler(parts, nil, logger),
		parts,
		rebuilder,
		passthroughTxRunner{},
		audit.NewEmitter(published, logger),
		nil,
		logger,
	)
	return &serviceFixture{
		service: service, events: events, parts: parts,
		rebuilder: rebuilder, published: published,
	}
}

func birthDetails() BirthDetails {
	d := NewDate(time.Date(1887, 6, 12, 0, 0, 0, 0, time.UTC))
	return BirthDetails{
		Date:          &d,
		Place:         ptr("Vilnius"),
		ChildPersonID: ptr(int64(7)),
	}
}

func TestCreateBirthReconcilesAndRebuilds(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	rec, err := f.service.CreateBirth(ctx, birthDetails())
	require.NoError(t, err)
	require.NotNil(t, rec.ChildPersonID)
	assert.Equal(t, int64(7), *rec.ChildPersonID)
	assert.Equal(t, "Birth", rec.TypeLabel)

	rows, err := f.parts.ListByEventRole(ctx, rec.ID, RoleChild.ID())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, []int64{rec.ID}, f.rebuilder.calls)

	events := f.published.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionEventCreated, events[0].Action)
	assert.Equal(t, "birth", events[0].Entity)
}

func TestCreateRequiresDate(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.CreateBirth(context.Background(), BirthDetails{ChildPersonID: ptr(int64(7))})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	assert.Empty(t, f.rebuilder.calls)
}

func TestCreateDeathSkipsRebuild(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	d := NewDate(time.Date(1901, 2, 3, 0, 0, 0, 0, time.UTC))
	rec, err := f.service.CreateDeath(ctx, DeathDetails{Date: &d, DeceasedPersonID: ptr(int64(5))})
	require.NoError(t, err)
	require.NotNil(t, rec.DeceasedPersonID)

	assert.Empty(t, f.rebuilder.calls, "death events carry no kinship edges")
}

func TestCreateDivorceTriggersRebuild(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	d := NewDate(time.Date(1910, 9, 1, 0, 0, 0, 0, time.UTC))
	rec, err := f.service.CreateDivorce(ctx, DivorceDetails{
		Date:            &d,
		HusbandPersonID: ptr(int64(3)),
		WifePersonID:    ptr(int64(4)),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{rec.ID}, f.rebuilder.calls)
}

func TestCreateBirthRebuildFailurePropagates(t *testing.T) {
	f := newServiceFixture()
	f.rebuilder.err = dErrors.New(dErrors.CodeUpstream, "relationship rebuild failed")

	_, err := f.service.CreateBirth(context.Background(), birthDetails())
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUpstream))
	assert.Empty(t, f.published.Events(), "no audit event for a rolled-back write")
}

func TestUpdateBirthReplacesParticipant(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	rec, err := f.service.CreateBirth(ctx, birthDetails())
	require.NoError(t, err)

	updated := birthDetails()
	updated.ChildPersonID = ptr(int64(9))
	rec2, err := f.service.UpdateBirth(ctx, rec.ID, updated)
	require.NoError(t, err)
	require.NotNil(t, rec2.ChildPersonID)
	assert.Equal(t, int64(9), *rec2.ChildPersonID)

	rows, err := f.parts.ListByEventRole(ctx, rec.ID, RoleChild.ID())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(9), rows[0].PersonID)
}

func TestGetBirthRejectsWrongType(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	d := NewDate(time.Date(1901, 2, 3, 0, 0, 0, 0, time.UTC))
	rec, err := f.service.CreateDeath(ctx, DeathDetails{Date: &d})
	require.NoError(t, err)

	_, err = f.service.GetBirth(ctx, rec.ID)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestGetBirthMergesSnapshotOverCanonical(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	canonicalDate := time.Date(1888, 1, 1, 0, 0, 0, 0, time.UTC)
	e := &Event{
		Type:         TypeBirth,
		EventDate:    &canonicalDate,
		Notes:        ptr("canonical note"),
		OriginalText: []byte(`{"notes":"submitted note","place":"Kaunas"}`),
	}
	require.NoError(t, f.events.Insert(ctx, e))

	rec, err := f.service.GetBirth(ctx, e.ID)
	require.NoError(t, err)

	require.NotNil(t, rec.Notes)
	assert.Equal(t, "submitted note", *rec.Notes, "snapshot field wins")
	require.NotNil(t, rec.Place)
	assert.Equal(t, "Kaunas", *rec.Place)
	require.NotNil(t, rec.Date, "canonical column fills fields the snapshot lacks")
	assert.Equal(t, "1888-01-01", rec.Date.Format("2006-01-02"))
}

func TestGetBirthToleratesMalformedSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	canonicalDate := time.Date(1888, 1, 1, 0, 0, 0, 0, time.UTC)
	e := &Event{
		Type:         TypeBirth,
		EventDate:    &canonicalDate,
		Notes:        ptr("canonical note"),
		OriginalText: []byte(`{not json`),
	}
	require.NoError(t, f.events.Insert(ctx, e))

	rec, err := f.service.GetBirth(ctx, e.ID)
	require.NoError(t, err, "redisplay is best-effort, reads never fail on bad snapshots")
	require.NotNil(t, rec.Notes)
	assert.Equal(t, "canonical note", *rec.Notes)
}
