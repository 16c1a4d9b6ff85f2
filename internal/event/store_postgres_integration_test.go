//go:build integration

package event_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lineage/internal/event"
	"lineage/internal/relationship"
	dErrors "lineage/pkg/domain-errors"
	"lineage/pkg/platform/tx"
	"lineage/pkg/testutil/containers"
)

type PostgresEventSuite struct {
	suite.Suite
	postgres   *containers.PostgresContainer
	events     *event.PostgresStore
	parts      *event.PostgresParticipantStore
	edges      *relationship.PostgresStore
	reconciler *event.Reconciler
}

func TestPostgresEventSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresEventSuite))
}

func (s *PostgresEventSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), "../../migrations/0001_init.sql")
	s.events = event.NewPostgresStore(s.postgres.DB)
	s.parts = event.NewPostgresParticipantStore(s.postgres.DB)
	s.edges = relationship.NewPostgresStore(s.postgres.DB)
	s.reconciler = event.NewReconciler(s.parts, nil, slog.New(slog.DiscardHandler))
}

func (s *PostgresEventSuite) SetupTest() {
	ctx := context.Background()
	for _, table := range []string{"relationships", "event_participants", "events", "persons"} {
		_, err := s.postgres.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		s.Require().NoError(err)
	}
}

func (s *PostgresEventSuite) insertPerson(gender string) int64 {
	var id int64
	err := s.postgres.DB.QueryRowContext(context.Background(),
		`INSERT INTO persons (gender) VALUES ($1) RETURNING id`, gender).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *PostgresEventSuite) insertEvent(typ string) *event.Event {
	date := time.Date(1887, 6, 12, 0, 0, 0, 0, time.UTC)
	e := &event.Event{Type: event.Type(typ), EventDate: &date}
	s.Require().NoError(s.events.Insert(context.Background(), e))
	return e
}

func (s *PostgresEventSuite) TestReconcileInvariantSurvivesSequences() {
	ctx := context.Background()
	child1 := s.insertPerson("M")
	child2 := s.insertPerson("M")
	e := s.insertEvent("birth")

	s.Require().NoError(s.reconciler.Reconcile(ctx, e.ID, event.RoleChild, &child1, nil))
	s.Require().NoError(s.reconciler.Reconcile(ctx, e.ID, event.RoleChild, &child2, nil))

	rows, err := s.parts.ListByEventRole(ctx, e.ID, event.RoleChild.ID())
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(child2, rows[0].PersonID)

	s.Require().NoError(s.reconciler.Reconcile(ctx, e.ID, event.RoleChild, nil, nil))
	rows, err = s.parts.ListByEventRole(ctx, e.ID, event.RoleChild.ID())
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *PostgresEventSuite) TestRebuildDerivesParentEdges() {
	ctx := context.Background()
	child := s.insertPerson("M")
	father := s.insertPerson("M")
	mother := s.insertPerson("F")
	e := s.insertEvent("birth")

	s.Require().NoError(s.reconciler.Reconcile(ctx, e.ID, event.RoleChild, &child, nil))
	s.Require().NoError(s.reconciler.Reconcile(ctx, e.ID, event.RoleFather, &father, nil))
	s.Require().NoError(s.reconciler.Reconcile(ctx, e.ID, event.RoleMother, &mother, nil))

	t, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.edges.RebuildForEvent(tx.WithTx(ctx, t), e.ID))
	s.Require().NoError(t.Commit())

	edges, err := s.edges.EdgesTouching(ctx, child)
	s.Require().NoError(err)
	s.Require().Len(edges, 2)
	for _, edge := range edges {
		s.Equal(relationship.TypeParent, edge.Type)
		s.Equal(child, edge.Person2ID)
	}
}

func (s *PostgresEventSuite) TestRebuildFailureRollsBackParticipants() {
	ctx := context.Background()
	child := s.insertPerson("M")
	e := s.insertEvent("birth")

	t, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := tx.WithTx(ctx, t)

	s.Require().NoError(s.reconciler.Reconcile(txCtx, e.ID, event.RoleChild, &child, nil))

	// Rebuilding a nonexistent event raises inside the procedure.
	err = s.edges.RebuildForEvent(txCtx, e.ID+9999)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUpstream))
	s.Require().NoError(t.Rollback())

	rows, err := s.parts.ListByEventRole(ctx, e.ID, event.RoleChild.ID())
	s.Require().NoError(err)
	s.Empty(rows, "participant write must not survive a failed rebuild")
}
