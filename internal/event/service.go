package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lineage/internal/audit"
	"lineage/internal/platform/metrics"
	"lineage/internal/relationship"
	dErrors "lineage/pkg/domain-errors"
)

// TxRunner executes fn inside one storage transaction. The transaction is
// carried through the context so every store touched by fn joins it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service persists typed event records. Every write runs the participant
// reconciliation and, for kinship-affecting types, the relationship rebuild
// inside the same transaction: a rebuild failure rolls back the
// just-written event and participant rows.
type Service struct {
	events     Store
	reconciler *Reconciler
	parts      ParticipantStore
	rebuilder  relationship.Rebuilder
	txr        TxRunner
	audit      *audit.Emitter
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewService creates an event service.
func NewService(
	events Store,
	reconciler *Reconciler,
	parts ParticipantStore,
	rebuilder relationship.Rebuilder,
	txr TxRunner,
	auditEmitter *audit.Emitter,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		events:     events,
		reconciler: reconciler,
		parts:      parts,
		rebuilder:  rebuilder,
		txr:        txr,
		audit:      auditEmitter,
		metrics:    m,
		logger:     logger,
		tracer:     otel.Tracer("lineage/event"),
	}
}

type roleAssignment struct {
	role     Role
	personID *int64
}

type submission struct {
	date        *Date
	notes       *string
	sourceID    *int64
	locationID  *int64
	snapshot    any
	assignments []roleAssignment
}

func (sub *submission) validate() error {
	if sub.date == nil {
		return dErrors.New(dErrors.CodeBadRequest, "date is required")
	}
	return nil
}

func (sub *submission) apply(e *Event) error {
	raw, err := json.Marshal(sub.snapshot)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode snapshot")
	}
	d := sub.date.Time
	e.EventDate = &d
	e.Notes = sub.notes
	e.SourceID = sub.sourceID
	e.LocationID = sub.locationID
	e.OriginalText = raw
	return nil
}

func (s *Service) create(ctx context.Context, typ Type, sub submission) (*Event, error) {
	ctx, span := s.tracer.Start(ctx, "event.create",
		trace.WithAttributes(attribute.String("event.type", string(typ))))
	defer span.End()

	if err := sub.validate(); err != nil {
		return nil, err
	}

	e := &Event{Type: typ}
	if err := sub.apply(e); err != nil {
		return nil, err
	}

	err := s.txr.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.events.Insert(ctx, e); err != nil {
			return err
		}
		return s.finishWrite(ctx, e, sub.assignments)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Emit(ctx, audit.Event{
		Action:   audit.ActionEventCreated,
		Entity:   string(typ),
		EntityID: e.ID,
	})
	s.logger.InfoContext(ctx, "event created", "event_id", e.ID, "type", string(typ))
	return e, nil
}

func (s *Service) update(ctx context.Context, typ Type, id int64, sub submission) (*Event, error) {
	ctx, span := s.tracer.Start(ctx, "event.update",
		trace.WithAttributes(
			attribute.String("event.type", string(typ)),
			attribute.Int64("event.id", id)))
	defer span.End()

	if err := sub.validate(); err != nil {
		return nil, err
	}

	var e *Event
	err := s.txr.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		e, err = s.events.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := e.requireType(typ); err != nil {
			return err
		}
		if err := sub.apply(e); err != nil {
			return err
		}
		if err := s.events.Update(ctx, e); err != nil {
			return err
		}
		return s.finishWrite(ctx, e, sub.assignments)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Emit(ctx, audit.Event{
		Action:   audit.ActionEventUpdated,
		Entity:   string(typ),
		EntityID: e.ID,
	})
	s.logger.InfoContext(ctx, "event updated", "event_id", e.ID, "type", string(typ))
	return e, nil
}

// finishWrite reconciles role assignments and triggers the relationship
// rebuild for kinship-affecting types. Runs inside the caller's transaction.
func (s *Service) finishWrite(ctx context.Context, e *Event, assignments []roleAssignment) error {
	for _, a := range assignments {
		if err := s.reconciler.Reconcile(ctx, e.ID, a.role, a.personID, nil); err != nil {
			return err
		}
	}
	if !e.Type.AffectsKinship() {
		return nil
	}
	if err := s.rebuilder.RebuildForEvent(ctx, e.ID); err != nil {
		s.metrics.RecordRebuildFailure()
		return err
	}
	return nil
}

func (s *Service) get(ctx context.Context, typ Type, id int64) (*Event, []*Participant, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := e.requireType(typ); err != nil {
		return nil, nil, err
	}
	parts, err := s.parts.ListByEvent(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return e, parts, nil
}

// BirthRecord is the read view of a birth event.
type BirthRecord struct {
	ID        int64  `json:"id"`
	TypeLabel string `json:"type_label"`
	BirthDetails
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeathRecord is the read view of a death event.
type DeathRecord struct {
	ID        int64  `json:"id"`
	TypeLabel string `json:"type_label"`
	DeathDetails
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarriageRecord is the read view of a marriage event.
type MarriageRecord struct {
	ID        int64  `json:"id"`
	TypeLabel string `json:"type_label"`
	MarriageDetails
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DivorceRecord is the read view of a divorce event.
type DivorceRecord struct {
	ID        int64  `json:"id"`
	TypeLabel string `json:"type_label"`
	DivorceDetails
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RevisionRecord is the read view of a revision-census event.
type RevisionRecord struct {
	ID        int64  `json:"id"`
	TypeLabel string `json:"type_label"`
	RevisionDetails
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d BirthDetails) submission() submission {
	return submission{
		date: d.Date, notes: d.Notes, sourceID: d.SourceID, locationID: d.LocationID,
		snapshot: d,
		assignments: []roleAssignment{
			{RoleChild, d.ChildPersonID},
			{RoleFather, d.FatherPersonID},
			{RoleMother, d.MotherPersonID},
		},
	}
}

func (d DeathDetails) submission() submission {
	return submission{
		date: d.Date, notes: d.Notes, sourceID: d.SourceID, locationID: d.LocationID,
		snapshot: d,
		assignments: []roleAssignment{
			{RoleDeceased, d.DeceasedPersonID},
		},
	}
}

func (d MarriageDetails) submission() submission {
	return submission{
		date: d.Date, notes: d.Notes, sourceID: d.SourceID, locationID: d.LocationID,
		snapshot: d,
		assignments: []roleAssignment{
			{RoleGroom, d.GroomPersonID},
			{RoleBride, d.BridePersonID},
		},
	}
}

func (d DivorceDetails) submission() submission {
	return submission{
		date: d.Date, notes: d.Notes, sourceID: d.SourceID, locationID: d.LocationID,
		snapshot: d,
		assignments: []roleAssignment{
			{RoleHusband, d.HusbandPersonID},
			{RoleWife, d.WifePersonID},
		},
	}
}

func (d RevisionDetails) submission() submission {
	return submission{
		date: d.Date, notes: d.Notes, sourceID: d.SourceID, locationID: d.LocationID,
		snapshot: d,
		assignments: []roleAssignment{
			{RoleHead, d.HeadPersonID},
		},
	}
}

// CreateBirth persists a birth record.
func (s *Service) CreateBirth(ctx context.Context, d BirthDetails) (*BirthRecord, error) {
	e, err := s.create(ctx, TypeBirth, d.submission())
	if err != nil {
		return nil, err
	}
	return s.GetBirth(ctx, e.ID)
}

// GetBirth returns the merged read view of a birth record.
func (s *Service) GetBirth(ctx context.Context, id int64) (*BirthRecord, error) {
	e, parts, err := s.get(ctx, TypeBirth, id)
	if err != nil {
		return nil, err
	}
	var d BirthDetails
	decodeSnapshot(e.OriginalText, &d)
	d.merge(e, parts)
	return &BirthRecord{ID: e.ID, TypeLabel: e.Type.Label(), BirthDetails: d,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}, nil
}

// UpdateBirth rewrites a birth record.
func (s *Service) UpdateBirth(ctx context.Context, id int64, d BirthDetails) (*BirthRecord, error) {
	if _, err := s.update(ctx, TypeBirth, id, d.submission()); err != nil {
		return nil, err
	}
	return s.GetBirth(ctx, id)
}

// CreateDeath persists a death record.
func (s *Service) CreateDeath(ctx context.Context, d DeathDetails) (*DeathRecord, error) {
	e, err := s.create(ctx, TypeDeath, d.submission())
	if err != nil {
		return nil, err
	}
	return s.GetDeath(ctx, e.ID)
}

// GetDeath returns the merged read view of a death record.
func (s *Service) GetDeath(ctx context.Context, id int64) (*DeathRecord, error) {
	e, parts, err := s.get(ctx, TypeDeath, id)
	if err != nil {
		return nil, err
	}
	var d DeathDetails
	decodeSnapshot(e.OriginalText, &d)
	d.merge(e, parts)
	return &DeathRecord{ID: e.ID, TypeLabel: e.Type.Label(), DeathDetails: d,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}, nil
}

// UpdateDeath rewrites a death record.
func (s *Service) UpdateDeath(ctx context.Context, id int64, d DeathDetails) (*DeathRecord, error) {
	if _, err := s.update(ctx, TypeDeath, id, d.submission()); err != nil {
		return nil, err
	}
	return s.GetDeath(ctx, id)
}

// CreateMarriage persists a marriage record.
func (s *Service) CreateMarriage(ctx context.Context, d MarriageDetails) (*MarriageRecord, error) {
	e, err := s.create(ctx, TypeMarriage, d.submission())
	if err != nil {
		return nil, err
	}
	return s.GetMarriage(ctx, e.ID)
}

// GetMarriage returns the merged read view of a marriage record.
func (s *Service) GetMarriage(ctx context.Context, id int64) (*MarriageRecord, error) {
	e, parts, err := s.get(ctx, TypeMarriage, id)
	if err != nil {
		return nil, err
	}
	var d MarriageDetails
	decodeSnapshot(e.OriginalText, &d)
	d.merge(e, parts)
	return &MarriageRecord{ID: e.ID, TypeLabel: e.Type.Label(), MarriageDetails: d,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}, nil
}

// UpdateMarriage rewrites a marriage record.
func (s *Service) UpdateMarriage(ctx context.Context, id int64, d MarriageDetails) (*MarriageRecord, error) {
	if _, err := s.update(ctx, TypeMarriage, id, d.submission()); err != nil {
		return nil, err
	}
	return s.GetMarriage(ctx, id)
}

// CreateDivorce persists a divorce record.
func (s *Service) CreateDivorce(ctx context.Context, d DivorceDetails) (*DivorceRecord, error) {
	e, err := s.create(ctx, TypeDivorce, d.submission())
	if err != nil {
		return nil, err
	}
	return s.GetDivorce(ctx, e.ID)
}

// GetDivorce returns the merged read view of a divorce record.
func (s *Service) GetDivorce(ctx context.Context, id int64) (*DivorceRecord, error) {
	e, parts, err := s.get(ctx, TypeDivorce, id)
	if err != nil {
		return nil, err
	}
	var d DivorceDetails
	decodeSnapshot(e.OriginalText, &d)
	d.merge(e, parts)
	return &DivorceRecord{ID: e.ID, TypeLabel: e.Type.Label(), DivorceDetails: d,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}, nil
}

// UpdateDivorce rewrites a divorce record.
func (s *Service) UpdateDivorce(ctx context.Context, id int64, d DivorceDetails) (*DivorceRecord, error) {
	if _, err := s.update(ctx, TypeDivorce, id, d.submission()); err != nil {
		return nil, err
	}
	return s.GetDivorce(ctx, id)
}

// CreateRevision persists a revision-census record.
func (s *Service) CreateRevision(ctx context.Context, d RevisionDetails) (*RevisionRecord, error) {
	e, err := s.create(ctx, TypeRevision, d.submission())
	if err != nil {
		return nil, err
	}
	return s.GetRevision(ctx, e.ID)
}

// GetRevision returns the merged read view of a revision-census record.
func (s *Service) GetRevision(ctx context.Context, id int64) (*RevisionRecord, error) {
	e, parts, err := s.get(ctx, TypeRevision, id)
	if err != nil {
		return nil, err
	}
	var d RevisionDetails
	decodeSnapshot(e.OriginalText, &d)
	d.merge(e, parts)
	return &RevisionRecord{ID: e.ID, TypeLabel: e.Type.Label(), RevisionDetails: d,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}, nil
}

// UpdateRevision rewrites a revision-census record.
func (s *Service) UpdateRevision(ctx context.Context, id int64, d RevisionDetails) (*RevisionRecord, error) {
	if _, err := s.update(ctx, TypeRevision, id, d.submission()); err != nil {
		return nil, err
	}
	return s.GetRevision(ctx, id)
}
