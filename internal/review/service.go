package review

import (
	"context"
	"log/slog"
	"time"

	"lineage/internal/audit"
	"lineage/internal/platform/metrics"
	dErrors "lineage/pkg/domain-errors"
)

// Service runs the review state machine for both entity kinds. The machine
// is identical in shape: pending items move to one of two terminal statuses
// with notes and a resolution timestamp. Re-resolving a terminal item is
// permitted; the data model carries no guard against it.
type Service struct {
	conflicts  ConflictStore
	duplicates DuplicateStore
	audit      *audit.Emitter
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a review service.
func NewService(
	conflicts ConflictStore,
	duplicates DuplicateStore,
	auditEmitter *audit.Emitter,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		conflicts:  conflicts,
		duplicates: duplicates,
		audit:      auditEmitter,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// ResolveConflict moves a conflict to resolved or rejected.
// TODO: populate ResolvedBy once moderator identity is threaded through the
// resolution path; the audit event already carries the actor.
func (s *Service) ResolveConflict(ctx context.Context, id int64, status Status, notes *string) (*Conflict, error) {
	if !conflictTerminals[status] {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "invalid conflict status %q", status)
	}

	c, err := s.conflicts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c.Status = status
	c.Notes = notes
	c.ResolvedAt = &now
	if err := s.conflicts.Update(ctx, c); err != nil {
		return nil, err
	}

	s.metrics.RecordReviewResolution("conflict", string(status))
	s.audit.Emit(ctx, audit.Event{
		Action:   audit.ActionConflictResolved,
		Entity:   "conflict",
		EntityID: c.ID,
		Metadata: map[string]any{"status": string(status)},
	})
	s.logger.InfoContext(ctx, "conflict resolved", "conflict_id", id, "status", string(status))
	return c, nil
}

// ListConflicts returns conflicts with the given status, defaulting to
// pending, oldest first.
func (s *Service) ListConflicts(ctx context.Context, status Status) ([]*Conflict, error) {
	if status == "" {
		status = StatusPending
	}
	return s.conflicts.List(ctx, status)
}

// ResolveDuplicate moves an event-duplicate pair to confirmed_duplicate or
// confirmed_different.
func (s *Service) ResolveDuplicate(ctx context.Context, id int64, status Status, notes *string) (*EventDuplicate, error) {
	if !duplicateTerminals[status] {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "invalid event duplicate status %q", status)
	}

	d, err := s.duplicates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	d.Status = status
	d.Notes = notes
	d.ReviewedAt = &now
	if err := s.duplicates.Update(ctx, d); err != nil {
		return nil, err
	}

	s.metrics.RecordReviewResolution("event_duplicate", string(status))
	s.audit.Emit(ctx, audit.Event{
		Action:   audit.ActionDuplicateReviewed,
		Entity:   "event_duplicate",
		EntityID: d.ID,
		Metadata: map[string]any{"status": string(status)},
	})
	s.logger.InfoContext(ctx, "event duplicate reviewed", "duplicate_id", id, "status", string(status))
	return d, nil
}

// ListDuplicates returns duplicate pairs with the given status, defaulting
// to pending, oldest first.
func (s *Service) ListDuplicates(ctx context.Context, status Status) ([]*EventDuplicate, error) {
	if status == "" {
		status = StatusPending
	}
	return s.duplicates.List(ctx, status)
}
