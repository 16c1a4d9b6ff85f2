package event

import (
	"context"
	"log/slog"

	"lineage/internal/platform/metrics"
)

// Reconciler enforces the single-occupant invariant: for any (event, role)
// pair at most one participant row exists. Reconcile is idempotent and is
// the only writer of participant rows.
type Reconciler struct {
	store   ParticipantStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewReconciler creates a participant reconciler.
func NewReconciler(store ParticipantStore, m *metrics.Metrics, logger *slog.Logger) *Reconciler {
	return &Reconciler{store: store, metrics: m, logger: logger}
}

// Reconcile drives the (eventID, role) assignment to the desired state. A
// nil personID clears the role. A pre-existing duplicate occupancy is
// repaired in passing: the first row is kept and updated, the rest deleted.
func (r *Reconciler) Reconcile(ctx context.Context, eventID int64, role Role, personID *int64, additionalInfo *string) error {
	current, err := r.store.ListByEventRole(ctx, eventID, role.ID())
	if err != nil {
		return err
	}

	if personID == nil {
		for _, row := range current {
			if err := r.store.Delete(ctx, row.ID); err != nil {
				return err
			}
		}
		r.metrics.RecordParticipantOutcome("cleared")
		return nil
	}

	switch {
	case len(current) == 0:
		err := r.store.Insert(ctx, &Participant{
			EventID:        eventID,
			PersonID:       *personID,
			RoleID:         role.ID(),
			AdditionalInfo: additionalInfo,
		})
		if err != nil {
			return err
		}
		r.metrics.RecordParticipantOutcome("inserted")
		return nil

	case len(current) == 1:
		row := current[0]
		if row.PersonID == *personID && equalInfo(row.AdditionalInfo, additionalInfo) {
			r.metrics.RecordParticipantOutcome("unchanged")
			return nil
		}
		row.PersonID = *personID
		row.AdditionalInfo = additionalInfo
		if err := r.store.Update(ctx, row); err != nil {
			return err
		}
		r.metrics.RecordParticipantOutcome("updated")
		return nil

	default:
		// Duplicate occupancy should be impossible once every write goes
		// through this reconciler; repair rather than reject.
		r.logger.WarnContext(ctx, "repairing duplicate role assignment",
			"event_id", eventID, "role", string(role), "rows", len(current))
		first := current[0]
		first.PersonID = *personID
		first.AdditionalInfo = additionalInfo
		if err := r.store.Update(ctx, first); err != nil {
			return err
		}
		for _, row := range current[1:] {
			if err := r.store.Delete(ctx, row.ID); err != nil {
				return err
			}
		}
		r.metrics.RecordParticipantOutcome("repaired")
		return nil
	}
}

func equalInfo(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
