package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lineage/internal/event"
	dErrors "lineage/pkg/domain-errors"
)

// PostgresStore implements SearchStore against Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed search store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Search(ctx context.Context, params SearchParams) ([]*Item, int64, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if params.Query != "" {
		add(`(e.notes ILIKE '%%' || $%[1]d || '%%'
			OR e.original_text::text ILIKE '%%' || $%[1]d || '%%'
			OR src.name ILIKE '%%' || $%[1]d || '%%')`, params.Query)
	}
	if params.EventType != "" {
		add(`e.event_type = $%d`, params.EventType)
	}
	if params.DateFrom != nil {
		add(`e.event_date >= $%d`, *params.DateFrom)
	}
	if params.DateTo != nil {
		add(`e.event_date <= $%d`, *params.DateTo)
	}
	if params.Place != "" {
		add(`loc.name ILIKE '%%' || $%d || '%%'`, params.Place)
	}
	if params.SourceType != "" {
		add(`src.source_type ILIKE '%%' || $%d || '%%'`, params.SourceType)
	}
	if params.EventIDFrom != nil {
		add(`e.id >= $%d`, *params.EventIDFrom)
	}
	if params.EventIDTo != nil {
		add(`e.id <= $%d`, *params.EventIDTo)
	}

	query := `
		SELECT e.id, e.event_type, e.event_date, loc.name, src.name, src.source_type,
		       e.notes, COUNT(*) OVER() AS total
		FROM events e
		LEFT JOIN locations loc ON loc.id = e.location_id
		LEFT JOIN sources src ON src.id = e.source_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, "\n\t\t  AND ")
	}
	query += "\n\t\tORDER BY " + orderClause(params)

	args = append(args, params.PageSize)
	query += fmt.Sprintf("\n\t\tLIMIT $%d", len(args))
	args = append(args, params.Offset())
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "search records")
	}
	defer rows.Close()

	var (
		items []*Item
		total int64
	)
	for rows.Next() {
		var (
			item       Item
			date       sql.NullTime
			place      sql.NullString
			sourceName sql.NullString
			sourceType sql.NullString
			notes      sql.NullString
		)
		err := rows.Scan(&item.ID, &item.Type, &date, &place, &sourceName, &sourceType,
			&notes, &total)
		if err != nil {
			return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "scan record")
		}
		if date.Valid {
			item.EventDate = &date.Time
		}
		if place.Valid {
			item.Place = &place.String
		}
		if sourceName.Valid {
			item.SourceName = &sourceName.String
		}
		if sourceType.Valid {
			item.SourceType = &sourceType.String
		}
		if notes.Valid {
			item.Notes = &notes.String
		}
		item.TypeLabel = event.Type(item.Type).Label()
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "iterate records")
	}

	// LIMIT/OFFSET past the last row returns no rows, so the window total is
	// lost; re-count in that case.
	if len(items) == 0 {
		total, err = s.countTotal(ctx, where, args[:len(args)-2])
		if err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (s *PostgresStore) countTotal(ctx context.Context, where []string, args []any) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM events e
		LEFT JOIN locations loc ON loc.id = e.location_id
		LEFT JOIN sources src ON src.id = e.source_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, "\n\t\t  AND ")
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "count records")
	}
	return total, nil
}

func orderClause(params SearchParams) string {
	dir := "ASC"
	if params.SortDirection == SortDesc {
		dir = "DESC"
	}
	if params.SortField == SortByID {
		return "e.id " + dir
	}
	return fmt.Sprintf("e.event_date %s NULLS LAST, e.id %s", dir, dir)
}
