package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Writer persists audit events into audit_logs.
type Writer struct {
	pool *pgxpool.Pool
}

// NewWriter returns a new Writer.
func NewWriter(pool *pgxpool.Pool) *Writer {
	return &Writer{pool: pool}
}

// Insert persists one event.
func (w *Writer) Insert(ctx context.Context, event Event) error {
	if w == nil || w.pool == nil {
		return errors.New("audit writer not initialised")
	}
	if event.Action == "" || event.Entity == "" || event.EntityID == "" {
		return errors.New("audit event requires action/entity/entity_id")
	}
	var at any
	if !event.At.IsZero() {
		at = event.At
	}
	_, err := w.pool.Exec(ctx, `INSERT INTO audit_logs (actor_id, action, entity, entity_id, occurred_at)
VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))`, event.ActorID, event.Action, event.Entity, event.EntityID, at)
	return err
}

// TimelineWindow queries audit_logs with optional filters, newest first.
func (w *Writer) TimelineWindow(ctx context.Context, filters TimelineFilters, limit, offset int) ([]TimelineRow, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !filters.From.IsZero() {
		conds = append(conds, "occurred_at >= "+arg(filters.From))
	}
	if !filters.To.IsZero() {
		conds = append(conds, "occurred_at <= "+arg(filters.To))
	}
	if filters.ActorID > 0 {
		conds = append(conds, "actor_id = "+arg(filters.ActorID))
	}
	if filters.Entity != "" {
		conds = append(conds, "entity = "+arg(filters.Entity))
	}
	if filters.Action != "" {
		conds = append(conds, "action = "+arg(filters.Action))
	}
	query := `SELECT occurred_at, actor_id, action, entity, entity_id FROM audit_logs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY occurred_at DESC, id DESC LIMIT " + arg(limit) + " OFFSET " + arg(offset)

	rows, err := w.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TimelineRow
	for rows.Next() {
		var row TimelineRow
		if err := rows.Scan(&row.At, &row.ActorID, &row.Action, &row.Entity, &row.EntityID); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
