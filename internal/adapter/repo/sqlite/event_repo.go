package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"antforage/internal/app/ports"
)

type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, events []ports.TickEvent) error {
	if len(events) == 0 {
		return nil
	}
	q := getQuerier(ctx, r.db)
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", e.Type, err)
		}
		_, err = q.ExecContext(ctx,
			`INSERT INTO tick_events(tick, type, occurred_at, payload) VALUES (?, ?, ?, ?)`,
			int64(e.Tick), e.Type, e.OccurredAt.UnixNano(), string(b))
		if err != nil {
			return fmt.Errorf("insert tick event: %w", err)
		}
	}
	return nil
}

func (r EventRepo) List(ctx context.Context, q ports.EventQuery) ([]ports.TickEvent, error) {
	var (
		where []string
		args  []any
	)
	if q.FromTick > 0 {
		where = append(where, "tick >= ?")
		args = append(args, int64(q.FromTick))
	}
	if q.ToTick > 0 {
		where = append(where, "tick <= ?")
		args = append(args, int64(q.ToTick))
	}
	if q.Type != "" {
		where = append(where, "type = ?")
		args = append(args, q.Type)
	}
	stmt := `SELECT tick, type, occurred_at, payload FROM tick_events`
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY tick DESC, id DESC"
	if q.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := getQuerier(ctx, r.db).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.TickEvent
	for rows.Next() {
		var (
			tick       int64
			typ        string
			occurredAt int64
			raw        sql.NullString
		)
		if err := rows.Scan(&tick, &typ, &occurredAt, &raw); err != nil {
			return nil, err
		}
		var payload map[string]any
		if raw.Valid && raw.String != "" {
			_ = json.Unmarshal([]byte(raw.String), &payload)
		}
		out = append(out, ports.TickEvent{
			Tick:       uint64(tick),
			Type:       typ,
			OccurredAt: time.Unix(0, occurredAt).UTC(),
			Payload:    payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ports.ErrNotFound
	}
	return out, nil
}

func (r EventRepo) PruneBefore(ctx context.Context, tick uint64) (int64, error) {
	res, err := getQuerier(ctx, r.db).ExecContext(ctx, `DELETE FROM tick_events WHERE tick < ?`, int64(tick))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
