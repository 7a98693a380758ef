package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"antforage/internal/adapter/repo/gorm/model"
	"antforage/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, events []ports.TickEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.TickEvent, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", e.Type, err)
		}
		rows = append(rows, model.TickEvent{
			Tick:       int64(e.Tick),
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return dbFrom(ctx, r.db).WithContext(ctx).Create(&rows).Error
}

func (r EventRepo) List(ctx context.Context, q ports.EventQuery) ([]ports.TickEvent, error) {
	rows := []model.TickEvent{}
	query := dbFrom(ctx, r.db).WithContext(ctx).Model(&model.TickEvent{})
	if q.FromTick > 0 {
		query = query.Where("tick >= ?", int64(q.FromTick))
	}
	if q.ToTick > 0 {
		query = query.Where("tick <= ?", int64(q.ToTick))
	}
	if q.Type != "" {
		query = query.Where(&model.TickEvent{Type: q.Type})
	}
	query = query.Clauses(clause.OrderBy{
		Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "tick"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		},
	})
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]ports.TickEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, ports.TickEvent{
			Tick:       uint64(row.Tick),
			Type:       row.Type,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}

func (r EventRepo) PruneBefore(ctx context.Context, tick uint64) (int64, error) {
	res := dbFrom(ctx, r.db).WithContext(ctx).
		Where("tick < ?", int64(tick)).
		Delete(&model.TickEvent{})
	return res.RowsAffected, res.Error
}
