package model

import "time"

const TableNameTickEvent = "tick_events"

type TickEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Tick       int64     `gorm:"column:tick;not null" json:"tick"`
	Type       string    `gorm:"column:type;not null" json:"type"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null" json:"occurred_at"`
	Payload    []byte    `gorm:"column:payload;type:jsonb" json:"payload"`
}

func (*TickEvent) TableName() string {
	return TableNameTickEvent
}
