package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StateRecord models a tableview_state row.
type StateRecord struct {
	bun.BaseModel `bun:"table:tableview_state"`

	ID        uuid.UUID      `bun:"id,pk,type:uuid"`
	Key       string         `bun:"key"`
	Value     map[string]any `bun:"value,type:jsonb"`
	Version   int            `bun:"version"`
	CreatedAt time.Time      `bun:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at"`
}
