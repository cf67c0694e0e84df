// Package events carries change notifications for registry records over
// RabbitMQ. Repositories publish a Change after every committed write; the
// audit consumer reads them back and writes one structured log line each.
package events

import (
	"time"

	"github.com/google/uuid"
)

// QueueName is the durable queue changes are routed to.
const QueueName = "registry.changes"

// Operations carried in Change.Op.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Change describes one committed write. Key is the record identity in its
// string form (e.g. "1/5" for spot 5 of lot 1).
type Change struct {
	ID     uuid.UUID `json:"id"`
	Entity string    `json:"entity"`
	Op     string    `json:"op"`
	Key    string    `json:"key"`
	At     time.Time `json:"at"`
}

// NewChange stamps a change with a fresh id and the current time.
func NewChange(entity, op, key string) Change {
	return Change{ID: uuid.New(), Entity: entity, Op: op, Key: key, At: time.Now().UTC()}
}
