// Package realtime provides the publish/subscribe fan-out that keeps
// front-desk and doctor displays synchronized. Delivery is best-effort and
// at-most-once per connected subscriber; clients that connect late fetch
// current state via the queue API instead of replay.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the queue core.
const (
	EventEntryCreated = "entry.created"
	EventEntryUpdated = "entry.updated"
)

// Event is a single queue mutation notification.
type Event struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	DoctorID  string          `json:"doctor_id,omitempty"`
	EntryID   string          `json:"entry_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Publisher is the interface the queue core publishes through. The in-memory
// Hub serves single-instance deployments; Broker fans out through Redis when
// multiple server processes run.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// TopicAll is the global channel carrying every queue mutation.
const TopicAll = "queue:all"

// TopicDoctor names the per-doctor queue channel.
func TopicDoctor(doctorID uuid.UUID) string {
	return "queue:doctor:" + doctorID.String()
}

// TopicUser names a specific user's session channel.
func TopicUser(userID uuid.UUID) string {
	return "user:" + userID.String()
}
