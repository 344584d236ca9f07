// Package events publishes document lifecycle notifications.
package events

import (
	"context"
	"time"
)

// Type names a lifecycle transition.
type Type string

const (
	DocumentCreated     Type = "created"
	DocumentUpdated     Type = "updated"
	DocumentSoftDeleted Type = "soft_deleted"
	DocumentRestored    Type = "restored"
	DocumentPurged      Type = "purged"
)

// Event is the payload published for each transition.
type Event struct {
	Type        Type      `json:"type"`
	DocumentID  string    `json:"document_id"`
	WorkspaceID string    `json:"workspace_id"`
	OwnerID     string    `json:"owner_id"`
	At          time.Time `json:"at"`
}

// Publisher delivers lifecycle events. Delivery is fire-and-forget from the
// caller's point of view; a failed publish never rolls back a transition.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
