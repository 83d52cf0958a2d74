// internal/types/interfaces.go
package types

import (
	"context"
)

// CartStore persists carts keyed by conversation id. Every mutation returns
// a fresh snapshot of the committed cart state.
type CartStore interface {
	ResolveCart(ctx context.Context, conversationID ConversationID) (*Cart, error)
	AddItem(ctx context.Context, cartID CartID, itemID ItemID, title string) (*Cart, error)
	RemoveItem(ctx context.Context, cartID CartID, itemID ItemID) (*Cart, error)
}

// DedupCache is a bounded TTL set of recently observed inbound event ids.
type DedupCache interface {
	// Seen reports whether id is currently present, without side effects.
	Seen(id EventID) bool
	// Remember inserts id with the configured TTL.
	Remember(id EventID)
	// Observe atomically combines Seen and Remember: it reports whether id
	// was already present and records it if it was not.
	Observe(id EventID) bool
}

type EventType string

const (
	TypingStarted EventType = "TYPING_STARTED"
	TypingStopped EventType = "TYPING_STOPPED"
)

// Transport delivers replies through the messaging platform's outbound API.
type Transport interface {
	SendMessage(ctx context.Context, conversationID ConversationID, reply Reply) error
	SendEvent(ctx context.Context, conversationID ConversationID, event EventType) error
}
