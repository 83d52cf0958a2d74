// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

type ConversationID string
type CartID string
type ItemID string
type EventID string

func NewCartID() CartID {
	return CartID(uuid.New().String())
}

// NewRequestID returns a fresh correlation id for one outbound API call.
func NewRequestID() string {
	return uuid.New().String()
}
