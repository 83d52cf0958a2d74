// internal/types/models.go
package types

// InventoryItem is one entry of the static product catalog. Items are
// immutable after catalog load; the ID is derived deterministically from the
// title so the same catalog yields identical ids on every start.
type InventoryItem struct {
	ID       ItemID  `json:"id"`
	Title    string  `json:"title"`
	MediaURL string  `json:"media_url"`
	Price    float64 `json:"price,omitempty"`
}

// CartItem is one line of a cart. The title is denormalized so the label
// survives even if the item later disappears from the catalog.
type CartItem struct {
	ItemID ItemID `json:"item_id"`
	Title  string `json:"title"`
	Count  int    `json:"count"`
}

// Cart is an immutable snapshot of a conversation's cart. Items appear in
// the order each was first added.
type Cart struct {
	ID    CartID     `json:"cart_id"`
	Items []CartItem `json:"items"`
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Suggestion is a chip attached to a reply. PostbackData is echoed back by
// the platform when the chip is tapped and routed exactly like typed text.
type Suggestion struct {
	Text         string `json:"text"`
	PostbackData string `json:"postback_data"`
}

// Card is the content of one rich card.
type Card struct {
	Title       string
	Description string
	MediaURL    string
	Suggestions []Suggestion
}

// Reply is the tagged variant handed to the outbound transport. The
// transport adapter is the only place that needs to match all three shapes.
type Reply interface {
	isReply()
}

type TextReply struct {
	Text        string
	Suggestions []Suggestion
}

type SingleCardReply struct {
	Card        Card
	Suggestions []Suggestion
	Fallback    string
}

type CarouselReply struct {
	Cards       []Card
	CardWidth   string
	Suggestions []Suggestion
	Fallback    string
}

func (TextReply) isReply()       {}
func (SingleCardReply) isReply() {}
func (CarouselReply) isReply()   {}

// WebhookEvent is a parsed inbound callback payload. At most one of Message,
// Suggestion, UserStatus, or Receipts is set.
type WebhookEvent struct {
	ConversationID ConversationID
	RequestID      string
	Message        *InboundMessage
	Suggestion     *SuggestionResponse
	UserStatus     *UserStatus
	Receipts       []Receipt
}

type InboundMessage struct {
	MessageID string
	Text      string
}

type SuggestionResponse struct {
	PostbackData string
}

type UserStatus struct {
	IsTyping bool
}

type Receipt struct {
	ReceiptType string
	MessageID   string
}

// EventID returns the id used for de-duplication: the message id for typed
// text, the request id for events that carry one, empty for status pings.
func (e *WebhookEvent) EventID() EventID {
	if e.Message != nil && e.Message.MessageID != "" {
		return EventID(e.Message.MessageID)
	}
	if e.RequestID != "" {
		return EventID(e.RequestID)
	}
	return ""
}
