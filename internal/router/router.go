package router

import (
	"regexp"
	"strings"

	"github.com/user/cartbot/internal/types"
)

// Kind enumerates the commands the agent understands.
type Kind int

const (
	ShowHelp Kind = iota
	ShowHours
	ShowCatalog
	ShowCart
	AddItem
	RemoveItem
	EchoDefault
)

// Action is the routed form of one inbound text. ItemID is set only for
// AddItem and RemoveItem.
type Action struct {
	Kind   Kind
	ItemID types.ItemID
}

// Postback token grammar. Suggestion chips carry these tokens, and the
// platform echoes them back as user input, so every token must route to the
// action that produced it.
const (
	AddItemPrefix    = "add-cart-"
	RemoveItemPrefix = "del-cart-"

	ViewCartCommand = "cart"
	HoursCommand    = "hours"
	ShopCommand     = "shop"
)

var helpPattern = regexp.MustCompile(`^(help.*|commands\s.*|see the help menu)$`)

// Route maps user text to an Action. It is pure and deterministic: the
// text is lowercased and trimmed, then the rules are evaluated in order and
// the first match wins. All state changes happen in the dispatcher based on
// the returned Action.
func Route(text string) Action {
	t := strings.ToLower(strings.TrimSpace(text))

	switch {
	case helpPattern.MatchString(t):
		return Action{Kind: ShowHelp}
	case t == HoursCommand:
		return Action{Kind: ShowHours}
	case t == ShopCommand:
		return Action{Kind: ShowCatalog}
	case t == ViewCartCommand:
		return Action{Kind: ShowCart}
	case strings.HasPrefix(t, AddItemPrefix):
		return Action{Kind: AddItem, ItemID: types.ItemID(strings.TrimPrefix(t, AddItemPrefix))}
	case strings.HasPrefix(t, RemoveItemPrefix):
		return Action{Kind: RemoveItem, ItemID: types.ItemID(strings.TrimPrefix(t, RemoveItemPrefix))}
	default:
		return Action{Kind: EchoDefault}
	}
}
