// Package ui composes replies: suggestion menus, rich cards, and carousels,
// plus the fallback text for clients that cannot render cards.
package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/cartbot/internal/catalog"
	"github.com/user/cartbot/internal/router"
	"github.com/user/cartbot/internal/types"
)

// Chip labels and canned responses.
const (
	ViewCartText         = "View Cart"
	ContinueShoppingText = "Continue Shopping"
	ShopText             = "Shop Our Collection"
	HoursText            = "Inquire About Hours"
	HelpText             = "Help"
	AddItemText          = "\U0001F6D2 Add to Cart"
	IncrementCountText   = "➕"
	DecrementCountText   = "➖"

	CardWidthMedium = "MEDIUM"

	hoursResponse = "We are open Monday - Friday from 9 A.M. to 5 P.M."

	defaultResponse = "Sorry, I didn't quite get that. Perhaps you were looking for one of these options?"

	emptyCartResponse = "There are no items in your cart."

	helpResponse = "Welcome to the help menu! This program will echo any text that you enter that is not part" +
		" of a supported command. The supported commands are: \n\n" +
		"Help - Shows the list of supported commands and functions\n\n" +
		"Inquire About Hours - Will respond with the times that our store is open.\n\n" +
		"Shop Our Collection/Continue Shopping - Will respond with a collection of mock" +
		" inventory items.\n\n" +
		"View Cart - Will respond with all of the items in your cart.\n\n"

	fallbackDivider = "---------------------------------------------"
)

// Builder turns routed actions plus the latest cart snapshot into replies.
type Builder struct {
	catalog *catalog.Catalog
}

func NewBuilder(cat *catalog.Catalog) *Builder {
	return &Builder{catalog: cat}
}

// DefaultMenu returns the contextual suggestion menu attached to most
// replies: cart shortcuts when the cart has items, a shop entry otherwise.
func (b *Builder) DefaultMenu(cart *types.Cart) []types.Suggestion {
	var suggestions []types.Suggestion

	if !cart.Empty() {
		suggestions = append(suggestions,
			types.Suggestion{Text: ViewCartText, PostbackData: router.ViewCartCommand},
			types.Suggestion{Text: ContinueShoppingText, PostbackData: router.ShopCommand},
		)
	} else {
		suggestions = append(suggestions,
			types.Suggestion{Text: ShopText, PostbackData: router.ShopCommand},
		)
	}

	suggestions = append(suggestions,
		types.Suggestion{Text: HoursText, PostbackData: router.HoursCommand},
		types.Suggestion{Text: HelpText, PostbackData: HelpText},
	)
	return suggestions
}

func (b *Builder) Help(cart *types.Cart) types.Reply {
	return types.TextReply{Text: helpResponse, Suggestions: b.DefaultMenu(cart)}
}

func (b *Builder) Hours(cart *types.Cart) types.Reply {
	return types.TextReply{Text: hoursResponse, Suggestions: b.DefaultMenu(cart)}
}

func (b *Builder) Default(cart *types.Cart) types.Reply {
	return types.TextReply{Text: defaultResponse, Suggestions: b.DefaultMenu(cart)}
}

func (b *Builder) Added(title string, cart *types.Cart) types.Reply {
	return types.TextReply{
		Text:        title + " have been added to your cart.",
		Suggestions: b.DefaultMenu(cart),
	}
}

func (b *Builder) Removed(title string, cart *types.Cart) types.Reply {
	return types.TextReply{
		Text:        title + " have been deleted from your cart.",
		Suggestions: b.DefaultMenu(cart),
	}
}

// Catalog renders the shop carousel, one card per catalog entry with a
// single add-to-cart chip.
func (b *Builder) Catalog(cart *types.Cart) types.Reply {
	items := b.catalog.List()
	cards := make([]types.Card, 0, len(items))
	for _, item := range items {
		cards = append(cards, types.Card{
			Title:    item.Title,
			MediaURL: item.MediaURL,
			Suggestions: []types.Suggestion{
				{Text: AddItemText, PostbackData: router.AddItemPrefix + string(item.ID)},
			},
		})
	}
	return types.CarouselReply{
		Cards:       cards,
		CardWidth:   CardWidthMedium,
		Suggestions: b.DefaultMenu(cart),
		Fallback:    carouselFallback(cards),
	}
}

// CartView renders the cart: a plain text reply when empty, a standalone
// card at exactly one item, a carousel at two or more. The carousel cutoff
// matters: the platform rejects carousels with fewer than two cards.
func (b *Builder) CartView(cart *types.Cart) types.Reply {
	if cart.Empty() {
		return types.TextReply{Text: emptyCartResponse, Suggestions: b.DefaultMenu(cart)}
	}

	if len(cart.Items) == 1 {
		card := b.cartCard(cart.Items[0])
		return types.SingleCardReply{
			Card:        card,
			Suggestions: b.DefaultMenu(cart),
			Fallback:    cardFallback(card),
		}
	}

	cards := make([]types.Card, 0, len(cart.Items))
	for _, item := range cart.Items {
		cards = append(cards, b.cartCard(item))
	}
	return types.CarouselReply{
		Cards:       cards,
		CardWidth:   CardWidthMedium,
		Suggestions: b.DefaultMenu(cart),
		Fallback:    carouselFallback(cards),
	}
}

// cartCard builds one cart item card with increment/decrement chips. The
// media comes from the live catalog; an item that has since left the
// catalog keeps its denormalized title and simply renders without media.
func (b *Builder) cartCard(item types.CartItem) types.Card {
	var mediaURL string
	if inv, err := b.catalog.Get(item.ItemID); err == nil {
		mediaURL = inv.MediaURL
	} else {
		slog.Warn("cart item no longer in catalog", "item_id", item.ItemID, "title", item.Title)
	}
	return types.Card{
		Title:       item.Title,
		Description: fmt.Sprintf("Quantity: %d", item.Count),
		MediaURL:    mediaURL,
		Suggestions: []types.Suggestion{
			{Text: IncrementCountText, PostbackData: router.AddItemPrefix + string(item.ItemID)},
			{Text: DecrementCountText, PostbackData: router.RemoveItemPrefix + string(item.ItemID)},
		},
	}
}

func cardFallback(card types.Card) string {
	return card.Title + "\n\n" + card.Description + "\n\n" + card.MediaURL
}

func carouselFallback(cards []types.Card) string {
	var sb strings.Builder
	for _, card := range cards {
		sb.WriteString(card.Title + "\n\n")
		sb.WriteString(card.Description + "\n\n")
		sb.WriteString(card.MediaURL + "\n")
		sb.WriteString(fallbackDivider + "\n\n")
	}
	return sb.String()
}
