package ui

import (
	"strings"
	"testing"

	"github.com/user/cartbot/internal/catalog"
	"github.com/user/cartbot/internal/router"
	"github.com/user/cartbot/internal/types"
)

func testBuilder() *Builder {
	return NewBuilder(catalog.New(map[string]string{
		"Blue Running Shoes": "https://example.com/blue.jpg",
		"Neon Running Shoes": "https://example.com/neon.jpg",
		"Pink Running Shoes": "https://example.com/pink.jpg",
	}))
}

func emptyCart() *types.Cart {
	return &types.Cart{ID: "cart-1"}
}

func cartWith(items ...types.CartItem) *types.Cart {
	return &types.Cart{ID: "cart-1", Items: items}
}

func suggestionTexts(suggestions []types.Suggestion) []string {
	texts := make([]string, len(suggestions))
	for i, s := range suggestions {
		texts[i] = s.Text
	}
	return texts
}

func TestDefaultMenuEmptyCart(t *testing.T) {
	b := testBuilder()
	menu := b.DefaultMenu(emptyCart())

	want := []string{ShopText, HoursText, HelpText}
	got := suggestionTexts(menu)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("menu[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDefaultMenuNonEmptyCart(t *testing.T) {
	b := testBuilder()
	menu := b.DefaultMenu(cartWith(types.CartItem{ItemID: "x", Title: "x", Count: 1}))

	want := []string{ViewCartText, ContinueShoppingText, HoursText, HelpText}
	got := suggestionTexts(menu)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("menu[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// Every chip's postback must route back to the action that produced it.
func TestMenuPostbacksRoundTrip(t *testing.T) {
	b := testBuilder()
	itemID := catalog.ItemID("Blue Running Shoes")
	cart := cartWith(types.CartItem{ItemID: itemID, Title: "Blue Running Shoes", Count: 1})

	wantKinds := map[string]router.Kind{
		ViewCartText:         router.ShowCart,
		ContinueShoppingText: router.ShowCatalog,
		ShopText:             router.ShowCatalog,
		HoursText:            router.ShowHours,
		HelpText:             router.ShowHelp,
	}
	for _, menu := range [][]types.Suggestion{b.DefaultMenu(cart), b.DefaultMenu(emptyCart())} {
		for _, s := range menu {
			action := router.Route(s.PostbackData)
			if action.Kind != wantKinds[s.Text] {
				t.Errorf("chip %q: postback %q routed to %v", s.Text, s.PostbackData, action.Kind)
			}
		}
	}

	view := b.CartView(cart).(types.SingleCardReply)
	if got := router.Route(view.Card.Suggestions[0].PostbackData); got.Kind != router.AddItem || got.ItemID != itemID {
		t.Errorf("increment chip routed to %+v", got)
	}
	if got := router.Route(view.Card.Suggestions[1].PostbackData); got.Kind != router.RemoveItem || got.ItemID != itemID {
		t.Errorf("decrement chip routed to %+v", got)
	}
}

func TestCatalogCarousel(t *testing.T) {
	b := testBuilder()
	reply, ok := b.Catalog(emptyCart()).(types.CarouselReply)
	if !ok {
		t.Fatalf("expected CarouselReply, got %T", b.Catalog(emptyCart()))
	}

	if len(reply.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(reply.Cards))
	}
	if reply.CardWidth != CardWidthMedium {
		t.Errorf("expected card width %q, got %q", CardWidthMedium, reply.CardWidth)
	}
	for _, card := range reply.Cards {
		if len(card.Suggestions) != 1 {
			t.Fatalf("catalog card %q: expected 1 suggestion, got %d", card.Title, len(card.Suggestions))
		}
		action := router.Route(card.Suggestions[0].PostbackData)
		if action.Kind != router.AddItem || action.ItemID != catalog.ItemID(card.Title) {
			t.Errorf("card %q: add chip routed to %+v", card.Title, action)
		}
	}
	if !strings.Contains(reply.Fallback, "Blue Running Shoes") {
		t.Error("fallback text missing card title")
	}
	if !strings.Contains(reply.Fallback, "https://example.com/blue.jpg") {
		t.Error("fallback text missing media URL")
	}
}

func TestCartViewEmpty(t *testing.T) {
	b := testBuilder()
	reply, ok := b.CartView(emptyCart()).(types.TextReply)
	if !ok {
		t.Fatalf("expected TextReply for empty cart")
	}
	if reply.Text != emptyCartResponse {
		t.Errorf("unexpected text %q", reply.Text)
	}
	got := suggestionTexts(reply.Suggestions)
	if got[0] != ShopText {
		t.Errorf("empty-cart menu should lead with %q, got %v", ShopText, got)
	}
}

func TestCartViewSingleItem(t *testing.T) {
	b := testBuilder()
	itemID := catalog.ItemID("Blue Running Shoes")
	cart := cartWith(types.CartItem{ItemID: itemID, Title: "Blue Running Shoes", Count: 2})

	reply, ok := b.CartView(cart).(types.SingleCardReply)
	if !ok {
		t.Fatalf("expected SingleCardReply for one item")
	}
	if reply.Card.Title != "Blue Running Shoes" {
		t.Errorf("unexpected title %q", reply.Card.Title)
	}
	if reply.Card.Description != "Quantity: 2" {
		t.Errorf("unexpected description %q", reply.Card.Description)
	}
	if reply.Card.MediaURL != "https://example.com/blue.jpg" {
		t.Errorf("unexpected media URL %q", reply.Card.MediaURL)
	}
	if len(reply.Card.Suggestions) != 2 {
		t.Fatalf("expected increment and decrement chips, got %d", len(reply.Card.Suggestions))
	}
	if !strings.Contains(reply.Fallback, "Quantity: 2") {
		t.Error("fallback missing description")
	}
}

func TestCartViewMultipleItems(t *testing.T) {
	b := testBuilder()
	cart := cartWith(
		types.CartItem{ItemID: catalog.ItemID("Blue Running Shoes"), Title: "Blue Running Shoes", Count: 1},
		types.CartItem{ItemID: catalog.ItemID("Neon Running Shoes"), Title: "Neon Running Shoes", Count: 3},
	)

	reply, ok := b.CartView(cart).(types.CarouselReply)
	if !ok {
		t.Fatalf("expected CarouselReply for two items")
	}
	if len(reply.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(reply.Cards))
	}
	if reply.Cards[0].Title != "Blue Running Shoes" || reply.Cards[1].Title != "Neon Running Shoes" {
		t.Errorf("cards out of insertion order: %q, %q", reply.Cards[0].Title, reply.Cards[1].Title)
	}
	if reply.Cards[1].Description != "Quantity: 3" {
		t.Errorf("unexpected description %q", reply.Cards[1].Description)
	}
}

func TestCartViewItemGoneFromCatalog(t *testing.T) {
	b := testBuilder()
	cart := cartWith(types.CartItem{ItemID: "ghost-id", Title: "Discontinued Shoes", Count: 1})

	reply, ok := b.CartView(cart).(types.SingleCardReply)
	if !ok {
		t.Fatalf("expected SingleCardReply")
	}
	if reply.Card.Title != "Discontinued Shoes" {
		t.Errorf("denormalized title lost: %q", reply.Card.Title)
	}
	if reply.Card.MediaURL != "" {
		t.Errorf("expected no media for ghost item, got %q", reply.Card.MediaURL)
	}
}

func TestAcknowledgementTexts(t *testing.T) {
	b := testBuilder()
	cart := cartWith(types.CartItem{ItemID: "x", Title: "Blue Running Shoes", Count: 1})

	added, _ := b.Added("Blue Running Shoes", cart).(types.TextReply)
	if added.Text != "Blue Running Shoes have been added to your cart." {
		t.Errorf("unexpected ack %q", added.Text)
	}
	removed, _ := b.Removed("Blue Running Shoes", cart).(types.TextReply)
	if removed.Text != "Blue Running Shoes have been deleted from your cart." {
		t.Errorf("unexpected ack %q", removed.Text)
	}
}

func TestCannedReplies(t *testing.T) {
	b := testBuilder()
	cart := emptyCart()

	if r, _ := b.Hours(cart).(types.TextReply); !strings.Contains(r.Text, "Monday - Friday") {
		t.Errorf("hours reply: %q", r.Text)
	}
	if r, _ := b.Help(cart).(types.TextReply); !strings.Contains(r.Text, "help menu") {
		t.Errorf("help reply: %q", r.Text)
	}
	if r, _ := b.Default(cart).(types.TextReply); !strings.Contains(r.Text, "didn't quite get that") {
		t.Errorf("default reply: %q", r.Text)
	}
}
