// Package dispatch orchestrates one webhook callback: dedup check, cart
// resolution, routing, state change, reply composition, and hand-off to the
// outbound transport.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/cartbot/internal/catalog"
	"github.com/user/cartbot/internal/router"
	"github.com/user/cartbot/internal/types"
	"github.com/user/cartbot/internal/ui"
)

type Dispatcher struct {
	carts   types.CartStore
	dedup   types.DedupCache
	catalog *catalog.Catalog
	ui      *ui.Builder
	out     types.Transport
}

func New(carts types.CartStore, dedup types.DedupCache, cat *catalog.Catalog, builder *ui.Builder, out types.Transport) *Dispatcher {
	return &Dispatcher{
		carts:   carts,
		dedup:   dedup,
		catalog: cat,
		ui:      builder,
		out:     out,
	}
}

// Handle processes one parsed callback. Errors returned here are logged by
// the webhook server; the HTTP response is 200 regardless, because the
// dedup entry is already recorded and a platform retry would only produce
// duplicates.
func (d *Dispatcher) Handle(ctx context.Context, ev *types.WebhookEvent) error {
	if id := ev.EventID(); id != "" && d.dedup.Observe(id) {
		slog.Info("duplicate event dropped", "event_id", id, "conversation_id", ev.ConversationID)
		return nil
	}

	// informational events carry no user text and get no reply
	if ev.UserStatus != nil {
		if ev.UserStatus.IsTyping {
			slog.Info("user is typing", "conversation_id", ev.ConversationID)
		}
		return nil
	}
	if len(ev.Receipts) > 0 {
		for _, r := range ev.Receipts {
			slog.Info("receipt", "type", r.ReceiptType, "message", r.MessageID)
		}
		return nil
	}

	var text string
	switch {
	case ev.Message != nil:
		text = ev.Message.Text
	case ev.Suggestion != nil:
		text = ev.Suggestion.PostbackData
	default:
		return nil
	}

	cart, err := d.carts.ResolveCart(ctx, ev.ConversationID)
	if err != nil {
		return fmt.Errorf("resolve cart: %w", err)
	}

	action := router.Route(text)

	var reply types.Reply
	switch action.Kind {
	case router.ShowHelp:
		reply = d.ui.Help(cart)
	case router.ShowHours:
		reply = d.ui.Hours(cart)
	case router.ShowCatalog:
		reply = d.ui.Catalog(cart)
	case router.ShowCart:
		reply = d.ui.CartView(cart)
	case router.AddItem:
		item, err := d.catalog.Get(action.ItemID)
		if err != nil {
			slog.Error("attempted to add item not in catalog", "item_id", action.ItemID, "conversation_id", ev.ConversationID)
			return nil
		}
		cart, err = d.carts.AddItem(ctx, cart.ID, item.ID, item.Title)
		if err != nil {
			return fmt.Errorf("add item: %w", err)
		}
		reply = d.ui.Added(item.Title, cart)
	case router.RemoveItem:
		item, err := d.catalog.Get(action.ItemID)
		if err != nil {
			slog.Error("attempted to delete item not in catalog", "item_id", action.ItemID, "conversation_id", ev.ConversationID)
			return nil
		}
		cart, err = d.carts.RemoveItem(ctx, cart.ID, item.ID)
		if err != nil {
			return fmt.Errorf("remove item: %w", err)
		}
		reply = d.ui.Removed(item.Title, cart)
	default:
		reply = d.ui.Default(cart)
	}

	d.send(ctx, ev.ConversationID, reply)
	return nil
}

// send brackets the message with typing events. Each sub-request is
// independent: a failure is logged and the remaining sub-requests are
// still attempted.
func (d *Dispatcher) send(ctx context.Context, conversationID types.ConversationID, reply types.Reply) {
	if err := d.out.SendEvent(ctx, conversationID, types.TypingStarted); err != nil {
		slog.Error("send typing started", "conversation_id", conversationID, "error", err)
	}
	if err := d.out.SendMessage(ctx, conversationID, reply); err != nil {
		slog.Error("send message", "conversation_id", conversationID, "error", err)
	}
	if err := d.out.SendEvent(ctx, conversationID, types.TypingStopped); err != nil {
		slog.Error("send typing stopped", "conversation_id", conversationID, "error", err)
	}
}
