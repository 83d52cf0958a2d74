// internal/store/carts.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/user/cartbot/internal/types"
)

// DefaultItemCap bounds how many distinct items a single cart may hold.
const DefaultItemCap = 50

// ErrCartFull is returned when adding a new item would exceed the cap.
var ErrCartFull = errors.New("cart item limit reached")

// Carts is a SQLite-backed CartStore. All mutations run inside a
// transaction and re-read the committed cart before returning, so callers
// always observe their own writes.
type Carts struct {
	db      *sql.DB
	retry   *RetryPolicy
	itemCap int
}

// NewCarts creates a cart store over db. itemCap <= 0 selects DefaultItemCap.
func NewCarts(db *sql.DB, itemCap int) *Carts {
	if itemCap <= 0 {
		itemCap = DefaultItemCap
	}
	return &Carts{
		db:      db,
		retry:   DefaultRetryPolicy(),
		itemCap: itemCap,
	}
}

// ResolveCart returns the cart bound to the conversation, creating the
// binding on first contact. The insert ignores conflicts and the cart id is
// always read back, so concurrent calls for a fresh conversation converge
// on a single cart.
func (c *Carts) ResolveCart(ctx context.Context, conversationID types.ConversationID) (*types.Cart, error) {
	var cartID types.CartID
	err := c.retry.Execute(func() error {
		candidate := types.NewCartID()
		if _, err := c.db.ExecContext(ctx,
			`INSERT INTO carts (conversation_id, cart_id) VALUES (?, ?)
			 ON CONFLICT(conversation_id) DO NOTHING`,
			conversationID, candidate,
		); err != nil {
			return fmt.Errorf("binding cart: %w", err)
		}
		return c.db.QueryRowContext(ctx,
			`SELECT cart_id FROM carts WHERE conversation_id = ?`, conversationID,
		).Scan(&cartID)
	})
	if err != nil {
		return nil, fmt.Errorf("resolving cart for %s: %w", conversationID, err)
	}
	return c.readCart(ctx, cartID)
}

// AddItem increments the item's count, inserting it with count 1 on first
// add. Returns ErrCartFull when a new item would exceed the cap.
func (c *Carts) AddItem(ctx context.Context, cartID types.CartID, itemID types.ItemID, title string) (*types.Cart, error) {
	err := c.retry.Execute(func() error {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback()

		var count int
		err = tx.QueryRowContext(ctx,
			`SELECT count FROM cart_items WHERE cart_id = ? AND item_id = ?`,
			cartID, itemID,
		).Scan(&count)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			var distinct int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM cart_items WHERE cart_id = ?`, cartID,
			).Scan(&distinct); err != nil {
				return fmt.Errorf("counting cart items: %w", err)
			}
			if distinct >= c.itemCap {
				return ErrCartFull
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cart_items (cart_id, item_id, item_title, count) VALUES (?, ?, ?, 1)`,
				cartID, itemID, title,
			); err != nil {
				return fmt.Errorf("inserting cart item: %w", err)
			}
		case err != nil:
			return fmt.Errorf("reading cart item: %w", err)
		default:
			if _, err := tx.ExecContext(ctx,
				`UPDATE cart_items SET count = count + 1 WHERE cart_id = ? AND item_id = ?`,
				cartID, itemID,
			); err != nil {
				return fmt.Errorf("incrementing cart item: %w", err)
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, fmt.Errorf("adding %s to cart %s: %w", itemID, cartID, err)
	}
	return c.readCart(ctx, cartID)
}

// RemoveItem decrements the item's count, deleting the row when the count
// reaches zero. Removing an absent item is a silent no-op; that tolerates
// the decrement chip being tapped after the last unit was already removed.
func (c *Carts) RemoveItem(ctx context.Context, cartID types.CartID, itemID types.ItemID) (*types.Cart, error) {
	err := c.retry.Execute(func() error {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback()

		var count int
		err = tx.QueryRowContext(ctx,
			`SELECT count FROM cart_items WHERE cart_id = ? AND item_id = ?`,
			cartID, itemID,
		).Scan(&count)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return fmt.Errorf("reading cart item: %w", err)
		case count <= 1:
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM cart_items WHERE cart_id = ? AND item_id = ?`,
				cartID, itemID,
			); err != nil {
				return fmt.Errorf("deleting cart item: %w", err)
			}
		default:
			if _, err := tx.ExecContext(ctx,
				`UPDATE cart_items SET count = count - 1 WHERE cart_id = ? AND item_id = ?`,
				cartID, itemID,
			); err != nil {
				return fmt.Errorf("decrementing cart item: %w", err)
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, fmt.Errorf("removing %s from cart %s: %w", itemID, cartID, err)
	}
	return c.readCart(ctx, cartID)
}

// readCart materializes a fresh snapshot in insertion order.
func (c *Carts) readCart(ctx context.Context, cartID types.CartID) (*types.Cart, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT item_id, item_title, count FROM cart_items
		 WHERE cart_id = ? ORDER BY rowid`, cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading cart %s: %w", cartID, err)
	}
	defer rows.Close()

	cart := &types.Cart{ID: cartID}
	for rows.Next() {
		var item types.CartItem
		if err := rows.Scan(&item.ItemID, &item.Title, &item.Count); err != nil {
			return nil, fmt.Errorf("scanning cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cart %s: %w", cartID, err)
	}
	return cart, nil
}
