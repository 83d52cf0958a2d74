package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/user/cartbot/internal/types"
)

// ErrNotFound is returned by Get when no item carries the requested id.
var ErrNotFound = errors.New("item not found in catalog")

// Catalog is a read-only mapping from item id to inventory item. It is
// immutable after construction and safe for concurrent use.
type Catalog struct {
	items []types.InventoryItem
	byID  map[types.ItemID]types.InventoryItem
}

// ItemID derives the stable id for a catalog title: an MD5 name-based UUID,
// so the same catalog yields identical ids on every start. Postback tokens
// and stored cart rows both depend on this derivation staying fixed.
func ItemID(title string) types.ItemID {
	return types.ItemID(uuid.NewMD5(uuid.NameSpaceOID, []byte(title)).String())
}

// New builds a catalog from a title → media URL mapping. Items are ordered
// by title so List is stable across processes.
func New(titleToMedia map[string]string) *Catalog {
	titles := make([]string, 0, len(titleToMedia))
	for title := range titleToMedia {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	c := &Catalog{
		items: make([]types.InventoryItem, 0, len(titles)),
		byID:  make(map[types.ItemID]types.InventoryItem, len(titles)),
	}
	for _, title := range titles {
		item := types.InventoryItem{
			ID:       ItemID(title),
			Title:    title,
			MediaURL: titleToMedia[title],
		}
		c.items = append(c.items, item)
		c.byID[item.ID] = item
	}
	return c
}

// LoadFile reads a JSON object of title → media URL pairs.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var titleToMedia map[string]string
	if err := json.Unmarshal(data, &titleToMedia); err != nil {
		return nil, fmt.Errorf("unmarshal catalog file: %w", err)
	}
	return New(titleToMedia), nil
}

// List returns all items in a stable order.
func (c *Catalog) List() []types.InventoryItem {
	return c.items
}

// Get looks up an item by id.
func (c *Catalog) Get(id types.ItemID) (types.InventoryItem, error) {
	item, ok := c.byID[id]
	if !ok {
		return types.InventoryItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return item, nil
}

func (c *Catalog) Len() int {
	return len(c.items)
}
