package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestItemIDDeterministic(t *testing.T) {
	a := ItemID("Blue Running Shoes")
	b := ItemID("Blue Running Shoes")
	if a != b {
		t.Errorf("same title produced different ids: %s vs %s", a, b)
	}
	if a == ItemID("Neon Running Shoes") {
		t.Error("different titles produced the same id")
	}
}

func TestNewAssignsStableIDs(t *testing.T) {
	entries := map[string]string{
		"Blue Running Shoes": "https://example.com/blue.jpg",
		"Neon Running Shoes": "https://example.com/neon.jpg",
	}

	first := New(entries)
	second := New(entries)

	if len(first.List()) != 2 {
		t.Fatalf("expected 2 items, got %d", len(first.List()))
	}
	for i, item := range first.List() {
		if second.List()[i].ID != item.ID {
			t.Errorf("item %d id differs between constructions", i)
		}
	}
}

func TestListOrderStable(t *testing.T) {
	c := Default()
	items := c.List()
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Title >= items[i].Title {
			t.Errorf("list not ordered at %d: %q >= %q", i, items[i-1].Title, items[i].Title)
		}
	}
}

func TestGet(t *testing.T) {
	c := Default()

	want := ItemID("Pink Running Shoes")
	item, err := c.Get(want)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if item.Title != "Pink Running Shoes" {
		t.Errorf("expected title 'Pink Running Shoes', got %q", item.Title)
	}
	if item.MediaURL == "" {
		t.Error("expected a media URL")
	}

	_, err = c.Get("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	entries := map[string]string{
		"Canvas Tote": "https://example.com/tote.jpg",
		"Wool Beanie": "https://example.com/beanie.jpg",
	}
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", c.Len())
	}
	item, err := c.Get(ItemID("Canvas Tote"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if item.MediaURL != "https://example.com/tote.jpg" {
		t.Errorf("unexpected media URL %q", item.MediaURL)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
