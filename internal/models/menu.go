package models

import "fmt"

// MenuItem is a purchasable entry on the menu. Prices are whole Rupiah.
type MenuItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Glyph     string `json:"glyph"`
}

// Catalog is an immutable, ordered set of menu items keyed by id.
type Catalog struct {
	items []MenuItem
	index map[int]int
}

// NewCatalog validates ids and prices and returns a read-only catalog.
func NewCatalog(items []MenuItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]MenuItem, len(items)),
		index: make(map[int]int, len(items)),
	}
	copy(c.items, items)

	for i, item := range c.items {
		if item.ID <= 0 {
			return nil, fmt.Errorf("menu item %q: id must be positive", item.Name)
		}
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("menu item %d: unit price must not be negative", item.ID)
		}
		if _, dup := c.index[item.ID]; dup {
			return nil, fmt.Errorf("menu item %d: duplicate id", item.ID)
		}
		c.index[item.ID] = i
	}
	return c, nil
}

// Lookup returns the item with the given id.
func (c *Catalog) Lookup(id int) (MenuItem, bool) {
	i, ok := c.index[id]
	if !ok {
		return MenuItem{}, false
	}
	return c.items[i], true
}

// Items returns a copy of the menu in display order.
func (c *Catalog) Items() []MenuItem {
	out := make([]MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// CoffeeMenu is the shop's fixed menu.
var CoffeeMenu = mustCatalog([]MenuItem{
	{ID: 1, Name: "Espresso", UnitPrice: 15000, Glyph: "☕"},
	{ID: 2, Name: "Cappuccino", UnitPrice: 20000, Glyph: "☕"},
	{ID: 3, Name: "Latte", UnitPrice: 22000, Glyph: "☕"},
	{ID: 4, Name: "Americano", UnitPrice: 18000, Glyph: "☕"},
	{ID: 5, Name: "Mocha", UnitPrice: 25000, Glyph: "☕"},
	{ID: 6, Name: "Macchiato", UnitPrice: 23000, Glyph: "☕"},
})

func mustCatalog(items []MenuItem) *Catalog {
	c, err := NewCatalog(items)
	if err != nil {
		panic(err)
	}
	return c
}
