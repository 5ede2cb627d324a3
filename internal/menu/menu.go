package menu

import "fmt"

// Item represents a dish on the menu
type Item struct {
	Name  string
	Price float64
}

// Catalog is the priced menu the bot sells from. It is immutable after
// construction; Items preserves definition order for rendering.
type Catalog struct {
	items  []Item
	prices map[string]float64
}

// New creates a catalog from the given items
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items:  make([]Item, 0, len(items)),
		prices: make(map[string]float64, len(items)),
	}
	for _, item := range items {
		if err := validate(item); err != nil {
			return nil, err
		}
		if _, exists := c.prices[item.Name]; exists {
			return nil, fmt.Errorf("duplicate menu item %q", item.Name)
		}
		c.items = append(c.items, item)
		c.prices[item.Name] = item.Price
	}
	return c, nil
}

// Default returns the standard restaurant menu
func Default() *Catalog {
	c, err := New([]Item{
		{Name: "Pizza", Price: 10},
		{Name: "Pasta", Price: 8},
		{Name: "Salad", Price: 7},
		{Name: "Samosa", Price: 2},
		{Name: "Custard", Price: 15},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func validate(item Item) error {
	if item.Name == "" {
		return fmt.Errorf("menu item name is required")
	}
	if item.Price <= 0 {
		return fmt.Errorf("menu item %q price must be greater than 0", item.Name)
	}
	return nil
}

// PriceOf returns the unit price for a canonical item name
func (c *Catalog) PriceOf(name string) (float64, bool) {
	price, ok := c.prices[name]
	return price, ok
}

// Has reports whether name is a canonical menu item
func (c *Catalog) Has(name string) bool {
	_, ok := c.prices[name]
	return ok
}

// Items returns the menu in definition order
func (c *Catalog) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}
