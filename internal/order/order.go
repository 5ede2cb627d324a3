package order

import "fmt"

// Pricer resolves a canonical item name to its unit price.
type Pricer interface {
	PriceOf(name string) (float64, bool)
}

// Ledger is the accumulating order for one conversation. Lines keep
// insertion order so summaries read in the order items were added.
// An item that is not in the order is absent, never a zero entry.
type Ledger struct {
	quantities map[string]int
	names      []string
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{quantities: make(map[string]int)}
}

// Add increments the quantity for item, inserting a new line if needed.
// Negative quantities are rejected; zero is accepted and accumulates as
// zero, contributing nothing to the total.
func (l *Ledger) Add(item string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("quantity for %q must not be negative", item)
	}
	if _, exists := l.quantities[item]; !exists {
		l.names = append(l.names, item)
	}
	l.quantities[item] += qty
	return nil
}

// Remove deletes the whole line for item, regardless of quantity.
// Returns false if the item is not in the order.
func (l *Ledger) Remove(item string) bool {
	if _, exists := l.quantities[item]; !exists {
		return false
	}
	delete(l.quantities, item)
	for i, name := range l.names {
		if name == item {
			l.names = append(l.names[:i], l.names[i+1:]...)
			break
		}
	}
	return true
}

// Quantity returns the quantity on the line for item, zero if absent
func (l *Ledger) Quantity(item string) int {
	return l.quantities[item]
}

// Len returns the number of lines in the order
func (l *Ledger) Len() int {
	return len(l.names)
}

// Each visits every line in insertion order
func (l *Ledger) Each(fn func(item string, qty int)) {
	for _, name := range l.names {
		fn(name, l.quantities[name])
	}
}

// Lines returns a copy of the item quantity map, suitable for
// submitting to the remote ledger
func (l *Ledger) Lines() map[string]int {
	lines := make(map[string]int, len(l.quantities))
	for item, qty := range l.quantities {
		lines[item] = qty
	}
	return lines
}

// TotalCost sums quantity times unit price over all lines. Items the
// pricer does not know contribute nothing.
func (l *Ledger) TotalCost(p Pricer) float64 {
	var total float64
	for item, qty := range l.quantities {
		if price, ok := p.PriceOf(item); ok {
			total += price * float64(qty)
		}
	}
	return total
}

// Summary renders each line as "Item (xN)" in insertion order
func (l *Ledger) Summary() []string {
	lines := make([]string, 0, len(l.names))
	for _, name := range l.names {
		lines = append(lines, fmt.Sprintf("%s (x%d)", name, l.quantities[name]))
	}
	return lines
}

// Clear removes every line
func (l *Ledger) Clear() {
	l.quantities = make(map[string]int)
	l.names = nil
}
