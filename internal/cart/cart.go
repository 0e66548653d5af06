// Package cart holds the shopping cart of one browsing session.
package cart

import "sync"

type Product struct {
	ID    int64
	Name  string
	Price float64
}

// Line is one product-and-quantity entry. A cart holds at most one line per
// product id.
type Line struct {
	ProductID int64
	Name      string
	UnitPrice float64
	Quantity  int
}

func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart is an ordered collection of lines. Mutations and reads are safe for
// the interleaved handler calls of a single browser session.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add increments the quantity of an existing line for p.ID, or appends a new
// line with quantity 1 at the end. Existing order is preserved.
func (c *Cart) Add(p Product) Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return c.lines[i]
		}
	}
	line := Line{ProductID: p.ID, Name: p.Name, UnitPrice: p.Price, Quantity: 1}
	c.lines = append(c.lines, line)
	return line
}

// Remove deletes the line for productID. Removing an absent id is a no-op.
func (c *Cart) Remove(productID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is computed fresh on every read, never cached.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}
