// Package cart implements the shopping cart state machine.
//
// Lines are kept in a map keyed by product id for O(1) upserts, alongside an
// explicit insertion-order slice used for display. At most one line exists
// per product id and a line's quantity never drops below 1: decrements clamp
// at 1 and only Remove (or Clear) deletes a line.
//
// A Cart is safe for concurrent use.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tbourn/go-keynexus/internal/domain"
)

// Cart is an ordered set of cart lines plus the visibility of the cart view.
type Cart struct {
	mu    sync.Mutex
	lines map[string]*domain.CartLine
	order []string
	open  bool
}

// New returns an empty, closed cart.
func New() *Cart {
	return &Cart{lines: make(map[string]*domain.CartLine)}
}

// Add puts one unit of p in the cart. An existing line is incremented; a new
// line snapshots p's display fields. Adding always opens the cart view and
// the returned flag reports that.
func (c *Cart) Add(p domain.Product) (opened bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.lines[p.ID]; ok {
		l.Quantity++
	} else {
		l := domain.NewCartLine(p)
		c.lines[p.ID] = &l
		c.order = append(c.order, p.ID)
	}
	c.open = true
	return true
}

// Remove deletes the line for id. Unknown ids are ignored.
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.lines[id]; !ok {
		return
	}
	delete(c.lines, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// AdjustQuantity sets the quantity of id to max(1, quantity+delta). Unknown
// ids are ignored. It reports whether a line was found.
func (c *Cart) AdjustQuantity(id string, delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.lines[id]
	if !ok {
		return false
	}
	l.Quantity = max(1, l.Quantity+delta)
	return true
}

// Clear empties the cart. Visibility is left unchanged.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = make(map[string]*domain.CartLine)
	c.order = nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Line returns the line for id, if present.
func (c *Cart) Line(id string) (domain.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.lines[id]
	if !ok {
		return domain.CartLine{}, false
	}
	return *l, true
}

// ItemCount is the sum of all quantities.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of unit price × quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Total equals Subtotal; no tax or shipping is modelled.
func (c *Cart) Total() decimal.Decimal { return c.Subtotal() }

// Open shows the cart view.
func (c *Cart) Open() { c.setOpen(true) }

// Close hides the cart view.
func (c *Cart) Close() { c.setOpen(false) }

// IsOpen reports whether the cart view is visible.
func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *Cart) setOpen(v bool) {
	c.mu.Lock()
	c.open = v
	c.mu.Unlock()
}

// Snapshot is a consistent read of the whole cart.
type Snapshot struct {
	Lines     []domain.CartLine `json:"lines"`
	ItemCount int               `json:"item_count"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Total     decimal.Decimal   `json:"total"`
	Open      bool              `json:"open"`
}

// Snapshot reads lines and derived totals under a single lock.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{Lines: make([]domain.CartLine, 0, len(c.order)), Subtotal: decimal.Zero, Open: c.open}
	for _, id := range c.order {
		l := *c.lines[id]
		s.Lines = append(s.Lines, l)
		s.ItemCount += l.Quantity
		s.Subtotal = s.Subtotal.Add(l.LineTotal())
	}
	s.Total = s.Subtotal
	return s
}
