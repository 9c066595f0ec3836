package booking

import "github.com/shopspring/decimal"

// CartLine is one distinct dish and how many of it were ordered.
type CartLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price × quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart accumulates dishes keyed by name.  Lines keep the order in which
// dishes were first added; no two lines share a name and no line ever has a
// quantity below one.
type Cart struct {
	lines []CartLine
}

// NewCart returns a cart seeded with lines.  Lines with the same name are
// merged and lines with a non-positive quantity are dropped.
func NewCart(lines []CartLine) *Cart {
	c := &Cart{}
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i := c.index(l.Name); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

func (c *Cart) index(name string) int {
	for i := range c.lines {
		if c.lines[i].Name == name {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of item, merging with an existing line of the same
// name.
func (c *Cart) AddItem(item MenuItem) {
	if i := c.index(item.Name); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, CartLine{Name: item.Name, Price: item.Price, Quantity: 1})
}

// RemoveItem takes one unit of name out of the cart and drops the line when
// its last unit goes.  Removing a dish that is not in the cart does nothing.
func (c *Cart) RemoveItem(name string) {
	i := c.index(name)
	if i < 0 {
		return
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Total is the sum of price × quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the cart's lines.
func (c *Cart) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

// Len is the number of distinct dishes.
func (c *Cart) Len() int { return len(c.lines) }

// Clear empties the cart.
func (c *Cart) Clear() { c.lines = nil }
