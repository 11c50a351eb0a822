package client

import (
	"sort"
	"sync"

	"github.com/raynaldi/tabletap/models"
)

// CartLine is one menu item in the cart with its price snapshot.
type CartLine struct {
	MenuItemID uint
	Name       string
	UnitPrice  float64
	Quantity   int
	ImageURL   string
}

// Cart is the ephemeral, client-local order under construction. It is never
// persisted server-side; it is discarded on successful checkout or explicit
// clear.
type Cart struct {
	mu    sync.Mutex
	lines map[uint]*CartLine
}

func NewCart() *Cart {
	return &Cart{lines: make(map[uint]*CartLine)}
}

// Add puts quantity more of the item into the cart, snapshotting its current
// price on first add.
func (c *Cart) Add(item models.MenuItem, quantity int) {
	if quantity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.lines[item.ID]; ok {
		line.Quantity += quantity
		return
	}

	line := &CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   quantity,
	}
	if item.ImageURL != nil {
		line.ImageURL = *item.ImageURL
	}
	c.lines[item.ID] = line
}

// SetQuantity pins a line's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(menuItemID uint, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		delete(c.lines, menuItemID)
		return
	}
	if line, ok := c.lines[menuItemID]; ok {
		line.Quantity = quantity
	}
}

func (c *Cart) Remove(menuItemID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lines, menuItemID)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[uint]*CartLine)
}

// Lines returns the cart contents in stable menu-item order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CartLine, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MenuItemID < out[j].MenuItemID })
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Total sums the line subtotals. Arithmetic happens in cents so the result
// carries exactly two decimal places.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cents int64
	for _, line := range c.lines {
		cents += int64(line.Quantity) * models.Cents(line.UnitPrice)
	}
	return float64(cents) / 100
}

// CheckoutRequest builds the order payload for the current cart contents.
func (c *Cart) CheckoutRequest(tableNumber *int, notes string) OrderRequest {
	lines := c.Lines()

	items := make([]OrderLine, 0, len(lines))
	var totalCents int64
	for _, line := range lines {
		subtotalCents := int64(line.Quantity) * models.Cents(line.UnitPrice)
		totalCents += subtotalCents
		items = append(items, OrderLine{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			Subtotal:   float64(subtotalCents) / 100,
		})
	}

	return OrderRequest{
		TableNumber: tableNumber,
		Notes:       notes,
		TotalAmount: float64(totalCents) / 100,
		Items:       items,
	}
}
