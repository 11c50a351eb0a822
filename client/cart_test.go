package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raynaldi/tabletap/models"
)

func menuItem(id uint, name string, price float64) models.MenuItem {
	return models.MenuItem{ID: id, Name: name, Price: price}
}

func TestCartTotal(t *testing.T) {
	cart := NewCart()
	cart.Add(menuItem(1, "Nasi Goreng", 45.00), 2)
	cart.Add(menuItem(2, "Es Teh", 30.50), 1)

	assert.Equal(t, 2, cart.Len())
	assert.Equal(t, 120.50, cart.Total())
}

func TestCartAddAccumulatesQuantity(t *testing.T) {
	cart := NewCart()
	cart.Add(menuItem(1, "Sate Ayam", 25.00), 1)
	cart.Add(menuItem(1, "Sate Ayam", 25.00), 2)

	lines := cart.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 75.00, cart.Total())
}

func TestCartSnapshotsPriceOnFirstAdd(t *testing.T) {
	cart := NewCart()
	item := menuItem(1, "Ayam Bakar", 40.00)
	cart.Add(item, 1)

	// A later price change on the menu must not move the cart line.
	item.Price = 55.00
	cart.Add(item, 1)

	lines := cart.Lines()
	assert.Equal(t, 40.00, lines[0].UnitPrice)
	assert.Equal(t, 80.00, cart.Total())
}

func TestCartSetQuantity(t *testing.T) {
	cart := NewCart()
	cart.Add(menuItem(1, "Bakso", 20.00), 2)

	cart.SetQuantity(1, 5)
	assert.Equal(t, 100.00, cart.Total())

	cart.SetQuantity(1, 0)
	assert.Equal(t, 0, cart.Len())
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := NewCart()
	cart.Add(menuItem(1, "Mie Goreng", 30.00), 1)
	cart.Add(menuItem(2, "Jus Alpukat", 15.00), 1)

	cart.Remove(1)
	assert.Equal(t, 1, cart.Len())

	cart.Clear()
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, 0.00, cart.Total())
}

func TestCartIgnoresNonPositiveAdd(t *testing.T) {
	cart := NewCart()
	cart.Add(menuItem(1, "Gado Gado", 22.00), 0)
	cart.Add(menuItem(1, "Gado Gado", 22.00), -3)
	assert.Equal(t, 0, cart.Len())
}

func TestCheckoutRequest(t *testing.T) {
	cart := NewCart()
	cart.Add(menuItem(1, "Nasi Goreng", 45.00), 2)
	cart.Add(menuItem(2, "Es Teh", 30.50), 1)

	table := 7
	req := cart.CheckoutRequest(&table, "no peanuts")

	assert.Equal(t, 7, *req.TableNumber)
	assert.Equal(t, "no peanuts", req.Notes)
	assert.Equal(t, 120.50, req.TotalAmount)
	assert.Len(t, req.Items, 2)

	assert.Equal(t, uint(1), req.Items[0].MenuItemID)
	assert.Equal(t, 90.00, req.Items[0].Subtotal)
	assert.Equal(t, uint(2), req.Items[1].MenuItemID)
	assert.Equal(t, 30.50, req.Items[1].Subtotal)
}
