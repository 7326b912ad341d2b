package domain

import (
	"github.com/google/uuid"
)

// LineItem is one live cart line: a product snapshot taken at add
// time plus a quantity. Subtotal is always recomputed from quantity
// and the snapshot's price, never stored independently.
type LineItem struct {
	Product  Product `json:"produto"`
	Quantity int     `json:"quantidade"`
	Subtotal Money   `json:"subtotal"`
}

func (li *LineItem) recompute() {
	li.Subtotal = li.Product.SalePrice.MulInt(li.Quantity)
}

// Cart is the in-memory order being built at the counter. Items keep
// insertion order, which is also display order. A cart lives only in
// memory and is reset after a successful checkout or an explicit
// cancel-edit; it is never persisted.
type Cart struct {
	ID            uuid.UUID  `json:"id"`
	Items         []LineItem `json:"itens"`
	ClientID      *int64     `json:"cliente_id"`
	OperatorID    *int64     `json:"usuario_id"`
	PaymentMethod string     `json:"forma_pagamento"`
}

// NewCart returns an empty cart with a fresh identifier.
func NewCart() *Cart {
	return &Cart{ID: uuid.New()}
}

// AddProduct adds one unit of the product. If a line for the product
// already exists its quantity is incremented, otherwise a new line is
// appended with quantity 1.
func (c *Cart) AddProduct(p Product) {
	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			c.Items[i].Quantity++
			c.Items[i].recompute()
			return
		}
	}
	item := LineItem{Product: p, Quantity: 1}
	item.recompute()
	c.Items = append(c.Items, item)
}

// RemoveItem deletes the line for productID. Removing a product that
// is not in the cart is a silent no-op.
func (c *Cart) RemoveItem(productID int64) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// SetQuantity updates the quantity of the line for productID. A
// quantity of zero or less removes the line, same as RemoveItem.
// Available stock is informational only and not enforced here.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			c.Items[i].recompute()
			return
		}
	}
}

// Total sums the subtotals of all current lines. It is computed on
// every call; there is no cached total to go stale.
func (c *Cart) Total() Money {
	total := ZeroMoney()
	for i := range c.Items {
		total = total.Add(c.Items[i].Subtotal)
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Reset clears all lines and selections, keeping the cart identifier.
func (c *Cart) Reset() {
	c.Items = nil
	c.ClientID = nil
	c.OperatorID = nil
	c.PaymentMethod = ""
}
