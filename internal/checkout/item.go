package checkout

import (
	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// LineItem is a single line of the in-progress order. LineID identifies the
// line within this order; ItemID is the menu item it was added from.
type LineItem struct {
	LineID     uuid.UUID `json:"line_id" bson:"line_id"`
	ItemID     string    `json:"item_id" bson:"item_id"`
	Name       string    `json:"name" bson:"name"`
	UnitPrice  float64   `json:"unit_price" bson:"unit_price"`
	Quantity   int       `json:"quantity" bson:"quantity"`
	Flavorings []string  `json:"flavorings,omitempty" bson:"flavorings,omitempty"`
}

func NewLineItem(itemID, name string, unitPrice float64, quantity int, flavorings []string) LineItem {
	if quantity < 1 {
		quantity = 1
	}
	return LineItem{
		LineID:     apt.GenerateNewID(),
		ItemID:     itemID,
		Name:       name,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		Flavorings: flavorings,
	}
}

func (i *LineItem) GetID() uuid.UUID {
	return i.LineID
}

func (i *LineItem) ResourceType() string {
	return "line-item"
}

// SetQuantity replaces the quantity from direct operator entry. Values
// below 1 are rejected and leave the stored quantity unchanged.
func (i *LineItem) SetQuantity(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	i.Quantity = quantity
	return nil
}

// AdjustQuantity applies a +/- step, never dropping below 1.
func (i *LineItem) AdjustQuantity(delta int) {
	q := i.Quantity + delta
	if q < 1 {
		q = 1
	}
	i.Quantity = q
}

func (i *LineItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
