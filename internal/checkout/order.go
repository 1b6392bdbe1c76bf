package checkout

import (
	"time"

	"github.com/google/uuid"
)

// Payment methods accepted at the till.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// Order is the single in-progress order owned by the lifecycle. It has no
// ticket id; one is minted only at finalization.
type Order struct {
	Items            []LineItem      `json:"items"`
	Totals           Totals          `json:"totals"`
	Customer         *CustomerRecord `json:"customer,omitempty"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	PaymentConfirmed bool            `json:"payment_confirmed"`
}

func (o *Order) IsEmpty() bool {
	return len(o.Items) == 0
}

func (o *Order) loyaltyPoints() int {
	if o.Customer == nil {
		return 0
	}
	return o.Customer.Points
}

func (o *Order) recompute() {
	o.Totals = ComputeTotals(o.Items, o.loyaltyPoints())
}

func (o *Order) findLine(lineID uuid.UUID) *LineItem {
	for i := range o.Items {
		if o.Items[i].LineID == lineID {
			return &o.Items[i]
		}
	}
	return nil
}

// Ticket is the finalized, persisted order document. Its id is the
// document key in the tickets collection.
type Ticket struct {
	ID           string       `json:"ticket_id" bson:"_id"`
	Date         time.Time    `json:"date" bson:"date"`
	UserID       string       `json:"user_id" bson:"user_id"`
	CustomerID   string       `json:"customer_id,omitempty" bson:"customer_id,omitempty"`
	Items        []TicketItem `json:"items" bson:"items"`
	Subtotal     float64      `json:"subtotal" bson:"subtotal"`
	Discount     float64      `json:"discount" bson:"discount"`
	Amount       float64      `json:"amount" bson:"amount"`
	EarnedPoints int          `json:"earned_points" bson:"earned_points"`
}

// TicketItem is the immutable snapshot of a line item at finalization.
type TicketItem struct {
	ItemID     string   `json:"item_id" bson:"item_id"`
	Name       string   `json:"name" bson:"name"`
	Quantity   int      `json:"quantity" bson:"quantity"`
	Price      float64  `json:"price" bson:"price"`
	Flavorings []string `json:"flavorings,omitempty" bson:"flavorings,omitempty"`
}

func snapshotItems(items []LineItem) []TicketItem {
	out := make([]TicketItem, 0, len(items))
	for _, item := range items {
		out = append(out, TicketItem{
			ItemID:     item.ItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Price:      item.UnitPrice,
			Flavorings: item.Flavorings,
		})
	}
	return out
}
