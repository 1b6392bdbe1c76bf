package event

import "time"

const (
	ReceiptsTopic         = "pos.receipts"
	EventReceiptRequested = "pos.receipt.requested"
)

// ReceiptEvent is the print request emitted once per finalized ticket.
// The printer daemon renders it; a lost or failed print never affects the
// stored ticket.
type ReceiptEvent struct {
	EventType    string        `json:"event_type"`
	OccurredAt   time.Time     `json:"occurred_at"`
	TicketID     string        `json:"ticket_id"`
	Items        []ReceiptItem `json:"items"`
	Subtotal     float64       `json:"subtotal"`
	Discount     float64       `json:"discount"`
	Total        float64       `json:"total"`
	EarnedPoints int           `json:"earned_points"`

	// Loyalty customer details for the receipt footer, empty when the
	// order was placed without one.
	CustomerID     string `json:"customer_id,omitempty"`
	CustomerName   string `json:"customer_name,omitempty"`
	CustomerPoints int    `json:"customer_points,omitempty"`
}

type ReceiptItem struct {
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	LineTotal  float64  `json:"line_total"`
	Flavorings []string `json:"flavorings,omitempty"`
}
