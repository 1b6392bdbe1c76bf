package event

import "time"

const (
	TicketsTopic         = "pos.tickets"
	EventTicketFinalized = "pos.ticket.finalized"
)

// TicketFinalizedEvent announces a persisted ticket to downstream
// consumers (reporting, end-of-day reconciliation). Unlike the receipt
// print request it carries no presentation detail, just the ledger facts.
type TicketFinalizedEvent struct {
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	TicketID      string    `json:"ticket_id"`
	CustomerID    string    `json:"customer_id,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	Amount        float64   `json:"amount"`
	EarnedPoints  int       `json:"earned_points"`
}
