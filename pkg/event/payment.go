package event

import "time"

const (
	PaymentResultsTopic = "pos.payments.results"
	EventPaymentResult  = "pos.payment.result"
)

// PaymentResultEvent is published by the card terminal collaborator when a
// requested capture completes. Result is "success", "failure" or
// "cancelled".
type PaymentResultEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Reference  string    `json:"reference,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	Result     string    `json:"result"`
}
