package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/tilldesk/pos/pkg/event"
)

// maxMintAttempts bounds the id-collision retry loop. Two tills finalizing
// at once compute the same next sequence; the loser's insert hits
// ErrDuplicateID and re-derives from the store.
const maxMintAttempts = 5

// Backlog receives loyalty awards that could not be applied inline. The
// ticket is already persisted by then, so these are retried out-of-band
// rather than rolled back.
type Backlog interface {
	Enqueue(award Award)
}

// Finalizer turns a payment-confirmed order into a persisted ticket: it
// mints the ticket id, stores the document, credits loyalty points
// best-effort and emits the receipt print request.
type Finalizer struct {
	sequence  *Sequence
	tickets   TicketRepo
	ledger    *Ledger
	backlog   Backlog
	publisher events.Publisher
	userID    string
	logger    apt.Logger
}

func NewFinalizer(sequence *Sequence, tickets TicketRepo, ledger *Ledger, backlog Backlog, publisher events.Publisher, userID string, logger apt.Logger) *Finalizer {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Finalizer{
		sequence:  sequence,
		tickets:   tickets,
		ledger:    ledger,
		backlog:   backlog,
		publisher: publisher,
		userID:    userID,
		logger:    logger,
	}
}

// Finalize persists the order as a ticket and returns it. Identifier or
// store failures abort before anything is written; a ledger failure after
// the ticket insert is logged and backlogged, never surfaced as a
// finalization error.
func (f *Finalizer) Finalize(ctx context.Context, order Order) (*Ticket, error) {
	if !order.PaymentConfirmed {
		return nil, ErrPaymentNotConfirmed
	}
	if order.IsEmpty() {
		return nil, ErrEmptyOrder
	}

	earned := 0
	if order.Customer != nil {
		earned = EarnedPoints(order.Totals.Total)
	}

	ticket := &Ticket{
		Date:         time.Now(),
		UserID:       f.userID,
		Items:        snapshotItems(order.Items),
		Subtotal:     order.Totals.Subtotal,
		Discount:     order.Totals.Discount,
		Amount:       order.Totals.Total,
		EarnedPoints: earned,
	}
	if order.Customer != nil {
		ticket.CustomerID = order.Customer.CustomerID
	}

	if err := f.mintAndInsert(ctx, ticket); err != nil {
		return nil, err
	}

	if order.Customer != nil {
		award := Award{
			CustomerID: order.Customer.CustomerID,
			Phone:      order.Customer.Phone,
			TicketID:   ticket.ID,
			Points:     earned,
		}
		if err := f.ledger.Apply(ctx, award); err != nil {
			f.logger.Error("loyalty award failed, queued for retry",
				"ticket_id", ticket.ID,
				"customer_id", award.CustomerID,
				"error", err,
			)
			if f.backlog != nil {
				f.backlog.Enqueue(award)
			}
		}
	}

	f.publishReceipt(ctx, ticket, order)
	f.publishFinalized(ctx, ticket, order)

	f.logger.Info("ticket finalized",
		"ticket_id", ticket.ID,
		"amount", ticket.Amount,
		"payment_method", order.PaymentMethod,
	)
	return ticket, nil
}

func (f *Finalizer) mintAndInsert(ctx context.Context, ticket *Ticket) error {
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		id, err := f.sequence.NextTicketID(ctx, time.Now())
		if err != nil {
			return err
		}

		ticket.ID = id
		err = f.tickets.Insert(ctx, ticket)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrDuplicateID) {
			f.logger.Info("ticket id taken by concurrent finalization, retrying", "ticket_id", id)
			continue
		}
		return fmt.Errorf("cannot persist ticket: %w", err)
	}
	return fmt.Errorf("cannot mint ticket id after %d attempts", maxMintAttempts)
}

func (f *Finalizer) publishReceipt(ctx context.Context, ticket *Ticket, order Order) {
	if f.publisher == nil {
		return
	}

	evt := event.ReceiptEvent{
		EventType:    event.EventReceiptRequested,
		OccurredAt:   time.Now().UTC(),
		TicketID:     ticket.ID,
		Subtotal:     ticket.Subtotal,
		Discount:     ticket.Discount,
		Total:        ticket.Amount,
		EarnedPoints: ticket.EarnedPoints,
	}
	if order.Customer != nil {
		evt.CustomerID = order.Customer.CustomerID
		evt.CustomerName = order.Customer.Name
		evt.CustomerPoints = order.Customer.Points
	}
	for _, item := range ticket.Items {
		evt.Items = append(evt.Items, event.ReceiptItem{
			Name:       item.Name,
			Quantity:   item.Quantity,
			LineTotal:  item.Price * float64(item.Quantity),
			Flavorings: item.Flavorings,
		})
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		f.logger.Error("cannot marshal receipt event", "error", err, "ticket_id", ticket.ID)
		return
	}
	// Fire and forget: a print failure never rolls back the ticket.
	if err := f.publisher.Publish(ctx, event.ReceiptsTopic, payload); err != nil {
		f.logger.Error("cannot publish receipt event", "error", err, "ticket_id", ticket.ID)
	}
}

func (f *Finalizer) publishFinalized(ctx context.Context, ticket *Ticket, order Order) {
	if f.publisher == nil {
		return
	}

	evt := event.TicketFinalizedEvent{
		EventType:     event.EventTicketFinalized,
		OccurredAt:    time.Now().UTC(),
		TicketID:      ticket.ID,
		CustomerID:    ticket.CustomerID,
		PaymentMethod: order.PaymentMethod,
		Amount:        ticket.Amount,
		EarnedPoints:  ticket.EarnedPoints,
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		f.logger.Error("cannot marshal ticket finalized event", "error", err, "ticket_id", ticket.ID)
		return
	}
	if err := f.publisher.Publish(ctx, event.TicketsTopic, payload); err != nil {
		f.logger.Error("cannot publish ticket finalized event", "error", err, "ticket_id", ticket.ID)
	}
}
