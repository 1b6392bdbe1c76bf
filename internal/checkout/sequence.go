package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	ticketDateLayout    = "020106" // DDMMYY
	ticketDatePrefixLen = len(ticketDateLayout)
	customerIDPrefix    = "cus"
)

// Sequence derives the next ticket and customer ids from the current
// maximum in the store; there is no dedicated counter document.
//
// The ticket sequence is read from the single greatest ticket id across
// all dates, matching the ids already in production: it does not reset at
// midnight, and after a date rollover the parsed tail belongs to the
// previous day's prefix. Collisions from concurrent mints are handled by
// the caller through create-if-absent inserts, not here.
type Sequence struct {
	tickets   TicketRepo
	customers CustomerRepo
}

func NewSequence(tickets TicketRepo, customers CustomerRepo) *Sequence {
	return &Sequence{tickets: tickets, customers: customers}
}

// NextTicketID returns the DDMMYY-prefixed id for the next ticket. A store
// read failure is returned as-is so finalization aborts rather than risk a
// duplicate id.
func (s *Sequence) NextTicketID(ctx context.Context, now time.Time) (string, error) {
	last, err := s.tickets.Latest(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot read last ticket: %w", err)
	}

	number := 1
	if last != nil && len(last.ID) > ticketDatePrefixLen {
		if n, err := strconv.Atoi(last.ID[ticketDatePrefixLen:]); err == nil {
			number = n + 1
		}
	}

	return TicketIDAt(now, number), nil
}

// TicketIDAt formats a ticket id for the given date and sequence number.
func TicketIDAt(now time.Time, number int) string {
	return now.Format(ticketDateLayout) + strconv.Itoa(number)
}

// NextCustomerID returns the next zero-padded customer id ("cus01",
// "cus02", ...).
func (s *Sequence) NextCustomerID(ctx context.Context) (string, error) {
	last, err := s.customers.Latest(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot read last customer: %w", err)
	}

	number := 1
	if last != nil {
		if n, err := strconv.Atoi(strings.TrimPrefix(last.CustomerID, customerIDPrefix)); err == nil {
			number = n + 1
		}
	}

	return fmt.Sprintf("%s%02d", customerIDPrefix, number), nil
}
