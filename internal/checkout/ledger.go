package checkout

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/appetiteclub/apt"
)

// Award is one pending loyalty credit for a finalized ticket.
type Award struct {
	CustomerID string `json:"customer_id"`
	Phone      string `json:"phone"`
	TicketID   string `json:"ticket_id"`
	Points     int    `json:"points"`
}

// EarnedPoints converts a paid total into loyalty points.
func EarnedPoints(total float64) int {
	return int(math.Floor(total * loyaltyEarnRate))
}

// Ledger credits loyalty points and keeps the append-only history. The
// point update is an atomic increment at the store so concurrent awards to
// the same customer cannot lose a credit.
type Ledger struct {
	customers CustomerRepo
	history   LoyaltyHistoryRepo
	logger    apt.Logger
}

func NewLedger(customers CustomerRepo, history LoyaltyHistoryRepo, logger apt.Logger) *Ledger {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Ledger{
		customers: customers,
		history:   history,
		logger:    logger,
	}
}

// Apply credits the award and appends its history entry. Callers treat a
// failure as retryable: the ticket stays persisted either way.
func (l *Ledger) Apply(ctx context.Context, award Award) error {
	if err := l.customers.IncrementPoints(ctx, award.Phone, award.Points); err != nil {
		return fmt.Errorf("cannot credit points for %s: %w", award.CustomerID, err)
	}

	entry := &LoyaltyEntry{
		CustomerID: award.CustomerID,
		Type:       LoyaltyEntryEarn,
		Points:     award.Points,
		TicketID:   award.TicketID,
		Date:       time.Now(),
	}
	if err := l.history.Append(ctx, entry); err != nil {
		return fmt.Errorf("cannot append loyalty history for %s: %w", award.CustomerID, err)
	}

	l.logger.Info("loyalty points credited",
		"customer_id", award.CustomerID,
		"ticket_id", award.TicketID,
		"points", award.Points,
	)
	return nil
}
