package checkout

import "context"

type TicketRepo interface {
	// Insert creates the ticket only if its id is not taken yet, returning
	// ErrDuplicateID otherwise.
	Insert(ctx context.Context, ticket *Ticket) error
	Get(ctx context.Context, id string) (*Ticket, error)
	// Latest returns the ticket with the greatest id, or nil when the
	// collection is empty.
	Latest(ctx context.Context) (*Ticket, error)
}

type CustomerRepo interface {
	// Insert creates the record only if the phone key is free, returning
	// ErrDuplicateID otherwise.
	Insert(ctx context.Context, record *CustomerRecord) error
	GetByPhone(ctx context.Context, phone string) (*CustomerRecord, error)
	FindByPhone(ctx context.Context, phone string) ([]*CustomerRecord, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]*CustomerRecord, error)
	// Latest returns the record with the greatest customer id, or nil when
	// the collection is empty.
	Latest(ctx context.Context) (*CustomerRecord, error)
	// IncrementPoints adds delta to the stored balance and refreshes
	// updated_at, leaving every other field alone.
	IncrementPoints(ctx context.Context, phone string, delta int) error
}

type LoyaltyHistoryRepo interface {
	Append(ctx context.Context, entry *LoyaltyEntry) error
	ListByCustomer(ctx context.Context, customerID string) ([]*LoyaltyEntry, error)
}
