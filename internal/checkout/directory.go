package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/appetiteclub/apt"
)

// Directory looks up and registers loyalty customers.
type Directory struct {
	customers CustomerRepo
	sequence  *Sequence
	logger    apt.Logger
}

func NewDirectory(customers CustomerRepo, sequence *Sequence, logger apt.Logger) *Directory {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Directory{
		customers: customers,
		sequence:  sequence,
		logger:    logger,
	}
}

type searchResult struct {
	records []*CustomerRecord
	err     error
}

// Search matches customers by phone equality or customer-id equality. The
// two queries run concurrently and their results are concatenated; a record
// matching both predicates appears twice, which callers tolerate. If either
// query fails the whole search fails.
func (d *Directory) Search(ctx context.Context, query string) ([]*CustomerRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Field: "query", Reason: "search query is required"}
	}

	byPhone := make(chan searchResult, 1)
	byID := make(chan searchResult, 1)

	go func() {
		records, err := d.customers.FindByPhone(ctx, query)
		byPhone <- searchResult{records: records, err: err}
	}()
	go func() {
		records, err := d.customers.FindByCustomerID(ctx, query)
		byID <- searchResult{records: records, err: err}
	}()

	phoneRes := <-byPhone
	idRes := <-byID

	if phoneRes.err != nil {
		return nil, fmt.Errorf("cannot search customers by phone: %w", phoneRes.err)
	}
	if idRes.err != nil {
		return nil, fmt.Errorf("cannot search customers by id: %w", idRes.err)
	}

	results := make([]*CustomerRecord, 0, len(phoneRes.records)+len(idRes.records))
	results = append(results, phoneRes.records...)
	results = append(results, idRes.records...)
	return results, nil
}

// Create registers a new loyalty customer keyed by phone, starting at zero
// points.
func (d *Directory) Create(ctx context.Context, phone, name string) (*CustomerRecord, error) {
	phone = strings.TrimSpace(phone)
	name = strings.TrimSpace(name)
	if phone == "" {
		return nil, &ValidationError{Field: "phone", Reason: "phone number is required"}
	}
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}

	customerID, err := d.sequence.NextCustomerID(ctx)
	if err != nil {
		return nil, err
	}

	record := NewCustomerRecord(customerID, phone, name)
	if err := d.customers.Insert(ctx, record); err != nil {
		if err == ErrDuplicateID {
			return nil, &ValidationError{Field: "phone", Reason: "customer with this phone already exists"}
		}
		return nil, fmt.Errorf("cannot create customer: %w", err)
	}

	d.logger.Info("customer registered", "customer_id", record.CustomerID, "phone", record.Phone)
	return record, nil
}
