package checkout

import (
	"context"
	"fmt"
	"sync"
)

// MockTicketRepo is a mock implementation of TicketRepo for testing
type MockTicketRepo struct {
	mu         sync.RWMutex
	tickets    map[string]*Ticket
	order      []string
	InsertFunc func(ctx context.Context, ticket *Ticket) error
	LatestFunc func(ctx context.Context) (*Ticket, error)
}

func NewMockTicketRepo() *MockTicketRepo {
	return &MockTicketRepo{
		tickets: make(map[string]*Ticket),
	}
}

func (m *MockTicketRepo) Insert(ctx context.Context, ticket *Ticket) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, ticket)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[ticket.ID]; ok {
		return ErrDuplicateID
	}
	m.tickets[ticket.ID] = ticket
	m.order = append(m.order, ticket.ID)
	return nil
}

func (m *MockTicketRepo) Get(ctx context.Context, id string) (*Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, nil
	}
	return ticket, nil
}

func (m *MockTicketRepo) Latest(ctx context.Context) (*Ticket, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *Ticket
	for _, t := range m.tickets {
		if latest == nil || t.ID > latest.ID {
			latest = t
		}
	}
	return latest, nil
}

// MockCustomerRepo is a mock implementation of CustomerRepo for testing
type MockCustomerRepo struct {
	mu                  sync.RWMutex
	records             map[string]*CustomerRecord
	InsertFunc          func(ctx context.Context, record *CustomerRecord) error
	LatestFunc          func(ctx context.Context) (*CustomerRecord, error)
	FindByPhoneFunc     func(ctx context.Context, phone string) ([]*CustomerRecord, error)
	FindByIDFunc        func(ctx context.Context, customerID string) ([]*CustomerRecord, error)
	IncrementPointsFunc func(ctx context.Context, phone string, delta int) error
}

func NewMockCustomerRepo() *MockCustomerRepo {
	return &MockCustomerRepo{
		records: make(map[string]*CustomerRecord),
	}
}

func (m *MockCustomerRepo) Insert(ctx context.Context, record *CustomerRecord) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.Phone]; ok {
		return ErrDuplicateID
	}
	m.records[record.Phone] = record
	return nil
}

func (m *MockCustomerRepo) GetByPhone(ctx context.Context, phone string) (*CustomerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[phone]
	if !ok {
		return nil, nil
	}
	return record, nil
}

func (m *MockCustomerRepo) FindByPhone(ctx context.Context, phone string) ([]*CustomerRecord, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*CustomerRecord
	if record, ok := m.records[phone]; ok {
		result = append(result, record)
	}
	return result, nil
}

func (m *MockCustomerRepo) FindByCustomerID(ctx context.Context, customerID string) ([]*CustomerRecord, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, customerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*CustomerRecord
	for _, record := range m.records {
		if record.CustomerID == customerID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (m *MockCustomerRepo) Latest(ctx context.Context) (*CustomerRecord, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *CustomerRecord
	for _, record := range m.records {
		if latest == nil || record.CustomerID > latest.CustomerID {
			latest = record
		}
	}
	return latest, nil
}

func (m *MockCustomerRepo) IncrementPoints(ctx context.Context, phone string, delta int) error {
	if m.IncrementPointsFunc != nil {
		return m.IncrementPointsFunc(ctx, phone, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[phone]
	if !ok {
		return fmt.Errorf("customer not found")
	}
	record.Points += delta
	return nil
}

// MockLoyaltyHistoryRepo is a mock implementation of LoyaltyHistoryRepo for testing
type MockLoyaltyHistoryRepo struct {
	mu         sync.RWMutex
	entries    []*LoyaltyEntry
	AppendFunc func(ctx context.Context, entry *LoyaltyEntry) error
}

func NewMockLoyaltyHistoryRepo() *MockLoyaltyHistoryRepo {
	return &MockLoyaltyHistoryRepo{}
}

func (m *MockLoyaltyHistoryRepo) Append(ctx context.Context, entry *LoyaltyEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockLoyaltyHistoryRepo) ListByCustomer(ctx context.Context, customerID string) ([]*LoyaltyEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*LoyaltyEntry
	for _, e := range m.entries {
		if e.CustomerID == customerID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockLoyaltyHistoryRepo) Entries() []*LoyaltyEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*LoyaltyEntry(nil), m.entries...)
}

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	published   []publishedMsg
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

type publishedMsg struct {
	topic string
	msg   []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedMsg{topic: topic, msg: msg})
	return nil
}

func (m *MockPublisher) Published() []publishedMsg {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publishedMsg(nil), m.published...)
}

// MockCapturer is a mock implementation of PaymentCapturer for testing
type MockCapturer struct {
	CaptureFunc   func(ctx context.Context, amount float64, reference string) error
	requests      int
	lastReference string
}

func (m *MockCapturer) RequestCapture(ctx context.Context, amount float64, reference string) error {
	m.requests++
	m.lastReference = reference
	if m.CaptureFunc != nil {
		return m.CaptureFunc(ctx, amount, reference)
	}
	return nil
}
