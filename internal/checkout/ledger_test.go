package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestLedgerApply(t *testing.T) {
	customers := NewMockCustomerRepo()
	_ = customers.Insert(context.Background(), &CustomerRecord{Phone: "07700900103", CustomerID: "cus03", Name: "Mina", Points: 7})
	history := NewMockLoyaltyHistoryRepo()
	ledger := NewLedger(customers, history, nil)

	award := Award{CustomerID: "cus03", Phone: "07700900103", TicketID: "1501248", Points: 2}
	if err := ledger.Apply(context.Background(), award); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	record, _ := customers.GetByPhone(context.Background(), "07700900103")
	if record.Points != 9 {
		t.Errorf("Points = %d, want 9", record.Points)
	}

	entries := history.Entries()
	if len(entries) != 1 {
		t.Fatalf("history has %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.CustomerID != "cus03" || entry.TicketID != "1501248" || entry.Points != 2 {
		t.Errorf("entry = %+v, want cus03/1501248/2", entry)
	}
	if entry.Type != LoyaltyEntryEarn {
		t.Errorf("entry Type = %q, want %q", entry.Type, LoyaltyEntryEarn)
	}
}

func TestLedgerApplyUnknownCustomer(t *testing.T) {
	ledger := NewLedger(NewMockCustomerRepo(), NewMockLoyaltyHistoryRepo(), nil)

	err := ledger.Apply(context.Background(), Award{CustomerID: "cus99", Phone: "none", Points: 1})
	if err == nil {
		t.Error("Apply() should fail when the customer record is missing")
	}
}

func TestLedgerApplyHistoryFailure(t *testing.T) {
	customers := NewMockCustomerRepo()
	_ = customers.Insert(context.Background(), &CustomerRecord{Phone: "07700900103", CustomerID: "cus03", Points: 0})
	history := NewMockLoyaltyHistoryRepo()
	history.AppendFunc = func(ctx context.Context, entry *LoyaltyEntry) error {
		return errors.New("write concern failed")
	}
	ledger := NewLedger(customers, history, nil)

	err := ledger.Apply(context.Background(), Award{CustomerID: "cus03", Phone: "07700900103", Points: 1})
	if err == nil {
		t.Error("Apply() should surface a history append failure for retry")
	}
}

func TestLedgerApplyConcurrentAwards(t *testing.T) {
	customers := NewMockCustomerRepo()
	_ = customers.Insert(context.Background(), &CustomerRecord{Phone: "07700900103", CustomerID: "cus03", Points: 0})
	ledger := NewLedger(customers, NewMockLoyaltyHistoryRepo(), nil)

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = ledger.Apply(context.Background(), Award{CustomerID: "cus03", Phone: "07700900103", Points: 1})
		}()
	}
	wg.Wait()

	record, _ := customers.GetByPhone(context.Background(), "07700900103")
	if record.Points != workers {
		t.Errorf("Points = %d, want %d after concurrent awards", record.Points, workers)
	}
}
