package checkout

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNextTicketID(t *testing.T) {
	now := time.Date(2024, time.January, 15, 13, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		latest *Ticket
		want   string
	}{
		{name: "emptyStoreStartsAtOne", latest: nil, want: "150124" + "1"},
		{name: "incrementsSameDaySequence", latest: &Ticket{ID: "1501247"}, want: "1501248"},
		{name: "continuesAcrossDateRollover", latest: &Ticket{ID: "14012412"}, want: "15012413"},
		{name: "unparsableTailFallsBackToOne", latest: &Ticket{ID: "150124abc"}, want: "1501241"},
		{name: "tooShortIDFallsBackToOne", latest: &Ticket{ID: "12"}, want: "1501241"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets := NewMockTicketRepo()
			tickets.LatestFunc = func(ctx context.Context) (*Ticket, error) {
				return tt.latest, nil
			}
			seq := NewSequence(tickets, NewMockCustomerRepo())

			got, err := seq.NextTicketID(context.Background(), now)
			if err != nil {
				t.Fatalf("NextTicketID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("NextTicketID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextTicketIDStoreError(t *testing.T) {
	tickets := NewMockTicketRepo()
	tickets.LatestFunc = func(ctx context.Context) (*Ticket, error) {
		return nil, errors.New("connection reset")
	}
	seq := NewSequence(tickets, NewMockCustomerRepo())

	_, err := seq.NextTicketID(context.Background(), time.Now())
	if err == nil {
		t.Fatal("NextTicketID() should propagate store read failures")
	}
}

func TestNextCustomerID(t *testing.T) {
	tests := []struct {
		name   string
		latest *CustomerRecord
		want   string
	}{
		{name: "emptyStoreStartsAtOne", latest: nil, want: "cus01"},
		{name: "incrementsLastID", latest: &CustomerRecord{CustomerID: "cus07"}, want: "cus08"},
		{name: "growsBeyondTwoDigits", latest: &CustomerRecord{CustomerID: "cus99"}, want: "cus100"},
		{name: "unparsableIDFallsBackToOne", latest: &CustomerRecord{CustomerID: "legacy"}, want: "cus01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers := NewMockCustomerRepo()
			customers.LatestFunc = func(ctx context.Context) (*CustomerRecord, error) {
				return tt.latest, nil
			}
			seq := NewSequence(NewMockTicketRepo(), customers)

			got, err := seq.NextCustomerID(context.Background())
			if err != nil {
				t.Fatalf("NextCustomerID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("NextCustomerID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextCustomerIDStoreError(t *testing.T) {
	customers := NewMockCustomerRepo()
	customers.LatestFunc = func(ctx context.Context) (*CustomerRecord, error) {
		return nil, errors.New("connection reset")
	}
	seq := NewSequence(NewMockTicketRepo(), customers)

	_, err := seq.NextCustomerID(context.Background())
	if err == nil {
		t.Fatal("NextCustomerID() should propagate store read failures")
	}
}
