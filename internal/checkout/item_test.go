package checkout

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewLineItem(t *testing.T) {
	item := NewLineItem("burger-01", "Classic Burger", 6.5, 2, []string{"bbq"})

	if item.LineID == uuid.Nil {
		t.Error("NewLineItem() should generate a non-nil line id")
	}
	if item.Quantity != 2 {
		t.Errorf("NewLineItem() Quantity = %d, want 2", item.Quantity)
	}
	if item.LineTotal() != 13 {
		t.Errorf("LineTotal() = %v, want 13", item.LineTotal())
	}
}

func TestNewLineItemClampsQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{name: "zeroBecomesOne", quantity: 0, want: 1},
		{name: "negativeBecomesOne", quantity: -3, want: 1},
		{name: "positiveKept", quantity: 4, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewLineItem("x", "X", 1, tt.quantity, nil)
			if item.Quantity != tt.want {
				t.Errorf("NewLineItem() Quantity = %d, want %d", item.Quantity, tt.want)
			}
		})
	}
}

func TestLineItemSetQuantity(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		wantErr   bool
		wantFinal int
	}{
		{name: "validValue", quantity: 5, wantErr: false, wantFinal: 5},
		{name: "zeroRejectedKeepsPrevious", quantity: 0, wantErr: true, wantFinal: 2},
		{name: "negativeRejectedKeepsPrevious", quantity: -1, wantErr: true, wantFinal: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewLineItem("x", "X", 1, 2, nil)

			err := item.SetQuantity(tt.quantity)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetQuantity(%d) error = %v, wantErr %v", tt.quantity, err, tt.wantErr)
			}
			if item.Quantity != tt.wantFinal {
				t.Errorf("SetQuantity(%d) Quantity = %d, want %d", tt.quantity, item.Quantity, tt.wantFinal)
			}
		})
	}
}

func TestLineItemAdjustQuantity(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta int
		want  int
	}{
		{name: "increment", start: 1, delta: 1, want: 2},
		{name: "decrement", start: 3, delta: -1, want: 2},
		{name: "decrementClampsAtOne", start: 1, delta: -1, want: 1},
		{name: "largeNegativeClampsAtOne", start: 4, delta: -10, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewLineItem("x", "X", 1, tt.start, nil)
			item.AdjustQuantity(tt.delta)

			if item.Quantity != tt.want {
				t.Errorf("AdjustQuantity(%d) Quantity = %d, want %d", tt.delta, item.Quantity, tt.want)
			}
		})
	}
}
