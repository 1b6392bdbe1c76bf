package checkout

import "testing"

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name          string
		items         []LineItem
		loyaltyPoints int
		wantSubtotal  float64
		wantDiscount  float64
		wantTotal     float64
	}{
		{
			name:          "emptyOrderYieldsZeroTotals",
			items:         nil,
			loyaltyPoints: 5,
			wantSubtotal:  0,
			wantDiscount:  0,
			wantTotal:     0,
		},
		{
			name: "sumsUnitPriceTimesQuantity",
			items: []LineItem{
				{UnitPrice: 10, Quantity: 2},
				{UnitPrice: 2.5, Quantity: 4},
			},
			loyaltyPoints: 0,
			wantSubtotal:  30,
			wantDiscount:  0,
			wantTotal:     30,
		},
		{
			name: "noDiscountBelowThreshold",
			items: []LineItem{
				{UnitPrice: 10, Quantity: 2},
			},
			loyaltyPoints: 1,
			wantSubtotal:  20,
			wantDiscount:  0,
			wantTotal:     20,
		},
		{
			name: "tenPercentDiscountAtThreshold",
			items: []LineItem{
				{UnitPrice: 10, Quantity: 2},
			},
			loyaltyPoints: 2,
			wantSubtotal:  20,
			wantDiscount:  2,
			wantTotal:     18,
		},
		{
			name: "tenPercentDiscountAboveThreshold",
			items: []LineItem{
				{UnitPrice: 50, Quantity: 2},
			},
			loyaltyPoints: 7,
			wantSubtotal:  100,
			wantDiscount:  10,
			wantTotal:     90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.loyaltyPoints)

			if got.Subtotal != tt.wantSubtotal {
				t.Errorf("ComputeTotals() Subtotal = %v, want %v", got.Subtotal, tt.wantSubtotal)
			}
			if got.Discount != tt.wantDiscount {
				t.Errorf("ComputeTotals() Discount = %v, want %v", got.Discount, tt.wantDiscount)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("ComputeTotals() Total = %v, want %v", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestComputeTotalsInvariant(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 3.2, Quantity: 3},
		{UnitPrice: 7.99, Quantity: 1},
		{UnitPrice: 1.5, Quantity: 6},
	}

	for _, points := range []int{0, 1, 2, 10} {
		got := ComputeTotals(items, points)
		if got.Total != got.Subtotal-got.Discount {
			t.Errorf("points=%d: Total = %v, want Subtotal-Discount = %v", points, got.Total, got.Subtotal-got.Discount)
		}
	}
}

func TestEarnedPoints(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  int
	}{
		{name: "hundredEarnsTen", total: 100, want: 10},
		{name: "eighteenEarnsOne", total: 18, want: 1},
		{name: "nineEarnsZero", total: 9, want: 0},
		{name: "zeroEarnsZero", total: 0, want: 0},
		{name: "roundsDown", total: 19.99, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EarnedPoints(tt.total); got != tt.want {
				t.Errorf("EarnedPoints(%v) = %d, want %d", tt.total, got, tt.want)
			}
		})
	}
}
