package checkout

// Loyalty pricing: a balance of discountEligiblePoints or more grants a
// 10% discount on the whole order; 10% of the final total comes back as
// points on finalization.
const (
	discountEligiblePoints = 2
	loyaltyDiscountRate    = 0.10
	loyaltyEarnRate        = 0.10
)

type Totals struct {
	Subtotal float64 `json:"subtotal" bson:"subtotal"`
	Discount float64 `json:"discount" bson:"discount"`
	Total    float64 `json:"total" bson:"total"`
}

// ComputeTotals derives the order totals from the item list and the
// attached customer's loyalty balance. Pure; callers re-run it after every
// item mutation and after customer attach/detach.
func ComputeTotals(items []LineItem, loyaltyPoints int) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	var discount float64
	if loyaltyPoints >= discountEligiblePoints {
		discount = subtotal * loyaltyDiscountRate
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}
}
