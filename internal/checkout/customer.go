package checkout

import "time"

// CustomerRecord is a loyalty program member. The phone number doubles as
// the document key in the customers collection.
type CustomerRecord struct {
	Phone      string    `json:"phone" bson:"_id"`
	CustomerID string    `json:"customer_id" bson:"customer_id"`
	Name       string    `json:"name" bson:"name"`
	Points     int       `json:"points" bson:"points"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

func NewCustomerRecord(customerID, phone, name string) *CustomerRecord {
	now := time.Now()
	return &CustomerRecord{
		Phone:      phone,
		CustomerID: customerID,
		Name:       name,
		Points:     0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// DiscountEligible reports whether the customer qualifies for the loyalty
// discount on the current order.
func (c *CustomerRecord) DiscountEligible() bool {
	return c != nil && c.Points >= discountEligiblePoints
}

// LoyaltyEntry is one append-only row of the loyalty ledger. A single
// "earn" entry is written per finalized ticket with an attached customer.
type LoyaltyEntry struct {
	CustomerID string    `json:"customer_id" bson:"customer_id"`
	Type       string    `json:"type" bson:"type"`
	Points     int       `json:"points" bson:"points"`
	TicketID   string    `json:"ticket_id" bson:"ticket_id"`
	Date       time.Time `json:"date" bson:"date"`
}

const LoyaltyEntryEarn = "earn"
