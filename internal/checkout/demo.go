package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/appetiteclub/apt"
)

// Demo loyalty customers inserted when seeding.demo is enabled: one below
// the discount threshold, one at it, one well past it.
var demoCustomers = []struct {
	customerID string
	phone      string
	name       string
	points     int
}{
	{"cus01", "07700900101", "Asha Rao", 0},
	{"cus02", "07700900102", "Tom Wheeler", 2},
	{"cus03", "07700900103", "Mina Park", 7},
}

// DemoSeedingFunc returns a lifecycle OnStart-compatible function that
// registers the demo customers, skipping any phone already taken.
func DemoSeedingFunc(seedCtx context.Context, customers CustomerRepo, logger apt.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		if customers == nil {
			return errors.New("customer repository is required for demo seeding")
		}

		logger.Info("Applying demo customer seeds")
		for _, c := range demoCustomers {
			record := NewCustomerRecord(c.customerID, c.phone, c.name)
			record.Points = c.points

			err := customers.Insert(seedCtx, record)
			if errors.Is(err, ErrDuplicateID) {
				continue
			}
			if err != nil {
				return fmt.Errorf("cannot seed demo customer %s: %w", c.customerID, err)
			}
			logger.Info("demo customer seeded", "customer_id", c.customerID, "points", c.points)
		}
		return nil
	}
}
