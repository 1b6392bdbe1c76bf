package checkout

import (
	"context"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/robfig/cron/v3"
)

// Reconciler retries loyalty awards that failed after their ticket was
// already persisted. The backlog lives in memory and is drained on a cron
// schedule; awards that fail again are requeued.
type Reconciler struct {
	mu      sync.Mutex
	pending []Award
	ledger  *Ledger
	cron    *cron.Cron
	logger  apt.Logger
}

func NewReconciler(ledger *Ledger, schedule string, logger apt.Logger) (*Reconciler, error) {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	r := &Reconciler{
		ledger: ledger,
		cron:   cron.New(),
		logger: logger,
	}

	if _, err := r.cron.AddFunc(schedule, func() {
		r.Drain(context.Background())
	}); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reconciler) Enqueue(award Award) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, award)
}

func (r *Reconciler) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Drain attempts every backlogged award once.
func (r *Reconciler) Drain(ctx context.Context) {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	r.logger.Infof("reconciling %d pending loyalty awards", len(batch))
	for _, award := range batch {
		if err := r.ledger.Apply(ctx, award); err != nil {
			r.logger.Error("loyalty award retry failed",
				"ticket_id", award.TicketID,
				"customer_id", award.CustomerID,
				"error", err,
			)
			r.Enqueue(award)
		}
	}
}

func (r *Reconciler) Start(ctx context.Context) error {
	r.cron.Start()
	r.logger.Info("ledger reconciler started")
	return nil
}

func (r *Reconciler) Stop(ctx context.Context) error {
	r.cron.Stop()
	r.Drain(ctx)
	return nil
}
