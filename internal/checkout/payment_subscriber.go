package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/tilldesk/pos/pkg/event"
)

// PaymentResultSubscriber routes the card terminal's typed completions
// (success, failure, cancelled) back into the order lifecycle. A failed or
// cancelled capture returns the order to payment selection; nothing else
// changes.
type PaymentResultSubscriber struct {
	subscriber events.Subscriber
	lifecycle  *Lifecycle
	logger     apt.Logger
}

func NewPaymentResultSubscriber(sub events.Subscriber, lifecycle *Lifecycle, logger apt.Logger) *PaymentResultSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &PaymentResultSubscriber{
		subscriber: sub,
		lifecycle:  lifecycle,
		logger:     logger,
	}
}

func (s *PaymentResultSubscriber) Start(ctx context.Context) error {
	s.log().Info("starting payment result subscriber", "topic", event.PaymentResultsTopic)
	if s.subscriber == nil {
		return fmt.Errorf("payment result subscriber not configured")
	}
	return s.subscriber.Subscribe(ctx, event.PaymentResultsTopic, s.handleEvent)
}

func (s *PaymentResultSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.PaymentResultEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.log().Info("invalid payment result event", "error", err)
		return nil
	}

	var result PaymentResult
	switch evt.Result {
	case string(PaymentSuccess):
		result = PaymentSuccess
	case string(PaymentFailure):
		result = PaymentFailure
	case string(PaymentCancelled):
		result = PaymentCancelled
	default:
		s.log().Debug("unknown payment result", "result", evt.Result)
		return nil
	}

	if err := s.lifecycle.CompleteCardPayment(result, evt.Reference); err != nil {
		// No capture pending, or a completion for some other capture
		// attempt: stale or duplicate, drop it.
		s.log().Info("payment result ignored", "result", evt.Result, "reference", evt.Reference, "error", err)
		return nil
	}

	s.log().Info("payment capture completed", "result", evt.Result, "reference", evt.Reference)
	return nil
}

func (s *PaymentResultSubscriber) log() apt.Logger {
	return s.logger.With("component", "PaymentResultSubscriber")
}
