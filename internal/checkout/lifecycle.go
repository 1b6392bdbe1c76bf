package checkout

import (
	"sync"

	"github.com/google/uuid"
)

// State of the in-progress order. Finalization and cancellation both end in
// a reset back to an empty Building state; there is no stored terminal
// state beyond the persisted ticket itself.
type State string

const (
	StateBuilding         State = "building"
	StateAwaitingCustomer State = "awaiting_customer"
	StateAwaitingPayment  State = "awaiting_payment"
	StatePaymentConfirmed State = "payment_confirmed"
)

// PaymentResult is the typed completion reported by the card capture
// collaborator. Cancellation is just another completion.
type PaymentResult string

const (
	PaymentSuccess   PaymentResult = "success"
	PaymentFailure   PaymentResult = "failure"
	PaymentCancelled PaymentResult = "cancelled"
)

// Lifecycle owns the operator's single in-progress order and the state it
// is in. Every UI event maps to one method; each method either performs
// exactly one transition or rejects with an error and leaves everything
// untouched. The machine does no I/O: persistence, capture requests and
// printing happen in the callers.
type Lifecycle struct {
	mu              sync.Mutex
	state           State
	order           Order
	cardPending     bool
	captureRef      string
	finalizing      bool
	cancelRequested bool
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateBuilding}
}

// Snapshot returns the current state and a copy of the order for display.
func (l *Lifecycle) Snapshot() (State, Order) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order := l.order
	order.Items = append([]LineItem(nil), l.order.Items...)
	return l.state, order
}

func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// AddItem appends a line to the order being built.
func (l *Lifecycle) AddItem(item LineItem) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateBuilding {
		return ErrInvalidTransition
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	l.order.Items = append(l.order.Items, item)
	l.order.recompute()
	return nil
}

func (l *Lifecycle) RemoveItem(lineID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateBuilding {
		return ErrInvalidTransition
	}
	for i := range l.order.Items {
		if l.order.Items[i].LineID == lineID {
			l.order.Items = append(l.order.Items[:i], l.order.Items[i+1:]...)
			l.order.recompute()
			return nil
		}
	}
	return ErrUnknownLineItem
}

// SetQuantity replaces a line's quantity from direct numeric entry.
// Non-positive input is rejected and the stored quantity keeps its
// previous value.
func (l *Lifecycle) SetQuantity(lineID uuid.UUID, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateBuilding {
		return ErrInvalidTransition
	}
	line := l.order.findLine(lineID)
	if line == nil {
		return ErrUnknownLineItem
	}
	if err := line.SetQuantity(quantity); err != nil {
		return err
	}
	l.order.recompute()
	return nil
}

// AdjustQuantity applies a +/- step to a line, clamped at 1.
func (l *Lifecycle) AdjustQuantity(lineID uuid.UUID, delta int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateBuilding {
		return ErrInvalidTransition
	}
	line := l.order.findLine(lineID)
	if line == nil {
		return ErrUnknownLineItem
	}
	line.AdjustQuantity(delta)
	l.order.recompute()
	return nil
}

// Pay moves the order into the customer lookup step. An empty order is
// rejected with a warning for the operator.
func (l *Lifecycle) Pay() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateBuilding {
		return ErrInvalidTransition
	}
	if l.order.IsEmpty() {
		return ErrEmptyOrder
	}
	l.state = StateAwaitingCustomer
	return nil
}

// AttachCustomer links a loyalty customer to the order and recomputes the
// totals, since discount eligibility depends on the attached balance.
func (l *Lifecycle) AttachCustomer(record *CustomerRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateAwaitingCustomer {
		return ErrInvalidTransition
	}
	if record == nil {
		return &ValidationError{Field: "customer", Reason: "customer record is required"}
	}
	l.order.Customer = record
	l.order.recompute()
	l.state = StateAwaitingPayment
	return nil
}

// SkipLoyalty proceeds to payment with no customer attached.
func (l *Lifecycle) SkipLoyalty() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateAwaitingCustomer {
		return ErrInvalidTransition
	}
	l.order.Customer = nil
	l.order.recompute()
	l.state = StateAwaitingPayment
	return nil
}

// SelectCash records a cash payment and confirms it immediately.
func (l *Lifecycle) SelectCash() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateAwaitingPayment || l.cardPending {
		return ErrInvalidTransition
	}
	l.order.PaymentMethod = PaymentCash
	l.order.PaymentConfirmed = true
	l.state = StatePaymentConfirmed
	return nil
}

// SelectCard suspends the machine on the external capture collaborator.
// The reference identifies this capture attempt; the transition out of
// AwaitingPayment happens only when a completion carrying the same
// reference is delivered through CompleteCardPayment.
func (l *Lifecycle) SelectCard(reference string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateAwaitingPayment || l.cardPending {
		return ErrInvalidTransition
	}
	if reference == "" {
		return &ValidationError{Field: "reference", Reason: "capture reference is required"}
	}
	l.cardPending = true
	l.captureRef = reference
	return nil
}

// CompleteCardPayment routes the capture collaborator's completion.
// Completions whose reference does not match the pending capture are
// rejected: a late result for an earlier, already-resolved attempt (or for
// another till on a shared topic) must not confirm this one. Success
// confirms a card payment; failure or cancellation returns the machine to
// AwaitingPayment with no payment method recorded.
func (l *Lifecycle) CompleteCardPayment(result PaymentResult, reference string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.cardPending {
		return ErrInvalidTransition
	}
	if reference != l.captureRef {
		return ErrCaptureMismatch
	}
	l.cardPending = false
	l.captureRef = ""

	if result == PaymentSuccess {
		l.order.PaymentMethod = PaymentCard
		l.order.PaymentConfirmed = true
		l.state = StatePaymentConfirmed
		return nil
	}

	l.order.PaymentMethod = ""
	l.order.PaymentConfirmed = false
	return nil
}

// AbortCardPayment clears a pending capture whose request never reached
// the collaborator, so the operator can pick a method again.
func (l *Lifecycle) AbortCardPayment() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cardPending = false
	l.captureRef = ""
}

// BeginFinalize hands the caller a copy of the order for persistence. The
// machine keeps its state so a failed finalization leaves everything
// intact; the caller invokes Reset once the ticket is safely stored, or
// AbortFinalize to allow a retry. While a finalization is in flight,
// further BeginFinalize calls are rejected so a double-tapped save cannot
// persist two tickets for the same order.
func (l *Lifecycle) BeginFinalize() (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StatePaymentConfirmed || !l.order.PaymentConfirmed {
		return Order{}, ErrPaymentNotConfirmed
	}
	if l.order.IsEmpty() {
		return Order{}, ErrEmptyOrder
	}
	if l.finalizing {
		return Order{}, ErrInvalidTransition
	}
	l.finalizing = true

	order := l.order
	order.Items = append([]LineItem(nil), l.order.Items...)
	return order, nil
}

// AbortFinalize releases the in-flight finalization after a persistence
// failure so the operator can retry the save.
func (l *Lifecycle) AbortFinalize() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.finalizing = false
}

// RequestCancel opens the two-step cancel confirmation.
func (l *Lifecycle) RequestCancel() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancelRequested = true
	return nil
}

// ConfirmCancel abandons the order: items, customer and payment fields are
// cleared and the machine returns to an empty Building state.
func (l *Lifecycle) ConfirmCancel() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.cancelRequested {
		return ErrInvalidTransition
	}
	l.reset()
	return nil
}

func (l *Lifecycle) DeclineCancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancelRequested = false
}

// Reset clears the machine after a successful finalization.
func (l *Lifecycle) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset()
}

func (l *Lifecycle) reset() {
	l.order = Order{}
	l.order.recompute()
	l.state = StateBuilding
	l.cardPending = false
	l.captureRef = ""
	l.finalizing = false
	l.cancelRequested = false
}
