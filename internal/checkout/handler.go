package checkout

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

// Handler is the UI event surface. Every route maps to exactly one
// lifecycle transition; rejected transitions come back as operator-visible
// errors with the order left untouched.
type Handler struct {
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
	lifecycle *Lifecycle
	directory *Directory
	finalizer *Finalizer
	capturer  PaymentCapturer
}

type HandlerDeps struct {
	Lifecycle *Lifecycle
	Directory *Directory
	Finalizer *Finalizer
	Capturer  PaymentCapturer
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
		lifecycle: hd.Lifecycle,
		directory: hd.Directory,
		finalizer: hd.Finalizer,
		capturer:  hd.Capturer,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/order", func(r chi.Router) {
		r.Get("/", h.GetOrder)
		r.Post("/items", h.AddItem)
		r.Delete("/items/{lineID}", h.RemoveItem)
		r.Patch("/items/{lineID}/quantity", h.ChangeQuantity)
		r.Post("/pay", h.Pay)
		r.Post("/customer", h.AttachCustomer)
		r.Post("/customer/skip", h.SkipLoyalty)
		r.Post("/payment", h.SelectPayment)
		r.Post("/payment/complete", h.CompletePayment)
		r.Post("/save", h.SaveTicket)
		r.Post("/cancel", h.RequestCancel)
		r.Post("/cancel/confirm", h.ConfirmCancel)
		r.Delete("/cancel", h.DeclineCancel)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/search", h.SearchCustomers)
		r.Post("/", h.CreateCustomer)
	})
}

// Order handlers

type OrderSnapshot struct {
	State State `json:"state"`
	Order Order `json:"order"`
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	state, order := h.lifecycle.Snapshot()
	apt.Respond(w, http.StatusOK, OrderSnapshot{State: state, Order: order}, nil)
}

type AddItemRequest struct {
	ItemID     string   `json:"item_id"`
	Name       string   `json:"name"`
	UnitPrice  float64  `json:"unit_price"`
	Quantity   int      `json:"quantity"`
	Flavorings []string `json:"flavorings,omitempty"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddItem")
	defer finish()

	log := h.log(r)

	var req AddItemRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}
	if req.ItemID == "" || req.Name == "" {
		apt.RespondError(w, http.StatusBadRequest, "item_id and name are required")
		return
	}

	item := NewLineItem(req.ItemID, req.Name, req.UnitPrice, req.Quantity, req.Flavorings)
	if err := h.lifecycle.AddItem(item); err != nil {
		h.respondDomainError(w, err, log)
		return
	}

	links := apt.RESTfulLinksFor(&item)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, item, links...)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveItem")
	defer finish()

	log := h.log(r)

	lineID, ok := h.parseLineID(w, r, log)
	if !ok {
		return
	}

	if err := h.lifecycle.RemoveItem(lineID); err != nil {
		h.respondDomainError(w, err, log)
		return
	}

	state, order := h.lifecycle.Snapshot()
	apt.Respond(w, http.StatusOK, OrderSnapshot{State: state, Order: order}, nil)
}

type ChangeQuantityRequest struct {
	Quantity *int `json:"quantity,omitempty"`
	Delta    *int `json:"delta,omitempty"`
}

// ChangeQuantity handles both the number pad (absolute quantity, rejected
// when not positive) and the +/- buttons (delta, clamped at 1).
func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ChangeQuantity")
	defer finish()

	log := h.log(r)

	lineID, ok := h.parseLineID(w, r, log)
	if !ok {
		return
	}

	var req ChangeQuantityRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	var err error
	switch {
	case req.Quantity != nil:
		err = h.lifecycle.SetQuantity(lineID, *req.Quantity)
	case req.Delta != nil:
		err = h.lifecycle.AdjustQuantity(lineID, *req.Delta)
	default:
		apt.RespondError(w, http.StatusBadRequest, "quantity or delta is required")
		return
	}
	if err != nil {
		h.respondDomainError(w, err, log)
		return
	}

	state, order := h.lifecycle.Snapshot()
	apt.Respond(w, http.StatusOK, OrderSnapshot{State: state, Order: order}, nil)
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Pay")
	defer finish()

	log := h.log(r)

	if err := h.lifecycle.Pay(); err != nil {
		h.respondDomainError(w, err, log)
		return
	}

	state, order := h.lifecycle.Snapshot()
	apt.Respond(w, http.StatusOK, OrderSnapshot{State: state, Order: order}, nil)
}

// Customer handlers

func (h *Handler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SearchCustomers")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	records, err := h.directory.Search(ctx, r.URL.Query().Get("q"))
	if err != nil {
		if IsValidation(err) {
			apt.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("customer search failed", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not search customers")
		return
	}

	apt.RespondCollection(w, records, "customer")
}

type CreateCustomerRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateCustomer")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req CreateCustomerRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	record, err := h.directory.Create(ctx, req.Phone, req.Name)
	if err != nil {
		if IsValidation(err) {
			apt.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("cannot create customer", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not create customer")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, record)
}

type AttachCustomerRequest struct {
	Phone string `json:"phone"`
}

func (h *Handler) AttachCustomer(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AttachCustomer")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req AttachCustomerRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}
	if req.Phone == "" {
		apt.RespondError(w, http.StatusBadRequest, "phone is required")
		return
	}

	record, err := h.directory.customers.GetByPhone(ctx, req.Phone)
	if err != nil {
		log.Error("cannot load customer", "error", err, "phone", req.Phone)
		apt.RespondError(w, http.StatusBadGateway, "Could not load customer")
		return
	}
	if record == nil {
		apt.RespondError(w, http.StatusNotFound, "Customer not found")
		return
	}

	if err := h.lifecycle.AttachCustomer(record); err != nil {
		h.respondDomainError(w, err, log)
		return
	}

	state, order := h.lifecycle.Snapshot()
	apt.Respond(w, http.StatusOK, OrderSnapshot{State: state, Order: order}, nil)
}

func (h *Handler) SkipLoyalty(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SkipLoyalty")
	defer finish()

	log := h.log(r)

	if err := h.lifecycle.SkipLoyalty(); err != nil {
		h.respondDomainError(w, err, log)
		return
	}

	state, order := h.lifecycle.Snapshot()
	apt.Respond(w, http.StatusOK, OrderSnapshot{State: state, Order: order}, nil)
}

// Payment handlers

type SelectPaymentRequest struct {
	Method string `json:"method"`
}

func (h *Handler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SelectPayment")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req SelectPaymentRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	switch req.Method {
	case PaymentCash:
		if err := h.lifecycle.SelectCash(); err != nil {
			h.respondDomainError(w, err, log)
			return
		}

	case PaymentCard:
		reference := apt.GenerateNewID().String()
		if err := h.lifecycle.SelectCard(reference); err != nil {
			h.respondDomainError(w, err, log)
			return
		}
		_, order := h.lifecycle.Snapshot()
		if err := h.capturer.RequestCapture(ctx, order.Totals.Total, reference); err != nil {
			h.lifecycle.AbortCardPayment()
			log.Error("cannot reach payment capture service", "error", err)
			apt.RespondError(w, http.StatusBadGateway, "Could not start card payment")
			return
		}
		log.Info("card capture pending", "reference", reference, "amount", order.Totals.Total)

	default:
		apt.RespondError(w, http.StatusBadRequest, "Please select a payment method")
		return
	}

	state, order := h.lifecycle.Snapshot()
	apt.Respond(w, http.StatusOK, OrderSnapshot{State: state, Order: order}, nil)
}

type CompletePaymentRequest struct {
	Result    string `json:"result"`
	Reference string `json:"reference"`
}

// CompletePayment accepts a typed capture completion delivered directly
// over HTTP, for terminals that call back instead of publishing. Same
// routing as the subscriber: success confirms, anything else returns the
// order to payment selection.
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CompletePayment")
	defer finish()

	log := h.log(r)

	var req CompletePaymentRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	var result PaymentResult
	switch req.Result {
	case string(PaymentSuccess):
		result = PaymentSuccess
	case string(PaymentFailure):
		result = PaymentFailure
	case string(PaymentCancelled):
		result = PaymentCancelled
	default:
		apt.RespondError(w, http.StatusBadRequest, "result must be success, failure or cancelled")
		return
	}

	if err := h.lifecycle.CompleteCardPayment(result, req.Reference); err != nil {
		h.respondDomainError(w, err, log)
		return
	}

	log.Info("card capture completed", "result", req.Result, "reference", req.Reference)
	state, order := h.lifecycle.Snapshot()
	apt.Respond(w, http.StatusOK, OrderSnapshot{State: state, Order: order}, nil)
}

func (h *Handler) SaveTicket(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SaveTicket")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	order, err := h.lifecycle.BeginFinalize()
	if err != nil {
		h.respondDomainError(w, err, log)
		return
	}

	ticket, err := h.finalizer.Finalize(ctx, order)
	if err != nil {
		// The machine still holds the confirmed order; the operator can
		// retry the save once the store recovers.
		h.lifecycle.AbortFinalize()
		log.Error("finalization failed", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not save order")
		return
	}

	h.lifecycle.Reset()

	log.Info("order saved", "ticket_id", ticket.ID)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, ticket)
}

// Cancel handlers

func (h *Handler) RequestCancel(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RequestCancel")
	defer finish()

	if err := h.lifecycle.RequestCancel(); err != nil {
		h.respondDomainError(w, err, h.log(r))
		return
	}
	apt.Respond(w, http.StatusOK, map[string]bool{"cancel_requested": true}, nil)
}

func (h *Handler) ConfirmCancel(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmCancel")
	defer finish()

	log := h.log(r)

	if err := h.lifecycle.ConfirmCancel(); err != nil {
		h.respondDomainError(w, err, log)
		return
	}

	log.Info("order cancelled by operator")
	state, order := h.lifecycle.Snapshot()
	apt.Respond(w, http.StatusOK, OrderSnapshot{State: state, Order: order}, nil)
}

func (h *Handler) DeclineCancel(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeclineCancel")
	defer finish()

	h.lifecycle.DeclineCancel()
	w.WriteHeader(http.StatusNoContent)
}

// Helpers

func (h *Handler) parseLineID(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "lineID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid line id", "line_id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid line id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, target interface{}, log apt.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, target); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}

	return true
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error, log apt.Logger) {
	switch {
	case IsValidation(err), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrEmptyOrder):
		apt.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnknownLineItem):
		apt.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrPaymentNotConfirmed), errors.Is(err, ErrCaptureMismatch):
		apt.RespondError(w, http.StatusConflict, err.Error())
	default:
		log.Error("unexpected domain error", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Unexpected error")
	}
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
