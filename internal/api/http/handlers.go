// Package http is the thin request-layer shell over the financial engine.
// It validates payloads, maps engine errors onto status codes, and carries no
// business logic of its own.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/logger"
	"wholesale-market-backend/internal/money"
	"wholesale-market-backend/internal/service"
)

type Handler struct {
	lifecycle service.OrderLifecycleService
	payments  service.PaymentService
	customers service.CustomerService
	validate  *validator.Validate
}

func NewHandler(lifecycle service.OrderLifecycleService, payments service.PaymentService, customers service.CustomerService) *Handler {
	return &Handler{
		lifecycle: lifecycle,
		payments:  payments,
		customers: customers,
		validate:  validator.New(),
	}
}

type transitionRequest struct {
	CustomerID    int32 `json:"customer_id" validate:"required,gt=0"`
	DeliverStatus int32 `json:"deliver_status" validate:"gte=0"`
}

type allocateRequest struct {
	Amount         string `json:"amount" validate:"required"`
	Through        string `json:"through" validate:"required"`
	AdditionalInfo string `json:"additional_info"`
}

type manualEntryRequest struct {
	Amount    string `json:"amount" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
	CreatedBy string `json:"created_by" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) TransitionDeliverStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}

	var req transitionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.lifecycle.TransitionDeliverStatus(r.Context(), orderID, req.CustomerID, domain.DeliverStatus(req.DeliverStatus))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (h *Handler) AllocatePayment(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerID")
	if !ok {
		return
	}

	var req allocateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	amount, err := money.FromString(req.Amount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	customers, err := h.payments.AllocatePayment(r.Context(), customerID, amount, req.Through, req.AdditionalInfo)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerID")
	if !ok {
		return
	}

	payments, err := h.payments.ListPayments(r.Context(), customerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (h *Handler) RecalcCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerID")
	if !ok {
		return
	}

	totals, err := h.customers.RecalcCustomer(r.Context(), customerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (h *Handler) SyncManualLedgers(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerID")
	if !ok {
		return
	}

	totals, err := h.customers.SyncManualLedgers(r.Context(), customerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (h *Handler) AddManualEntry(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerID")
	if !ok {
		return
	}
	kind := domain.LedgerKind(mux.Vars(r)["kind"])
	if !kind.Valid() {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown ledger kind"})
		return
	}

	var req manualEntryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	amount, err := money.FromString(req.Amount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	entry := &domain.ManualLedgerEntry{
		CustomerID: customerID,
		Amount:     amount,
		Reason:     req.Reason,
		CreatedBy:  req.CreatedBy,
	}
	totals, err := h.customers.AddManualEntry(r.Context(), kind, entry)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return int32(id), true
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrValidation):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSchemaUnavailable):
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrTxFailure):
		// Rolled back atomically; the caller may resubmit.
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		logger.Error("Unhandled request error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
