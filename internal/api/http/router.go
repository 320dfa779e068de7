package http

import "github.com/gorilla/mux"

// NewRouter wires the engine's operations onto the HTTP surface.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/orders/{orderID}/deliver-status", h.TransitionDeliverStatus).Methods("PUT")

	r.HandleFunc("/customers", h.ListCustomers).Methods("GET")
	r.HandleFunc("/customers/{customerID}/payments", h.AllocatePayment).Methods("POST")
	r.HandleFunc("/customers/{customerID}/payments", h.ListPayments).Methods("GET")
	r.HandleFunc("/customers/{customerID}/recalc", h.RecalcCustomer).Methods("POST")
	r.HandleFunc("/customers/{customerID}/ledgers/sync", h.SyncManualLedgers).Methods("POST")
	r.HandleFunc("/customers/{customerID}/ledgers/{kind}", h.AddManualEntry).Methods("POST")

	return r
}
