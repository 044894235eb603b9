package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/security"
	"bike-rental-marketplace/internal/service"
)

type handler struct {
	svc    service.MarketplaceService
	tokens security.TokenManager
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	customer, err := h.svc.RegisterCustomer(r.Context(), req.FirstName, req.Surname, req.Email, req.Postcode, req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := h.tokens.GenerateAccessToken(customer.ID, customer.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Customer registered", "customer_id", customer.ID)
	writeJSON(w, http.StatusCreated, registerCustomerResponse{
		Customer:    mapCustomer(customer),
		AccessToken: token,
	})
}

func (h *handler) listBikeTypes(w http.ResponseWriter, r *http.Request) {
	types := h.svc.ListBikeTypes(r.Context())
	out := make([]*domain.BikeType, 0, len(types))
	out = append(out, types...)
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) listProviders(w http.ResponseWriter, r *http.Request) {
	providers := h.svc.ListProviders(r.Context())
	out := make([]providerDTO, 0, len(providers))
	for _, p := range providers {
		out = append(out, mapProvider(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) searchQuotes(w http.ResponseWriter, r *http.Request) {
	customerID, err := CustomerIDFromContext(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var req searchQuotesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	dates, err := domain.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	postcode := req.Postcode
	if postcode == "" {
		customer, err := h.svc.GetCustomer(r.Context(), customerID)
		if err != nil {
			writeError(w, err)
			return
		}
		postcode = customer.Address.Postcode
	}

	quotes, err := h.svc.SearchQuotes(r.Context(), postcode, req.Bikes, dates)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]quoteDTO, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, mapQuote(q))
	}
	writeJSON(w, http.StatusOK, map[string][]quoteDTO{"quotes": out})
}

func (h *handler) createBooking(w http.ResponseWriter, r *http.Request) {
	customerID, err := CustomerIDFromContext(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.QuoteID == "" {
		writeError(w, domain.ValidationError{Field: "quote_id", Msg: "quote id is required"})
		return
	}

	booking, err := h.svc.Book(r.Context(), customerID, req.QuoteID, req.PartnerID, req.Collect)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapBooking(booking))
}

func (h *handler) listBookings(w http.ResponseWriter, r *http.Request) {
	customerID, err := CustomerIDFromContext(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, err.Error())
		return
	}
	bookings, err := h.svc.ListBookings(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, mapBooking(b))
	}
	writeJSON(w, http.StatusOK, out)
}

// returnOrder always answers 200 once the provider and customer resolve;
// the outcome field tells the caller what happened to the booking.
func (h *handler) returnOrder(w http.ResponseWriter, r *http.Request) {
	customerID, err := CustomerIDFromContext(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var req returnOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	providerID := mux.Vars(r)["providerID"]
	outcome, err := h.svc.ReturnOrder(r.Context(), providerID, customerID, req.BookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returnOrderResponse{BookingID: req.BookingID, Outcome: string(outcome)})
}
