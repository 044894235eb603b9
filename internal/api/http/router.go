package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bike-rental-marketplace/internal/security"
	"bike-rental-marketplace/internal/service"
)

// NewRouter builds the JSON API. Route names key into
// config.RouteSecurityConfig.
func NewRouter(svc service.MarketplaceService, tokens security.TokenManager) *mux.Router {
	h := &handler{svc: svc, tokens: tokens}

	router := mux.NewRouter()
	router.Use(loggingMiddleware, authMiddleware(tokens))

	router.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet).Name("healthz")
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("metrics")

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/customers", h.registerCustomer).Methods(http.MethodPost).Name("register-customer")
	v1.HandleFunc("/bike-types", h.listBikeTypes).Methods(http.MethodGet).Name("list-bike-types")
	v1.HandleFunc("/providers", h.listProviders).Methods(http.MethodGet).Name("list-providers")
	v1.HandleFunc("/quotes/search", h.searchQuotes).Methods(http.MethodPost).Name("search-quotes")
	v1.HandleFunc("/bookings", h.createBooking).Methods(http.MethodPost).Name("create-booking")
	v1.HandleFunc("/bookings", h.listBookings).Methods(http.MethodGet).Name("list-bookings")
	v1.HandleFunc("/providers/{providerID}/returns", h.returnOrder).Methods(http.MethodPost).Name("return-order")

	return router
}
