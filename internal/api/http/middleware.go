package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"bike-rental-marketplace/internal/config"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/security"
)

// authMiddleware checks the bearer token on every route whose security
// level requires one and puts the customer ID into the request context.
func authMiddleware(tm security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := ""
			if route := mux.CurrentRoute(r); route != nil {
				name = route.GetName()
			}
			if config.GetSecurityLevel(name) == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "authorization token is not provided")
				return
			}
			claims, err := tm.ValidateToken(token)
			if err != nil {
				logger.Debug("Rejected token", "route", name, "error", err)
				writeJSONError(w, http.StatusUnauthorized, "invalid token: "+err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(withCustomerID(r.Context(), claims.CustomerID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// loggingMiddleware logs each request at debug level.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
