package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/sproutcrm/sprout-sdk/pkg/composables"
	"github.com/sproutcrm/sprout-sdk/pkg/configuration"
	"github.com/sproutcrm/sprout-sdk/pkg/httpapi"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

// ProvideDB injects the connection pool into every request context.
func ProvideDB(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// ProvideParams attaches request metadata and a request-scoped logger.
func ProvideParams(logger *logrus.Logger) mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(conf.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := composables.WithParams(r.Context(), &composables.Params{
				IP:        r.RemoteAddr,
				UserAgent: r.UserAgent(),
				RequestID: requestID,
				Request:   r,
				Writer:    w,
			})
			entry := logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"path":       r.URL.Path,
				"method":     r.Method,
			})
			ctx = composables.WithLogger(ctx, entry)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProvideTenant resolves the tenant identity established by the fronting
// identity provider and injects it into the context. Resolution failures are
// not rejected here; every service operation re-checks via UseTenantID so
// unauthenticated calls fail before touching storage.
func ProvideTenant() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(conf.TenantIDHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil || tenantID == uuid.Nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := composables.WithTenantID(r.Context(), tenantID)
			if params, ok := composables.UseParams(ctx); ok {
				params.Authenticated = true
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant rejects requests with no resolved tenant before any handler
// or store code runs.
func RequireTenant() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := composables.UseTenantID(r.Context()); err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, serrors.CodeUnauthenticated, "no authenticated tenant")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
