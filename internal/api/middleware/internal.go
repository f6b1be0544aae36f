package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/nordvik/sagapay/internal/api/shared"
	"github.com/nordvik/sagapay/internal/service/registration"
)

// InternalAuth guards the service-to-service profile and credential routes
// with a shared secret carried in the X-Internal-Secret header.
func InternalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(registration.InternalSecretHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid internal secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
