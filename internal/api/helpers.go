package api

import (
	"net/http"

	"github.com/nordvik/sagapay/internal/api/shared"
)

// Thin aliases so handlers in this package stay terse.
var (
	RespondWithJSON  = shared.RespondWithJSON
	RespondWithError = shared.RespondWithError
	DecodeJSON       = shared.DecodeJSON
	ValidateRequest  = shared.ValidateRequest
)

// HandleAPIError maps an internal error to its HTTP status and sanitized
// message, logs the underlying cause, and writes the response.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
