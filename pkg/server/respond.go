package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"veredito-hq/veredito/pkg/policy"
	"veredito-hq/veredito/pkg/process"
	"veredito-hq/veredito/pkg/verify"
)

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, errorResponse{
		Error: errorDetail{Type: errType, Message: message},
	})
}

// writeVerifyError maps a verification error onto an HTTP status.
//
// Invalid records are the caller's fault (422). Classifier outages are
// 503 with a Retry-After hint when the provider supplied one. Auth
// failures surface as 502 since the client cannot fix the server's
// credentials. Malformed classifier responses are also 502.
func writeVerifyError(w http.ResponseWriter, err error) {
	var invalidErr *process.InvalidRecordError
	var unavailableErr *verify.UnavailableError
	var authErr *verify.AuthFailedError
	var responseErr *verify.ResponseInvalidError
	var batchErr *verify.BatchTooLargeError
	var notFoundErr *policy.NotFoundError

	switch {
	case errors.As(err, &invalidErr):
		writeError(w, http.StatusUnprocessableEntity, "invalid_record", err.Error())
	case errors.As(err, &batchErr):
		writeError(w, http.StatusRequestEntityTooLarge, "batch_too_large", err.Error())
	case errors.As(err, &unavailableErr):
		if unavailableErr.RetryAfter > 0 {
			seconds := int(unavailableErr.RetryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
		}
		writeError(w, http.StatusServiceUnavailable, "classifier_unavailable", err.Error())
	case errors.As(err, &authErr):
		writeError(w, http.StatusBadGateway, "classifier_auth_failed", err.Error())
	case errors.As(err, &responseErr):
		writeError(w, http.StatusBadGateway, "classifier_response_invalid", err.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, "policy_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
