package ui

import (
	"encoding/json"
	"net/http"

	"earlyvote/internal/errors"
)

// statusFor maps an application error code onto an HTTP status
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeConfigInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal failures unless the server runs in debug mode.
// Client errors (unknown county, bad input) are always shown as-is.
func publicMessage(err error, debug bool) string {
	if debug || statusFor(err) < http.StatusInternalServerError {
		return err.Error()
	}
	return "Something went wrong while building this chart."
}

// writeJSON encodes v after the header is sent, so a failed encode can only
// be logged.
func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("Error writing JSON response: %v", err)
	}
}

func (a *App) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	}
	a.writeJSON(w, status, map[string]interface{}{
		"error": publicMessage(err, a.config.Debug),
		"code":  errors.GetCode(err),
	})
}
