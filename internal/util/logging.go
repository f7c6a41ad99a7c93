package util

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"net/http"
	"strings"
)

// LogError : logs and wraps; taxonomy errors stay matchable with errors.Is
func LogError(message string, err error) error {
	if IsDomainError(err) {
		logging.Debug(message, zap.Error(err))
	} else {
		logging.Error(message, zap.Error(err))
	}
	return fmt.Errorf("%s: %w", message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

var statusByError = []struct {
	err    error
	status int
}{
	{model.ErrNotFound, http.StatusNotFound},
	{model.ErrPermissionDenied, http.StatusForbidden},
	{model.ErrQuotaExceeded, http.StatusInsufficientStorage},
	{model.ErrNameConflict, http.StatusConflict},
	{model.ErrCyclicMove, http.StatusConflict},
	{model.ErrVersionNotFound, http.StatusNotFound},
	{model.ErrShareExpired, http.StatusGone},
	{model.ErrShareRevoked, http.StatusGone},
	{model.ErrValidation, http.StatusBadRequest},
	{model.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

// StatusFor : HTTP status for an error coming out of a service
func StatusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

func IsDomainError(err error) bool {
	return StatusFor(err) != http.StatusInternalServerError
}

// WriteServiceError : internal failures are reported without their details
func WriteServiceError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		HandleError(w, "internal error", status)
		return
	}

	message := "internal error"
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			message = m.err.Error()
			if m.err == model.ErrValidation || m.err == model.ErrNameConflict {
				message = domainMessage(err, m.err)
			}
			break
		}
	}
	HandleError(w, message, status)
}

// domainMessage : the innermost "<sentinel>: detail" text of err's chain,
// without the call-site prefixes added on the way up
func domainMessage(err, sentinel error) string {
	innermost := err
	for e := err; e != nil && e != sentinel; e = errors.Unwrap(e) {
		innermost = e
	}

	text := innermost.Error()
	if i := strings.Index(text, sentinel.Error()); i >= 0 {
		return text[i:]
	}
	return sentinel.Error()
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn("[util] encode response", zap.Error(err))
	}
}
