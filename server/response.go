package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"product_draft_studio/apperr"
)

// maxBodyBytes bounds request bodies, template imports included.
const maxBodyBytes = 8 << 20

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the machine-readable part of a failed response.
type ErrorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("encode response", "err", err)
	}
}

func success(w http.ResponseWriter, data any, logger *slog.Logger) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data}, logger)
}

func created(w http.ResponseWriter, data any, logger *slog.Logger) {
	writeJSON(w, http.StatusCreated, Envelope{Success: true, Data: data}, logger)
}

// fail maps err to its HTTP status. Internal errors are logged and their
// cause is not exposed.
func fail(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	body := &ErrorBody{Code: apperr.CodeOf(err), Message: err.Error()}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		body.Details = ae.Details
	}
	if body.Code == apperr.CodeInternal {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		body.Message = "internal error"
	}
	writeJSON(w, body.Code.HTTPStatus(), Envelope{Error: body}, logger)
}

// decode reads a JSON body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return ae
		}
		return apperr.Wrap(err, apperr.CodeValidation, "invalid JSON body")
	}
	return nil
}

// decodeOptional is decode but an empty body leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Wrap(err, apperr.CodeValidation, "invalid JSON body")
}
