package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ToolForge_Go/internal/logger"
)

// ValidationErrorResponse lists each invalid field by its JSON path
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeRequest reads exactly one JSON object into T and validates it.
// When ok is false the error response has been written and the handler should return.
func decodeRequest[T any](w http.ResponseWriter, r *http.Request, action string) (req T, ok bool) {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&req)
	if err == nil && dec.Decode(&struct{}{}) != io.EOF {
		err = errTrailingData
	}
	if err != nil {
		log.Warn(LogMsgDecodeFailed, "action", action, "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, ErrMsgRequestTooLarge)
		} else {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		}
		return req, false
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Warn(LogMsgRequestInvalid, "action", action, "error", err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return req, false
	}

	log.Debug(LogMsgRequestDecoded, "action", action)
	return req, true
}

// pathParam returns a required chi URL parameter, answering 400 when it is empty
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := chi.URLParam(r, name)
	if v == "" {
		logger.FromContext(r.Context()).Warn(LogMsgRequestInvalid, "missing_param", name)
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingPathParam, name))
		return "", false
	}
	return v, true
}
