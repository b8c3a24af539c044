package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/ToolForge_Go/internal/domain"
)

// Standard response types for consistent API responses

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// bufferPool reuses encode buffers across responses
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode before writing headers so an encode failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError    = "Something went wrong"
	ErrMsgToolNotFoundError     = "Tool not found"
	ErrMsgUnknownToolTypeError  = "Unknown tool type"
	ErrMsgUnknownMaterialError  = "Unknown material"
	ErrMsgUnknownMaterialHint   = "Unknown material '%s'. Did you mean '%s'?"
	ErrMsgInvalidCompositionErr = "Materials do not fit the tool's part slots"
	ErrMsgUnknownModifierError  = "Unknown modifier"
	ErrMsgNoFreeModifiersError  = "Tool has no free modifier slots"
	ErrMsgModifierMaxLevelError = "Modifier is already at its maximum level"
	ErrMsgNoBaseDataError       = "Stored tool has no base data"
	ErrMsgMalformedStateError   = "Stored tool state is malformed"
	ErrMsgConflictError         = "Tool was changed concurrently. Please retry."
	ErrMsgInvalidInputError     = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// messages users can act on. Unknown errors become a generic 500.
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	case errors.Is(err, domain.ErrToolNotFound):
		return http.StatusNotFound, ErrMsgToolNotFoundError
	case errors.Is(err, domain.ErrUnknownToolType):
		return http.StatusBadRequest, ErrMsgUnknownToolTypeError
	case errors.Is(err, domain.ErrUnknownModifier):
		return http.StatusBadRequest, ErrMsgUnknownModifierError
	case errors.Is(err, domain.ErrNoFreeModifiers):
		return http.StatusConflict, ErrMsgNoFreeModifiersError
	case errors.Is(err, domain.ErrModifierMaxLevel):
		return http.StatusConflict, ErrMsgModifierMaxLevelError
	case errors.Is(err, domain.ErrRevisionConflict):
		return http.StatusConflict, ErrMsgConflictError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// mapBuildError treats material and composition problems as bad requests.
// The same errors on load mean the stored state no longer fits the registry.
func mapBuildError(err error) (int, string) {
	var unknown *domain.UnknownMaterialError
	if errors.As(err, &unknown) && unknown.Suggestion != "" {
		return http.StatusBadRequest, fmt.Sprintf(ErrMsgUnknownMaterialHint, unknown.ID, unknown.Suggestion)
	}
	switch {
	case errors.Is(err, domain.ErrUnknownMaterial):
		return http.StatusBadRequest, ErrMsgUnknownMaterialError
	case errors.Is(err, domain.ErrInvalidComposition):
		return http.StatusBadRequest, ErrMsgInvalidCompositionErr
	}
	return mapServiceErrorToUserMessage(err)
}

// mapStoredToolError maps failures of operations on an existing tool
func mapStoredToolError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNoBaseData):
		return http.StatusUnprocessableEntity, ErrMsgNoBaseDataError
	case errors.Is(err, domain.ErrMalformedState),
		errors.Is(err, domain.ErrUnknownMaterial),
		errors.Is(err, domain.ErrInvalidComposition):
		return http.StatusUnprocessableEntity, ErrMsgMalformedStateError
	}
	return mapServiceErrorToUserMessage(err)
}
