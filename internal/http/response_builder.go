package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"findash/internal/core"
	flog "findash/internal/log"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response. A nil body writes no content.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields []core.FieldError `json:"fields,omitempty"`
}

// ErrorResponse creates a JSON error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	ErrorResponse(statusCode, message).Write(w)
}

// statusFor maps ledger errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateAccount), errors.Is(err, core.ErrAmbiguousAccount):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes the matching JSON error. Internal errors
// are reported without their details.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}

	var verr *core.ValidationError
	if errors.As(err, &verr) {
		body.Error = core.ErrValidation.Error()
		body.Fields = verr.Fields
	}

	logger := flog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.LogOperationError(r.Context(), "Request failed", err, op, flog.ErrorTypeInternal, nil)
		body.Error = "internal error, please retry"
	} else {
		logger.DebugContext(r.Context(), "Request rejected",
			flog.NewFields().WithOperation(op).WithError(err).With(flog.FieldErrorType, errorTypeFor(status)).ToSlice()...)
	}

	NewJSONResponse().Status(status).Body(body).Write(w)
}

func errorTypeFor(status int) string {
	switch status {
	case http.StatusUnprocessableEntity:
		return flog.ErrorTypeValidation
	case http.StatusNotFound:
		return flog.ErrorTypeNotFound
	case http.StatusConflict:
		return flog.ErrorTypeConflict
	}
	return flog.ErrorTypeInternal
}
