package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avvvet/timer-service/internal/timersvc/models"
	"github.com/avvvet/timer-service/internal/timersvc/service"
	"github.com/avvvet/timer-service/internal/timersvc/store"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	notFoundMessage    = "No timer found."
	unavailableMessage = "Database unavailable. Please try again later."
	validationError    = "Validation Failed"
)

// ErrorResponse is the body of every mapped error. Validation failures carry
// Messages instead of Message.
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message,omitempty"`
	Messages  map[string]string `json:"messages,omitempty"`
	Path      string            `json:"path"`
	TraceId   string            `json:"traceId"`
}

// WriteError maps err to a status code and writes the uniform error body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	rsp := ErrorResponse{
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
		TraceId:   newTraceId(),
	}

	entry := log.WithFields(log.Fields{
		"trace_id":   rsp.TraceId,
		"request_id": middleware.GetReqID(r.Context()),
		"path":       rsp.Path,
	})

	var verr *models.ValidationError
	switch {
	case errors.Is(err, service.ErrTimerNotFound):
		rsp.Status = http.StatusNotFound
		rsp.Message = notFoundMessage
		entry.Warnf("Resource not found: %s", err)

	case errors.As(err, &verr):
		rsp.Status = http.StatusBadRequest
		rsp.Error = validationError
		rsp.Messages = verr.Fields
		entry.Warnf("Validation error: %v", verr.Fields)

	case errors.Is(err, store.ErrUnavailable):
		rsp.Status = http.StatusServiceUnavailable
		rsp.Message = unavailableMessage
		entry.Errorf("Database error occurred: %v", err)

	default:
		rsp.Status = http.StatusInternalServerError
		rsp.Message = err.Error()
		entry.Errorf("Unexpected error occurred: %v", err)
	}

	if rsp.Error == "" {
		rsp.Error = http.StatusText(rsp.Status)
	}

	writeJSON(w, rsp.Status, rsp)
}

// decodeTimerInput reads the request body. Malformed JSON comes back as a
// validation error so the client gets a 400.
func decodeTimerInput(w http.ResponseWriter, r *http.Request) (models.TimerInput, error) {
	var in models.TimerInput

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&in); err != nil {
		return in, bodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return in, &models.ValidationError{Fields: map[string]string{
			"body": "request body must contain a single JSON object",
		}}
	}
	return in, nil
}

func bodyError(err error) error {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		sizeErr   *http.MaxBytesError
	)

	fields := map[string]string{}
	switch {
	case errors.As(err, &sizeErr):
		fields["body"] = "request body too large"
	case errors.Is(err, io.EOF):
		fields["body"] = "request body is required"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		fields["body"] = "malformed JSON request body"
	case errors.As(err, &typeErr) && typeErr.Field != "":
		fields[typeErr.Field] = fmt.Sprintf("must be a %s", typeErr.Type)
	default:
		// time.Time is the only unmarshaler in TimerInput; its errors are
		// returned without field context.
		fields["targetDate"] = "Target date/time must be an ISO-8601 timestamp"
	}
	return &models.ValidationError{Fields: fields}
}

func newTraceId() string {
	return uuid.NewString()[:8]
}

type fallbackResponse struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// NotFoundHandler answers every path no route matches.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, fallbackResponse{
		Error:   "Endpoint not found",
		Status:  http.StatusNotFound,
		Message: "The requested API path does not exist",
	})
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, fallbackResponse{
		Error:   "Method not allowed",
		Status:  http.StatusMethodNotAllowed,
		Message: fmt.Sprintf("%s is not supported on %s", r.Method, r.URL.Path),
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}
