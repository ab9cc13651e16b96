// Package handlers provides HTTP handlers for the DittoDrive API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
)

// Problem is an RFC 7807 "problem details" body. Every error the API
// returns uses this shape.
type Problem struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// ContentTypeProblemJSON is the media type for Problem bodies.
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes a Problem with the "about:blank" type.
func WriteProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", ContentTypeProblemJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&Problem{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// WriteFault maps a domain fault to its RFC 7807 problem response.
//
// Fault codes translate one-to-one onto HTTP statuses. Internal faults carry
// a generic detail; the specifics stay in the server logs.
func WriteFault(w http.ResponseWriter, err error) {
	code := fault.CodeOf(err)
	status, title := statusOf(code)

	detail := err.Error()
	if code == fault.CodeInternal {
		detail = "internal error"
	}

	WriteProblem(w, status, title, detail)
}

// statusOf maps a fault code to an HTTP status and title.
func statusOf(code fault.Code) (int, string) {
	switch code {
	case fault.CodeInvalidInput:
		return http.StatusBadRequest, "Bad Request"
	case fault.CodeUnauthorized:
		return http.StatusUnauthorized, "Unauthorized"
	case fault.CodeForbidden:
		return http.StatusForbidden, "Forbidden"
	case fault.CodeNotFound:
		return http.StatusNotFound, "Not Found"
	case fault.CodeConflict:
		return http.StatusConflict, "Conflict"
	case fault.CodeTimeout:
		return http.StatusGatewayTimeout, "Gateway Timeout"
	case fault.CodeUnavailable:
		return http.StatusServiceUnavailable, "Service Unavailable"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// Shorthands for the statuses handlers raise directly, outside the fault
// mapping.

func BadRequest(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusBadRequest, "Bad Request", detail)
}

func Unauthorized(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusUnauthorized, "Unauthorized", detail)
}

func Forbidden(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusForbidden, "Forbidden", detail)
}

func NotFound(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusNotFound, "Not Found", detail)
}

func Conflict(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusConflict, "Conflict", detail)
}

func InternalServerError(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", detail)
}

// WriteJSON writes data as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteJSONOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func WriteJSONCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
