package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) Problem {
	t.Helper()
	var p Problem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	return p
}

func TestWriteProblem(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteProblem(rec, http.StatusConflict, "Conflict", "path already occupied")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	p := decodeProblem(t, rec)
	assert.Equal(t, "about:blank", p.Type)
	assert.Equal(t, "Conflict", p.Title)
	assert.Equal(t, http.StatusConflict, p.Status)
	assert.Equal(t, "path already occupied", p.Detail)
}

func TestWriteFault_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
	}{
		{"invalid input", fault.InvalidInput("bad name"), http.StatusBadRequest, "Bad Request"},
		{"unauthorized", fault.Unauthorized("no principal"), http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", fault.Forbidden("viewer cannot edit"), http.StatusForbidden, "Forbidden"},
		{"not found", fault.NotFound("node", "n01"), http.StatusNotFound, "Not Found"},
		{"conflict", fault.Conflict("path occupied", "docs/a.txt"), http.StatusConflict, "Conflict"},
		{"timeout", fault.Timeout("put_object"), http.StatusGatewayTimeout, "Gateway Timeout"},
		{"unavailable", fault.Unavailable("store down"), http.StatusServiceUnavailable, "Service Unavailable"},
		{"internal", fault.Internal("broken row", "n01"), http.StatusInternalServerError, "Internal Server Error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			WriteFault(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, tt.wantTitle, p.Title)
			assert.Equal(t, tt.wantStatus, p.Status)
		})
	}
}

func TestWriteFault_HidesInternalDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteFault(rec, fault.Internal("corrupt backing key for row n01", "n01"))

	p := decodeProblem(t, rec)
	assert.Equal(t, "internal error", p.Detail)
	assert.NotContains(t, p.Detail, "n01")
}

func TestWriteFault_KeepsClientFacingDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteFault(rec, fault.InvalidInput("name must not contain '/'"))

	p := decodeProblem(t, rec)
	assert.Contains(t, p.Detail, "name must not contain")
}

func TestWriteJSONHelpers(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSONCreated(rec, map[string]string{"id": "n01"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	WriteNoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
