package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// decodeJSONBody decodes a JSON request body into the provided pointer.
// Returns true if successful, false if decoding fails (error response is written automatically).
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// pageFromQuery reads ?page= and ?page_size= from the request query.
// Absent or malformed values fall back to the model defaults through
// NewPage clamping.
func pageFromQuery(r *http.Request) models.Page {
	number, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return models.NewPage(number, size)
}
