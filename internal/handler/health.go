package handler

import (
	"net/http"

	"github.com/msomdec/discount-pro/internal/service"
)

// HandleHealthz responds with 200 OK and the number of client sessions in memory.
func HandleHealthz(sessions *service.SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"clients": sessions.Len(),
		})
	}
}
