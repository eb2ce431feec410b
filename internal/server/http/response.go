package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todophotos/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps the common error taxonomy onto status codes. Client
// errors carry their own message; anything else is logged and answered
// with serverMsg so internals never reach the response.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, serverMsg string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		loggerFrom(r.Context(), h.logger).Error(r.Context(), serverMsg, "error", err)
		writeMessage(w, http.StatusInternalServerError, serverMsg)
	}
}
