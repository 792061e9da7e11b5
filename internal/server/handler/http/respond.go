package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// MessageResponse is the body of informational and error responses.
type MessageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, MessageResponse{Message: msg})
}

// respondInternal logs err and answers with a generic 500.
func respondInternal(w http.ResponseWriter, r *http.Request, log *zap.Logger, msg string, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Error(msg, zap.Error(err), zap.String("uri", r.RequestURI))
	respondMessage(w, http.StatusInternalServerError, "internal error")
}
