package handler

import (
	"encoding/json"
	"net/http"

	"github.com/expenso-dev/expenso/internal/config"
	"github.com/expenso-dev/expenso/internal/logger"
	"github.com/expenso-dev/expenso/internal/service"
)

type Handler struct {
	auth          service.AuthService
	reimbursement service.ReimbursementService
	cfg           *config.Config
}

func New(auth service.AuthService, reimbursement service.ReimbursementService, cfg *config.Config) *Handler {
	return &Handler{auth, reimbursement, cfg}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

type messageResponse struct {
	Message string `json:"message"`
}
