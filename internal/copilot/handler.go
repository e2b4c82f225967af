package copilot

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nick-Maximillien/autobooks-ai/internal/ledger"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/server/middleware"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/server/respond"
)

// Handler exposes the copilot over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs the copilot handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the copilot route. Auth middleware must run first.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/copilot", h.Ask)
}

type askRequest struct {
	Message string `json:"message"`
}

type askResponse struct {
	Reply string `json:"reply"`
}

// Ask relays the user's question, grounded on their reports, to the model.
func (h *Handler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Missing message")
		return
	}

	identity := middleware.IdentityFromContext(c)
	token := middleware.TokenFromContext(c)

	reply, err := h.service.Answer(c.Request.Context(), identity, token, req.Message)
	if err != nil {
		// Answer only fails on report fetches; the model path degrades.
		status := http.StatusBadGateway
		if !errors.Is(err, ledger.ErrUpstream) {
			status = http.StatusInternalServerError
		}
		respond.Error(c, status, "upstream_failed", err.Error())
		return
	}

	respond.OK(c, askResponse{Reply: reply})
}
