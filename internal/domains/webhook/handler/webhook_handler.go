package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	gwmodel "payhub-backend/internal/domains/gateway/model"
	"payhub-backend/internal/domains/webhook/model"
	"payhub-backend/internal/domains/webhook/service"
	"payhub-backend/internal/shared/response"
)

// 1 MB is far above any gateway's webhook payload
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	reconciler service.ReconcilerService
}

func NewWebhookHandler(reconciler service.ReconcilerService) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// Receive handles POST /api/v1/webhooks/:gateway_code
//
// The body is read raw, BEFORE any JSON binding, because signature
// verification must see the exact bytes the gateway sent.
func (h *WebhookHandler) Receive(c *gin.Context) {
	gatewayCode := strings.ToUpper(c.Param("gateway_code"))

	valid := false
	for _, code := range gwmodel.ValidGateways {
		if code == gatewayCode {
			valid = true
			break
		}
	}
	if !valid {
		response.ErrorResponse(c, http.StatusBadRequest, gwmodel.ErrCodeInvalidGateway, "unknown gateway code")
		return
	}

	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(c, "failed to read request body")
		return
	}

	outcome, _ := h.reconciler.Handle(c.Request.Context(), gatewayCode, rawBody, c.Request.Header)

	// The outcome always decides the HTTP status. Rejections that should
	// not be retried by the gateway still answer 200.
	if outcome.Result == model.OutcomeRejected && outcome.HTTPStatus != http.StatusOK {
		response.ErrorResponse(c, outcome.HTTPStatus, outcome.Reason, "webhook rejected")
		return
	}

	response.Success(c, outcome.HTTPStatus, outcome)
}
