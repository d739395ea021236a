package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	schemamodel "payhub-backend/internal/domains/schema/model"
	"payhub-backend/internal/domains/transaction/model"
	"payhub-backend/internal/domains/transaction/service"
	"payhub-backend/internal/shared/response"
)

type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create handles POST /api/v1/payments
//
// The user identity comes from the X-User-ID header; the auth gateway
// in front of this service sets it after authenticating the caller.
func (h *PaymentHandler) Create(c *gin.Context) {
	userID, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		response.BadRequest(c, "missing or invalid X-User-ID header")
		return
	}

	var req model.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.payments.CreatePayment(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// Get handles GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid transaction id")
		return
	}

	txn, err := h.payments.GetTransaction(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrTransactionNotFound) {
			response.NotFound(c, "transaction not found")
			return
		}
		response.InternalServerError(c, "failed to load transaction")
		return
	}

	response.Success(c, http.StatusOK, txn)
}

func (h *PaymentHandler) writeError(c *gin.Context, err error) {
	var txnErr *model.TransactionError
	if errors.As(err, &txnErr) {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, schemamodel.ErrNoRateCardConfigured):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, model.ErrDuplicateReference):
			status = http.StatusConflict
		}
		response.ErrorResponse(c, status, txnErr.Code, txnErr.Message)
		return
	}

	response.InternalServerError(c, "failed to create payment")
}
