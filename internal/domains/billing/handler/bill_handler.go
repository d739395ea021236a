package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"payhub-backend/internal/domains/billing/model"
	"payhub-backend/internal/domains/billing/service"
	"payhub-backend/internal/shared/response"
)

type BillHandler struct {
	bills service.BillService
}

func NewBillHandler(bills service.BillService) *BillHandler {
	return &BillHandler{bills: bills}
}

type fetchBillResponse struct {
	Bill   *model.Bill `json:"bill"`
	Cached bool        `json:"cached"`
}

// Fetch handles GET /api/v1/bills/fetch?category=...&subscriber_key=...&force_refresh=true
func (h *BillHandler) Fetch(c *gin.Context) {
	category := c.Query("category")
	subscriberKey := c.Query("subscriber_key")
	forceRefresh := c.Query("force_refresh") == "true"

	bill, cached, err := h.bills.Fetch(c.Request.Context(), category, subscriberKey, forceRefresh)
	if err != nil {
		if errors.Is(err, model.ErrInvalidBillQuery) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ErrorResponse(c, http.StatusBadGateway, "BILL_PROVIDER_ERROR", "failed to fetch bill from provider")
		return
	}

	response.Success(c, http.StatusOK, fetchBillResponse{Bill: bill, Cached: cached})
}
