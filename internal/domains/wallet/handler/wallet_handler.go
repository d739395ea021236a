package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"payhub-backend/internal/domains/wallet/service"
	"payhub-backend/internal/shared/response"
)

type WalletHandler struct {
	wallets service.WalletService
}

func NewWalletHandler(wallets service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// Get handles GET /api/v1/wallet
func (h *WalletHandler) Get(c *gin.Context) {
	userID, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		response.BadRequest(c, "missing or invalid X-User-ID header")
		return
	}

	wallet, err := h.wallets.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "wallet not found")
		return
	}

	response.Success(c, http.StatusOK, wallet)
}
