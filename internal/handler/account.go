package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tripbook/internal/middleware"
	"tripbook/internal/service"
)

// AccountHandler handles HTTP requests for the caller's own account.
type AccountHandler struct {
	ledgerService *service.LedgerService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledgerService *service.LedgerService) *AccountHandler {
	return &AccountHandler{ledgerService: ledgerService}
}

// GetMe handles GET /v1/accounts/me
func (h *AccountHandler) GetMe(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	account, err := h.ledgerService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		Username:  account.Username,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Balance:   account.Balance.StringFixed(2),
	})
}

// TopUpRequest is the HTTP request body for a balance top-up.
type TopUpRequest struct {
	Amount string `json:"amount"`
}

// TopUp handles POST /v1/accounts/me/topup
func (h *AccountHandler) TopUp(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
		return
	}

	if err := h.ledgerService.Credit(c.Request.Context(), accountID, amount); err != nil {
		respondError(c, err)
		return
	}

	account, err := h.ledgerService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": account.Balance.StringFixed(2)})
}
