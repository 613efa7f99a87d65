package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	financeapp "github.com/akrmotors/backoffice/internal/application/finance"
)

// FinanceHandler handles ledger, deposit, and reconciliation endpoints
type FinanceHandler struct {
	BaseHandler
	ledgerService         *financeapp.LedgerService
	reconciliationService *financeapp.ReconciliationService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(ledgerService *financeapp.LedgerService, reconciliationService *financeapp.ReconciliationService) *FinanceHandler {
	return &FinanceHandler{
		ledgerService:         ledgerService,
		reconciliationService: reconciliationService,
	}
}

// RegisterRoutes registers finance routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")
	{
		ledger.GET("/entries", h.ListEntries)
		ledger.POST("/entries", h.CreateEntry)
		ledger.DELETE("/entries/:id", h.DeleteEntry)
		ledger.GET("/deposits", h.ListDeposits)
		ledger.POST("/deposits", h.CreateDeposit)
	}

	reconciliation := rg.Group("/reconciliation")
	{
		reconciliation.GET("/arrears", h.PortfolioArrears)
		reconciliation.GET("/arrears/:id", h.CouponArrears)
		reconciliation.GET("/discrepancy", h.Discrepancy)
		reconciliation.POST("/match-deposits", h.MatchDeposits)
	}
}

// CreateEntry posts a ledger entry
func (h *FinanceHandler) CreateEntry(c *gin.Context) {
	var req financeapp.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.ledgerService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListEntries returns a paginated ledger listing
func (h *FinanceHandler) ListEntries(c *gin.Context) {
	var filter financeapp.LedgerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.ledgerService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// DeleteEntry removes a ledger entry
func (h *FinanceHandler) DeleteEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateDeposit records a bank statement line
func (h *FinanceHandler) CreateDeposit(c *gin.Context) {
	var req financeapp.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.ledgerService.CreateDeposit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListDeposits returns a paginated deposit listing
func (h *FinanceHandler) ListDeposits(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.ledgerService.ListDeposits(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// CouponArrears reconciles one coupon's schedule against its collections
func (h *FinanceHandler) CouponArrears(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	resp, err := h.reconciliationService.CouponArrears(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// PortfolioArrears reconciles every open coupon and lists the shortfalls
func (h *FinanceHandler) PortfolioArrears(c *gin.Context) {
	resp, err := h.reconciliationService.PortfolioArrears(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Discrepancy reports the gap between coupon totals and ledger collections
func (h *FinanceHandler) Discrepancy(c *gin.Context) {
	resp, err := h.reconciliationService.Discrepancy(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MatchDeposits pairs unmatched bank deposits with ledger collections
func (h *FinanceHandler) MatchDeposits(c *gin.Context) {
	resp, err := h.reconciliationService.MatchDeposits(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
