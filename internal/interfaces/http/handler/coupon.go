package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	allocationapp "github.com/akrmotors/backoffice/internal/application/allocation"
	financeapp "github.com/akrmotors/backoffice/internal/application/finance"
)

// CouponHandler handles allocation coupon API endpoints
type CouponHandler struct {
	BaseHandler
	couponService         *allocationapp.CouponService
	reconciliationService *financeapp.ReconciliationService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *allocationapp.CouponService, reconciliationService *financeapp.ReconciliationService) *CouponHandler {
	return &CouponHandler{
		couponService:         couponService,
		reconciliationService: reconciliationService,
	}
}

// portfolioStatsResponse joins the coupon book counters with the ledger view
type portfolioStatsResponse struct {
	TotalCoupons       int64           `json:"total_coupons"`
	PendingCoupons     int64           `json:"pending_coupons"`
	CompletedCoupons   int64           `json:"completed_coupons"`
	TotalOutstanding   decimal.Decimal `json:"total_outstanding"`
	TotalArrears       decimal.Decimal `json:"total_arrears"`
	CouponsWithArrears int             `json:"coupons_with_arrears"`
	TotalCollected     decimal.Decimal `json:"total_collected"`
	TotalAttributed    decimal.Decimal `json:"total_attributed"`
	Discrepancy        decimal.Decimal `json:"discrepancy"`
}

// RegisterRoutes registers coupon routes
func (h *CouponHandler) RegisterRoutes(rg *gin.RouterGroup) {
	coupons := rg.Group("/coupons")
	{
		coupons.GET("", h.List)
		coupons.GET("/stats", h.Stats)
		coupons.GET("/number/:number", h.GetByNumber)
		coupons.GET("/:id", h.Get)
		coupons.POST("", h.Create)
		coupons.PUT("/:id", h.Update)
		coupons.POST("/:id/payments", h.RecordPayment)
		coupons.DELETE("/:id", h.Delete)
	}
}

// Create records a new vehicle sale and opens its coupon
func (h *CouponHandler) Create(c *gin.Context) {
	var req allocationapp.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.couponService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a coupon with its installment schedule
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	resp, err := h.couponService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByNumber looks a coupon up by its business number
func (h *CouponHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Coupon number is required")
		return
	}

	resp, err := h.couponService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated coupon listing
func (h *CouponHandler) List(c *gin.Context) {
	var filter allocationapp.CouponListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.couponService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update amends coupon financial fields and refits the open schedule
func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	var req allocationapp.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.couponService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RecordPayment applies an installment payment to a coupon
func (h *CouponHandler) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	var req allocationapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.couponService.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a coupon and its schedule
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	if err := h.couponService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Stats returns portfolio counters for the dashboard
func (h *CouponHandler) Stats(c *gin.Context) {
	stats, err := h.couponService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	arrears, err := h.reconciliationService.PortfolioArrears(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	discrepancy, err := h.reconciliationService.Discrepancy(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, portfolioStatsResponse{
		TotalCoupons:       stats.Total,
		PendingCoupons:     stats.Pending,
		CompletedCoupons:   stats.Completed,
		TotalOutstanding:   stats.TotalOutstanding,
		TotalArrears:       arrears.TotalArrears,
		CouponsWithArrears: arrears.CouponsWithArrears,
		TotalCollected:     discrepancy.TotalCollected,
		TotalAttributed:    discrepancy.TotalAttributed,
		Discrepancy:        discrepancy.Discrepancy,
	})
}
