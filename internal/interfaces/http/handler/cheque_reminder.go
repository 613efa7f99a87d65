package handler

import (
	"github.com/gin-gonic/gin"

	allocationapp "github.com/akrmotors/backoffice/internal/application/allocation"
)

// ChequeReminderHandler handles cheque release reminder endpoints
type ChequeReminderHandler struct {
	BaseHandler
	reminderService *allocationapp.ChequeReminderService
}

// NewChequeReminderHandler creates a new ChequeReminderHandler
func NewChequeReminderHandler(reminderService *allocationapp.ChequeReminderService) *ChequeReminderHandler {
	return &ChequeReminderHandler{reminderService: reminderService}
}

// RegisterRoutes registers cheque reminder routes
func (h *ChequeReminderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cheques := rg.Group("/cheques")
	{
		cheques.GET("/due", h.ListDue)
		cheques.GET("/due/count", h.CountDue)
		cheques.GET("/released", h.ListReleased)
		cheques.POST("/:id/release", h.MarkReleased)
	}
}

// ListDue returns cheques whose release date has been reached
func (h *ChequeReminderHandler) ListDue(c *gin.Context) {
	reminders, err := h.reminderService.ListDue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reminders)
}

// ListReleased returns the release audit trail
func (h *ChequeReminderHandler) ListReleased(c *gin.Context) {
	released, err := h.reminderService.ListReleased(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, released)
}

// MarkReleased stamps a coupon's cheque as released
func (h *ChequeReminderHandler) MarkReleased(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	resp, err := h.reminderService.MarkReleased(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CountDue returns the badge counter for due reminders
func (h *ChequeReminderHandler) CountDue(c *gin.Context) {
	count, err := h.reminderService.CountDue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}
