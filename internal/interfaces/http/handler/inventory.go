package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/akrmotors/backoffice/internal/application/inventory"
)

// InventoryHandler handles vehicle catalog and per-unit stock endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vehicles := rg.Group("/vehicles")
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.POST("", h.CreateVehicle)
		vehicles.POST("/:id/stock", h.AddStock)
	}

	units := rg.Group("/units")
	{
		units.GET("", h.ListUnits)
		units.GET("/:id", h.GetUnit)
		units.POST("", h.RegisterUnit)
		units.PUT("/:id", h.UpdateUnit)
		units.DELETE("/:id", h.DeleteUnit)
	}

	rg.POST("/models/:model/resync", h.ResyncModel)
}

// CreateVehicle adds a model to the catalog
func (h *InventoryHandler) CreateVehicle(c *gin.Context) {
	var req inventoryapp.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.inventoryService.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetVehicle returns one catalog model
func (h *InventoryHandler) GetVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid vehicle ID")
		return
	}

	resp, err := h.inventoryService.GetVehicle(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListVehicles returns a paginated catalog listing
func (h *InventoryHandler) ListVehicles(c *gin.Context) {
	var filter inventoryapp.VehicleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.inventoryService.ListVehicles(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// AddStock receives purchased quantity into a catalog model
func (h *InventoryHandler) AddStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid vehicle ID")
		return
	}

	var req inventoryapp.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.inventoryService.AddStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterUnit records a physical unit with its serial numbers
func (h *InventoryHandler) RegisterUnit(c *gin.Context) {
	var req inventoryapp.RegisterUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.inventoryService.RegisterUnit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListUnits returns the units of one model, or all units when no model given
func (h *InventoryHandler) ListUnits(c *gin.Context) {
	modelName := c.Query("model_name")

	units, err := h.inventoryService.ListUnits(c.Request.Context(), modelName)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, units)
}

// GetUnit returns one physical unit
func (h *InventoryHandler) GetUnit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	resp, err := h.inventoryService.GetUnit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateUnit corrects a unit's serials or color
func (h *InventoryHandler) UpdateUnit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	var req inventoryapp.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.inventoryService.UpdateUnit(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteUnit removes an unsold unit from the register
func (h *InventoryHandler) DeleteUnit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	if err := h.inventoryService.DeleteUnit(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ResyncModel recounts available units and corrects the catalog quantity
func (h *InventoryHandler) ResyncModel(c *gin.Context) {
	modelName := c.Param("model")
	if modelName == "" {
		h.BadRequest(c, "Model name is required")
		return
	}

	resp, err := h.inventoryService.ResyncModel(c.Request.Context(), modelName)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
