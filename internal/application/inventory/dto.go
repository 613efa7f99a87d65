package inventory

import (
	"time"

	"github.com/akrmotors/backoffice/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateVehicleRequest registers a catalog model
type CreateVehicleRequest struct {
	ModelName   string          `json:"model_name" binding:"required,min=1,max=200"`
	Brand       string          `json:"brand" binding:"max=100"`
	Description string          `json:"description" binding:"max=1000"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// AddStockRequest takes received units into stock
type AddStockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// RegisterUnitRequest registers one physical unit against a model
type RegisterUnitRequest struct {
	ModelName     string `json:"model_name" binding:"required,min=1,max=200"`
	EngineNumber  string `json:"engine_number" binding:"max=100"`
	ChassisNumber string `json:"chassis_number" binding:"max=100"`
	Color         string `json:"color" binding:"max=50"`
}

// UpdateUnitRequest corrects a unit's serials or color
type UpdateUnitRequest struct {
	EngineNumber  string `json:"engine_number" binding:"max=100"`
	ChassisNumber string `json:"chassis_number" binding:"max=100"`
	Color         string `json:"color" binding:"max=50"`
}

// VehicleListFilter carries list query parameters
type VehicleListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// VehicleResponse represents a catalog model in API responses
type VehicleResponse struct {
	ID               uuid.UUID       `json:"id"`
	ModelName        string          `json:"model_name"`
	Brand            string          `json:"brand"`
	Description      string          `json:"description"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReceivedQuantity int             `json:"received_quantity"`
	SoldQuantity     int             `json:"sold_quantity"`
	StockQuantity    int             `json:"stock_quantity"`
	InStock          bool            `json:"in_stock"`
	Version          int             `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// UnitResponse represents a physical unit in API responses
type UnitResponse struct {
	ID            uuid.UUID  `json:"id"`
	VehicleID     uuid.UUID  `json:"vehicle_id"`
	ModelName     string     `json:"model_name"`
	EngineNumber  string     `json:"engine_number"`
	ChassisNumber string     `json:"chassis_number"`
	Color         string     `json:"color"`
	Status        string     `json:"status"`
	CouponID      *uuid.UUID `json:"coupon_id"`
	SoldAt        *time.Time `json:"sold_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ResyncResponse reports what a stock resync changed
type ResyncResponse struct {
	ModelName     string `json:"model_name"`
	SoldCount     int    `json:"sold_count"`
	StockQuantity int    `json:"stock_quantity"`
	UnitsMarked   int    `json:"units_marked"`
	UnitsMissing  int    `json:"units_missing"`
}

// ToVehicleResponse converts a domain vehicle to its API shape
func ToVehicleResponse(vehicle *inventory.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:               vehicle.ID,
		ModelName:        vehicle.ModelName,
		Brand:            vehicle.Brand,
		Description:      vehicle.Description,
		UnitPrice:        vehicle.UnitPrice,
		ReceivedQuantity: vehicle.ReceivedQuantity,
		SoldQuantity:     vehicle.SoldQuantity,
		StockQuantity:    vehicle.StockQuantity,
		InStock:          vehicle.IsInStock(),
		Version:          vehicle.Version,
		CreatedAt:        vehicle.CreatedAt,
		UpdatedAt:        vehicle.UpdatedAt,
	}
}

// ToUnitResponse converts a domain unit to its API shape
func ToUnitResponse(unit *inventory.InventoryUnit) UnitResponse {
	return UnitResponse{
		ID:            unit.ID,
		VehicleID:     unit.VehicleID,
		ModelName:     unit.ModelName,
		EngineNumber:  unit.EngineNumber,
		ChassisNumber: unit.ChassisNumber,
		Color:         unit.Color,
		Status:        unit.Status.String(),
		CouponID:      unit.CouponID,
		SoldAt:        unit.SoldAt,
		CreatedAt:     unit.CreatedAt,
	}
}
