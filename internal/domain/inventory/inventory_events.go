package inventory

import (
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type names
const (
	AggregateTypeVehicle       = "Vehicle"
	AggregateTypeInventoryUnit = "InventoryUnit"
)

// Event type names
const (
	EventTypeVehicleCreated = "VehicleCreated"
	EventTypeStockAdjusted  = "StockAdjusted"
	EventTypeUnitSold       = "InventoryUnitSold"
	EventTypeUnitReleased   = "InventoryUnitReleased"
)

// VehicleCreatedEvent is emitted when a catalog model is registered
type VehicleCreatedEvent struct {
	shared.BaseDomainEvent
	ModelName string
}

// NewVehicleCreatedEvent creates a VehicleCreatedEvent
func NewVehicleCreatedEvent(vehicle *Vehicle) *VehicleCreatedEvent {
	return &VehicleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVehicleCreated, AggregateTypeVehicle, vehicle.ID),
		ModelName:       vehicle.ModelName,
	}
}

// EventType returns the event type
func (e *VehicleCreatedEvent) EventType() string {
	return EventTypeVehicleCreated
}

// StockAdjustedEvent is emitted whenever a model's stock tally moves
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ModelName     string
	Delta         int
	StockQuantity int
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(vehicle *Vehicle, delta int) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeVehicle, vehicle.ID),
		ModelName:       vehicle.ModelName,
		Delta:           delta,
		StockQuantity:   vehicle.StockQuantity,
	}
}

// EventType returns the event type
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// UnitSoldEvent is emitted when a physical unit is bound to a sale
type UnitSoldEvent struct {
	shared.BaseDomainEvent
	ModelName     string
	EngineNumber  string
	ChassisNumber string
	CouponID      uuid.UUID
}

// NewUnitSoldEvent creates a UnitSoldEvent
func NewUnitSoldEvent(unit *InventoryUnit) *UnitSoldEvent {
	event := &UnitSoldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitSold, AggregateTypeInventoryUnit, unit.ID),
		ModelName:       unit.ModelName,
		EngineNumber:    unit.EngineNumber,
		ChassisNumber:   unit.ChassisNumber,
	}
	if unit.CouponID != nil {
		event.CouponID = *unit.CouponID
	}
	return event
}

// EventType returns the event type
func (e *UnitSoldEvent) EventType() string {
	return EventTypeUnitSold
}

// UnitReleasedEvent is emitted when a sold unit returns to stock
type UnitReleasedEvent struct {
	shared.BaseDomainEvent
	ModelName     string
	EngineNumber  string
	ChassisNumber string
}

// NewUnitReleasedEvent creates a UnitReleasedEvent
func NewUnitReleasedEvent(unit *InventoryUnit) *UnitReleasedEvent {
	return &UnitReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitReleased, AggregateTypeInventoryUnit, unit.ID),
		ModelName:       unit.ModelName,
		EngineNumber:    unit.EngineNumber,
		ChassisNumber:   unit.ChassisNumber,
	}
}

// EventType returns the event type
func (e *UnitReleasedEvent) EventType() string {
	return EventTypeUnitReleased
}
