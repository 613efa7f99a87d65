package inventory

import (
	"time"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// UnitStatus is the lifecycle state of a physical vehicle unit
type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "AVAILABLE"
	UnitStatusSold      UnitStatus = "SOLD"
)

// IsValid checks if the status is a valid UnitStatus
func (s UnitStatus) IsValid() bool {
	return s == UnitStatusAvailable || s == UnitStatusSold
}

// String returns the string representation of UnitStatus
func (s UnitStatus) String() string {
	return string(s)
}

// InventoryUnit is one physical vehicle identified by its engine and chassis
// serials. A sale binds the unit to the coupon that sold it.
type InventoryUnit struct {
	shared.BaseAggregateRoot
	VehicleID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ModelName     string    `gorm:"not null;index"`
	EngineNumber  string    `gorm:"index"`
	ChassisNumber string    `gorm:"index"`
	Color         string

	Status   UnitStatus `gorm:"not null;default:'AVAILABLE'"`
	CouponID *uuid.UUID `gorm:"type:uuid;index"`
	SoldAt   *time.Time
}

// TableName returns the table name for GORM
func (InventoryUnit) TableName() string {
	return "inventory_units"
}

// NewInventoryUnit registers a physical unit against a catalog model
func NewInventoryUnit(vehicleID uuid.UUID, modelName, engineNumber, chassisNumber, color string) (*InventoryUnit, error) {
	if vehicleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VEHICLE", "Vehicle ID cannot be empty")
	}
	if modelName == "" {
		return nil, shared.NewDomainError("INVALID_MODEL", "Model name cannot be empty")
	}
	if engineNumber == "" && chassisNumber == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Engine or chassis number is required")
	}

	unit := &InventoryUnit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VehicleID:         vehicleID,
		ModelName:         modelName,
		EngineNumber:      engineNumber,
		ChassisNumber:     chassisNumber,
		Color:             color,
		Status:            UnitStatusAvailable,
	}
	return unit, nil
}

// UpdateDetails corrects the unit's serials or color, typically to fix a
// data-entry mistake. At least one serial must remain.
func (u *InventoryUnit) UpdateDetails(engineNumber, chassisNumber, color string) error {
	if engineNumber == "" && chassisNumber == "" {
		return shared.NewDomainError("INVALID_UNIT", "Engine or chassis number is required")
	}
	u.EngineNumber = engineNumber
	u.ChassisNumber = chassisNumber
	u.Color = color
	u.UpdatedAt = time.Now()
	return nil
}

// MatchesSerial reports whether the unit carries either of the given serials.
// Empty serials never match.
func (u *InventoryUnit) MatchesSerial(engineNumber, chassisNumber string) bool {
	if engineNumber != "" && u.EngineNumber == engineNumber {
		return true
	}
	if chassisNumber != "" && u.ChassisNumber == chassisNumber {
		return true
	}
	return false
}

// MarkSold binds the unit to the coupon that sold it. Re-marking with the
// same coupon is a no-op; a different coupon is a conflict.
func (u *InventoryUnit) MarkSold(couponID uuid.UUID, soldAt time.Time) error {
	if u.Status == UnitStatusSold {
		if u.CouponID != nil && *u.CouponID == couponID {
			return nil
		}
		return shared.NewDomainError("UNIT_ALREADY_SOLD", "Unit is already sold under another coupon")
	}

	u.Status = UnitStatusSold
	u.CouponID = &couponID
	u.SoldAt = &soldAt
	u.UpdatedAt = time.Now()

	u.AddDomainEvent(NewUnitSoldEvent(u))
	return nil
}

// Release returns the unit to stock, used when its sale record is deleted
func (u *InventoryUnit) Release() {
	if u.Status == UnitStatusAvailable {
		return
	}
	u.Status = UnitStatusAvailable
	u.CouponID = nil
	u.SoldAt = nil
	u.UpdatedAt = time.Now()

	u.AddDomainEvent(NewUnitReleasedEvent(u))
}

// IsAvailable reports whether the unit can still be sold
func (u *InventoryUnit) IsAvailable() bool {
	return u.Status == UnitStatusAvailable
}
