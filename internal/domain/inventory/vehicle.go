package inventory

import (
	"fmt"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Vehicle is the catalog aggregate for one vehicle model. It carries the
// running stock tally for the model; the physical units behind the tally are
// tracked as InventoryUnit records.
type Vehicle struct {
	shared.BaseAggregateRoot
	ModelName   string `gorm:"uniqueIndex;not null"`
	Brand       string
	Description string
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	ReceivedQuantity int `gorm:"not null;default:0"` // units ever taken into stock
	SoldQuantity     int `gorm:"not null;default:0"`
	StockQuantity    int `gorm:"not null;default:0"` // received minus sold
}

// TableName returns the table name for GORM
func (Vehicle) TableName() string {
	return "vehicles"
}

// NewVehicle creates a catalog entry for a vehicle model
func NewVehicle(modelName, brand string, unitPrice decimal.Decimal) (*Vehicle, error) {
	if modelName == "" {
		return nil, shared.NewDomainError("INVALID_MODEL", "Model name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	vehicle := &Vehicle{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ModelName:         modelName,
		Brand:             brand,
		UnitPrice:         unitPrice,
	}

	vehicle.AddDomainEvent(NewVehicleCreatedEvent(vehicle))
	return vehicle, nil
}

// AddStock takes newly received units into stock
func (v *Vehicle) AddStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	v.ReceivedQuantity += quantity
	v.StockQuantity += quantity
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewStockAdjustedEvent(v, quantity))
	return nil
}

// RemoveStock withdraws units from stock, used when a unit record is deleted
func (v *Vehicle) RemoveStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > v.StockQuantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Cannot withdraw more units than are in stock")
	}
	v.ReceivedQuantity -= quantity
	v.StockQuantity -= quantity
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewStockAdjustedEvent(v, -quantity))
	return nil
}

// RecordSale decrements the model tally for one sold unit
func (v *Vehicle) RecordSale() error {
	if v.StockQuantity <= 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Model %s has no units in stock", v.ModelName))
	}
	v.SoldQuantity++
	v.StockQuantity--
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewStockAdjustedEvent(v, -1))
	return nil
}

// ReverseSale returns one sold unit to stock, used when a sale record is
// deleted
func (v *Vehicle) ReverseSale() error {
	if v.SoldQuantity <= 0 {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Model %s has no recorded sales to reverse", v.ModelName))
	}
	v.SoldQuantity--
	v.StockQuantity++
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewStockAdjustedEvent(v, 1))
	return nil
}

// ApplyRecount overwrites the tallies with an authoritative recount: the
// sold tally from the sale records and the stock on hand from the count of
// units still marked available after binding.
func (v *Vehicle) ApplyRecount(soldCount, availableCount int) error {
	if soldCount < 0 || availableCount < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Recount tallies cannot be negative")
	}

	v.SoldQuantity = soldCount
	v.StockQuantity = availableCount
	v.UpdatedAt = time.Now()
	return nil
}

// IsInStock reports whether any unit of the model remains unsold
func (v *Vehicle) IsInStock() bool {
	return v.StockQuantity > 0
}
