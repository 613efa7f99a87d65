package inventory

import (
	"time"

	"github.com/google/uuid"
)

// SaleRecord is the slice of a sale the stock recount needs: which coupon
// sold which model, identified by which serials.
type SaleRecord struct {
	CouponID      uuid.UUID
	ModelName     string
	EngineNumber  string
	ChassisNumber string
	SoldAt        time.Time
}

// RecountResult reports what a recount changed
type RecountResult struct {
	SoldCount    int
	UnitsMarked  int
	UnitsMissing int // sales whose serials matched no registered unit
}

// StockSyncService derives inventory state from the sale records. It never
// applies deltas: every pass is a full recount, so a missed or double-fired
// event can never leave the tallies drifted.
type StockSyncService struct{}

// NewStockSyncService creates a StockSyncService
func NewStockSyncService() *StockSyncService {
	return &StockSyncService{}
}

// Recount rebuilds one model's tally and unit bindings from the full list of
// sale records for that model. Units whose serials appear in a sale are bound
// to it; units no sale references are returned to stock.
func (s *StockSyncService) Recount(vehicle *Vehicle, units []*InventoryUnit, sales []SaleRecord) (RecountResult, error) {
	result := RecountResult{SoldCount: len(sales)}

	matched := make(map[uuid.UUID]bool, len(units))
	for _, sale := range sales {
		unit := findUnitBySerial(units, sale.EngineNumber, sale.ChassisNumber)
		if unit == nil {
			result.UnitsMissing++
			continue
		}
		if err := unit.MarkSold(sale.CouponID, sale.SoldAt); err != nil {
			// Serial collision between two sales; count it as missing and
			// leave the earlier binding in place.
			result.UnitsMissing++
			continue
		}
		matched[unit.ID] = true
		result.UnitsMarked++
	}

	for _, unit := range units {
		if !matched[unit.ID] {
			unit.Release()
		}
	}

	// Stock on hand is the count of units still available, so a sale whose
	// serials match no registered unit never drains the tally.
	if err := vehicle.ApplyRecount(len(sales), len(units)-result.UnitsMarked); err != nil {
		return result, err
	}

	return result, nil
}

func findUnitBySerial(units []*InventoryUnit, engineNumber, chassisNumber string) *InventoryUnit {
	for _, unit := range units {
		if unit.MatchesSerial(engineNumber, chassisNumber) {
			return unit
		}
	}
	return nil
}
