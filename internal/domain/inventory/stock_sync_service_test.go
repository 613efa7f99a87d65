package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUnit(t *testing.T, vehicleID uuid.UUID, engine, chassis string) *InventoryUnit {
	unit, err := NewInventoryUnit(vehicleID, "Bajaj RE 4S", engine, chassis, "Red")
	require.NoError(t, err)
	return unit
}

func TestInventoryUnit_MarkSold(t *testing.T) {
	unit := createTestUnit(t, uuid.New(), "ENG-1", "CHS-1")
	couponID := uuid.New()
	soldAt := time.Now()

	require.NoError(t, unit.MarkSold(couponID, soldAt))
	assert.Equal(t, UnitStatusSold, unit.Status)
	assert.Equal(t, couponID, *unit.CouponID)

	t.Run("re-marking with the same coupon is a no-op", func(t *testing.T) {
		require.NoError(t, unit.MarkSold(couponID, soldAt))
	})

	t.Run("another coupon conflicts", func(t *testing.T) {
		assert.Error(t, unit.MarkSold(uuid.New(), soldAt))
	})
}

func TestInventoryUnit_Release(t *testing.T) {
	unit := createTestUnit(t, uuid.New(), "ENG-1", "CHS-1")
	require.NoError(t, unit.MarkSold(uuid.New(), time.Now()))

	unit.Release()
	assert.Equal(t, UnitStatusAvailable, unit.Status)
	assert.Nil(t, unit.CouponID)
	assert.Nil(t, unit.SoldAt)
}

func TestInventoryUnit_MatchesSerial(t *testing.T) {
	unit := createTestUnit(t, uuid.New(), "ENG-1", "CHS-1")

	assert.True(t, unit.MatchesSerial("ENG-1", ""))
	assert.True(t, unit.MatchesSerial("", "CHS-1"))
	assert.True(t, unit.MatchesSerial("ENG-OTHER", "CHS-1"))
	assert.False(t, unit.MatchesSerial("ENG-OTHER", "CHS-OTHER"))
	assert.False(t, unit.MatchesSerial("", ""))
}

func TestStockSyncService_Recount(t *testing.T) {
	service := NewStockSyncService()

	newVehicleWithStock := func(t *testing.T, received int) *Vehicle {
		vehicle, err := NewVehicle("Bajaj RE 4S", "Bajaj", decimal.NewFromInt(450000))
		require.NoError(t, err)
		require.NoError(t, vehicle.AddStock(received))
		return vehicle
	}

	t.Run("marks matching units and decrements stock", func(t *testing.T) {
		vehicle := newVehicleWithStock(t, 3)
		units := []*InventoryUnit{
			createTestUnit(t, vehicle.ID, "ENG-1", "CHS-1"),
			createTestUnit(t, vehicle.ID, "ENG-2", "CHS-2"),
			createTestUnit(t, vehicle.ID, "ENG-3", "CHS-3"),
		}
		couponID := uuid.New()
		sales := []SaleRecord{
			{CouponID: couponID, ModelName: "Bajaj RE 4S", EngineNumber: "ENG-2", SoldAt: time.Now()},
		}

		result, err := service.Recount(vehicle, units, sales)
		require.NoError(t, err)

		assert.Equal(t, 1, result.SoldCount)
		assert.Equal(t, 1, result.UnitsMarked)
		assert.Equal(t, 0, result.UnitsMissing)
		assert.Equal(t, 2, vehicle.StockQuantity)
		assert.Equal(t, UnitStatusSold, units[1].Status)
		assert.Equal(t, couponID, *units[1].CouponID)
		assert.Equal(t, UnitStatusAvailable, units[0].Status)
	})

	t.Run("recount is idempotent", func(t *testing.T) {
		vehicle := newVehicleWithStock(t, 2)
		units := []*InventoryUnit{
			createTestUnit(t, vehicle.ID, "ENG-1", "CHS-1"),
			createTestUnit(t, vehicle.ID, "ENG-2", "CHS-2"),
		}
		sales := []SaleRecord{
			{CouponID: uuid.New(), EngineNumber: "ENG-1", SoldAt: time.Now()},
		}

		_, err := service.Recount(vehicle, units, sales)
		require.NoError(t, err)
		_, err = service.Recount(vehicle, units, sales)
		require.NoError(t, err)

		assert.Equal(t, 1, vehicle.SoldQuantity)
		assert.Equal(t, 1, vehicle.StockQuantity)
	})

	t.Run("releases units no sale references", func(t *testing.T) {
		vehicle := newVehicleWithStock(t, 1)
		unit := createTestUnit(t, vehicle.ID, "ENG-1", "CHS-1")
		require.NoError(t, unit.MarkSold(uuid.New(), time.Now()))

		result, err := service.Recount(vehicle, []*InventoryUnit{unit}, nil)
		require.NoError(t, err)

		assert.Equal(t, 0, result.SoldCount)
		assert.Equal(t, UnitStatusAvailable, unit.Status)
		assert.Equal(t, 1, vehicle.StockQuantity)
	})

	t.Run("counts sales with unknown serials as missing", func(t *testing.T) {
		vehicle := newVehicleWithStock(t, 1)
		units := []*InventoryUnit{createTestUnit(t, vehicle.ID, "ENG-1", "CHS-1")}
		sales := []SaleRecord{
			{CouponID: uuid.New(), EngineNumber: "ENG-UNKNOWN", SoldAt: time.Now()},
		}

		result, err := service.Recount(vehicle, units, sales)
		require.NoError(t, err)

		assert.Equal(t, 1, result.UnitsMissing)
		assert.Equal(t, 0, result.UnitsMarked)
		assert.Equal(t, 1, vehicle.SoldQuantity, "tally still counts the sale")
		assert.Equal(t, 1, vehicle.StockQuantity, "the registered unit is still available")
	})

	t.Run("stock equals the available unit count when a serial is unmatched", func(t *testing.T) {
		vehicle := newVehicleWithStock(t, 4)
		units := []*InventoryUnit{
			createTestUnit(t, vehicle.ID, "ENG-1", "CHS-1"),
			createTestUnit(t, vehicle.ID, "ENG-2", "CHS-2"),
			createTestUnit(t, vehicle.ID, "ENG-3", "CHS-3"),
			createTestUnit(t, vehicle.ID, "ENG-4", "CHS-4"),
		}
		sales := []SaleRecord{
			{CouponID: uuid.New(), EngineNumber: "ENG-2", SoldAt: time.Now()},
			{CouponID: uuid.New(), EngineNumber: "ENG-GONE", SoldAt: time.Now()},
		}

		result, err := service.Recount(vehicle, units, sales)
		require.NoError(t, err)

		assert.Equal(t, 2, result.SoldCount)
		assert.Equal(t, 1, result.UnitsMarked)
		assert.Equal(t, 1, result.UnitsMissing)
		assert.Equal(t, 2, vehicle.SoldQuantity)
		assert.Equal(t, 3, vehicle.StockQuantity)
	})
}
