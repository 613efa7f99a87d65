package allocation

import (
	"context"

	inventoryapp "github.com/akrmotors/backoffice/internal/application/inventory"
	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// StockResyncHandler rebuilds the affected model's stock tally whenever the
// coupon book changes. The coupon is the sale record a dispute is settled
// from; a failed resync is logged and retried on the next change rather
// than failing the sale.
type StockResyncHandler struct {
	inventoryService *inventoryapp.InventoryService
	logger           *zap.Logger
}

// NewStockResyncHandler creates a new StockResyncHandler
func NewStockResyncHandler(inventoryService *inventoryapp.InventoryService, logger *zap.Logger) *StockResyncHandler {
	return &StockResyncHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StockResyncHandler) EventTypes() []string {
	return []string{
		allocation.EventTypeCouponCreated,
		allocation.EventTypeCouponUpdated,
		allocation.EventTypeCouponDeleted,
	}
}

// Handle resyncs the model named in the event
func (h *StockResyncHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var modelName string
	switch e := event.(type) {
	case *allocation.CouponCreatedEvent:
		modelName = e.ModelName
	case *allocation.CouponUpdatedEvent:
		modelName = e.ModelName
	case *allocation.CouponDeletedEvent:
		modelName = e.ModelName
	default:
		h.logger.Error("unexpected event type in stock resync",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if modelName == "" {
		return nil
	}

	result, err := h.inventoryService.ResyncModel(ctx, modelName)
	if err != nil {
		h.logger.Error("stock resync failed",
			zap.String("model_name", modelName),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Debug("stock resynced",
		zap.String("model_name", modelName),
		zap.Int("sold_count", result.SoldCount),
		zap.Int("stock_quantity", result.StockQuantity),
	)
	return nil
}

// Ensure StockResyncHandler implements shared.EventHandler
var _ shared.EventHandler = (*StockResyncHandler)(nil)
