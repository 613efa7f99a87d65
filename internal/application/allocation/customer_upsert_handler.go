package allocation

import (
	"context"

	partnerapp "github.com/akrmotors/backoffice/internal/application/partner"
	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerUpsertHandler folds each new sale's buyer into the customer book.
// The customer record is derived data; failures are logged and swallowed so
// the sale itself never depends on it.
type CustomerUpsertHandler struct {
	customerService *partnerapp.CustomerService
	logger          *zap.Logger
}

// NewCustomerUpsertHandler creates a new CustomerUpsertHandler
func NewCustomerUpsertHandler(customerService *partnerapp.CustomerService, logger *zap.Logger) *CustomerUpsertHandler {
	return &CustomerUpsertHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CustomerUpsertHandler) EventTypes() []string {
	return []string{
		allocation.EventTypeCouponCreated,
		allocation.EventTypeCouponUpdated,
	}
}

// Handle upserts the buyer named in a new sale and refreshes the record when
// the sale is edited
func (h *CustomerUpsertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		couponNumber string
		customer     *partnerapp.CustomerResponse
		err          error
	)

	switch e := event.(type) {
	case *allocation.CouponCreatedEvent:
		couponNumber = e.CouponNumber
		customer, err = h.customerService.UpsertFromSale(ctx, partnerapp.UpsertCustomerInput{
			Name:         e.CustomerName,
			Phone:        e.CustomerPhone,
			NIC:          e.CustomerNIC,
			Address:      e.CustomerAddress,
			PurchaseDate: e.PurchaseDate,
		})
	case *allocation.CouponUpdatedEvent:
		couponNumber = e.CouponNumber
		customer, err = h.customerService.RefreshFromSale(ctx, partnerapp.UpsertCustomerInput{
			Name:         e.CustomerName,
			Phone:        e.CustomerPhone,
			NIC:          e.CustomerNIC,
			Address:      e.CustomerAddress,
			PurchaseDate: e.PurchaseDate,
		})
	default:
		h.logger.Error("unexpected event type in customer upsert",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if err != nil {
		h.logger.Error("customer upsert failed",
			zap.String("coupon_number", couponNumber),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Debug("customer record updated from sale",
		zap.String("customer_number", customer.CustomerNumber),
		zap.Int("purchase_count", customer.PurchaseCount),
	)
	return nil
}

// Ensure CustomerUpsertHandler implements shared.EventHandler
var _ shared.EventHandler = (*CustomerUpsertHandler)(nil)
