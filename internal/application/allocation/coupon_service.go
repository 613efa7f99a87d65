package allocation

import (
	"context"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// couponNumberWidth is the zero-padded width of generated coupon numbers
const couponNumberWidth = 4

// CouponService handles the coupon lifecycle. The coupon row is the one
// record a dispute is settled from, so every write path fails loudly; the
// side effects hanging off it (stock tallies, customer records) are repaired
// by event handlers and never block a sale.
type CouponService struct {
	couponRepo     allocation.CouponRepository
	allocator      allocation.NumberAllocator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo allocation.CouponRepository, allocator allocation.NumberAllocator, logger *zap.Logger) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		allocator:  allocator,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CouponService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a vehicle sale: allocates a coupon number, builds the
// aggregate, schedules installments for financed sales and persists the lot.
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	couponNumber, err := s.allocator.Next(ctx, allocation.PrefixCoupon, couponNumberWidth)
	if err != nil {
		return nil, err
	}

	method := allocation.PaymentMethod(req.PaymentMethod)
	coupon, err := allocation.NewCoupon(
		couponNumber,
		allocation.CustomerDetails{
			Name:    req.CustomerName,
			NIC:     req.CustomerNIC,
			Phone:   req.CustomerPhone,
			Address: req.CustomerAddress,
		},
		allocation.VehicleDetails{
			ModelName:     req.ModelName,
			EngineNumber:  req.EngineNumber,
			ChassisNumber: req.ChassisNumber,
		},
		method,
		allocation.Financials{
			TotalAmount:    req.TotalAmount,
			DownPayment:    req.DownPayment,
			RegFee:         req.RegFee,
			DocCharge:      req.DocCharge,
			InterestAmount: req.InterestAmount,
			DiscountAmount: req.DiscountAmount,
		},
		req.PurchaseDate,
	)
	if err != nil {
		return nil, err
	}

	if method.IsFinanced() {
		installments, err := allocation.ScheduleInstallments(coupon.Balance, coupon.PurchaseDate, allocation.ScheduleOptions{
			ManualFirst:  req.FirstInstallment,
			ManualSecond: req.SecondInstallment,
			DueDates:     [allocation.InstallmentCount]*time.Time{req.FirstDueDate, req.SecondDueDate, req.ThirdDueDate},
		})
		if err != nil {
			return nil, err
		}
		if err := coupon.SetSchedule(installments); err != nil {
			return nil, err
		}
	}

	if req.DownPaymentDate != nil {
		coupon.SetDownPaymentDate(*req.DownPaymentDate)
	}
	if req.Remark != "" {
		coupon.SetRemark(req.Remark)
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, coupon)

	response := ToCouponResponse(coupon)
	return &response, nil
}

// GetByID retrieves a coupon by ID
func (s *CouponService) GetByID(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCouponResponse(coupon)
	return &response, nil
}

// GetByNumber retrieves a coupon by its coupon number
func (s *CouponService) GetByNumber(ctx context.Context, couponNumber string) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByNumber(ctx, couponNumber)
	if err != nil {
		return nil, err
	}
	response := ToCouponResponse(coupon)
	return &response, nil
}

// List retrieves coupons with filtering and pagination
func (s *CouponService) List(ctx context.Context, filter CouponListFilter) (*shared.Paginated[CouponResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  filter.SortBy,
		OrderDir: filter.SortOrder,
		Filters:  map[string]interface{}{},
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentMethod != "" {
		domainFilter.Filters["payment_method"] = filter.PaymentMethod
	}

	coupons, err := s.couponRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.couponRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]CouponResponse, 0, len(coupons))
	for i := range coupons {
		items = append(items, ToCouponResponse(&coupons[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update re-applies the full sale record onto an existing coupon. The
// request restates everything, so retrying the same request converges on
// the same stored state.
func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req UpdateCouponRequest) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	coupon.Customer = allocation.CustomerDetails{
		Name:    req.CustomerName,
		NIC:     req.CustomerNIC,
		Phone:   req.CustomerPhone,
		Address: req.CustomerAddress,
	}
	coupon.Vehicle = allocation.VehicleDetails{
		ModelName:     req.ModelName,
		EngineNumber:  req.EngineNumber,
		ChassisNumber: req.ChassisNumber,
	}

	previousBalance := coupon.Balance
	if err := coupon.ApplyFinancials(allocation.Financials{
		TotalAmount:    req.TotalAmount,
		DownPayment:    req.DownPayment,
		RegFee:         req.RegFee,
		DocCharge:      req.DocCharge,
		InterestAmount: req.InterestAmount,
		DiscountAmount: req.DiscountAmount,
	}); err != nil {
		return nil, err
	}

	if coupon.PaymentMethod.IsFinanced() {
		if err := s.refitSchedule(coupon, previousBalance, req); err != nil {
			return nil, err
		}
	}

	for _, paid := range req.InstallmentsPaid {
		if err := coupon.SetInstallmentPaid(paid.Slot, paid.PaidAmount, paid.PaidDate); err != nil {
			return nil, err
		}
	}

	if req.DownPaymentDate != nil {
		coupon.SetDownPaymentDate(*req.DownPaymentDate)
	}
	coupon.SetRemark(req.Remark)

	coupon.AddDomainEvent(allocation.NewCouponUpdatedEvent(coupon))

	if err := s.couponRepo.SaveWithLock(ctx, coupon); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, coupon)

	response := ToCouponResponse(coupon)
	return &response, nil
}

// refitSchedule regenerates the installment slots when the financed balance
// moved or a manual amount was supplied, carrying recorded payments over to
// the matching slots.
func (s *CouponService) refitSchedule(coupon *allocation.Coupon, previousBalance decimal.Decimal, req UpdateCouponRequest) error {
	needsRefit := len(coupon.Installments) != allocation.InstallmentCount ||
		!coupon.Balance.Equal(previousBalance) ||
		req.FirstInstallment != nil || req.SecondInstallment != nil ||
		req.FirstDueDate != nil || req.SecondDueDate != nil || req.ThirdDueDate != nil
	if !needsRefit {
		return nil
	}

	type paidSlot struct {
		amount decimal.Decimal
		date   *time.Time
	}
	carried := make(map[int]paidSlot, len(coupon.Installments))
	for i := range coupon.Installments {
		inst := &coupon.Installments[i]
		if inst.PaidAmount.IsPositive() {
			carried[inst.Slot] = paidSlot{amount: inst.PaidAmount, date: inst.PaidDate}
		}
	}

	installments, err := allocation.ScheduleInstallments(coupon.Balance, coupon.PurchaseDate, allocation.ScheduleOptions{
		ManualFirst:  req.FirstInstallment,
		ManualSecond: req.SecondInstallment,
		DueDates:     [allocation.InstallmentCount]*time.Time{req.FirstDueDate, req.SecondDueDate, req.ThirdDueDate},
	})
	if err != nil {
		return err
	}
	if err := coupon.SetSchedule(installments); err != nil {
		return err
	}

	for slot, paid := range carried {
		if err := coupon.SetInstallmentPaid(slot, paid.amount, paid.date); err != nil {
			return err
		}
	}
	return nil
}

// RecordPayment accumulates one payment against an installment slot
func (s *CouponService) RecordPayment(ctx context.Context, id uuid.UUID, req RecordPaymentRequest) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	paidAt := time.Now()
	if req.PaidDate != nil {
		paidAt = *req.PaidDate
	}
	if err := coupon.RecordInstallmentPayment(req.Slot, req.Amount, paidAt); err != nil {
		return nil, err
	}

	coupon.AddDomainEvent(allocation.NewCouponUpdatedEvent(coupon))

	if err := s.couponRepo.SaveWithLock(ctx, coupon); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, coupon)

	response := ToCouponResponse(coupon)
	return &response, nil
}

// Delete reverses a sale. The deletion event lets the stock resync return
// the unit to the catalog.
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.couponRepo.Delete(ctx, id); err != nil {
		return err
	}

	coupon.AddDomainEvent(allocation.NewCouponDeletedEvent(coupon))
	s.publishEvents(ctx, coupon)
	return nil
}

// Stats aggregates the coupon book for the dashboard
func (s *CouponService) Stats(ctx context.Context) (*CouponStatsResponse, error) {
	total, err := s.couponRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	pending, err := s.couponRepo.CountByStatus(ctx, allocation.CouponStatusPending)
	if err != nil {
		return nil, err
	}
	completed, err := s.couponRepo.CountByStatus(ctx, allocation.CouponStatusCompleted)
	if err != nil {
		return nil, err
	}

	outstanding := decimal.Zero
	if pending > 0 {
		pendingFilter := shared.DefaultFilter()
		pendingFilter.PageSize = int(pending)
		pendingFilter.Filters["status"] = allocation.CouponStatusPending.String()
		coupons, err := s.couponRepo.FindAll(ctx, pendingFilter)
		if err != nil {
			return nil, err
		}
		for i := range coupons {
			outstanding = outstanding.Add(coupons[i].OutstandingBalance())
		}
	}

	return &CouponStatsResponse{
		Total:            total,
		Pending:          pending,
		Completed:        completed,
		TotalOutstanding: outstanding,
	}, nil
}

// publishEvents drains the aggregate's events onto the bus. Event delivery
// failures are logged and swallowed; handlers resync from the stored state
// on the next pass.
func (s *CouponService) publishEvents(ctx context.Context, coupon *allocation.Coupon) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range coupon.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish coupon event",
				zap.String("event_type", event.EventType()),
				zap.String("coupon_number", coupon.CouponNumber),
				zap.Error(err),
			)
		}
	}
	coupon.ClearDomainEvents()
}
