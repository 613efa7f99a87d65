package allocation

import (
	"time"

	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Coupon DTOs ====================

// CreateCouponRequest represents a request to register a vehicle sale
type CreateCouponRequest struct {
	CustomerName    string `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerNIC     string `json:"customer_nic" binding:"max=20"`
	CustomerPhone   string `json:"customer_phone" binding:"required,min=7,max=20"`
	CustomerAddress string `json:"customer_address" binding:"max=500"`

	ModelName     string `json:"model_name" binding:"required,min=1,max=200"`
	EngineNumber  string `json:"engine_number" binding:"max=100"`
	ChassisNumber string `json:"chassis_number" binding:"max=100"`

	PaymentMethod  string          `json:"payment_method" binding:"required"`
	TotalAmount    decimal.Decimal `json:"total_amount" binding:"required"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	RegFee         decimal.Decimal `json:"reg_fee"`
	DocCharge      decimal.Decimal `json:"doc_charge"`
	InterestAmount decimal.Decimal `json:"interest_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`

	PurchaseDate    time.Time  `json:"purchase_date" binding:"required"`
	DownPaymentDate *time.Time `json:"down_payment_date"`

	// Manual overrides for the first two installment amounts; the third is
	// always the remainder
	FirstInstallment  *decimal.Decimal `json:"first_installment"`
	SecondInstallment *decimal.Decimal `json:"second_installment"`

	FirstDueDate  *time.Time `json:"first_due_date"`
	SecondDueDate *time.Time `json:"second_due_date"`
	ThirdDueDate  *time.Time `json:"third_due_date"`

	Remark string `json:"remark" binding:"max=1000"`
}

// InstallmentPaidInput carries one slot's accumulated payment in an update
type InstallmentPaidInput struct {
	Slot       int             `json:"slot" binding:"required,min=1,max=3"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	PaidDate   *time.Time      `json:"paid_date"`
}

// UpdateCouponRequest re-states the full sale; the update path re-applies
// everything so a retried request converges instead of compounding
type UpdateCouponRequest struct {
	CustomerName    string `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerNIC     string `json:"customer_nic" binding:"max=20"`
	CustomerPhone   string `json:"customer_phone" binding:"required,min=7,max=20"`
	CustomerAddress string `json:"customer_address" binding:"max=500"`

	ModelName     string `json:"model_name" binding:"required,min=1,max=200"`
	EngineNumber  string `json:"engine_number" binding:"max=100"`
	ChassisNumber string `json:"chassis_number" binding:"max=100"`

	TotalAmount    decimal.Decimal `json:"total_amount" binding:"required"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	RegFee         decimal.Decimal `json:"reg_fee"`
	DocCharge      decimal.Decimal `json:"doc_charge"`
	InterestAmount decimal.Decimal `json:"interest_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`

	DownPaymentDate *time.Time `json:"down_payment_date"`

	FirstInstallment  *decimal.Decimal `json:"first_installment"`
	SecondInstallment *decimal.Decimal `json:"second_installment"`

	FirstDueDate  *time.Time `json:"first_due_date"`
	SecondDueDate *time.Time `json:"second_due_date"`
	ThirdDueDate  *time.Time `json:"third_due_date"`

	InstallmentsPaid []InstallmentPaidInput `json:"installments_paid"`

	Remark string `json:"remark" binding:"max=1000"`
}

// RecordPaymentRequest records one payment against an installment slot
type RecordPaymentRequest struct {
	Slot     int             `json:"slot" binding:"required,min=1,max=3"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	PaidDate *time.Time      `json:"paid_date"`
}

// CouponListFilter carries list query parameters
type CouponListFilter struct {
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	Search        string `form:"search"`
	SortBy        string `form:"sort_by"`
	SortOrder     string `form:"sort_order"`
}

// InstallmentResponse represents one installment slot
type InstallmentResponse struct {
	Slot       int             `json:"slot"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    time.Time       `json:"due_date"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	PaidDate   *time.Time      `json:"paid_date"`
	Satisfied  bool            `json:"satisfied"`
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID           uuid.UUID `json:"id"`
	CouponNumber string    `json:"coupon_number"`

	CustomerName    string `json:"customer_name"`
	CustomerNIC     string `json:"customer_nic"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`

	ModelName     string `json:"model_name"`
	EngineNumber  string `json:"engine_number"`
	ChassisNumber string `json:"chassis_number"`

	PaymentMethod  string          `json:"payment_method"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	RegFee         decimal.Decimal `json:"reg_fee"`
	DocCharge      decimal.Decimal `json:"doc_charge"`
	InterestAmount decimal.Decimal `json:"interest_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Balance        decimal.Decimal `json:"balance"`
	Outstanding    decimal.Decimal `json:"outstanding"`

	Installments []InstallmentResponse `json:"installments"`

	PurchaseDate      time.Time  `json:"purchase_date"`
	DownPaymentDate   *time.Time `json:"down_payment_date"`
	ChequeReleaseDate *time.Time `json:"cheque_release_date"`
	ChequeReleased    bool       `json:"cheque_released"`
	ChequeReleasedAt  *time.Time `json:"cheque_released_at"`

	Status    string    `json:"status"`
	Remark    string    `json:"remark"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CouponStatsResponse aggregates the coupon book
type CouponStatsResponse struct {
	Total            int64           `json:"total"`
	Pending          int64           `json:"pending"`
	Completed        int64           `json:"completed"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// ChequeReminderResponse annotates one coupon awaiting cheque release
type ChequeReminderResponse struct {
	CouponID      uuid.UUID       `json:"coupon_id"`
	CouponNumber  string          `json:"coupon_number"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	DownPayment   decimal.Decimal `json:"down_payment"`

	DownPaymentDate   *time.Time `json:"down_payment_date"`
	ChequeReleaseDate *time.Time `json:"cheque_release_date"`

	DaysSinceDownPayment int  `json:"days_since_down_payment"`
	DaysUntilRelease     int  `json:"days_until_release"`
	IsOverdue            bool `json:"is_overdue"`
	DaysOverdue          int  `json:"days_overdue"`
}

// ReleasedChequeResponse annotates one coupon whose cheque went out
type ReleasedChequeResponse struct {
	CouponID          uuid.UUID       `json:"coupon_id"`
	CouponNumber      string          `json:"coupon_number"`
	CustomerName      string          `json:"customer_name"`
	DownPayment       decimal.Decimal `json:"down_payment"`
	ChequeReleasedAt  *time.Time      `json:"cheque_released_at"`
	DaysSinceReleased int             `json:"days_since_released"`
}

// ToCouponResponse converts a domain coupon to its API shape
func ToCouponResponse(coupon *allocation.Coupon) CouponResponse {
	installments := make([]InstallmentResponse, 0, len(coupon.Installments))
	for i := range coupon.Installments {
		inst := &coupon.Installments[i]
		installments = append(installments, InstallmentResponse{
			Slot:       inst.Slot,
			Amount:     inst.Amount,
			DueDate:    inst.DueDate,
			PaidAmount: inst.PaidAmount,
			PaidDate:   inst.PaidDate,
			Satisfied:  inst.IsSatisfied(),
		})
	}

	return CouponResponse{
		ID:                coupon.ID,
		CouponNumber:      coupon.CouponNumber,
		CustomerName:      coupon.Customer.Name,
		CustomerNIC:       coupon.Customer.NIC,
		CustomerPhone:     coupon.Customer.Phone,
		CustomerAddress:   coupon.Customer.Address,
		ModelName:         coupon.Vehicle.ModelName,
		EngineNumber:      coupon.Vehicle.EngineNumber,
		ChassisNumber:     coupon.Vehicle.ChassisNumber,
		PaymentMethod:     coupon.PaymentMethod.String(),
		TotalAmount:       coupon.TotalAmount,
		DownPayment:       coupon.DownPayment,
		RegFee:            coupon.RegFee,
		DocCharge:         coupon.DocCharge,
		InterestAmount:    coupon.InterestAmount,
		DiscountAmount:    coupon.DiscountAmount,
		Balance:           coupon.Balance,
		Outstanding:       coupon.OutstandingBalance(),
		Installments:      installments,
		PurchaseDate:      coupon.PurchaseDate,
		DownPaymentDate:   coupon.DownPaymentDate,
		ChequeReleaseDate: coupon.ChequeReleaseDate,
		ChequeReleased:    coupon.ChequeReleased,
		ChequeReleasedAt:  coupon.ChequeReleasedAt,
		Status:            coupon.Status.String(),
		Remark:            coupon.Remark,
		Version:           coupon.Version,
		CreatedAt:         coupon.CreatedAt,
		UpdatedAt:         coupon.UpdatedAt,
	}
}
