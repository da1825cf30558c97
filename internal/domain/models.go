// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RolePromoter Role = "promoter"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RolePromoter || r == RoleCustomer
}

type Promoter struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email,omitempty"`
	Address        string          `json:"address,omitempty"`
	ReferralCode   string          `json:"referralCode,omitempty"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
}

type Customer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	PromoterID   string `json:"promoterId,omitempty"`
	SeasonID     string `json:"seasonId,omitempty"`
	TicketNumber string `json:"ticketNumber,omitempty"`
	Status       string `json:"status,omitempty"`
	JoinedAt     Date   `json:"joinedAt"`
}

// CustomerInput is the create/update payload sent to the backend.
type CustomerInput struct {
	Name     string `json:"name" validate:"required,notblank,max=120"`
	Phone    string `json:"phone" validate:"required,phone"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Address  string `json:"address,omitempty" validate:"max=500"`
	SeasonID string `json:"seasonId" validate:"required,notblank"`
}

// Season is a fixed-duration membership period with a monthly contribution.
type Season struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	StartDate     Date            `json:"startDate"`
	EndDate       Date            `json:"endDate"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	DrawDay       int             `json:"drawDay,omitempty"`
	Active        bool            `json:"active"`
}

type InstallmentStatus string

const (
	InstallmentPaid     InstallmentStatus = "paid"
	InstallmentPartial  InstallmentStatus = "partial"
	InstallmentDue      InstallmentStatus = "due"
	InstallmentOverdue  InstallmentStatus = "overdue"
	InstallmentUpcoming InstallmentStatus = "upcoming"
)

// Installment is one monthly slot derived from a season. Never fetched.
type Installment struct {
	Number  int               `json:"number"`
	Month   string            `json:"month"`
	DueDate Date              `json:"dueDate"`
	Amount  decimal.Decimal   `json:"amount"`
	Paid    decimal.Decimal   `json:"paid"`
	Status  InstallmentStatus `json:"status"`
	Elapsed bool              `json:"elapsed"`
}

type Repayment struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	SeasonID   string          `json:"seasonId,omitempty"`
	Month      string          `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method,omitempty"`
	Reference  string          `json:"reference,omitempty"`
	PaidAt     Date            `json:"paidAt"`
}

type RepaymentInput struct {
	CustomerID string          `json:"customerId" validate:"required,notblank"`
	SeasonID   string          `json:"seasonId" validate:"required,notblank"`
	Month      string          `json:"month" validate:"required,yearmonth"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
	Method     string          `json:"method" validate:"required,oneof=cash upi bank"`
	Reference  string          `json:"reference,omitempty" validate:"max=120"`
}

type Wallet struct {
	Balance           decimal.Decimal `json:"balance"`
	TotalEarned       decimal.Decimal `json:"totalEarned"`
	TotalWithdrawn    decimal.Decimal `json:"totalWithdrawn"`
	PendingWithdrawal decimal.Decimal `json:"pendingWithdrawal"`
}

type PaymentDetails struct {
	Method        string `json:"method" validate:"required,oneof=bank upi"`
	AccountHolder string `json:"accountHolder,omitempty" validate:"required_if=Method bank,omitempty,notblank"`
	AccountNumber string `json:"accountNumber,omitempty" validate:"required_if=Method bank,omitempty,numeric,min=6,max=20"`
	IFSC          string `json:"ifsc,omitempty" validate:"required_if=Method bank,omitempty,ifsc"`
	BankName      string `json:"bankName,omitempty"`
	UPIID         string `json:"upiId,omitempty" validate:"required_if=Method upi,omitempty,upi"`
}

type Withdrawal struct {
	ID             string          `json:"id"`
	PromoterID     string          `json:"promoterId,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	PaymentDetails PaymentDetails  `json:"paymentDetails"`
	RequestedAt    Date            `json:"requestedAt"`
	ProcessedAt    *Date           `json:"processedAt,omitempty"`
	Remarks        string          `json:"remarks,omitempty"`
}

type WithdrawalInput struct {
	Amount         decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentDetails PaymentDetails  `json:"paymentDetails"`
}

type Poster struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link,omitempty"`
}

// CustomerLedger is what the customer portal needs to render installments.
type CustomerLedger struct {
	Customer   Customer    `json:"customer"`
	Season     Season      `json:"season"`
	Repayments []Repayment `json:"repayments"`
}

// Session is owned by the gateway, not the backend.
type Session struct {
	ID                string    `json:"id"`
	Role              Role      `json:"role"`
	UserID            string    `json:"userId"`
	BackendToken      string    `json:"-"`
	MustResetPassword bool      `json:"mustResetPassword"`
	CreatedAt         time.Time `json:"createdAt"`
	ExpiresAt         time.Time `json:"expiresAt"`
	VerifiedAt        time.Time `json:"verifiedAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
