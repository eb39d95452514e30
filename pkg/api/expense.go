package api

import "google.golang.org/protobuf/types/known/timestamppb"

type Share struct {
	UserID string `json:"userId" validate:"required"`
	Amount string `json:"amount" validate:"required"`
}

// SplitSpec asks the server to derive shares instead of sending them.
//
// Participants orders the result; the first participant absorbs rounding
// remainders. ExactAmounts is read by "exact", Percentages by "percentage".
type SplitSpec struct {
	Method       string            `json:"method" validate:"omitempty,oneof=equal exact percentage reimbursement"`
	Participants []string          `json:"participants" validate:"required,min=1,dive,required"`
	ExactAmounts map[string]string `json:"exactAmounts,omitempty"`
	Percentages  map[string]string `json:"percentages,omitempty"`
}

type Expense struct {
	ID           string                 `json:"id"`
	GroupID      string                 `json:"groupId"`
	Title        string                 `json:"title"`
	Amount       string                 `json:"amount"`
	PaidByUserID string                 `json:"paidByUserId"`
	Shares       []*Share               `json:"shares"`
	Note         string                 `json:"note,omitempty"`
	OccurredAt   *timestamppb.Timestamp `json:"occurredAt,omitempty"`
	CreatedBy    string                 `json:"createdBy"`
	CreatedAt    *timestamppb.Timestamp `json:"createdAt,omitempty"`
}

type CalculateSplitRequest struct {
	Amount       string     `json:"amount" validate:"required"`
	PaidByUserID string     `json:"paidByUserId"`
	Split        *SplitSpec `json:"split" validate:"required"`
}

type CalculateSplitResponse struct {
	Shares []*Share `json:"shares"`
}

// CreateExpenseRequest carries either explicit Shares or a Split to derive them.
type CreateExpenseRequest struct {
	GroupID      string                 `json:"groupId" validate:"required"`
	Title        string                 `json:"title" validate:"required,max=200"`
	Amount       string                 `json:"amount" validate:"required"`
	PaidByUserID string                 `json:"paidByUserId" validate:"required"`
	Shares       []*Share               `json:"shares,omitempty" validate:"required_without=Split,omitempty,dive,required"`
	Split        *SplitSpec             `json:"split,omitempty" validate:"required_without=Shares"`
	Note         string                 `json:"note,omitempty" validate:"max=1000"`
	OccurredAt   *timestamppb.Timestamp `json:"occurredAt,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type Payment struct {
	ID         string                 `json:"id"`
	GroupID    string                 `json:"groupId"`
	FromUserID string                 `json:"fromUserId"`
	ToUserID   string                 `json:"toUserId"`
	Amount     string                 `json:"amount"`
	Note       string                 `json:"note,omitempty"`
	OccurredAt *timestamppb.Timestamp `json:"occurredAt,omitempty"`
}

// CreatePaymentRequest records a payment from the caller to ToUserID.
type CreatePaymentRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	ToUserID string `json:"toUserId" validate:"required"`
	Amount   string `json:"amount" validate:"required"`
	Note     string `json:"note,omitempty" validate:"max=1000"`
}

type CreatePaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}
