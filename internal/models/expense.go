package models

import "github.com/mmynk/groupledger/internal/money"

// Expense represents a cost paid by one member and divided among shares.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Title is a short description (e.g., "Groceries").
	Title string

	// Amount is the total paid. Always positive.
	Amount money.Amount

	// PaidBy is the user ID of the member who paid.
	PaidBy string

	// Shares divide Amount among members. They sum to Amount exactly.
	Shares []Share

	// Note is an optional free-text comment.
	Note string

	// OccurredAt is the Unix timestamp when the expense happened.
	OccurredAt int64

	// CreatedBy is the user ID who recorded this expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Share is one member's portion of an expense.
type Share struct {
	ExpenseID string
	UserID    string
	Amount    money.Amount
}
