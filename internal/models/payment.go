package models

import "github.com/mmynk/groupledger/internal/money"

// Payment represents a direct settlement between group members.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID is the group this payment belongs to.
	GroupID string

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount. Always positive.
	Amount money.Amount

	// Note is an optional description for the payment.
	Note string

	// OccurredAt is the Unix timestamp when the payment was recorded.
	OccurredAt int64
}
