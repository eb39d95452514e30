package service

import (
	"fmt"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// validateExpense checks an expense against the group it is recorded in and
// returns shares that sum to exactly amount.
//
// Every share must be positive and belong to a distinct current member; the
// payer must be a member too. A one-cent gap between the shares and the amount
// is folded into the first share.
func validateExpense(group *models.Group, amount money.Amount, payerID string, shares []calculator.ShareForBalance) ([]calculator.ShareForBalance, error) {
	if amount <= 0 {
		return nil, money.ErrNonPositive
	}
	if len(shares) == 0 {
		return nil, ErrNoShares
	}
	if !group.HasMember(payerID) {
		return nil, fmt.Errorf("payer %s: %w", payerID, ErrNotGroupMember)
	}

	seen := make(map[string]struct{}, len(shares))
	for _, s := range shares {
		if s.Amount <= 0 {
			return nil, fmt.Errorf("share for %s: %w", s.MemberID, money.ErrNonPositive)
		}
		if !group.HasMember(s.MemberID) {
			return nil, fmt.Errorf("share for %s: %w", s.MemberID, ErrNotGroupMember)
		}
		if _, dup := seen[s.MemberID]; dup {
			return nil, fmt.Errorf("%s: %w", s.MemberID, ErrDuplicateShare)
		}
		seen[s.MemberID] = struct{}{}
	}

	return calculator.Rebalance(amount, shares)
}

// validatePayment checks a payment between two members of group.
func validatePayment(group *models.Group, fromID, toID string, amount money.Amount) error {
	if amount <= 0 {
		return money.ErrNonPositive
	}
	if fromID == toID {
		return ErrSelfPayment
	}
	if !group.HasMember(fromID) {
		return fmt.Errorf("sender %s: %w", fromID, ErrNotGroupMember)
	}
	if !group.HasMember(toID) {
		return fmt.Errorf("receiver %s: %w", toID, ErrNotGroupMember)
	}
	return nil
}
