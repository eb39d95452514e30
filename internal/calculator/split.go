package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/money"
)

// SplitMethod selects how an expense amount is divided among participants.
type SplitMethod string

const (
	SplitEqual         SplitMethod = "equal"
	SplitExact         SplitMethod = "exact"
	SplitPercentage    SplitMethod = "percentage"
	SplitReimbursement SplitMethod = "reimbursement"
)

var (
	ErrNoParticipants    = errors.New("must have at least one participant")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrSharesMismatch    = errors.New("shares do not sum to total amount")
	ErrPercentMismatch   = errors.New("percentages must sum to 100")
	ErrUnknownMethod     = errors.New("unknown split method")
	ErrNegativeShare     = errors.New("share values cannot be negative")
)

// ShareTolerance is the largest gap between an exact split's sum and the
// expense amount that is accepted. The gap is absorbed by the first share.
const ShareTolerance money.Amount = 1

var (
	hundred          = decimal.NewFromInt(100)
	percentTolerance = decimal.RequireFromString("0.1")
)

// SplitInput describes one split request.
//
// Participants fixes the order of the result; the first participant absorbs
// any rounding remainder. Exact and Percentages are keyed by member ID and are
// only read by their respective methods.
type SplitInput struct {
	Method       SplitMethod
	Amount       money.Amount
	PayerID      string
	Participants []string
	Exact        map[string]money.Amount
	Percentages  map[string]decimal.Decimal
}

// CalculateShares divides in.Amount according to in.Method. The returned
// shares always sum to exactly in.Amount.
func CalculateShares(in SplitInput) ([]ShareForBalance, error) {
	if in.Amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	participants := dedupe(in.Participants)
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	switch in.Method {
	case SplitEqual, "":
		return splitEqually(in.Amount, participants), nil
	case SplitExact:
		return splitExact(in.Amount, participants, in.Exact)
	case SplitPercentage:
		return splitPercentage(in.Amount, participants, in.Percentages)
	case SplitReimbursement:
		others := make([]string, 0, len(participants))
		for _, p := range participants {
			if p != in.PayerID {
				others = append(others, p)
			}
		}
		if len(others) == 0 {
			return nil, fmt.Errorf("%w: reimbursement needs someone other than the payer", ErrNoParticipants)
		}
		return splitEqually(in.Amount, others), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, in.Method)
	}
}

// Rebalance folds a residual of at most ShareTolerance into the first share so
// the shares sum to exactly amount.
func Rebalance(amount money.Amount, shares []ShareForBalance) ([]ShareForBalance, error) {
	if len(shares) == 0 {
		return nil, ErrNoParticipants
	}
	var sum money.Amount
	for _, s := range shares {
		var err error
		if sum, err = sum.Add(s.Amount); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSharesMismatch, err)
		}
	}
	diff := amount - sum
	if diff.Abs() > ShareTolerance {
		return nil, fmt.Errorf("%w: shares %s, amount %s", ErrSharesMismatch, sum, amount)
	}
	if diff != 0 {
		out := make([]ShareForBalance, len(shares))
		copy(out, shares)
		out[0].Amount += diff
		if out[0].Amount <= 0 {
			return nil, ErrSharesMismatch
		}
		return out, nil
	}
	return shares, nil
}

func splitEqually(amount money.Amount, participants []string) []ShareForBalance {
	n := money.Amount(len(participants))
	base := amount / n
	remainder := amount - base*n

	shares := make([]ShareForBalance, 0, len(participants))
	for _, p := range participants {
		shares = append(shares, ShareForBalance{MemberID: p, Amount: base})
	}
	shares[0].Amount += remainder

	// With more participants than cents some shares are zero; drop them.
	return dropZero(shares)
}

func splitExact(amount money.Amount, participants []string, exact map[string]money.Amount) ([]ShareForBalance, error) {
	shares := make([]ShareForBalance, 0, len(participants))
	for _, p := range participants {
		v := exact[p]
		if v < 0 {
			return nil, ErrNegativeShare
		}
		shares = append(shares, ShareForBalance{MemberID: p, Amount: v})
	}
	shares = dropZero(shares)
	if len(shares) == 0 {
		return nil, ErrNoParticipants
	}
	return Rebalance(amount, shares)
}

func splitPercentage(amount money.Amount, participants []string, pcts map[string]decimal.Decimal) ([]ShareForBalance, error) {
	total := decimal.Zero
	shares := make([]ShareForBalance, 0, len(participants))
	for _, p := range participants {
		pct := pcts[p]
		if pct.IsNegative() {
			return nil, ErrNegativeShare
		}
		total = total.Add(pct)
		share := money.FromDecimal(amount.Decimal().Mul(pct).Div(hundred))
		shares = append(shares, ShareForBalance{MemberID: p, Amount: share})
	}
	if total.Sub(hundred).Abs().GreaterThan(percentTolerance) {
		return nil, fmt.Errorf("%w: got %s", ErrPercentMismatch, total.String())
	}

	shares = dropZero(shares)
	if len(shares) == 0 {
		return nil, ErrNoParticipants
	}

	var sum money.Amount
	for _, s := range shares {
		sum += s.Amount
	}
	shares[0].Amount += amount - sum
	if shares[0].Amount <= 0 {
		return nil, ErrPercentMismatch
	}
	return shares, nil
}

func dropZero(shares []ShareForBalance) []ShareForBalance {
	out := shares[:0]
	for _, s := range shares {
		if s.Amount > 0 {
			out = append(out, s)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
