package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	"github.com/mmynk/groupledger/pkg/api"
)

func timestamp(unix int64) *timestamppb.Timestamp {
	if unix == 0 {
		return nil
	}
	return timestamppb.New(time.Unix(unix, 0))
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: timestamp(u.CreatedAt),
	}
}

func toAPIMember(m models.Member) *api.Member {
	return &api.Member{
		UserID:   m.UserID,
		Name:     m.Name,
		Email:    m.Email,
		JoinedAt: timestamp(m.JoinedAt),
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	group := &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		OwnerID:     g.OwnerID,
		MemberCount: int32(g.MemberCount),
		CreatedAt:   timestamp(g.CreatedAt),
	}
	for _, m := range g.Members {
		group.Members = append(group.Members, toAPIMember(m))
	}
	return group
}

func toAPIShares(shares []calculator.ShareForBalance) []*api.Share {
	out := make([]*api.Share, len(shares))
	for i, s := range shares {
		out[i] = &api.Share{UserID: s.MemberID, Amount: s.Amount.String()}
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	expense := &api.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Title:        e.Title,
		Amount:       e.Amount.String(),
		PaidByUserID: e.PaidBy,
		Shares:       make([]*api.Share, len(e.Shares)),
		Note:         e.Note,
		OccurredAt:   timestamp(e.OccurredAt),
		CreatedBy:    e.CreatedBy,
		CreatedAt:    timestamp(e.CreatedAt),
	}
	for i, s := range e.Shares {
		expense.Shares[i] = &api.Share{UserID: s.UserID, Amount: s.Amount.String()}
	}
	return expense
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:         p.ID,
		GroupID:    p.GroupID,
		FromUserID: p.FromUserID,
		ToUserID:   p.ToUserID,
		Amount:     p.Amount.String(),
		Note:       p.Note,
		OccurredAt: timestamp(p.OccurredAt),
	}
}

// ledgerInputs converts stored records into the calculator's input shapes.
func ledgerInputs(expenses []*models.Expense, payments []*models.Payment) ([]calculator.ExpenseForBalance, []calculator.PaymentForBalance) {
	exps := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.ShareForBalance, len(e.Shares))
		for j, s := range e.Shares {
			shares[j] = calculator.ShareForBalance{MemberID: s.UserID, Amount: s.Amount}
		}
		exps[i] = calculator.ExpenseForBalance{PayerID: e.PaidBy, Amount: e.Amount, Shares: shares}
	}

	pays := make([]calculator.PaymentForBalance, len(payments))
	for i, p := range payments {
		pays[i] = calculator.PaymentForBalance{FromID: p.FromUserID, ToID: p.ToUserID, Amount: p.Amount}
	}
	return exps, pays
}

// parseShares reads explicit shares off the wire.
func parseShares(shares []*api.Share) ([]calculator.ShareForBalance, error) {
	out := make([]calculator.ShareForBalance, 0, len(shares))
	for _, s := range shares {
		amount, err := money.Parse(s.Amount)
		if err != nil {
			return nil, fmt.Errorf("share for %s: %w", s.UserID, err)
		}
		out = append(out, calculator.ShareForBalance{MemberID: s.UserID, Amount: amount})
	}
	return out, nil
}

// splitInput builds a calculator request from a split spec.
func splitInput(amount money.Amount, payerID string, spec *api.SplitSpec) (calculator.SplitInput, error) {
	if spec == nil {
		return calculator.SplitInput{}, ErrNoShares
	}
	in := calculator.SplitInput{
		Method:       calculator.SplitMethod(spec.Method),
		Amount:       amount,
		PayerID:      payerID,
		Participants: spec.Participants,
	}

	if len(spec.ExactAmounts) > 0 {
		in.Exact = make(map[string]money.Amount, len(spec.ExactAmounts))
		for id, raw := range spec.ExactAmounts {
			v, err := money.Parse(raw)
			if err != nil {
				return in, fmt.Errorf("exact amount for %s: %w", id, err)
			}
			in.Exact[id] = v
		}
	}

	if len(spec.Percentages) > 0 {
		in.Percentages = make(map[string]decimal.Decimal, len(spec.Percentages))
		for id, raw := range spec.Percentages {
			v, err := decimal.NewFromString(raw)
			if err != nil {
				return in, fmt.Errorf("percentage for %s: %w: %q", id, money.ErrInvalidAmount, raw)
			}
			in.Percentages[id] = v
		}
	}

	return in, nil
}
