package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	"github.com/mmynk/groupledger/internal/storage"
	"github.com/mmynk/groupledger/pkg/api"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// CalculateSplit previews the shares a split would produce without storing anything.
func (s *ExpenseService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	amount, err := money.ParsePositive(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	in, err := splitInput(amount, req.Msg.PaidByUserID, req.Msg.Split)
	if err != nil {
		return nil, toConnectError(err)
	}
	shares, err := calculator.CalculateShares(in)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Debug("Calculated split", "method", in.Method, "amount", amount, "shares", len(shares))
	return connect.NewResponse(&api.CalculateSplitResponse{Shares: toAPIShares(shares)}), nil
}

// CreateExpense records an expense paid by one member and owed by others.
// Shares are taken from the request as-is or derived from its split spec.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, userID, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateExpense request received",
		"group_id", group.ID,
		"title", req.Msg.Title,
		"amount", req.Msg.Amount,
		"user_id", userID,
	)

	amount, err := money.ParsePositive(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	var shares []calculator.ShareForBalance
	switch {
	case req.Msg.Split != nil:
		var in calculator.SplitInput
		in, err = splitInput(amount, req.Msg.PaidByUserID, req.Msg.Split)
		if err == nil {
			shares, err = calculator.CalculateShares(in)
		}
	case len(req.Msg.Shares) > 0:
		shares, err = parseShares(req.Msg.Shares)
	default:
		err = ErrNoShares
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	shares, err = validateExpense(group, amount, req.Msg.PaidByUserID, shares)
	if err != nil {
		s.logger.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		GroupID:   group.ID,
		Title:     strings.TrimSpace(req.Msg.Title),
		Amount:    amount,
		PaidBy:    req.Msg.PaidByUserID,
		Note:      req.Msg.Note,
		CreatedBy: userID,
		Shares:    make([]models.Share, len(shares)),
	}
	if req.Msg.OccurredAt != nil {
		expense.OccurredAt = req.Msg.OccurredAt.AsTime().Unix()
	}
	for i, sh := range shares {
		expense.Shares[i] = models.Share{UserID: sh.MemberID, Amount: sh.Amount}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("CreateExpense failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns the group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, _, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	apiExpenses := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		apiExpenses[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: apiExpenses}), nil
}

// CreatePayment records a payment from the caller to another member.
func (s *ExpenseService) CreatePayment(ctx context.Context, req *connect.Request[api.CreatePaymentRequest]) (*connect.Response[api.CreatePaymentResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, userID, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	amount, err := money.ParsePositive(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validatePayment(group, userID, req.Msg.ToUserID, amount); err != nil {
		s.logger.Warn("CreatePayment rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	payment := &models.Payment{
		GroupID:    group.ID,
		FromUserID: userID,
		ToUserID:   req.Msg.ToUserID,
		Amount:     amount,
		Note:       req.Msg.Note,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		s.logger.Error("CreatePayment failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Payment recorded",
		"payment_id", payment.ID,
		"group_id", group.ID,
		"from", userID,
		"to", payment.ToUserID,
		"amount", amount,
	)
	return connect.NewResponse(&api.CreatePaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// ListPayments returns the group's payments, newest first.
func (s *ExpenseService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, _, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListPayments failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	apiPayments := make([]*api.Payment, len(payments))
	for i, p := range payments {
		apiPayments[i] = toAPIPayment(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: apiPayments}), nil
}
