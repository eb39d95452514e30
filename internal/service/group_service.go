package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
	"github.com/mmynk/groupledger/pkg/api"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// CreateGroup creates a group owned by the caller, who becomes its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateGroup request received", "name", req.Msg.Name, "user_id", userID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("name is required"))
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(req.Msg.Description),
		OwnerID:     userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	// Re-read to pick up the owner's membership row.
	created, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		s.logger.Error("Failed to fetch created group", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(created)}), nil
}

// ListGroups returns the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	apiGroups := make([]*api.Group, len(groups))
	for i, group := range groups {
		apiGroups[i] = toAPIGroup(group)
	}

	s.logger.Info("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: apiGroups}), nil
}

// GetGroup returns a group with its members. Only members may read it.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, _, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		s.logger.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, err
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// AddMember adds a registered user, looked up by email, to the group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, addedBy, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Msg.Email))
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("no user with email %s", email))
		}
		return nil, toConnectError(err)
	}

	member, err := s.store.AddMember(ctx, group.ID, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyMember) {
			return nil, connect.NewError(connect.CodeAlreadyExists, fmt.Errorf("%s is already in the group", email))
		}
		s.logger.Error("AddMember failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Member added", "group_id", group.ID, "user_id", user.ID, "added_by", addedBy)
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(*member)}), nil
}

// GetGroupBalances returns every member's net position and a set of transfers
// that would settle the group.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if _, _, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	ledger, err := s.store.LoadLedger(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("LoadLedger failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	memberIDs := ledger.Group.MemberIDs()
	names := make(map[string]string, len(ledger.Group.Members))
	for _, m := range ledger.Group.Members {
		names[m.UserID] = m.Name
	}
	expenses, payments := ledgerInputs(ledger.Expenses, ledger.Payments)

	summary := calculator.SummarizeBalances(memberIDs, expenses, payments)
	net := calculator.ComputeBalances(memberIDs, expenses, payments)
	debts := calculator.SimplifyDebts(net)

	resp := &api.GetGroupBalancesResponse{
		Balances: make([]*api.MemberBalance, len(summary)),
		Debts:    make([]*api.DebtEdge, len(debts)),
	}
	for i, b := range summary {
		resp.Balances[i] = &api.MemberBalance{
			UserID:    b.MemberID,
			Name:      names[b.MemberID],
			Balance:   b.Net.String(),
			TotalPaid: b.Paid.String(),
			TotalOwed: b.Owed.String(),
		}
	}
	for i, d := range debts {
		resp.Debts[i] = &api.DebtEdge{
			FromUserID: d.From,
			ToUserID:   d.To,
			Amount:     d.Amount.String(),
		}
	}

	s.logger.Info("GetGroupBalances successful",
		"group_id", req.Msg.GroupID,
		"expenses", len(ledger.Expenses),
		"payments", len(ledger.Payments),
		"debts", len(debts),
	)
	return connect.NewResponse(resp), nil
}

// callerID returns the authenticated user ID set by the auth interceptor.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// loadGroupForCaller fetches a group and checks that the caller belongs to it.
func loadGroupForCaller(ctx context.Context, store storage.Store, groupID string) (*models.Group, string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, "", err
	}

	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, "", toConnectError(err)
	}
	if !group.HasMember(userID) {
		return nil, "", connect.NewError(connect.CodePermissionDenied, ErrNotMember)
	}
	return group, userID, nil
}
