package api

import "google.golang.org/protobuf/types/known/timestamppb"

type Group struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	OwnerID     string                 `json:"ownerId"`
	MemberCount int32                  `json:"memberCount"`
	Members     []*Member              `json:"members,omitempty"`
	CreatedAt   *timestamppb.Timestamp `json:"createdAt,omitempty"`
}

type Member struct {
	UserID   string                 `json:"userId"`
	Name     string                 `json:"name"`
	Email    string                 `json:"email"`
	JoinedAt *timestamppb.Timestamp `json:"joinedAt,omitempty"`
}

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type AddMemberRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

// MemberBalance is one member's position in a group. Positive Balance means
// the group owes the member, negative means the member owes the group.
type MemberBalance struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Balance   string `json:"balance"`
	TotalPaid string `json:"totalPaid"`
	TotalOwed string `json:"totalOwed"`
}

// DebtEdge is a suggested transfer that would help settle the group.
type DebtEdge struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	Amount     string `json:"amount"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
	Debts    []*DebtEdge      `json:"debts"`
}
