package models

// Group represents a named collection of members sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip").
	Name string

	// Description is optional free text.
	Description string

	// OwnerID is the user who created the group. The owner is always a member.
	OwnerID string

	// Members is the current membership, ordered by join time.
	// Only populated by GetGroup.
	Members []Member

	// MemberCount is filled by list queries where Members is not loaded.
	MemberCount int

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is a user's participation in a group.
type Member struct {
	GroupID string
	UserID  string

	// Name and Email are denormalized from the user for display.
	Name  string
	Email string

	// JoinedAt is the Unix timestamp when the user was added.
	JoinedAt int64
}

// MemberIDs returns the user IDs of the group's members in order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
