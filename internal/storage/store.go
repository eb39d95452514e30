// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/groupledger/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyMember is returned when adding a user to a group twice.
	ErrAlreadyMember = errors.New("user already in group")
	// ErrEmailTaken is returned when creating a user with a registered email.
	ErrEmailTaken = errors.New("email already registered")
)

// Ledger is a snapshot of everything the balance calculation needs for one group.
type Ledger struct {
	Group    *models.Group
	Expenses []*models.Expense
	Payments []*models.Payment
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrEmailTaken if the email is in use.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore

	// CreateGroup persists a new group and adds its owner as the first member.
	// The group.ID and CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members.
	// Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns the groups userID belongs to, with MemberCount set.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember adds a user to a group.
	// Returns ErrAlreadyMember if the user is already in the group.
	AddMember(ctx context.Context, groupID, userID string) (*models.Member, error)

	// CreateExpense persists an expense and its shares atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroup returns a group's expenses with shares, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// CreatePayment persists a settlement payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPaymentsByGroup returns a group's payments, newest first.
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)

	// LoadLedger reads a group with its members, expenses and payments.
	// Returns ErrNotFound if the group does not exist.
	LoadLedger(ctx context.Context, groupID string) (*Ledger, error)

	// Close releases any resources held by the store.
	Close() error
}
