package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/pkg/api"
)

func TestRegister(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if resp.Msg.Token == "" {
		t.Error("expected token in response")
	}
	if resp.Msg.User.ID == "" {
		t.Error("expected non-empty user ID")
	}
	if resp.Msg.User.Email != "alice@example.com" {
		t.Errorf("email: expected normalized 'alice@example.com', got '%s'", resp.Msg.User.Email)
	}
	if resp.Msg.User.CreatedAt == nil {
		t.Error("expected CreatedAt")
	}
}

func TestRegister_Validation(t *testing.T) {
	env := setupTestServer(t)
	env.register(t, "Alice", "alice@example.com")

	tests := []struct {
		name string
		req  *api.RegisterRequest
		want connect.Code
	}{
		{
			name: "duplicate email",
			req:  &api.RegisterRequest{Name: "Other", Email: "alice@example.com", Password: "secret123"},
			want: connect.CodeAlreadyExists,
		},
		{
			name: "short password",
			req:  &api.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "12345"},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "bad email",
			req:  &api.RegisterRequest{Name: "Bob", Email: "not-an-email", Password: "secret123"},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "missing name",
			req:  &api.RegisterRequest{Email: "bob@example.com", Password: "secret123"},
			want: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.want)
		})
	}
}

func TestLogin(t *testing.T) {
	env := setupTestServer(t)
	alice := env.register(t, "Alice", "alice@example.com")

	resp, err := env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Msg.User.ID != alice.ID {
		t.Errorf("user ID: expected '%s', got '%s'", alice.ID, resp.Msg.User.ID)
	}
	if resp.Msg.Token == "" {
		t.Error("expected token in response")
	}

	_, err = env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestGetCurrentUser(t *testing.T) {
	env := setupTestServer(t)
	alice := env.register(t, "Alice", "alice@example.com")

	resp, err := env.auth.GetCurrentUser(context.Background(), authed(alice, &api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if resp.Msg.User.ID != alice.ID || resp.Msg.User.Name != "Alice" {
		t.Errorf("unexpected user: %+v", resp.Msg.User)
	}

	_, err = env.auth.GetCurrentUser(context.Background(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}
