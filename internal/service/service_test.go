package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
	"github.com/mmynk/groupledger/pkg/api"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type testEnv struct {
	baseURL  string
	auth     apiconnect.AuthServiceClient
	groups   apiconnect.GroupServiceClient
	expenses apiconnect.ExpenseServiceClient
}

type testUser struct {
	ID    string
	Token string
}

// setupTestServer starts all three services against a fresh SQLite file,
// wired with the same auth interceptors as the server binary.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "groupledger-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	publicInterceptors := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))
	authInterceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, store, testLogger), publicInterceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(
		NewGroupService(store, testLogger), authInterceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(
		NewExpenseService(store, testLogger), authInterceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		baseURL:  server.URL,
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
	}
}

// authed wraps msg in a request carrying the user's bearer token.
func authed[T any](u testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.Token)
	return req
}

func (e *testEnv) register(t *testing.T, name, email string) testUser {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "secret123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return testUser{ID: resp.Msg.User.ID, Token: resp.Msg.Token}
}

func (e *testEnv) createGroup(t *testing.T, owner testUser, name string, members ...string) string {
	t.Helper()
	resp, err := e.groups.CreateGroup(context.Background(), authed(owner, &api.CreateGroupRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := resp.Msg.Group.ID
	for _, email := range members {
		if _, err := e.groups.AddMember(context.Background(), authed(owner, &api.AddMemberRequest{
			GroupID: groupID,
			Email:   email,
		})); err != nil {
			t.Fatalf("AddMember(%s) failed: %v", email, err)
		}
	}
	return groupID
}

// postJSON sends body verbatim to procedure, bypassing the typed client.
func (e *testEnv) postJSON(t *testing.T, u testUser, procedure, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.baseURL+procedure, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s failed: %v", procedure, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
