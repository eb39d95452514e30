package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/models"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type ping struct{}

// captureNext records the context it was called with.
func captureNext(got *context.Context) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*got = ctx
		return connect.NewResponse(&ping{}), nil
	}
}

func failingNext(code connect.Code) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(code, errors.New("boom"))
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com"}
	token, err := jwtManager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name     string
		header   string
		wantCode connect.Code
	}{
		{name: "missing header", header: "", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic " + token, wantCode: connect.CodeUnauthenticated},
		{name: "empty bearer", header: "Bearer ", wantCode: connect.CodeUnauthenticated},
		{name: "garbage token", header: "Bearer not-a-jwt", wantCode: connect.CodeUnauthenticated},
		{name: "valid token", header: "Bearer " + token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got context.Context
			req := connect.NewRequest(&ping{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := RequireAuth(jwtManager)(captureNext(&got))(context.Background(), req)
			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("Expected %v, got %v", tt.wantCode, err)
				}
				if got != nil {
					t.Error("Expected handler not to be called")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if GetUserID(got) != user.ID {
				t.Errorf("Expected user ID %q in context, got %q", user.ID, GetUserID(got))
			}
			if GetEmail(got) != user.Email {
				t.Errorf("Expected email %q in context, got %q", user.Email, GetEmail(got))
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("anonymous call passes through", func(t *testing.T) {
		var got context.Context
		_, err := OptionalAuth(jwtManager)(captureNext(&got))(context.Background(), connect.NewRequest(&ping{}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if GetUserID(got) != "" {
			t.Errorf("Expected no user in context, got %q", GetUserID(got))
		}
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		var got context.Context
		req := connect.NewRequest(&ping{})
		req.Header().Set("Authorization", "Bearer nope")
		if _, err := OptionalAuth(jwtManager)(captureNext(&got))(context.Background(), req); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if GetUserID(got) != "" {
			t.Errorf("Expected no user in context, got %q", GetUserID(got))
		}
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		var got context.Context
		req := connect.NewRequest(&ping{})
		req.Header().Set("Authorization", "Bearer "+token)
		if _, err := OptionalAuth(jwtManager)(captureNext(&got))(context.Background(), req); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if GetUserID(got) != "user-1" {
			t.Errorf("Expected user-1 in context, got %q", GetUserID(got))
		}
	})
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, discardLogger)
	var got context.Context
	call := limiter.Interceptor()(captureNext(&got))

	aliceCtx := WithUser(context.Background(), "alice", "alice@example.com")
	for i := range 2 {
		if _, err := call(aliceCtx, connect.NewRequest(&ping{})); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}

	_, err := call(aliceCtx, connect.NewRequest(&ping{}))
	if connect.CodeOf(err) != connect.CodeResourceExhausted {
		t.Fatalf("Expected ResourceExhausted after burst, got %v", err)
	}

	// Budgets are per caller.
	bobCtx := WithUser(context.Background(), "bob", "bob@example.com")
	if _, err := call(bobCtx, connect.NewRequest(&ping{})); err != nil {
		t.Errorf("Expected a separate budget for bob, got %v", err)
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1, discardLogger)
	limiter.getLimiter("idle")
	limiter.getLimiter("busy").Allow()

	limiter.Cleanup()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if _, ok := limiter.limiters["idle"]; ok {
		t.Error("Expected idle limiter to be dropped")
	}
	if _, ok := limiter.limiters["busy"]; !ok {
		t.Error("Expected busy limiter to be kept")
	}
}

func TestPeerHost(t *testing.T) {
	if got := peerHost("10.0.0.1:5432"); got != "10.0.0.1" {
		t.Errorf("peerHost with port = %q", got)
	}
	if got := peerHost("pipe"); got != "pipe" {
		t.Errorf("peerHost without port = %q", got)
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	var got context.Context

	ok := m.Interceptor()(captureNext(&got))
	fail := m.Interceptor()(failingNext(connect.CodeNotFound))

	for range 3 {
		if _, err := ok(context.Background(), connect.NewRequest(&ping{})); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if _, err := fail(context.Background(), connect.NewRequest(&ping{})); err == nil {
		t.Fatal("Expected error")
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	// Requests built outside a handler have an empty procedure.
	for _, want := range []string{
		`groupledger_rpc_requests_total{code="ok",procedure=""} 3`,
		`groupledger_rpc_requests_total{code="not_found",procedure=""} 1`,
		`groupledger_rpc_inflight_requests 0`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected metrics output to contain %q", want)
		}
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	var got context.Context
	call := LoggingInterceptor(discardLogger)(captureNext(&got))
	if _, err := call(context.Background(), connect.NewRequest(&ping{})); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	call = LoggingInterceptor(discardLogger)(failingNext(connect.CodeInvalidArgument))
	_, err := call(context.Background(), connect.NewRequest(&ping{}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("Expected error to pass through unchanged, got %v", err)
	}
}

func TestLevelForCode(t *testing.T) {
	tests := []struct {
		code connect.Code
		want slog.Level
	}{
		{connect.CodeInvalidArgument, slog.LevelWarn},
		{connect.CodePermissionDenied, slog.LevelWarn},
		{connect.CodeResourceExhausted, slog.LevelWarn},
		{connect.CodeInternal, slog.LevelError},
		{connect.CodeUnknown, slog.LevelError},
	}
	for _, tt := range tests {
		if got := levelForCode(tt.code); got != tt.want {
			t.Errorf("levelForCode(%v) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
