package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/taskman/internal/auth"
)

// --- モック定義 ---

type mockAuthenticator struct {
	authenticateFn func(ctx context.Context, header string) (*auth.Identity, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, header string) (*auth.Identity, error) {
	return m.authenticateFn(ctx, header)
}

type mockAuthFailureRecorder struct {
	states []string
}

func (m *mockAuthFailureRecorder) RecordAuthFailure(state string) {
	m.states = append(m.states, state)
}

// --- テスト ---

func TestAuthMiddleware_ValidToken_InjectsUserID(t *testing.T) {
	authn := &mockAuthenticator{
		authenticateFn: func(ctx context.Context, header string) (*auth.Identity, error) {
			if header != "Bearer good-token" {
				t.Errorf("header = %q, want %q", header, "Bearer good-token")
			}
			return &auth.Identity{UserID: "user-123", Username: "alice"}, nil
		},
	}

	var capturedUserID string
	handler := NewAuthMiddleware(authn, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		capturedUserID = userID
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if capturedUserID != "user-123" {
		t.Errorf("userID = %q, want %q", capturedUserID, "user-123")
	}
}

func TestAuthMiddleware_Failure_Returns401AndHalts(t *testing.T) {
	states := []auth.AuthState{
		auth.StateNoToken,
		auth.StateInvalidToken,
		auth.StateValidTokenUnknownUser,
	}

	for _, state := range states {
		t.Run(state.String(), func(t *testing.T) {
			authn := &mockAuthenticator{
				authenticateFn: func(ctx context.Context, header string) (*auth.Identity, error) {
					return nil, &auth.AuthError{State: state}
				},
			}
			recorder := &mockAuthFailureRecorder{}

			nextCalled := false
			handler := NewAuthMiddleware(authn, recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tasks", nil))

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if nextCalled {
				t.Error("downstream handler must not run on auth failure")
			}

			var body ErrorResponseBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to parse body: %v", err)
			}
			if body.Error != MessageUnauthorized {
				t.Errorf("error = %q, want %q", body.Error, MessageUnauthorized)
			}

			if len(recorder.states) != 1 || recorder.states[0] != state.String() {
				t.Errorf("recorded states = %v, want [%s]", recorder.states, state)
			}
		})
	}
}

func TestAuthMiddleware_NonAuthError_RecordedAsUnknown(t *testing.T) {
	authn := &mockAuthenticator{
		authenticateFn: func(ctx context.Context, header string) (*auth.Identity, error) {
			return nil, errors.New("unexpected")
		},
	}
	recorder := &mockAuthFailureRecorder{}
	handler := NewAuthMiddleware(authn, recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if len(recorder.states) != 1 || recorder.states[0] != "unknown" {
		t.Errorf("recorded states = %v, want [unknown]", recorder.states)
	}
}

func TestUserIDFromContext_Missing_ReturnsError(t *testing.T) {
	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("expected error when user ID is absent")
	}
	if _, err := UserIDFromContext(ContextWithUserID(context.Background(), "")); err == nil {
		t.Error("expected error for empty user ID")
	}
}
