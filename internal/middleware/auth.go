package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskman/internal/auth"
)

// Authenticator はAuthorizationヘッダーを検証して主体を返す。
// auth.Serviceが実装する。
type Authenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (*auth.Identity, error)
}

// AuthFailureRecorder は認証失敗を状態別に記録する。
type AuthFailureRecorder interface {
	RecordAuthFailure(state string)
}

// NewAuthMiddleware はBearerトークンを検証し、認証済みユーザーIDを
// リクエストコンテキストに注入するミドルウェアを返す。
// 検証に失敗したリクエストは401で即座に終了する。
// recorderはnilでもよい。
func NewAuthMiddleware(authenticator Authenticator, recorder AuthFailureRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authenticator.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				state := "unknown"
				var authErr *auth.AuthError
				if errors.As(err, &authErr) {
					state = authErr.State.String()
				}
				slog.Warn("authentication failed",
					slog.String("state", state),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				if recorder != nil {
					recorder.RecordAuthFailure(state)
				}
				WriteErrorResponse(w, http.StatusUnauthorized, MessageUnauthorized)
				return
			}

			ctx := ContextWithUserID(r.Context(), identity.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
