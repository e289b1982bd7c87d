package auth

import (
	"fmt"
	"strings"
)

// AuthState は認証ゲートの判定結果を表す。
type AuthState int

const (
	// StateNoToken はAuthorizationヘッダーが存在しない状態。
	StateNoToken AuthState = iota
	// StateInvalidToken はヘッダー形式・署名・アルゴリズムのいずれかが不正な状態。
	StateInvalidToken
	// StateValidTokenUnknownUser は署名は正しいがユーザーを解決できない状態。
	StateValidTokenUnknownUser
	// StateAuthenticated は認証済みの状態。
	StateAuthenticated
)

// String はログおよびメトリクスのラベルに使う名前を返す。
func (s AuthState) String() string {
	switch s {
	case StateNoToken:
		return "no_token"
	case StateInvalidToken:
		return "invalid_token"
	case StateValidTokenUnknownUser:
		return "unknown_user"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// AuthError は認証ゲートの失敗を表す。失敗はすべて終端で、再試行しない。
type AuthError struct {
	State AuthState
	Err   error
}

// Error はerrorインターフェースを実装する。
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed (%s): %v", e.State, e.Err)
	}
	return fmt.Sprintf("authentication failed (%s)", e.State)
}

// Unwrap は原因エラーを返す。
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Identity は認証済みリクエストの主体。
type Identity struct {
	UserID   string
	Username string
}

// bearerToken はAuthorizationヘッダーからトークン部分を取り出す。
// 空白で分割し、"Bearer <token>" の2要素であることを要求する。
func bearerToken(header string) (string, *AuthError) {
	if strings.TrimSpace(header) == "" {
		return "", &AuthError{State: StateNoToken}
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &AuthError{
			State: StateInvalidToken,
			Err:   fmt.Errorf("malformed authorization header"),
		}
	}
	return parts[1], nil
}
