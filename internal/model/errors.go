package model

import (
	"errors"
	"fmt"
)

// ErrorKind はエラーの分類を表す。
// ハンドラーはこの分類だけを見てHTTPステータスを決定する。
type ErrorKind int

const (
	// KindServerFailure は想定外の永続化・実行時エラー。
	KindServerFailure ErrorKind = iota
	// KindValidationFailure は必須フィールド欠落や不正な列挙値。
	KindValidationFailure
	// KindConflictFailure はusername重複などの一意制約違反。
	KindConflictFailure
	// KindInvalidCredentials はユーザー名またはパスワードの誤り。
	KindInvalidCredentials
	// KindUnauthorized はトークン欠落・不正・ユーザー不在。
	KindUnauthorized
)

// String はログ出力用の名前を返す。
func (k ErrorKind) String() string {
	switch k {
	case KindValidationFailure:
		return "validation"
	case KindConflictFailure:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "server"
	}
}

// AppError は分類付きのアプリケーションエラー。
// Messageはログ用の説明で、クライアントにはそのまま返さない。
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error はerrorインターフェースを実装する。
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap は原因エラーを返す。
func (e *AppError) Unwrap() error {
	return e.Err
}

// KindOf はエラーの分類を返す。AppErrorを含まない場合はKindServerFailure。
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServerFailure
}

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(reason string) *AppError {
	return &AppError{Kind: KindValidationFailure, Message: reason}
}

// NewConflictError は一意制約違反エラーを生成する。
func NewConflictError(reason string, err error) *AppError {
	return &AppError{Kind: KindConflictFailure, Message: reason, Err: err}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// ユーザー不在とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *AppError {
	return &AppError{Kind: KindInvalidCredentials, Message: "invalid username or password"}
}

// NewUnauthorizedError は認可失敗エラーを生成する。
func NewUnauthorizedError(reason string, err error) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: reason, Err: err}
}

// NewServerError は内部エラーを生成する。
func NewServerError(reason string, err error) *AppError {
	return &AppError{Kind: KindServerFailure, Message: reason, Err: err}
}
