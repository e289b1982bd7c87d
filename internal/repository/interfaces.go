// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/taskman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// usernameが既に存在する場合はKindConflictFailureのエラーを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はusernameの完全一致でユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// Create はタスクを作成する。
	// 必須フィールド欠落や不正な優先度はKindValidationFailureのエラーを返す。
	Create(ctx context.Context, task *model.Task) error

	// ListByUserID はユーザーが所有する全タスクを期限日の昇順で返す。
	// 期限日が同じ場合は作成日時の昇順とする。
	ListByUserID(ctx context.Context, userID string) ([]*model.Task, error)
}
