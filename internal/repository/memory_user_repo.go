package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/taskman/internal/model"
)

// MemoryUserRepo はプロセス内メモリを使用したユーザーリポジトリ。
// ローカル開発とテストで使用する。
type MemoryUserRepo struct {
	mu         sync.RWMutex
	byID       map[string]*model.User
	byUsername map[string]string // username -> id
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:       make(map[string]*model.User),
		byUsername: make(map[string]string),
	}
}

// Create はユーザーを作成する。usernameが既に存在する場合はConflictエラーを返す。
func (r *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.Username == "" || user.PasswordHash == "" {
		return model.NewValidationError("username and password hash are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return model.NewConflictError("username already exists: "+user.Username, nil)
	}

	stored := *user
	r.byID[user.ID] = &stored
	r.byUsername[user.Username] = user.ID
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

// FindByUsername はusernameの完全一致でユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	id, ok := r.byUsername[username]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

// compile-time interface check
var _ UserRepository = (*MemoryUserRepo)(nil)
