package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/hitoshi/taskman/internal/model"
)

// MemoryTaskRepo はプロセス内メモリを使用したタスクリポジトリ。
type MemoryTaskRepo struct {
	mu     sync.RWMutex
	byUser map[string][]*model.Task // userID -> tasks（作成順）
}

// NewMemoryTaskRepo はMemoryTaskRepoを生成する。
func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{
		byUser: make(map[string][]*model.Task),
	}
}

// Create はタスクを作成する。
// PostgreSQLのスキーマ制約と同じ検証を行う。
func (r *MemoryTaskRepo) Create(ctx context.Context, task *model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *task
	r.byUser[task.UserID] = append(r.byUser[task.UserID], &stored)
	return nil
}

// ListByUserID はユーザーが所有する全タスクを期限日の昇順で返す。
// 期限日が同じ場合は作成順を維持する。
func (r *MemoryTaskRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Task, error) {
	r.mu.RLock()
	owned := r.byUser[userID]
	tasks := make([]*model.Task, len(owned))
	for i, t := range owned {
		c := *t
		tasks[i] = &c
	}
	r.mu.RUnlock()

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
	return tasks, nil
}

// compile-time interface check
var _ TaskRepository = (*MemoryTaskRepo)(nil)
