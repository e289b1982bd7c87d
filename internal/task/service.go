// Package task はユーザーごとのタスク作成・一覧のドメインロジックを提供する。
package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
)

// CreateInput はタスク作成の入力。所有者は含まない。
type CreateInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Category    string
	Priority    model.Priority
}

// Service はタスク管理のサービス層。
// すべての操作は認証済みユーザーのタスクに限定される。
type Service struct {
	repo repository.TaskRepository
	now  func() time.Time
}

// NewService はServiceを生成する。
func NewService(repo repository.TaskRepository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Create は認証済みユーザーが所有するタスクを作成する。
// completedは常にfalseで作成する。
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*model.Task, error) {
	t := &model.Task{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Category:    in.Category,
		Priority:    in.Priority,
		Completed:   false,
		UserID:      userID,
		CreatedAt:   s.now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if model.KindOf(err) != model.KindServerFailure {
			return nil, err
		}
		return nil, model.NewServerError("failed to create task", err)
	}

	slog.Debug("task created",
		slog.String("task_id", t.ID),
		slog.String("user_id", userID),
	)
	return t, nil
}

// List は認証済みユーザーの全タスクを期限日の昇順で返す。
// ページネーションは行わない。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Task, error) {
	tasks, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, model.NewServerError("failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}
	return tasks, nil
}
