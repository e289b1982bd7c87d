package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/taskman/internal/metrics"
	"github.com/hitoshi/taskman/internal/middleware"
	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	// Create は認証済みユーザーのタスクを作成する。
	Create(ctx context.Context, userID string, in task.CreateInput) (*model.Task, error)
	// List は認証済みユーザーのタスクを期限日の昇順で返す。
	List(ctx context.Context, userID string) ([]*model.Task, error)
}

// TaskHandler はタスク管理のHTTPハンドラー。
// 認証ミドルウェアの内側でのみ使用する。
type TaskHandler struct {
	service TaskServiceInterface
	metrics metrics.MetricsCollector
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface, collector metrics.MetricsCollector) *TaskHandler {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &TaskHandler{
		service: service,
		metrics: collector,
	}
}

// createTaskRequest はタスク作成リクエストのボディ。
// 所有者はリクエストから受け取らない。
type createTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     json.RawMessage `json:"dueDate"`
	Category    string          `json:"category"`
	Priority    string          `json:"priority"`
}

// taskResponse はタスクのAPIレスポンス。
type taskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
	UserID      string `json:"userId"`
	CreatedAt   string `json:"createdAt"`
}

// CreateTask は認証済みユーザーのタスクを作成する。
// POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, middleware.MessageUnauthorized)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w, r, err)
		return
	}

	dueDate, err := model.ParseDueDateJSON(req.DueDate)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	t, err := h.service.Create(r.Context(), userID, task.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Category:    req.Category,
		Priority:    model.Priority(req.Priority),
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordTaskCreated()
	middleware.WriteJSON(w, http.StatusCreated, toTaskResponse(t))
}

// ListTasks は認証済みユーザーのタスク一覧を返す。
// GET /tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, middleware.MessageUnauthorized)
		return
	}

	tasks, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	results := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		results[i] = toTaskResponse(t)
	}
	middleware.WriteJSON(w, http.StatusOK, results)
}

// timestampLayout はレスポンスの日時フォーマット。ミリ秒まで常に出力する。
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func toTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.UTC().Format(timestampLayout),
		Category:    t.Category,
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt.UTC().Format(timestampLayout),
	}
}
