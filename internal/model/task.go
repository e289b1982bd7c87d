package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Priority はタスクの優先度を表す。
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid は優先度が定義済みの値かどうかを返す。
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Task はユーザーが所有するToDo項目を表す。
// UserIDは作成時に認証済みユーザーで確定し、以後変更されない。
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
	Category    string
	Priority    Priority
	Completed   bool
	UserID      string
	CreatedAt   time.Time
}

// Validate は永続化前にタスクの必須フィールドを検証する。
func (t *Task) Validate() error {
	switch {
	case t.Title == "":
		return NewValidationError("title is required")
	case t.DueDate.IsZero():
		return NewValidationError("dueDate is required")
	case t.Category == "":
		return NewValidationError("category is required")
	case t.Priority == "":
		return NewValidationError("priority is required")
	case !t.Priority.Valid():
		return NewValidationError("priority must be one of High, Medium, Low")
	case t.UserID == "":
		return NewValidationError("owner is required")
	}
	return nil
}

// dueDateLayouts は期限日として受け付けるフォーマット。
var dueDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseDueDateJSON はJSONの期限日をパースする。
// 文字列はParseDueDateで、数値はUNIXエポックからのミリ秒として解釈する。
func ParseDueDateJSON(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, NewValidationError("dueDate is required")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, NewValidationError("dueDate is not a valid string")
		}
		return ParseDueDate(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return time.Time{}, NewValidationError("dueDate must be a string or a number")
	}
	ms, err := n.Float64()
	if err != nil || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, NewValidationError("dueDate is not a valid timestamp: " + n.String())
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// maxEpochMillis はエポックミリ秒として受け付ける絶対値の上限（±100,000,000日）。
const maxEpochMillis = 8.64e15

// ParseDueDate は期限日文字列をパースする。
// 日付のみの場合はUTCの0時として扱う。
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, NewValidationError("dueDate is required")
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, NewValidationError("dueDate is not a valid date: " + s)
}
