package repository

import (
	"errors"
	"fmt"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = pq.ErrorCode("23505")
	pqIntegrityConstraint = pq.ErrorClass("23")
)

// classifyPQError はPostgreSQLのエラーコードをドメインのエラー分類に変換する。
// 一意制約違反はConflict、その他の整合性制約違反（NOT NULL, CHECK, FK）はValidationとする。
func classifyPQError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == pqUniqueViolation {
			return model.NewConflictError(op+": unique constraint "+pqErr.Constraint, err)
		}
		if pqErr.Code.Class() == pqIntegrityConstraint {
			return &model.AppError{
				Kind:    model.KindValidationFailure,
				Message: op + ": constraint " + pqErr.Constraint,
				Err:     err,
			}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
