package service

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence 表示底层存储读写失败
	ErrPersistence = errors.New("persistence failure")
	// ErrValidation 表示输入在访问存储前即被拒绝
	ErrValidation = errors.New("validation failed")

	// ErrGoalNotFound 在指定目标不存在时返回
	ErrGoalNotFound = errors.New("goal not found")
	// ErrArchivedGoalNotFound 在指定归档记录不存在时返回
	ErrArchivedGoalNotFound = errors.New("archived goal not found")
	// ErrRecapNotFound 在指定复盘不存在时返回
	ErrRecapNotFound = errors.New("weekly recap not found")
	// ErrEventNotFound 在指定日历事件不存在时返回
	ErrEventNotFound = errors.New("calendar event not found")

	ErrGoalTitleRequired  = fmt.Errorf("%w: goal title is required", ErrValidation)
	ErrEventTitleRequired = fmt.Errorf("%w: event title is required", ErrValidation)
	ErrEventInvalidRange  = fmt.Errorf("%w: event ends before it starts", ErrValidation)
	ErrInvalidMove        = fmt.Errorf("%w: move index out of range", ErrValidation)
	ErrCategoryMismatch   = fmt.Errorf("%w: goals belong to a different category", ErrValidation)
	ErrWeekMismatch       = fmt.Errorf("%w: goals belong to a different week", ErrValidation)
	ErrInvalidWeek        = fmt.Errorf("%w: invalid week date", ErrValidation)
)

// persistenceError 同时保留错误类别与底层原因，调用方可用 errors.Is 判断。
func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
