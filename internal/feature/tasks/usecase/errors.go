package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound は更新対象のタスクが存在しない場合に返されます。
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidReorder は並び替えリクエストが空、またはIDが不正・重複している場合に返されます。
	ErrInvalidReorder = errors.New("invalid reorder request")
)

// ReorderError は並び替えトランザクション中に失敗したタスクを示します。
// トランザクションはロールバック済みのため、どのタスクの位置も変更されていません。
type ReorderError struct {
	TaskID uint
	Err    error
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf("failed to update position of task %d: %v", e.TaskID, e.Err)
}

func (e *ReorderError) Unwrap() error {
	return e.Err
}
