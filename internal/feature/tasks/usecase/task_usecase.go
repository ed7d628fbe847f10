// Package usecase はタスク操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	"todo_backend/internal/feature/tasks/domain/entity"
)

// TaskRepository はタスクの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TaskRepository interface {
	// List は全タスクをposition昇順（同値はID昇順）で返します。
	List(ctx context.Context) ([]entity.Task, error)
	// Create はタスクを追加し、採番されたIDを設定します。
	Create(ctx context.Context, t *entity.Task) error
	// UpdateText はタスク本文を更新します。該当行がない場合はErrTaskNotFoundを返します。
	UpdateText(ctx context.Context, id uint, text string) error
	// SetCompleted は完了フラグを設定します。該当行がなくてもエラーにはなりません。
	SetCompleted(ctx context.Context, id uint, completed bool) error
	// Delete はIDでタスクを削除します。存在確認は行いません。
	Delete(ctx context.Context, id uint) error
	// Search は本文に部分一致するタスクをList と同じ順序で返します。
	Search(ctx context.Context, term string) ([]entity.Task, error)
	// Reorder はids[i]のpositionをiに設定します。全更新は単一トランザクションで実行されます。
	Reorder(ctx context.Context, ids []uint) error
}

// taskUsecase はタスク操作のユースケースを定義します。
type taskUsecase struct {
	tasks TaskRepository
}

// NewTaskUsecase はtaskUsecaseの新しいインスタンスを生成します。
func NewTaskUsecase(tasks TaskRepository) *taskUsecase {
	return &taskUsecase{tasks: tasks}
}

// List は表示順に並んだ全タスクを返します。
func (u *taskUsecase) List(ctx context.Context) ([]entity.Task, error) {
	ts, err := u.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return ts, nil
}

// Create は未完了のタスクを追加し、新しいIDを返します。
func (u *taskUsecase) Create(ctx context.Context, text string) (uint, error) {
	t := &entity.Task{Task: text, Completed: false}
	if err := u.tasks.Create(ctx, t); err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}
	return t.ID, nil
}

// UpdateText はタスク本文を更新します。
func (u *taskUsecase) UpdateText(ctx context.Context, id uint, text string) error {
	if err := u.tasks.UpdateText(ctx, id, text); err != nil {
		return fmt.Errorf("failed to update task %d: %w", id, err)
	}
	return nil
}

// SetCompleted はタスクの完了状態を設定します。
func (u *taskUsecase) SetCompleted(ctx context.Context, id uint, completed bool) error {
	if err := u.tasks.SetCompleted(ctx, id, completed); err != nil {
		return fmt.Errorf("failed to set completion of task %d: %w", id, err)
	}
	return nil
}

// Delete はタスクを削除します。
func (u *taskUsecase) Delete(ctx context.Context, id uint) error {
	if err := u.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return nil
}

// Search は本文にtermを含むタスクを返します。
func (u *taskUsecase) Search(ctx context.Context, term string) ([]entity.Task, error) {
	ts, err := u.tasks.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return ts, nil
}

// Reorder は送信された順序どおりにpositionを振り直します。
// 空のリスト、0のID、重複したIDはErrInvalidReorderとして拒否します。
func (u *taskUsecase) Reorder(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no tasks given", ErrInvalidReorder)
	}
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return fmt.Errorf("%w: task id is required", ErrInvalidReorder)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate task id %d", ErrInvalidReorder, id)
		}
		seen[id] = struct{}{}
	}

	// ReorderErrorはerrors.Asで取り出せるよう%wでラップする
	if err := u.tasks.Reorder(ctx, ids); err != nil {
		return fmt.Errorf("failed to reorder tasks: %w", err)
	}
	return nil
}
