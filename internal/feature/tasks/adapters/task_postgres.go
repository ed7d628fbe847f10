// Package adapters はtasksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/usecase"
)

// listOrder is the display order: position first, id as tiebreak.
const listOrder = "position ASC, id ASC"

type taskPostgres struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskPostgres)(nil)

// NewTaskPostgres はGORM接続を用いたタスクリポジトリを生成します。
func NewTaskPostgres(db *gorm.DB) *taskPostgres {
	return &taskPostgres{db: db}
}

func (r *taskPostgres) List(ctx context.Context) ([]entity.Task, error) {
	var ts []entity.Task
	if err := r.db.WithContext(ctx).Order(listOrder).Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *taskPostgres) Create(ctx context.Context, t *entity.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// UpdateText は該当行がなければusecase.ErrTaskNotFoundを返します。
func (r *taskPostgres) UpdateText(ctx context.Context, id uint, text string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Task{}).
		Where("id = ?", id).
		Update("task", text)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}

func (r *taskPostgres) SetCompleted(ctx context.Context, id uint, completed bool) error {
	return r.db.WithContext(ctx).
		Model(&entity.Task{}).
		Where("id = ?", id).
		Update("completed", completed).Error
}

func (r *taskPostgres) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Task{}).Error
}

// Search はtask列に対する LIKE '%term%' で検索します。大文字小文字の扱いはDBの照合順序に従います。
func (r *taskPostgres) Search(ctx context.Context, term string) ([]entity.Task, error) {
	var ts []entity.Task
	err := r.db.WithContext(ctx).
		Where("task LIKE ?", "%"+term+"%").
		Order(listOrder).
		Find(&ts).Error
	if err != nil {
		return nil, err
	}
	return ts, nil
}

// Reorder はids[i]のpositionをiに更新します。
// いずれかの更新が失敗した場合はトランザクション全体をロールバックし、
// 失敗したタスクIDを含む*usecase.ReorderErrorを返します。存在しないIDは何も更新しません。
func (r *taskPostgres) Reorder(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			err := tx.Model(&entity.Task{}).
				Where("id = ?", id).
				Update("position", i).Error
			if err != nil {
				return &usecase.ReorderError{TaskID: id, Err: err}
			}
		}
		return nil
	})
}
