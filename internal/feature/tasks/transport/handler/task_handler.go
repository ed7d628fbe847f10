// Package handler はtasksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/transport/http/dto"
	"todo_backend/internal/feature/tasks/usecase"
)

// TaskUsecase はタスク操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TaskUsecase interface {
	List(ctx context.Context) ([]entity.Task, error)
	Create(ctx context.Context, text string) (uint, error)
	UpdateText(ctx context.Context, id uint, text string) error
	SetCompleted(ctx context.Context, id uint, completed bool) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, term string) ([]entity.Task, error)
	Reorder(ctx context.Context, ids []uint) error
}

// TaskHandler はタスクのHTTPリクエストを処理します。
type TaskHandler struct {
	uc TaskUsecase
}

// NewTaskHandler は指定されたusecaseでTaskHandlerの新しいインスタンスを生成します。
func NewTaskHandler(uc TaskUsecase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

var errDatabase = dto.ErrorRes{Error: "Database error"}

// parseID はパスパラメータ:idを正の整数として解釈します。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "Invalid task id"})
		return 0, false
	}
	return uint(id), true
}

func toResponse(ts []entity.Task) []dto.TaskRes {
	out := make([]dto.TaskRes, 0, len(ts))
	for _, t := range ts {
		out = append(out, dto.TaskRes{
			ID:        t.ID,
			Task:      t.Task,
			Completed: t.Completed,
			Position:  t.Position,
		})
	}
	return out
}

// List は全タスクを表示順で返します。
//
// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	ts, err := h.uc.List(c.Request.Context())
	if err != nil {
		slog.Error("list tasks failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, errDatabase)
		return
	}
	c.JSON(http.StatusOK, toResponse(ts))
}

// Create はタスクを追加し、新しいIDを返します。
//
// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.TaskReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "Task is required"})
		return
	}

	id, err := h.uc.Create(c.Request.Context(), req.Task)
	if err != nil {
		slog.Error("create task failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, errDatabase)
		return
	}
	c.JSON(http.StatusOK, dto.CreatedRes{Message: "Task added successfully", TaskID: id})
}

// Delete はタスクを削除します。存在しないIDでも成功を返します。
//
// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		slog.Error("delete task failed", "error", err, "task_id", id, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, errDatabase)
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Task deleted successfully"})
}

// Update はタスク本文を更新します。該当タスクがなければ404を返します。
//
// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.TaskReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "Task is required"})
		return
	}

	err := h.uc.UpdateText(c.Request.Context(), id, req.Task)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.MessageRes{Message: "Task updated successfully"})
	case errors.Is(err, usecase.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "Task not found"})
	default:
		slog.Error("update task failed", "error", err, "task_id", id, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, errDatabase)
	}
}

// SetCompleted はタスクの完了状態を更新します。
//
// PUT /tasks/completed/:id
func (h *TaskHandler) SetCompleted(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CompletedReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "Completed is required"})
		return
	}

	if err := h.uc.SetCompleted(c.Request.Context(), id, *req.Completed); err != nil {
		slog.Error("set completion failed", "error", err, "task_id", id, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, errDatabase)
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Task completion status updated"})
}

// Search は本文に:taskを含むタスクを返します。
//
// GET /tasks/search/:task
func (h *TaskHandler) Search(c *gin.Context) {
	ts, err := h.uc.Search(c.Request.Context(), c.Param("task"))
	if err != nil {
		slog.Error("search tasks failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, errDatabase)
		return
	}
	c.JSON(http.StatusOK, toResponse(ts))
}

// Reorder は送信された配列の順にpositionを振り直します。
// 失敗時はロールバックされ、detailsに失敗したタスクと原因を含めて500を返します。
//
// PUT /tasks/reorder
func (h *TaskHandler) Reorder(c *gin.Context) {
	var req dto.ReorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "Tasks are required"})
		return
	}
	ids := make([]uint, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		ids = append(ids, t.ID)
	}

	err := h.uc.Reorder(c.Request.Context(), ids)
	var reorderErr *usecase.ReorderError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.MessageRes{Message: "Task order updated successfully"})
	case errors.Is(err, usecase.ErrInvalidReorder):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
	case errors.As(err, &reorderErr):
		slog.Error("reorder failed", "error", err, "task_id", reorderErr.TaskID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "Database error", Details: reorderErr.Error()})
	default:
		slog.Error("reorder failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "Database error", Details: err.Error()})
	}
}
