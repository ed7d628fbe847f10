package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/usecase"
)

// mockTaskUsecase is a mock implementation of the TaskUsecase interface.
type mockTaskUsecase struct {
	ListFunc         func(ctx context.Context) ([]entity.Task, error)
	CreateFunc       func(ctx context.Context, text string) (uint, error)
	UpdateTextFunc   func(ctx context.Context, id uint, text string) error
	SetCompletedFunc func(ctx context.Context, id uint, completed bool) error
	DeleteFunc       func(ctx context.Context, id uint) error
	SearchFunc       func(ctx context.Context, term string) ([]entity.Task, error)
	ReorderFunc      func(ctx context.Context, ids []uint) error
}

func (m *mockTaskUsecase) List(ctx context.Context) ([]entity.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockTaskUsecase) Create(ctx context.Context, text string) (uint, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, text)
	}
	return 1, nil
}

func (m *mockTaskUsecase) UpdateText(ctx context.Context, id uint, text string) error {
	if m.UpdateTextFunc != nil {
		return m.UpdateTextFunc(ctx, id, text)
	}
	return nil
}

func (m *mockTaskUsecase) SetCompleted(ctx context.Context, id uint, completed bool) error {
	if m.SetCompletedFunc != nil {
		return m.SetCompletedFunc(ctx, id, completed)
	}
	return nil
}

func (m *mockTaskUsecase) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockTaskUsecase) Search(ctx context.Context, term string) ([]entity.Task, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, term)
	}
	return nil, nil
}

func (m *mockTaskUsecase) Reorder(ctx context.Context, ids []uint) error {
	if m.ReorderFunc != nil {
		return m.ReorderFunc(ctx, ids)
	}
	return nil
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// newRouter registers every task route the same way the application router does.
func newRouter(uc TaskUsecase) *gin.Engine {
	h := NewTaskHandler(uc)
	r := gin.New()
	r.GET("/tasks", h.List)
	r.POST("/tasks", h.Create)
	r.GET("/tasks/search/:task", h.Search)
	r.PUT("/tasks/reorder", h.Reorder)
	r.PUT("/tasks/completed/:id", h.SetCompleted)
	r.PUT("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTaskHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := newRouter(&mockTaskUsecase{
			ListFunc: func(ctx context.Context) ([]entity.Task, error) {
				return []entity.Task{
					{ID: 3, Task: "C", Position: 0},
					{ID: 1, Task: "A", Completed: true, Position: 1},
				}, nil
			},
		})

		w := do(r, http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[
			{"id":3,"task":"C","completed":false,"position":0},
			{"id":1,"task":"A","completed":true,"position":1}
		]`, w.Body.String())
	})

	t.Run("empty list is an array", func(t *testing.T) {
		w := do(newRouter(&mockTaskUsecase{}), http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("database error", func(t *testing.T) {
		r := newRouter(&mockTaskUsecase{
			ListFunc: func(ctx context.Context) ([]entity.Task, error) { return nil, errors.New("secret detail") },
		})

		w := do(r, http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Database error"}`, w.Body.String())
	})
}

func TestTaskHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockCreate     func(ctx context.Context, text string) (uint, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			body: `{"task":"buy milk"}`,
			mockCreate: func(ctx context.Context, text string) (uint, error) {
				if text != "buy milk" {
					return 0, errors.New("unexpected text")
				}
				return 7, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Task added successfully","taskId":7}`,
		},
		{
			name:           "missing task",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Task is required"}`,
		},
		{
			name:           "database error",
			body:           `{"task":"x"}`,
			mockCreate:     func(ctx context.Context, text string) (uint, error) { return 0, errors.New("insert failed") },
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Database error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newRouter(&mockTaskUsecase{CreateFunc: tt.mockCreate}), http.MethodPost, "/tasks", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got uint
		r := newRouter(&mockTaskUsecase{
			DeleteFunc: func(ctx context.Context, id uint) error {
				got = id
				return nil
			},
		})

		w := do(r, http.MethodDelete, "/tasks/12", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(12), got)
		assert.JSONEq(t, `{"message":"Task deleted successfully"}`, w.Body.String())
	})

	t.Run("non-numeric id", func(t *testing.T) {
		r := newRouter(&mockTaskUsecase{
			DeleteFunc: func(ctx context.Context, id uint) error {
				t.Fatal("usecase should not be called")
				return nil
			},
		})

		w := do(r, http.MethodDelete, "/tasks/abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid task id"}`, w.Body.String())
	})

	t.Run("database error", func(t *testing.T) {
		r := newRouter(&mockTaskUsecase{
			DeleteFunc: func(ctx context.Context, id uint) error { return errors.New("locked") },
		})

		w := do(r, http.MethodDelete, "/tasks/1", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTaskHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           string
		mockUpdate     func(ctx context.Context, id uint, text string) error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			path:           "/tasks/3",
			body:           `{"task":"new text"}`,
			mockUpdate:     func(ctx context.Context, id uint, text string) error { return nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Task updated successfully"}`,
		},
		{
			name:           "not found",
			path:           "/tasks/999",
			body:           `{"task":"new text"}`,
			mockUpdate:     func(ctx context.Context, id uint, text string) error { return usecase.ErrTaskNotFound },
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Task not found"}`,
		},
		{
			name:           "zero id",
			path:           "/tasks/0",
			body:           `{"task":"x"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid task id"}`,
		},
		{
			name:           "missing task",
			path:           "/tasks/3",
			body:           `{"text":"wrong field"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Task is required"}`,
		},
		{
			name:           "database error",
			path:           "/tasks/3",
			body:           `{"task":"x"}`,
			mockUpdate:     func(ctx context.Context, id uint, text string) error { return errors.New("timeout") },
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Database error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newRouter(&mockTaskUsecase{UpdateTextFunc: tt.mockUpdate}), http.MethodPut, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestTaskHandler_SetCompleted(t *testing.T) {
	t.Run("false is accepted", func(t *testing.T) {
		got := true
		r := newRouter(&mockTaskUsecase{
			SetCompletedFunc: func(ctx context.Context, id uint, completed bool) error {
				got = completed
				return nil
			},
		})

		w := do(r, http.MethodPut, "/tasks/completed/4", `{"completed":false}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, got)
		assert.JSONEq(t, `{"message":"Task completion status updated"}`, w.Body.String())
	})

	t.Run("missing completed", func(t *testing.T) {
		w := do(newRouter(&mockTaskUsecase{}), http.MethodPut, "/tasks/completed/4", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Completed is required"}`, w.Body.String())
	})

	t.Run("database error", func(t *testing.T) {
		r := newRouter(&mockTaskUsecase{
			SetCompletedFunc: func(ctx context.Context, id uint, completed bool) error { return errors.New("gone") },
		})

		w := do(r, http.MethodPut, "/tasks/completed/4", `{"completed":true}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTaskHandler_Search(t *testing.T) {
	var gotTerm string
	r := newRouter(&mockTaskUsecase{
		SearchFunc: func(ctx context.Context, term string) ([]entity.Task, error) {
			gotTerm = term
			return []entity.Task{{ID: 1, Task: "clean house"}}, nil
		},
	})

	w := do(r, http.MethodGet, "/tasks/search/ea", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ea", gotTerm)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "clean house", body[0]["task"])
}

func TestTaskHandler_Reorder(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockReorder    func(ctx context.Context, ids []uint) error
		expectedIDs    []uint
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			body:           `{"tasks":[{"id":3},{"id":1},{"id":2}]}`,
			mockReorder:    func(ctx context.Context, ids []uint) error { return nil },
			expectedIDs:    []uint{3, 1, 2},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Task order updated successfully"}`,
		},
		{
			name:           "missing tasks",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Tasks are required"}`,
		},
		{
			name: "invalid ids",
			body: `{"tasks":[{"id":1},{"id":1}]}`,
			mockReorder:    func(ctx context.Context, ids []uint) error { return usecase.ErrInvalidReorder },
			expectedIDs:    []uint{1, 1},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid reorder request"}`,
		},
		{
			name: "failed update is reported with details",
			body: `{"tasks":[{"id":1},{"id":2}]}`,
			mockReorder: func(ctx context.Context, ids []uint) error {
				return &usecase.ReorderError{TaskID: 2, Err: errors.New("deadlock")}
			},
			expectedIDs:    []uint{1, 2},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Database error","details":"failed to update position of task 2: deadlock"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIDs []uint
			r := newRouter(&mockTaskUsecase{
				ReorderFunc: func(ctx context.Context, ids []uint) error {
					gotIDs = ids
					if tt.mockReorder == nil {
						t.Fatal("usecase should not be called")
					}
					return tt.mockReorder(ctx, ids)
				},
			})

			w := do(r, http.MethodPut, "/tasks/reorder", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedIDs, gotIDs)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
