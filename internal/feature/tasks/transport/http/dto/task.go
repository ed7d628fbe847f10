// Package dto はtasksフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// TaskReq はタスク追加・本文更新のリクエストボディです。
type TaskReq struct {
	Task string `json:"task" form:"task" binding:"required"`
}

// CompletedReq は完了状態更新のリクエストボディです。
// falseを受け付けるためポインタで受け取ります。
type CompletedReq struct {
	Completed *bool `json:"completed" form:"completed" binding:"required"`
}

// ReorderItem は並び替えリクエストの1要素です。
type ReorderItem struct {
	ID uint `json:"id"`
}

// ReorderReq は並び替えのリクエストボディです。配列の順序がそのままpositionになります。
type ReorderReq struct {
	Tasks []ReorderItem `json:"tasks" binding:"required"`
}

// TaskRes はタスク1件のレスポンスです。
type TaskRes struct {
	ID        uint   `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
	Position  int    `json:"position"`
}

// CreatedRes はタスク追加成功時のレスポンスです。
type CreatedRes struct {
	Message string `json:"message"`
	TaskID  uint   `json:"taskId"`
}

// MessageRes は更新系操作の成功レスポンスです。
type MessageRes struct {
	Message string `json:"message"`
}

// ErrorRes は共通のエラーレスポンスです。
type ErrorRes struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
