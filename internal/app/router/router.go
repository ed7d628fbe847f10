// Package router はアプリケーションのginエンジンとルーティングを組み立てます。
package router

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "todo_backend/internal/feature/auth/transport/handler"
	taskhandler "todo_backend/internal/feature/tasks/transport/handler"
	platformhandler "todo_backend/internal/platform/http/handler"
	"todo_backend/internal/platform/http/middleware"
	jwtmw "todo_backend/internal/platform/jwt"
)

func NewRouter(logger *slog.Logger, db platformhandler.Pinger, tokens jwtmw.TokenVerifier,
	authHandler *authhandler.AuthHandler, tasks *taskhandler.TaskHandler) *gin.Engine {
	r := gin.New()

	// 共通ミドルウェア
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(logger))
	// 全オリジンからのアクセスを許可
	r.Use(cors.Default())

	// 導通確認用
	health := platformhandler.Health(db)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// 新規ユーザー登録
	r.POST("/register", authHandler.Register)
	// ログイン（JWT 発行）
	r.POST("/login", authHandler.Login)
	// トークン検証
	// → ヘッダーの存在確認と署名検証を別ステージで行う
	r.POST("/profile", jwtmw.RequireCredential(), jwtmw.VerifyCredential(tokens), authHandler.Profile)

	// タスク
	t := r.Group("/tasks")
	{
		t.GET("", tasks.List)
		t.POST("", tasks.Create)
		t.GET("/search/:task", tasks.Search)
		t.PUT("/reorder", tasks.Reorder)
		t.PUT("/completed/:id", tasks.SetCompleted)
		t.PUT("/:id", tasks.Update)
		t.DELETE("/:id", tasks.Delete)
	}

	return r
}
