package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskman/internal/middleware"
	"github.com/hitoshi/taskman/internal/model"
)

// handleServiceError はサービス層のエラーを分類に従ってHTTPレスポンスに変換する。
// 検証エラーと重複エラーは内部エラーと同じ500として返し、分類はログにのみ残す。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := model.KindOf(err)

	switch kind {
	case model.KindInvalidCredentials:
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, middleware.MessageInvalidCredentials)
		return
	case model.KindUnauthorized:
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, middleware.MessageUnauthorized)
		return
	}

	slog.Error("request failed",
		slog.String("kind", kind.String()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// writeInvalidRequestBody はJSONとして解釈できないリクエストボディに400を返す。
func writeInvalidRequestBody(w http.ResponseWriter, r *http.Request, err error) {
	slog.Warn("invalid request body",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	middleware.WriteErrorResponse(w, http.StatusBadRequest, middleware.MessageInvalidRequest)
}
