package middleware

import (
	"net/http"
	"runtime/debug"

	"riskguard/pkg/utils"
)

// Recovery - middleware восстановления после паники в handler'ах.
//
// Паника одного запроса не роняет процесс: риск-цикл и воркер
// уведомлений живут в том же бинаре.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				utils.Error("panic in http handler",
					utils.String("method", r.Method),
					utils.String("path", r.URL.Path),
					utils.Any("panic", err),
					utils.String("stack", string(debug.Stack())))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"internal server error"}`))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
