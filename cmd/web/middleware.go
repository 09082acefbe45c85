package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// recoverPanic 把处理器中的 panic 转成 500 页面，并让服务器在响应后断开该连接
func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			pv := recover()
			if pv == nil {
				return
			}

			w.Header().Set("Connection", "close")
			app.serverErrorResponse(w, r, fmt.Errorf("panic: %v", pv))
		}()

		next.ServeHTTP(w, r)
	})
}

// statusRecorder 记录响应状态码，供请求日志使用
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// logRequest 为每个请求分配 ID 并在处理完成后记录一条日志
func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		r = app.contextSetRequestID(r, id)
		w.Header().Set("X-Request-Id", id)

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rw, r)

		app.logger.Info("request handled",
			"request_id", id,
			"method", r.Method,
			"uri", r.URL.RequestURI(),
			"status", rw.status,
			"duration", time.Since(start).String(),
		)
	})
}
