package main

import (
	"context"
	"net/http"
)

// 基于string定义一个contextType
type contextKey string

// 从请求的 context 中获取/设置请求 ID
const requestIDContextKey = contextKey("request_id")

// contextSetRequestID 返回一个复制的 request，其 context 中带有请求 ID
func (app *application) contextSetRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, id)
	return r.WithContext(ctx)
}

// contextGetRequestID 从 context 中取请求 ID，没有时返回空字符串
func (app *application) contextGetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}
