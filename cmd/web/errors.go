package main

import (
	"net/http"
)

// logError 记录错误以及请求的方法、URL 和请求 ID
func (app *application) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		"request_method", r.Method,
		"request_url", r.URL.String(),
		"request_id", app.contextGetRequestID(r),
	)
}

// errorResponse 渲染错误页面，模板本身出错时退回纯文本
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, page string) {
	err := app.renderPage(w, status, page, templateData{})
	if err != nil {
		app.logError(r, err)
		http.Error(w, http.StatusText(status), status)
	}
}

// serverErrorResponse 未预期的错误，返回 500 页面
func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, "500.tmpl")
}

// notFoundResponse 资源不存在，返回 404 页面
func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "404.tmpl")
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// badRequestResponse 请求无法解析
func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warn("bad request", "error", err.Error(), "request_id", app.contextGetRequestID(r))
	http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
}
