package main

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

const flashCookieName = "flash"

// flash 一次性提示信息，Level 为 success|info|warning|error
type flash struct {
	Level   string
	Message string
}

// readIDParam 从 URL 中读取指定名称的 id 参数
func (app *application) readIDParam(r *http.Request, name string) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.ParseInt(params.ByName(name), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter")
	}

	return id, nil
}

// setFlash 通过 cookie 把提示信息带到重定向后的页面
func (app *application) setFlash(w http.ResponseWriter, level, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(level + "|" + message))

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash 读取并清除提示信息
func (app *application) popFlash(w http.ResponseWriter, r *http.Request) *flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	level, message, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil
	}

	return &flash{Level: level, Message: message}
}

// redirect 带提示信息的 303 跳转
func (app *application) redirect(w http.ResponseWriter, r *http.Request, url, level, message string) {
	if message != "" {
		app.setFlash(w, level, message)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// readOptionalInt32 空字符串返回 nil
func readOptionalInt32(s string) (*int32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	i, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil, err
	}

	v := int32(i)
	return &v, nil
}

// readOptionalFloat 空字符串返回 nil
func readOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// readOptionalID 空字符串返回 nil，用于可选的外键
func readOptionalID(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return nil, errors.New("invalid id")
	}

	return &id, nil
}

// optionalString 空字符串返回 nil，表示保留原值
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
