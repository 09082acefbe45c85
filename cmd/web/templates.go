package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/ui"
)

// templateData 传给模板的全部数据
type templateData struct {
	Flash   *flash
	Form    any
	Errors  map[string]string
	Users   []*data.User
	User    *data.User
	Movie   *data.Movie
	Movies  []*data.Movie
	Entries []*data.LibraryEntry
	Owned   []*data.Movie
	Fresh   []*data.Movie
	Reviews []*data.Review
	Query   string
	Sort    string
}

func humanDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("02 Jan 2006 at 15:04")
}

func formatYear(y *int32) string {
	if y == nil {
		return "n/a"
	}
	return strconv.Itoa(int(*y))
}

func formatRating(r *float64) string {
	if r == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*r, 'f', 1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var functions = template.FuncMap{
	"humanDate":    humanDate,
	"formatYear":   formatYear,
	"formatRating": formatRating,
	"deref":        deref,
}

// newTemplateCache 启动时解析全部页面模板
func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(ui.Files, "html/pages/*.tmpl")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := path.Base(page)

		ts, err := template.New(name).Funcs(functions).ParseFS(ui.Files, "html/base.tmpl", page)
		if err != nil {
			return nil, err
		}

		cache[name] = ts
	}

	return cache, nil
}

// newTemplateData 取出本次请求待显示的提示信息
func (app *application) newTemplateData(w http.ResponseWriter, r *http.Request) templateData {
	return templateData{
		Flash:  app.popFlash(w, r),
		Errors: map[string]string{},
	}
}

// renderPage 先渲染到缓冲区，成功后再写出状态码和内容
func (app *application) renderPage(w http.ResponseWriter, status int, page string, td templateData) error {
	ts, ok := app.templates[page]
	if !ok {
		return fmt.Errorf("the template %s does not exist", page)
	}

	buf := new(bytes.Buffer)
	err := ts.ExecuteTemplate(buf, "base", td)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, td templateData) {
	err := app.renderPage(w, status, page, td)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
