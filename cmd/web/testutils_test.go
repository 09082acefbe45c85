package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/movieweb/internal/catalog"
	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/omdb"
)

// stubProvider 按片名返回固定的元数据，"boom" 模拟服务不可用
type stubProvider map[string]*omdb.Movie

func (p stubProvider) FetchMovie(ctx context.Context, title string) (*omdb.Movie, error) {
	if title == "boom" {
		return nil, &omdb.ProviderError{StatusCode: http.StatusServiceUnavailable}
	}

	movie, ok := p[title]
	if !ok {
		return nil, omdb.ErrNotFound
	}

	copied := *movie
	return &copied, nil
}

type testServer struct {
	*httptest.Server
	client *http.Client
}

type testResponse struct {
	status int
	doc    *goquery.Document
}

func (r testResponse) flash() string {
	return strings.TrimSpace(r.doc.Find(".flash").First().Text())
}

func newTestApplication(t *testing.T, provider catalog.MetadataProvider) *application {
	t.Helper()

	app, _ := newTestApplicationWithDB(t, provider)
	return app
}

// newTestApplicationWithDB 同时返回底层连接，测试可借此模拟数据库故障
func newTestApplicationWithDB(t *testing.T, provider catalog.MetadataProvider) (*application, *sql.DB) {
	t.Helper()

	db, err := data.Open(data.Config{
		Driver:       "sqlite",
		DSN:          "file::memory:?_foreign_keys=on",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, data.Migrate(db))

	templates, err := newTemplateCache()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &application{
		logger:    logger,
		catalog:   catalog.New(data.NewModels(db), provider, logger),
		templates: templates,
	}, sqlDB
}

func newTestServer(t *testing.T, app *application) *testServer {
	t.Helper()

	ts := httptest.NewServer(app.routes())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testServer{Server: ts, client: &http.Client{Jar: jar}}
}

func (ts *testServer) read(t *testing.T, resp *http.Response) testResponse {
	t.Helper()
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	return testResponse{status: resp.StatusCode, doc: doc}
}

// get 跟随重定向
func (ts *testServer) get(t *testing.T, path string) testResponse {
	t.Helper()

	resp, err := ts.client.Get(ts.URL + path)
	require.NoError(t, err)

	return ts.read(t, resp)
}

// postForm 提交表单，303 跳转后返回最终页面
func (ts *testServer) postForm(t *testing.T, path string, form url.Values) testResponse {
	t.Helper()

	resp, err := ts.client.PostForm(ts.URL+path, form)
	require.NoError(t, err)

	return ts.read(t, resp)
}
