package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/omdb"
)

// mockProvider 用 testify/mock 替代 OMDb 客户端
type mockProvider struct {
	mock.Mock
}

func (p *mockProvider) FetchMovie(ctx context.Context, title string) (*omdb.Movie, error) {
	args := p.Called(title)
	movie, _ := args.Get(0).(*omdb.Movie)
	return movie, args.Error(1)
}

type testEnv struct {
	catalog  *Catalog
	models   data.Models
	provider *mockProvider
}

func newTestEnv(t *testing.T) *testEnv {
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

	models := data.NewModels(db)
	provider := &mockProvider{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		catalog:  New(models, provider, logger),
		models:   models,
		provider: provider,
	}
}

// metadata 按 OMDb 原始字段构造元数据
func metadata(title, year, rating string) *omdb.Movie {
	return &omdb.Movie{
		Title:    title,
		Year:     omdb.ParseYear(year),
		Rating:   omdb.ParseRating(rating),
		Director: "Someone",
		Genre:    "Drama",
		Plot:     "No description available.",
	}
}

func (e *testEnv) mustUser(t *testing.T, name string) *data.User {
	t.Helper()

	user, err := e.catalog.CreateUser(context.Background(), name)
	require.NoError(t, err)
	return user
}

func (e *testEnv) mustMovie(t *testing.T, title string, year int32) *data.Movie {
	t.Helper()

	movie, err := e.catalog.CreateMovie(context.Background(), MovieInput{Title: &title, Year: &year})
	require.NoError(t, err)
	return movie
}

func ptr[T any](v T) *T { return &v }
