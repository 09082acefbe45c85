package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestModels 每个测试使用独立的内存 sqlite 数据库
func newTestModels(t *testing.T) Models {
	t.Helper()

	db, err := Open(Config{
		Driver:       "sqlite",
		DSN:          "file::memory:?_foreign_keys=on",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))

	return NewModels(db)
}

func mustUser(t *testing.T, m Models, name string) *User {
	t.Helper()

	user := &User{Name: name}
	require.NoError(t, m.Users.Insert(context.Background(), user))
	return user
}

func mustMovie(t *testing.T, m Models, title string, year int32) *Movie {
	t.Helper()

	movie := &Movie{Title: title, Year: &year}
	require.NoError(t, m.Movies.Insert(context.Background(), movie))
	return movie
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
}
