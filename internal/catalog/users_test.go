package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/liliang-cn/movieweb/internal/data"
)

func TestCreateUserDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateUser(ctx, "Alice")
	require.NoError(t, err)

	_, err = env.catalog.CreateUser(ctx, "  Alice ")
	assert.ErrorIs(t, err, data.ErrDuplicateRecord)
}

func TestCreateUserNameLength(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateUser(ctx, "Al")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "must be at least 3 characters long", validationErr.Errors["name"])

	_, err = env.catalog.CreateUser(ctx, "   ")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "must be provided", validationErr.Errors["name"])

	user, err := env.catalog.CreateUser(ctx, "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
}

func TestDeleteUserKeepsMoviesAndOtherLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.mustUser(t, "Alice")
	bob := env.mustUser(t, "Bob")
	movie := env.mustMovie(t, "Amélie", 2001)

	_, err := env.catalog.AttachMovieToUser(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	_, err = env.catalog.AttachMovieToUser(ctx, bob.ID, movie.ID)
	require.NoError(t, err)
	_, err = env.catalog.AddReview(ctx, ReviewInput{MovieID: movie.ID, UserID: &alice.ID, Text: "charming", Rating: 8})
	require.NoError(t, err)

	require.NoError(t, env.catalog.DeleteUser(ctx, alice.ID))

	reviews, err := env.catalog.ListReviewsForMovie(ctx, movie.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	_, err = env.catalog.GetMovie(ctx, movie.ID)
	assert.NoError(t, err)

	entries, err := env.catalog.UserLibrary(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = env.catalog.UserLibrary(ctx, alice.ID)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)

	assert.ErrorIs(t, env.catalog.DeleteUser(ctx, alice.ID), data.ErrRecordNotFound)
}

func TestUnexpectedDatabaseErrorIsPersistenceError(t *testing.T) {
	env := newTestEnv(t)

	sqlDB, err := env.models.Users.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = env.catalog.ListUsers(context.Background())

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "list users", persistenceErr.Op)
	assert.NotErrorIs(t, err, data.ErrRecordNotFound)
}

func TestDeleteUserFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.mustUser(t, "Alice")
	movie := env.mustMovie(t, "Amélie", 2001)

	_, err := env.catalog.AttachMovieToUser(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	_, err = env.catalog.AddReview(ctx, ReviewInput{MovieID: movie.ID, UserID: &alice.ID, Text: "charming", Rating: 8})
	require.NoError(t, err)

	errLocked := errors.New("database is locked")
	err = env.models.Users.DB.Callback().Delete().Before("gorm:delete").Register("test:fail_user_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			tx.AddError(errLocked)
		}
	})
	require.NoError(t, err)

	err = env.catalog.DeleteUser(ctx, alice.ID)

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "delete user", persistenceErr.Op)
	assert.ErrorIs(t, err, errLocked)

	entries, err := env.catalog.UserLibrary(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	reviews, err := env.catalog.ListReviewsForMovie(ctx, movie.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}
