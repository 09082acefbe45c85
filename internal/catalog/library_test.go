package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/movieweb/internal/data"
)

func TestAttachMovieIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.mustUser(t, "Alice")
	movie := env.mustMovie(t, "Chinatown", 1974)

	outcome, err := env.catalog.AttachMovieToUser(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, Attached, outcome)

	outcome, err = env.catalog.AttachMovieToUser(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, AlreadyInList, outcome)
	assert.Equal(t, "already in list", outcome.String())

	entries, err := env.catalog.UserLibrary(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAttachMissingMovie(t *testing.T) {
	env := newTestEnv(t)

	alice := env.mustUser(t, "Alice")

	_, err := env.catalog.AttachMovieToUser(context.Background(), alice.ID, 999)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestDetachKeepsCatalogMovie(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.mustUser(t, "Alice")
	movie := env.mustMovie(t, "Fargo", 1996)

	_, err := env.catalog.AttachMovieToUser(ctx, alice.ID, movie.ID)
	require.NoError(t, err)

	require.NoError(t, env.catalog.DetachMovieFromUser(ctx, alice.ID, movie.ID))

	got, err := env.catalog.GetMovie(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fargo", got.Title)

	err = env.catalog.DetachMovieFromUser(ctx, alice.ID, movie.ID)
	assert.ErrorIs(t, err, data.ErrNotAssociated)
}

func TestPartitionSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.mustUser(t, "Alice")
	owned := env.mustMovie(t, "Star Wars", 1977)
	env.mustMovie(t, "Star Trek", 1979)
	env.mustMovie(t, "Jaws", 1975)

	_, err := env.catalog.AttachMovieToUser(ctx, alice.ID, owned.ID)
	require.NoError(t, err)

	have, fresh, err := env.catalog.PartitionSearch(ctx, alice.ID, "star")
	require.NoError(t, err)
	require.Len(t, have, 1)
	assert.Equal(t, "Star Wars", have[0].Title)
	require.Len(t, fresh, 1)
	assert.Equal(t, "Star Trek", fresh[0].Title)

	have, fresh, err = env.catalog.PartitionSearch(ctx, alice.ID, " ")
	require.NoError(t, err)
	assert.Empty(t, have)
	assert.Empty(t, fresh)
}
