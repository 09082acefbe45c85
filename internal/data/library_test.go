package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryAddIsIdempotent(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()

	alice := mustUser(t, m, "Alice")
	movie := mustMovie(t, m, "Paris, Texas", 1984)

	added, err := m.Library.Add(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = m.Library.Add(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	assert.False(t, added)

	entries, err := m.Library.GetAllForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, movie.ID, entries[0].Movie.ID)
	assert.False(t, entries[0].AddedAt.IsZero())
}

func TestLibraryAddMissingEndpoint(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()

	alice := mustUser(t, m, "Alice")
	movie := mustMovie(t, m, "Stalker", 1979)

	_, err := m.Library.Add(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = m.Library.Add(ctx, 999, movie.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestLibraryRemoveKeepsMovie(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()

	alice := mustUser(t, m, "Alice")
	movie := mustMovie(t, m, "Ran", 1985)

	_, err := m.Library.Add(ctx, alice.ID, movie.ID)
	require.NoError(t, err)

	require.NoError(t, m.Library.Remove(ctx, alice.ID, movie.ID))
	assert.ErrorIs(t, m.Library.Remove(ctx, alice.ID, movie.ID), ErrNotAssociated)

	_, err = m.Movies.Get(ctx, movie.ID)
	assert.NoError(t, err)
}

func TestLibraryMovieIDs(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()

	alice := mustUser(t, m, "Alice")
	a := mustMovie(t, m, "Ikiru", 1952)
	b := mustMovie(t, m, "Ugetsu", 1953)
	mustMovie(t, m, "Tokyo Story", 1953)

	for _, id := range []int64{a.ID, b.ID} {
		_, err := m.Library.Add(ctx, alice.ID, id)
		require.NoError(t, err)
	}

	ids, err := m.Library.MovieIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{a.ID: true, b.ID: true}, ids)
}
