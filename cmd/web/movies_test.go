package main

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"

	"github.com/liliang-cn/movieweb/internal/omdb"
)

func TestUpdateMovieRoundTrip(t *testing.T) {
	provider := stubProvider{
		"X": {Title: "X", Year: omdb.ParseYear("2000"), Rating: omdb.ParseRating("5.0")},
	}
	ts := newTestServer(t, newTestApplication(t, provider))

	ts.postForm(t, "/add_user", url.Values{"name": {"Bob"}})
	ts.postForm(t, "/users/1/add_movie", url.Values{"title": {"X"}})

	res := ts.get(t, "/movies/1/edit")
	value, _ := res.doc.Find(`input[name="year"]`).Attr("value")
	assert.Equal(t, "2000", value)

	res = ts.postForm(t, "/movies/1/edit", url.Values{"title": {"X"}, "year": {"2021"}, "rating": {"7.2"}})
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "“X” has been updated.", res.flash())

	text := res.doc.Find("article.movie").Text()
	assert.Contains(t, text, "2021")
	assert.Contains(t, text, "7.2")
}

func TestUpdateMovieValidation(t *testing.T) {
	provider := stubProvider{"X": {Title: "X", Year: omdb.ParseYear("2000")}}
	ts := newTestServer(t, newTestApplication(t, provider))

	ts.postForm(t, "/add_movie", url.Values{"title": {"X"}})

	res := ts.postForm(t, "/movies/1/edit", url.Values{"title": {""}, "year": {"2001"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "Movie title cannot be empty.", res.flash())

	res = ts.postForm(t, "/movies/1/edit", url.Values{"title": {"X"}, "year": {"soon"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "Year must be an integer and rating a number.", res.flash())
	value, _ := res.doc.Find(`input[name="year"]`).Attr("value")
	assert.Equal(t, "soon", value)

	res = ts.postForm(t, "/movies/1/edit", url.Values{"title": {"X"}, "rating": {"12"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Contains(t, res.doc.Find(".error").Text(), "must be between 0 and 10")

	assert.Equal(t, http.StatusNotFound, ts.postForm(t, "/movies/9/edit", url.Values{"title": {"Y"}}).status)
}

func TestUpdateMovieWithEarlyYear(t *testing.T) {
	provider := stubProvider{"Passage de Venus": {Title: "Passage de Vénus", Year: omdb.ParseYear("1874")}}
	ts := newTestServer(t, newTestApplication(t, provider))

	res := ts.postForm(t, "/add_movie", url.Values{"title": {"Passage de Venus"}})
	assert.Equal(t, http.StatusOK, res.status)

	res = ts.get(t, "/movies/1/edit")
	form := url.Values{}
	res.doc.Find("form input").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		value, _ := s.Attr("value")
		form.Set(name, value)
	})
	assert.Equal(t, "1874", form.Get("year"))

	form.Set("director", "Jules Janssen")
	res = ts.postForm(t, "/movies/1/edit", form)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "“Passage de Vénus” has been updated.", res.flash())
	assert.Contains(t, res.doc.Find("article.movie").Text(), "Jules Janssen")
}

func TestCatalogListAndSearch(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t, stubProvider{}))

	res := ts.get(t, "/movies")
	assert.Equal(t, "No movies found", res.flash())

	for _, m := range []url.Values{
		{"title": {"The Godfather"}, "director": {"Francis Ford Coppola"}, "year": {"1972"}},
		{"title": {"Apocalypse Now"}, "director": {"Francis Ford Coppola"}, "year": {"1979"}},
		{"title": {"Jaws"}, "director": {"Steven Spielberg"}, "year": {"1975"}},
	} {
		res = ts.postForm(t, "/add_movie/manual", m)
		assert.Equal(t, http.StatusOK, res.status)
	}

	res = ts.get(t, "/movies?sort=-year")
	titles := res.doc.Find("table.movies td a").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
	assert.Equal(t, []string{"Apocalypse Now", "Jaws", "The Godfather"}, titles)

	res = ts.get(t, "/movies?q=coppola")
	assert.Equal(t, 2, res.doc.Find("table.movies td a").Length())

	res = ts.get(t, "/movies?sort=plot")
	assert.Equal(t, "Unknown sort order.", res.flash())
}

func TestAddMovieManualDuplicate(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t, stubProvider{}))

	form := url.Values{"title": {"Jaws"}, "year": {"1975"}}
	ts.postForm(t, "/add_movie/manual", form)

	res := ts.postForm(t, "/add_movie/manual", form)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "“Jaws” is already in the catalog.", res.flash())

	res = ts.postForm(t, "/add_movie/manual", url.Values{"title": {"Jaws 2"}, "year": {"2500"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
}

func TestDeleteMovie(t *testing.T) {
	provider := stubProvider{"Heat": {Title: "Heat", Year: omdb.ParseYear("1995")}}
	ts := newTestServer(t, newTestApplication(t, provider))

	ts.postForm(t, "/add_user", url.Values{"name": {"Alice"}})
	ts.postForm(t, "/users/1/add_movie", url.Values{"title": {"Heat"}})

	res := ts.postForm(t, "/movies/1/delete", url.Values{"user_id": {"1"}})
	assert.Equal(t, "“Heat” deleted.", res.flash())
	assert.Equal(t, 0, res.doc.Find("table.library").Length())

	assert.Equal(t, http.StatusNotFound, ts.get(t, "/movies/1").status)
	assert.Equal(t, http.StatusNotFound, ts.postForm(t, "/movies/1/delete", url.Values{}).status)
}

func TestAddMovieFromProvider(t *testing.T) {
	provider := stubProvider{"Alien": {Title: "Alien", Year: omdb.ParseYear("1979"), Genre: "Horror, Sci-Fi"}}
	ts := newTestServer(t, newTestApplication(t, provider))

	res := ts.postForm(t, "/add_movie", url.Values{"title": {"Alien"}})
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "“Alien” added.", res.flash())
	assert.Equal(t, 2, res.doc.Find("span.genre").Length())

	res = ts.postForm(t, "/add_movie", url.Values{"title": {"Alien"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)

	res = ts.postForm(t, "/add_movie", url.Values{"title": {"Aliens"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "Movie not found.", res.flash())
}
