package main

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/", app.homeHandler)

	router.HandlerFunc(http.MethodGet, "/users", app.listUsersHandler)
	router.HandlerFunc(http.MethodGet, "/add_user", app.addUserFormHandler)
	router.HandlerFunc(http.MethodPost, "/add_user", app.createUserHandler)
	router.HandlerFunc(http.MethodGet, "/users/:id", app.showUserHandler)
	router.HandlerFunc(http.MethodPost, "/users/:id/delete", app.deleteUserHandler)
	router.HandlerFunc(http.MethodGet, "/users/:id/add_movie", app.addUserMovieFormHandler)
	router.HandlerFunc(http.MethodPost, "/users/:id/add_movie", app.addUserMovieHandler)
	router.HandlerFunc(http.MethodPost, "/users/:id/movies/:movie_id/attach", app.attachMovieHandler)
	router.HandlerFunc(http.MethodPost, "/users/:id/movies/:movie_id/detach", app.detachMovieHandler)
	router.HandlerFunc(http.MethodGet, "/users/:id/reviews", app.listUserReviewsHandler)

	router.HandlerFunc(http.MethodGet, "/movies", app.listMoviesHandler)
	router.HandlerFunc(http.MethodGet, "/add_movie", app.addMovieFormHandler)
	router.HandlerFunc(http.MethodPost, "/add_movie", app.addMovieHandler)
	router.HandlerFunc(http.MethodPost, "/add_movie/manual", app.createMovieHandler)
	router.HandlerFunc(http.MethodGet, "/movies/:id", app.showMovieHandler)
	router.HandlerFunc(http.MethodGet, "/movies/:id/edit", app.editMovieFormHandler)
	router.HandlerFunc(http.MethodPost, "/movies/:id/edit", app.updateMovieHandler)
	router.HandlerFunc(http.MethodPost, "/movies/:id/delete", app.deleteMovieHandler)
	router.HandlerFunc(http.MethodPost, "/movies/:id/reviews", app.createReviewHandler)

	router.Handler(http.MethodGet, "/debug/vars", expvar.Handler())

	return app.recoverPanic(app.logRequest(router))
}
