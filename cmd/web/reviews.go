package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/liliang-cn/movieweb/internal/catalog"
	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/validator"
)

type reviewForm struct {
	Text   string
	Rating string
	UserID string
}

// createReviewHandler 提交影评，user_id 留空表示匿名
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = r.ParseForm()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form := reviewForm{
		Text:   strings.TrimSpace(r.PostForm.Get("text")),
		Rating: strings.TrimSpace(r.PostForm.Get("rating")),
		UserID: strings.TrimSpace(r.PostForm.Get("user_id")),
	}

	v := validator.New()

	rating, err := readOptionalFloat(form.Rating)
	v.Check(err == nil, "rating", "must be a number")
	v.Check(rating != nil || err != nil, "rating", "must be provided")

	userID, err := readOptionalID(form.UserID)
	v.Check(err == nil, "user_id", "must be a valid user")

	v.Check(validator.NotBlank(form.Text), "text", "must be provided")

	input := catalog.ReviewInput{MovieID: movieID, UserID: userID, Text: form.Text}
	if rating != nil {
		input.Rating = *rating
	}

	if !v.Valid() {
		app.reviewFormFailed(w, r, movieID, form, v.Errors)
		return
	}

	_, err = app.catalog.AddReview(r.Context(), input)
	if err != nil {
		var validationErr *catalog.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.reviewFormFailed(w, r, movieID, form, validationErr.Errors)
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, fmt.Sprintf("/movies/%d", movieID), "success", "Review added.")
}

// reviewFormFailed 带着已填写的内容重新渲染电影详情页
func (app *application) reviewFormFailed(w http.ResponseWriter, r *http.Request, movieID int64, form reviewForm, fieldErrors map[string]string) {
	movie, err := app.catalog.GetMovie(r.Context(), movieID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	reviews, err := app.catalog.ListReviewsForMovie(r.Context(), movieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	users, err := app.catalog.ListUsers(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	td := app.newTemplateData(w, r)
	td.Movie = movie
	td.Reviews = reviews
	td.Users = users
	td.Form = form
	td.Errors = fieldErrors
	td.Flash = &flash{Level: "warning", Message: "Review text and a numeric rating are required."}

	app.render(w, r, http.StatusUnprocessableEntity, "movie.tmpl", td)
}
