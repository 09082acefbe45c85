package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/liliang-cn/movieweb/internal/catalog"
	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/omdb"
	"github.com/liliang-cn/movieweb/internal/validator"
)

type movieForm struct {
	Title    string
	Director string
	Year     string
	Rating   string
	Poster   string
	Genre    string
	Plot     string
}

func readMovieForm(r *http.Request) movieForm {
	return movieForm{
		Title:    strings.TrimSpace(r.PostForm.Get("title")),
		Director: strings.TrimSpace(r.PostForm.Get("director")),
		Year:     strings.TrimSpace(r.PostForm.Get("year")),
		Rating:   strings.TrimSpace(r.PostForm.Get("rating")),
		Poster:   strings.TrimSpace(r.PostForm.Get("poster")),
		Genre:    strings.TrimSpace(r.PostForm.Get("genre")),
		Plot:     strings.TrimSpace(r.PostForm.Get("plot")),
	}
}

func movieFormFrom(movie *data.Movie) movieForm {
	form := movieForm{
		Title:    movie.Title,
		Director: movie.Director,
		Poster:   deref(movie.Poster),
		Genre:    deref(movie.Genre),
		Plot:     deref(movie.Plot),
	}
	if movie.Year != nil {
		form.Year = strconv.Itoa(int(*movie.Year))
	}
	if movie.Rating != nil {
		form.Rating = strconv.FormatFloat(*movie.Rating, 'f', -1, 64)
	}

	return form
}

// input 把表单转成 MovieInput，空字段为 nil；年份或评分无法解析时记录到 v
func (f movieForm) input(v *validator.Validator) catalog.MovieInput {
	year, err := readOptionalInt32(f.Year)
	v.Check(err == nil, "year", "must be an integer")

	rating, err := readOptionalFloat(f.Rating)
	v.Check(err == nil, "rating", "must be a number")

	return catalog.MovieInput{
		Title:    optionalString(f.Title),
		Director: optionalString(f.Director),
		Year:     year,
		Rating:   rating,
		Poster:   optionalString(f.Poster),
		Genre:    optionalString(f.Genre),
		Plot:     optionalString(f.Plot),
	}
}

// lookupFailed 处理元数据查询的失败结果，已写出响应时返回 true
func (app *application) lookupFailed(w http.ResponseWriter, r *http.Request, err error, page string, td templateData) bool {
	var (
		validationErr *catalog.ValidationError
		providerErr   *omdb.ProviderError
	)

	switch {
	case errors.As(err, &validationErr):
		td.Errors = validationErr.Errors
		td.Flash = &flash{Level: "warning", Message: "Enter a movie title."}
		app.render(w, r, http.StatusUnprocessableEntity, page, td)
	case errors.Is(err, omdb.ErrNotFound):
		td.Errors["title"] = "no match found"
		td.Flash = &flash{Level: "warning", Message: "Movie not found."}
		app.render(w, r, http.StatusUnprocessableEntity, page, td)
	case errors.As(err, &providerErr):
		td.Flash = &flash{Level: "error", Message: "Metadata provider unreachable, please try again."}
		app.render(w, r, http.StatusBadGateway, page, td)
	default:
		return false
	}

	return true
}

// listMoviesHandler 目录页，?q= 时按标题和导演搜索，否则按 ?sort= 列出全部
func (app *application) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	query := strings.TrimSpace(qs.Get("q"))
	sort := strings.TrimSpace(qs.Get("sort"))

	var (
		movies []*data.Movie
		err    error
	)
	if query != "" {
		movies, err = app.catalog.SearchCatalog(r.Context(), query)
	} else {
		movies, err = app.catalog.ListCatalog(r.Context(), sort)
	}
	if err != nil {
		var validationErr *catalog.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.redirect(w, r, "/movies", "warning", "Unknown sort order.")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	td := app.newTemplateData(w, r)
	td.Movies = movies
	td.Query = query
	td.Sort = sort
	if len(movies) == 0 && td.Flash == nil {
		td.Flash = &flash{Level: "info", Message: "No movies found"}
	}

	app.render(w, r, http.StatusOK, "movies.tmpl", td)
}

func (app *application) addMovieFormHandler(w http.ResponseWriter, r *http.Request) {
	td := app.newTemplateData(w, r)
	td.Form = movieForm{}

	app.render(w, r, http.StatusOK, "add_movie.tmpl", td)
}

// addMovieHandler 通过元数据服务把电影加入目录
func (app *application) addMovieHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form := movieForm{Title: strings.TrimSpace(r.PostForm.Get("title"))}

	td := app.newTemplateData(w, r)
	td.Form = form

	movie, err := app.catalog.AddMovieFromMetadata(r.Context(), form.Title)
	if err != nil {
		if app.lookupFailed(w, r, err, "add_movie.tmpl", td) {
			return
		}
		switch {
		case errors.Is(err, data.ErrDuplicateRecord):
			td.Flash = &flash{Level: "info", Message: fmt.Sprintf("“%s” is already in the catalog.", form.Title)}
			app.render(w, r, http.StatusUnprocessableEntity, "add_movie.tmpl", td)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, fmt.Sprintf("/movies/%d", movie.ID), "success", fmt.Sprintf("“%s” added.", movie.Title))
}

// createMovieHandler 手动录入电影
func (app *application) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form := readMovieForm(r)

	td := app.newTemplateData(w, r)
	td.Form = form

	v := validator.New()
	input := form.input(v)
	v.Check(validator.NotBlank(form.Title), "title", "must be provided")
	if !v.Valid() {
		td.Errors = v.Errors
		td.Flash = &flash{Level: "warning", Message: "Please correct the errors below."}
		app.render(w, r, http.StatusUnprocessableEntity, "add_movie.tmpl", td)
		return
	}

	movie, err := app.catalog.CreateMovie(r.Context(), input)
	if err != nil {
		var validationErr *catalog.ValidationError
		switch {
		case errors.As(err, &validationErr):
			td.Errors = validationErr.Errors
			td.Flash = &flash{Level: "warning", Message: "Please correct the errors below."}
			app.render(w, r, http.StatusUnprocessableEntity, "add_movie.tmpl", td)
		case errors.Is(err, data.ErrDuplicateRecord):
			td.Errors["title"] = "already exists for that year"
			td.Flash = &flash{Level: "info", Message: fmt.Sprintf("“%s” is already in the catalog.", form.Title)}
			app.render(w, r, http.StatusUnprocessableEntity, "add_movie.tmpl", td)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, fmt.Sprintf("/movies/%d", movie.ID), "success", fmt.Sprintf("“%s” added.", movie.Title))
}

// showMovieHandler 电影详情及影评列表
func (app *application) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	movie, err := app.catalog.GetMovie(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	reviews, err := app.catalog.ListReviewsForMovie(r.Context(), id)
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
	td.Form = reviewForm{}

	app.render(w, r, http.StatusOK, "movie.tmpl", td)
}

func (app *application) editMovieFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	movie, err := app.catalog.GetMovie(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	td := app.newTemplateData(w, r)
	td.Movie = movie
	td.Form = movieFormFrom(movie)

	app.render(w, r, http.StatusOK, "edit_movie.tmpl", td)
}

// updateMovieHandler 修改电影，留空的可选字段保持原值
func (app *application) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = r.ParseForm()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form := readMovieForm(r)

	td := app.newTemplateData(w, r)
	td.Movie = &data.Movie{ID: id}
	td.Form = form

	if !validator.NotBlank(form.Title) {
		td.Errors["title"] = "must be provided"
		td.Flash = &flash{Level: "warning", Message: "Movie title cannot be empty."}
		app.render(w, r, http.StatusUnprocessableEntity, "edit_movie.tmpl", td)
		return
	}

	v := validator.New()
	input := form.input(v)
	if !v.Valid() {
		td.Errors = v.Errors
		td.Flash = &flash{Level: "warning", Message: "Year must be an integer and rating a number."}
		app.render(w, r, http.StatusUnprocessableEntity, "edit_movie.tmpl", td)
		return
	}

	updated, err := app.catalog.UpdateMovie(r.Context(), id, input)
	if err != nil {
		var validationErr *catalog.ValidationError
		switch {
		case errors.As(err, &validationErr):
			td.Errors = validationErr.Errors
			td.Flash = &flash{Level: "warning", Message: "Please correct the errors below."}
			app.render(w, r, http.StatusUnprocessableEntity, "edit_movie.tmpl", td)
		case errors.Is(err, data.ErrDuplicateRecord):
			if movie, err := app.catalog.GetMovie(r.Context(), id); err == nil {
				td.Movie = movie
			}
			td.Errors["title"] = "already exists for that year"
			td.Flash = &flash{Level: "error", Message: "Another movie with that title and year already exists."}
			app.render(w, r, http.StatusUnprocessableEntity, "edit_movie.tmpl", td)
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, fmt.Sprintf("/movies/%d", id), "success", fmt.Sprintf("“%s” has been updated.", updated.Title))
}

// deleteMovieHandler 从共享目录删除电影；表单带 user_id 时跳回该用户的页面
func (app *application) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = r.ParseForm()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	target := "/movies"
	if userID, err := readOptionalID(r.PostForm.Get("user_id")); err == nil && userID != nil {
		target = fmt.Sprintf("/users/%d", *userID)
	}

	movie, err := app.catalog.DeleteMovie(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, target, "success", fmt.Sprintf("“%s” deleted.", movie.Title))
}
