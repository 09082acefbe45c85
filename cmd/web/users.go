package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/liliang-cn/movieweb/internal/catalog"
	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/validator"
)

type userForm struct {
	Name string
}

type titleForm struct {
	Title string
}

// homeHandler 首页，列出所有用户
func (app *application) homeHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.catalog.ListUsers(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	td := app.newTemplateData(w, r)
	td.Users = users
	if len(users) == 0 && td.Flash == nil {
		td.Flash = &flash{Level: "info", Message: "No users yet - why not add one?"}
	}

	app.render(w, r, http.StatusOK, "home.tmpl", td)
}

func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.catalog.ListUsers(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	td := app.newTemplateData(w, r)
	td.Users = users
	if len(users) == 0 && td.Flash == nil {
		td.Flash = &flash{Level: "info", Message: "No users found."}
	}

	app.render(w, r, http.StatusOK, "users.tmpl", td)
}

func (app *application) addUserFormHandler(w http.ResponseWriter, r *http.Request) {
	td := app.newTemplateData(w, r)
	td.Form = userForm{}

	app.render(w, r, http.StatusOK, "add_user.tmpl", td)
}

// createUserHandler 创建用户，失败时带着已填写的名称重新渲染表单
func (app *application) createUserHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form := userForm{Name: strings.TrimSpace(r.PostForm.Get("name"))}

	td := app.newTemplateData(w, r)
	td.Form = form

	v := validator.New()
	if catalog.ValidateUserName(v, form.Name); !v.Valid() {
		td.Errors = v.Errors
		td.Flash = &flash{Level: "warning", Message: "Name " + v.Errors["name"] + "."}
		app.render(w, r, http.StatusUnprocessableEntity, "add_user.tmpl", td)
		return
	}

	user, err := app.catalog.CreateUser(r.Context(), form.Name)
	if err != nil {
		var validationErr *catalog.ValidationError
		switch {
		case errors.As(err, &validationErr):
			td.Errors = validationErr.Errors
			td.Flash = &flash{Level: "warning", Message: "Please correct the errors below."}
			app.render(w, r, http.StatusUnprocessableEntity, "add_user.tmpl", td)
		case errors.Is(err, data.ErrDuplicateRecord):
			td.Errors["name"] = "is already taken"
			td.Flash = &flash{Level: "error", Message: fmt.Sprintf("A user named '%s' already exists.", form.Name)}
			app.render(w, r, http.StatusUnprocessableEntity, "add_user.tmpl", td)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/users", "success", fmt.Sprintf("User “%s” created.", user.Name))
}

func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.catalog.DeleteUser(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/users", "success", "User deleted.")
}

// showUserHandler 用户片单页，?q= 时在目录中搜索并区分已拥有和未拥有的电影
func (app *application) showUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user, err := app.catalog.GetUser(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	entries, err := app.catalog.UserLibrary(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))

	owned, fresh, err := app.catalog.PartitionSearch(r.Context(), id, query)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	td := app.newTemplateData(w, r)
	td.User = user
	td.Entries = entries
	td.Query = query
	td.Owned = owned
	td.Fresh = fresh
	if len(entries) == 0 && td.Flash == nil {
		td.Flash = &flash{Level: "info", Message: "No movies found"}
	}

	app.render(w, r, http.StatusOK, "user.tmpl", td)
}

func (app *application) addUserMovieFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user, err := app.catalog.GetUser(r.Context(), id)
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
	td.User = user
	td.Form = titleForm{}

	app.render(w, r, http.StatusOK, "user_add_movie.tmpl", td)
}

// addUserMovieHandler 通过元数据服务查询电影并加入用户片单
func (app *application) addUserMovieHandler(w http.ResponseWriter, r *http.Request) {
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

	form := titleForm{Title: strings.TrimSpace(r.PostForm.Get("title"))}

	td := app.newTemplateData(w, r)
	td.User = &data.User{ID: id}
	td.Form = form

	if !validator.NotBlank(form.Title) {
		td.Errors["title"] = "must be provided"
		td.Flash = &flash{Level: "warning", Message: "Enter a movie title."}
		app.render(w, r, http.StatusUnprocessableEntity, "user_add_movie.tmpl", td)
		return
	}

	movie, outcome, err := app.catalog.AddMovieForUser(r.Context(), id, form.Title)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		if user, err := app.catalog.GetUser(r.Context(), id); err == nil {
			td.User = user
		}
		if !app.lookupFailed(w, r, err, "user_add_movie.tmpl", td) {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	target := fmt.Sprintf("/users/%d", id)
	if outcome == catalog.AlreadyInList {
		app.redirect(w, r, target, "info", fmt.Sprintf("“%s” is already in your list.", movie.Title))
		return
	}

	app.redirect(w, r, target, "success", fmt.Sprintf("“%s” added.", movie.Title))
}

// attachMovieHandler 把目录中已有的电影加入用户片单
func (app *application) attachMovieHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	movieID, err := app.readIDParam(r, "movie_id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = r.ParseForm()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	outcome, err := app.catalog.AttachMovieToUser(r.Context(), userID, movieID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	target := userPageURL(userID, r.PostForm.Get("q"))
	if outcome == catalog.AlreadyInList {
		app.redirect(w, r, target, "info", "That movie is already in your list.")
		return
	}

	app.redirect(w, r, target, "success", "Movie added to your list.")
}

// detachMovieHandler 从用户片单移除电影，目录中的电影保留
func (app *application) detachMovieHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	movieID, err := app.readIDParam(r, "movie_id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	target := fmt.Sprintf("/users/%d", userID)

	err = app.catalog.DetachMovieFromUser(r.Context(), userID, movieID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotAssociated):
			app.redirect(w, r, target, "warning", "That movie is not in your list.")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, target, "success", "Movie removed from your list.")
}

func (app *application) listUserReviewsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user, err := app.catalog.GetUser(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	reviews, err := app.catalog.ListReviewsForUser(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	td := app.newTemplateData(w, r)
	td.User = user
	td.Reviews = reviews
	if len(reviews) == 0 && td.Flash == nil {
		td.Flash = &flash{Level: "info", Message: "No reviews yet."}
	}

	app.render(w, r, http.StatusOK, "user_reviews.tmpl", td)
}

func userPageURL(userID int64, query string) string {
	target := fmt.Sprintf("/users/%d", userID)
	if query = strings.TrimSpace(query); query != "" {
		target += "?q=" + url.QueryEscape(query)
	}
	return target
}
