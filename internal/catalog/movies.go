package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/omdb"
	"github.com/liliang-cn/movieweb/internal/validator"
)

const (
	titleMaxChars = 255
	maxYear       = 2100
	maxRating     = 10
)

// MovieInput 手动录入或修改电影时的字段，nil 表示未提供
type MovieInput struct {
	Title    *string
	Director *string
	Year     *int32
	Rating   *float64
	Poster   *string
	Genre    *string
	Plot     *string
}

func ValidateMovie(v *validator.Validator, movie *data.Movie) {
	validateTitle(v, movie.Title)
	validateYear(v, movie.Year)
	validateRating(v, movie.Rating)
}

// ValidateMovieInput 只校验 input 中提供了的字段
func ValidateMovieInput(v *validator.Validator, input MovieInput) {
	if input.Title != nil {
		validateTitle(v, strings.TrimSpace(*input.Title))
	}
	validateYear(v, input.Year)
	validateRating(v, input.Rating)
}

func validateTitle(v *validator.Validator, title string) {
	v.Check(validator.NotBlank(title), "title", "must be provided")
	v.Check(validator.MaxChars(title, titleMaxChars), "title", "must not be more than 255 characters long")
}

// validateYear 只要求年份为正数且不晚于 maxYear
func validateYear(v *validator.Validator, year *int32) {
	if year == nil {
		return
	}

	v.Check(*year > 0, "year", "must be a positive integer")
	v.Check(*year <= maxYear, "year", "must not be after 2100")
}

func validateRating(v *validator.Validator, rating *float64) {
	if rating == nil {
		return
	}

	v.Check(validator.Finite(*rating), "rating", "must be a number")
	v.Check(*rating >= 0 && *rating <= maxRating, "rating", "must be between 0 and 10")
}

// SearchCatalog 在标题和导演中搜索；空查询返回空结果而不是全部电影
func (c *Catalog) SearchCatalog(ctx context.Context, query string) ([]*data.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*data.Movie{}, nil
	}

	movies, err := c.models.Movies.Search(ctx, query)
	return movies, classify("search catalog", err)
}

// ListCatalog 返回整个目录，sort 为空时按 id 排序
func (c *Catalog) ListCatalog(ctx context.Context, sort string) ([]*data.Movie, error) {
	if sort == "" {
		sort = "id"
	}

	filters := data.Filters{Sort: sort, SortSafelist: data.MovieSortSafelist}

	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	movies, err := c.models.Movies.GetAll(ctx, filters)
	return movies, classify("list catalog", err)
}

func (c *Catalog) GetMovie(ctx context.Context, id int64) (*data.Movie, error) {
	movie, err := c.models.Movies.Get(ctx, id)
	return movie, classify("get movie", err)
}

// fetchMetadata 查询元数据并构造尚未保存的电影
func (c *Catalog) fetchMetadata(ctx context.Context, title string) (*data.Movie, error) {
	title = strings.TrimSpace(title)

	v := validator.New()
	v.Check(validator.NotBlank(title), "title", "must be provided")
	if !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	meta, err := c.provider.FetchMovie(ctx, title)
	if err != nil {
		var providerErr *omdb.ProviderError
		if errors.As(err, &providerErr) {
			c.logger.Error("metadata lookup failed", "title", title, "error", err)
		}
		return nil, fmt.Errorf("fetch %q: %w", title, err)
	}

	return movieFromMetadata(title, meta), nil
}

func movieFromMetadata(requested string, meta *omdb.Movie) *data.Movie {
	movie := &data.Movie{
		Title:    meta.Title,
		Director: meta.Director,
		Year:     meta.Year,
		Rating:   meta.Rating,
		Poster:   optional(meta.Poster),
		Genre:    optional(meta.Genre),
		Plot:     optional(meta.Plot),
	}
	if movie.Title == "" {
		movie.Title = requested
	}

	return movie
}

// AddMovieFromMetadata 通过元数据服务查询并加入目录；未找到或查询失败时不写入任何数据
func (c *Catalog) AddMovieFromMetadata(ctx context.Context, title string) (*data.Movie, error) {
	movie, err := c.fetchMetadata(ctx, title)
	if err != nil {
		return nil, err
	}

	err = c.models.Movies.Insert(ctx, movie)
	if err != nil {
		return nil, classify("add movie", err)
	}

	c.logger.Info("movie added to catalog", "movie_id", movie.ID, "title", movie.Title)
	return movie, nil
}

// AddMovieForUser 查询元数据后加入目录并放进用户片单；目录中已有同一 (title, year) 时直接关联已有电影
func (c *Catalog) AddMovieForUser(ctx context.Context, userID int64, title string) (*data.Movie, AttachOutcome, error) {
	_, err := c.models.Users.Get(ctx, userID)
	if err != nil {
		return nil, 0, classify("add movie for user", err)
	}

	movie, err := c.fetchMetadata(ctx, title)
	if err != nil {
		return nil, 0, err
	}

	err = c.models.Movies.Insert(ctx, movie)
	if errors.Is(err, data.ErrDuplicateRecord) {
		movie, err = c.models.Movies.GetByTitleYear(ctx, movie.Title, movie.Year)
	} else if err == nil {
		c.logger.Info("movie added to catalog", "movie_id", movie.ID, "title", movie.Title)
	}
	if err != nil {
		return nil, 0, classify("add movie for user", err)
	}

	outcome, err := c.AttachMovieToUser(ctx, userID, movie.ID)
	if err != nil {
		return nil, 0, err
	}

	return movie, outcome, nil
}

// CreateMovie 手动向目录添加电影
func (c *Catalog) CreateMovie(ctx context.Context, input MovieInput) (*data.Movie, error) {
	movie := &data.Movie{}
	applyInput(movie, input)

	v := validator.New()
	if ValidateMovie(v, movie); !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	err := c.models.Movies.Insert(ctx, movie)
	if err != nil {
		return nil, classify("create movie", err)
	}

	c.logger.Info("movie added to catalog", "movie_id", movie.ID, "title", movie.Title)
	return movie, nil
}

// UpdateMovie 部分更新电影，未提供的字段保持原值，也不重新校验
func (c *Catalog) UpdateMovie(ctx context.Context, id int64, input MovieInput) (*data.Movie, error) {
	v := validator.New()
	if ValidateMovieInput(v, input); !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	movie, err := c.models.Movies.Get(ctx, id)
	if err != nil {
		return nil, classify("update movie", err)
	}

	applyInput(movie, input)

	err = c.models.Movies.Update(ctx, movie)
	if err != nil {
		return nil, classify("update movie", err)
	}

	c.logger.Info("movie updated", "movie_id", movie.ID)
	return movie, nil
}

// DeleteMovie 从共享目录删除电影，所有用户的片单关联和影评一并删除
func (c *Catalog) DeleteMovie(ctx context.Context, id int64) (*data.Movie, error) {
	movie, err := c.models.Movies.Get(ctx, id)
	if err != nil {
		return nil, classify("delete movie", err)
	}

	err = c.models.Movies.Delete(ctx, id)
	if err != nil {
		return nil, classify("delete movie", err)
	}

	c.logger.Info("movie deleted", "movie_id", id, "title", movie.Title)
	return movie, nil
}

func applyInput(movie *data.Movie, input MovieInput) {
	if input.Title != nil {
		movie.Title = strings.TrimSpace(*input.Title)
	}
	if input.Director != nil {
		movie.Director = strings.TrimSpace(*input.Director)
	}
	if input.Year != nil {
		movie.Year = input.Year
	}
	if input.Rating != nil {
		movie.Rating = input.Rating
	}
	if input.Poster != nil {
		movie.Poster = optional(*input.Poster)
	}
	if input.Genre != nil {
		movie.Genre = optional(*input.Genre)
	}
	if input.Plot != nil {
		movie.Plot = optional(*input.Plot)
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
