package data

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Movie 目录中的电影，所有用户共享
type Movie struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null;uniqueIndex:idx_movies_title_year"`
	Director  string    `json:"director" gorm:"size:255"`
	Year      *int32    `json:"year,omitempty" gorm:"uniqueIndex:idx_movies_title_year"`
	Rating    *float64  `json:"rating,omitempty"`
	Poster    *string   `json:"poster,omitempty" gorm:"size:512"`
	Genre     *string   `json:"genre,omitempty" gorm:"size:255"`
	Plot      *string   `json:"plot,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"-"`

	// 小写副本，用于不区分大小写的匹配；SQLite 的 LOWER 只处理 ASCII
	TitleFolded    string `json:"-" gorm:"size:255;index"`
	DirectorFolded string `json:"-" gorm:"size:255"`

	Owners  []UserMovie `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Reviews []Review    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Genres 把逗号分隔的类型拆成列表
func (m *Movie) Genres() []string {
	if m.Genre == nil {
		return nil
	}

	var genres []string
	for _, g := range strings.Split(*m.Genre, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}

	return genres
}

// BeforeSave 在每次写入前重新计算小写副本
func (m *Movie) BeforeSave(tx *gorm.DB) error {
	m.fold()
	return nil
}

func (m *Movie) fold() {
	m.TitleFolded = strings.ToLower(m.Title)
	m.DirectorFolded = strings.ToLower(m.Director)
}

type MovieModel struct {
	DB *gorm.DB
}

// sameTitleYear 匹配 (title, year)，year 为空时按 IS NULL 比较
func sameTitleYear(tx *gorm.DB, title string, year *int32) *gorm.DB {
	tx = tx.Model(&Movie{}).Where("title = ?", title)
	if year == nil {
		return tx.Where("year IS NULL")
	}

	return tx.Where("year = ?", *year)
}

// Insert 新增电影，(title, year) 已存在时返回 ErrDuplicateRecord
func (m MovieModel) Insert(ctx context.Context, movie *Movie) error {
	var count int64
	err := sameTitleYear(m.DB.WithContext(ctx), movie.Title, movie.Year).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateRecord
	}

	return translate(m.DB.WithContext(ctx).Create(movie).Error)
}

func (m MovieModel) Get(ctx context.Context, id int64) (*Movie, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	var movie Movie
	err := m.DB.WithContext(ctx).First(&movie, id).Error
	if err != nil {
		return nil, translate(err)
	}

	return &movie, nil
}

// GetByTitleYear 按 (title, year) 查找电影
func (m MovieModel) GetByTitleYear(ctx context.Context, title string, year *int32) (*Movie, error) {
	var movie Movie
	err := sameTitleYear(m.DB.WithContext(ctx), title, year).First(&movie).Error
	if err != nil {
		return nil, translate(err)
	}

	return &movie, nil
}

// TitleExists 忽略大小写检查目录中是否已有该片名
func (m MovieModel) TitleExists(ctx context.Context, title string) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&Movie{}).
		Where("title_folded = ?", strings.ToLower(title)).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// GetAll 按排序条件返回目录中的全部电影
func (m MovieModel) GetAll(ctx context.Context, filters Filters) ([]*Movie, error) {
	movies := []*Movie{}
	err := m.DB.WithContext(ctx).Order(filters.orderClause()).Find(&movies).Error
	if err != nil {
		return nil, err
	}

	return movies, nil
}

// Search 在标题和导演中做不区分大小写的子串匹配
func (m MovieModel) Search(ctx context.Context, query string) ([]*Movie, error) {
	movies := []*Movie{}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	err := m.DB.WithContext(ctx).
		Where(`title_folded LIKE ? ESCAPE '\' OR director_folded LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("title ASC, id ASC").
		Find(&movies).Error
	if err != nil {
		return nil, err
	}

	return movies, nil
}

var movieColumns = []string{
	"title", "director", "year", "rating", "poster", "genre", "plot",
	"title_folded", "director_folded",
}

// Update 保存电影的全部字段，修改后的 (title, year) 不能与其他电影冲突
func (m MovieModel) Update(ctx context.Context, movie *Movie) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := sameTitleYear(tx, movie.Title, movie.Year).Where("id <> ?", movie.ID).Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRecord
		}

		result := tx.Model(movie).Select(movieColumns).Updates(movie)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}

		return nil
	})
}

// Delete 删除电影，并级联删除其影评和所有用户的片单关联
func (m MovieModel) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", id).Delete(&Review{}).Error; err != nil {
			return err
		}

		if err := tx.Where("movie_id = ?", id).Delete(&UserMovie{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Movie{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}

		return nil
	})
}

func movieExists(tx *gorm.DB, id int64) error {
	var movie Movie
	err := tx.Select("id").First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}

	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
