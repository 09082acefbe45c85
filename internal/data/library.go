package data

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserMovie 用户片单与目录电影之间的关联，记录加入时间
type UserMovie struct {
	UserID  int64     `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	MovieID int64     `json:"movie_id" gorm:"primaryKey;autoIncrement:false;index"`
	AddedAt time.Time `json:"added_at" gorm:"autoCreateTime;not null"`
}

func (UserMovie) TableName() string {
	return "user_movies"
}

// LibraryEntry 片单中的一部电影及其加入时间
type LibraryEntry struct {
	Movie   *Movie    `json:"movie"`
	AddedAt time.Time `json:"added_at"`
}

type LibraryModel struct {
	DB *gorm.DB
}

// Add 把电影加入用户片单，返回是否新建了关联；已存在时不报错
func (m LibraryModel) Add(ctx context.Context, userID, movieID int64) (bool, error) {
	var added bool

	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		if err := movieExists(tx, movieID); err != nil {
			return err
		}

		// 并发重复加入时依赖主键冲突保持幂等
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&UserMovie{UserID: userID, MovieID: movieID})
		if result.Error != nil {
			return translate(result.Error)
		}

		added = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return added, nil
}

// Remove 只删除关联行，电影保留在目录中
func (m LibraryModel) Remove(ctx context.Context, userID, movieID int64) error {
	result := m.DB.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&UserMovie{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotAssociated
	}

	return nil
}

// Contains 检查电影是否已在用户片单中
func (m LibraryModel) Contains(ctx context.Context, userID, movieID int64) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&UserMovie{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// MovieIDs 返回用户片单中所有电影的 id 集合
func (m LibraryModel) MovieIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	var ids []int64
	err := m.DB.WithContext(ctx).Model(&UserMovie{}).
		Where("user_id = ?", userID).
		Pluck("movie_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	return set, nil
}

// GetAllForUser 返回用户片单，最近加入的在前
func (m LibraryModel) GetAllForUser(ctx context.Context, userID int64) ([]*LibraryEntry, error) {
	var links []UserMovie
	err := m.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC, movie_id DESC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	entries := []*LibraryEntry{}
	if len(links) == 0 {
		return entries, nil
	}

	ids := make([]int64, len(links))
	for i, link := range links {
		ids[i] = link.MovieID
	}

	var movies []*Movie
	err = m.DB.WithContext(ctx).Where("id IN ?", ids).Find(&movies).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*Movie, len(movies))
	for _, movie := range movies {
		byID[movie.ID] = movie
	}

	for _, link := range links {
		movie, ok := byID[link.MovieID]
		if !ok {
			continue
		}
		entries = append(entries, &LibraryEntry{Movie: movie, AddedAt: link.AddedAt})
	}

	return entries, nil
}
