package data

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Review 针对一部电影的影评，user_id 可为空表示匿名
type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    *int64    `json:"user_id,omitempty" gorm:"index"`
	MovieID   int64     `json:"movie_id" gorm:"not null;index"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Rating    float64   `json:"rating" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewModel struct {
	DB *gorm.DB
}

// Insert 新增影评，电影或指定的用户不存在时返回 ErrRecordNotFound
func (m ReviewModel) Insert(ctx context.Context, review *Review) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := movieExists(tx, review.MovieID); err != nil {
			return err
		}

		if review.UserID != nil {
			if err := userExists(tx, *review.UserID); err != nil {
				return err
			}
		}

		return translate(tx.Create(review).Error)
	})
}

// GetAllForMovie 返回电影的影评，最新的在前
func (m ReviewModel) GetAllForMovie(ctx context.Context, movieID int64) ([]*Review, error) {
	reviews := []*Review{}
	err := m.DB.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

// GetAllForUser 返回用户写过的影评，最新的在前
func (m ReviewModel) GetAllForUser(ctx context.Context, userID int64) ([]*Review, error) {
	reviews := []*Review{}
	err := m.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	return reviews, nil
}
