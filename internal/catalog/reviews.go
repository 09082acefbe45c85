package catalog

import (
	"context"
	"strings"

	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/validator"
)

// ReviewInput 提交影评的参数，UserID 为 nil 表示匿名影评
type ReviewInput struct {
	MovieID int64
	UserID  *int64
	Text    string
	Rating  float64
}

func ValidateReview(v *validator.Validator, review *data.Review) {
	v.Check(validator.NotBlank(review.Text), "text", "must be provided")
	v.Check(validator.Finite(review.Rating), "rating", "must be a number")
}

func (c *Catalog) AddReview(ctx context.Context, input ReviewInput) (*data.Review, error) {
	review := &data.Review{
		MovieID: input.MovieID,
		UserID:  input.UserID,
		Text:    strings.TrimSpace(input.Text),
		Rating:  input.Rating,
	}

	v := validator.New()
	if ValidateReview(v, review); !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	err := c.models.Reviews.Insert(ctx, review)
	if err != nil {
		return nil, classify("add review", err)
	}

	c.logger.Info("review added", "review_id", review.ID, "movie_id", review.MovieID)
	return review, nil
}

func (c *Catalog) ListReviewsForMovie(ctx context.Context, movieID int64) ([]*data.Review, error) {
	_, err := c.models.Movies.Get(ctx, movieID)
	if err != nil {
		return nil, classify("list movie reviews", err)
	}

	reviews, err := c.models.Reviews.GetAllForMovie(ctx, movieID)
	return reviews, classify("list movie reviews", err)
}

func (c *Catalog) ListReviewsForUser(ctx context.Context, userID int64) ([]*data.Review, error) {
	_, err := c.models.Users.Get(ctx, userID)
	if err != nil {
		return nil, classify("list user reviews", err)
	}

	reviews, err := c.models.Reviews.GetAllForUser(ctx, userID)
	return reviews, classify("list user reviews", err)
}
