package catalog

import (
	"context"
	"strings"

	"github.com/liliang-cn/movieweb/internal/data"
)

// AttachOutcome 加入片单的结果
type AttachOutcome int

const (
	Attached AttachOutcome = iota + 1
	AlreadyInList
)

func (o AttachOutcome) String() string {
	switch o {
	case Attached:
		return "attached"
	case AlreadyInList:
		return "already in list"
	default:
		return "unknown"
	}
}

// AttachMovieToUser 把目录中的电影加入用户片单，重复加入不会报错
func (c *Catalog) AttachMovieToUser(ctx context.Context, userID, movieID int64) (AttachOutcome, error) {
	added, err := c.models.Library.Add(ctx, userID, movieID)
	if err != nil {
		return 0, classify("attach movie", err)
	}

	if !added {
		return AlreadyInList, nil
	}

	c.logger.Info("movie attached", "user_id", userID, "movie_id", movieID)
	return Attached, nil
}

// DetachMovieFromUser 从片单移除电影，目录中的电影保留
func (c *Catalog) DetachMovieFromUser(ctx context.Context, userID, movieID int64) error {
	err := c.models.Library.Remove(ctx, userID, movieID)
	if err != nil {
		return classify("detach movie", err)
	}

	c.logger.Info("movie detached", "user_id", userID, "movie_id", movieID)
	return nil
}

func (c *Catalog) UserLibrary(ctx context.Context, userID int64) ([]*data.LibraryEntry, error) {
	_, err := c.models.Users.Get(ctx, userID)
	if err != nil {
		return nil, classify("user library", err)
	}

	entries, err := c.models.Library.GetAllForUser(ctx, userID)
	return entries, classify("user library", err)
}

// PartitionSearch 搜索目录并按读取时的片单成员关系分成已拥有和未拥有两组
func (c *Catalog) PartitionSearch(ctx context.Context, userID int64, query string) (owned, fresh []*data.Movie, err error) {
	owned, fresh = []*data.Movie{}, []*data.Movie{}

	if strings.TrimSpace(query) == "" {
		return owned, fresh, nil
	}

	movies, err := c.SearchCatalog(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	ids, err := c.models.Library.MovieIDs(ctx, userID)
	if err != nil {
		return nil, nil, classify("partition search", err)
	}

	for _, movie := range movies {
		if ids[movie.ID] {
			owned = append(owned, movie)
		} else {
			fresh = append(fresh, movie)
		}
	}

	return owned, fresh, nil
}
