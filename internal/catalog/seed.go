package catalog

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/omdb"
)

type SeedOutcome int

const (
	SeedAdded SeedOutcome = iota + 1
	SeedSkipped
	SeedNotFound
	SeedFailed
)

func (o SeedOutcome) String() string {
	switch o {
	case SeedAdded:
		return "added"
	case SeedSkipped:
		return "skipped"
	case SeedNotFound:
		return "not found"
	case SeedFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SeedResult 单行片名的导入结果
type SeedResult struct {
	Line    int
	Title   string
	Outcome SeedOutcome
	Movie   *data.Movie
	Err     error
}

// Seed 从按行分隔的片名列表批量导入电影。
// 空行忽略；目录中已有的片名跳过；元数据查询失败只影响当前行。
// 数据库错误会中止导入并返回，已导入的电影不受影响。
func (c *Catalog) Seed(ctx context.Context, r io.Reader, report func(SeedResult)) (int, error) {
	if report == nil {
		report = func(SeedResult) {}
	}

	var added, line int

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++

		title := strings.TrimSpace(scanner.Text())
		if title == "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			return added, err
		}

		result := SeedResult{Line: line, Title: title}

		exists, err := c.models.Movies.TitleExists(ctx, title)
		if err != nil {
			return added, classify("seed", err)
		}
		if exists {
			result.Outcome = SeedSkipped
			report(result)
			continue
		}

		movie, err := c.AddMovieFromMetadata(ctx, title)
		switch {
		case err == nil:
			added++
			result.Outcome = SeedAdded
			result.Movie = movie
		case errors.Is(err, omdb.ErrNotFound):
			result.Outcome = SeedNotFound
		case errors.Is(err, data.ErrDuplicateRecord):
			result.Outcome = SeedSkipped
		default:
			var providerErr *omdb.ProviderError
			if !errors.As(err, &providerErr) {
				return added, err
			}
			result.Outcome = SeedFailed
			result.Err = err
		}

		report(result)
	}

	if err := scanner.Err(); err != nil {
		return added, err
	}

	c.logger.Info("seeding finished", "added", added, "lines", line)
	return added, nil
}
