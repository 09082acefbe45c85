// Package catalog 实现用户、共享电影目录、个人片单与影评的业务操作。
//
// 每个操作先校验输入，再通过 data.Models 完成一次受事务保护的读写。
// 返回的错误属于以下几类：
//
//   - *ValidationError：输入不合法，可重新填写
//   - data.ErrDuplicateRecord：违反唯一性约束
//   - data.ErrRecordNotFound：引用的实体不存在
//   - data.ErrNotAssociated：电影不在用户片单中
//   - omdb.ErrNotFound / *omdb.ProviderError：元数据查询结果
//   - *PersistenceError：其他数据库错误，事务已回滚
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/omdb"
)

// MetadataProvider 按片名查询电影元数据
type MetadataProvider interface {
	FetchMovie(ctx context.Context, title string) (*omdb.Movie, error)
}

type Catalog struct {
	models   data.Models
	provider MetadataProvider
	logger   *slog.Logger
}

func New(models data.Models, provider MetadataProvider, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}

	return &Catalog{
		models:   models,
		provider: provider,
		logger:   logger,
	}
}

// ValidationError 输入校验失败，Errors 为字段到提示信息的映射
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field, msg := range e.Errors {
		fields = append(fields, field+": "+msg)
	}
	sort.Strings(fields)

	return "validation failed: " + strings.Join(fields, "; ")
}

// PersistenceError 意料之外的数据库错误
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("catalog: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// classify 保留已知的业务错误，其余包装为 PersistenceError
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, data.ErrRecordNotFound),
		errors.Is(err, data.ErrDuplicateRecord),
		errors.Is(err, data.ErrNotAssociated):
		return err
	default:
		return &PersistenceError{Op: op, Err: err}
	}
}
