package data

import (
	"slices"
	"strings"

	"github.com/liliang-cn/movieweb/internal/validator"
)

// MovieSortSafelist 目录列表允许的排序字段，"-" 前缀表示倒序
var MovieSortSafelist = []string{"id", "title", "year", "rating", "-id", "-title", "-year", "-rating"}

type Filters struct {
	Sort         string
	SortSafelist []string
}

// ValidateFilters 要求 Sort 出现在 SortSafelist 中
func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(validator.PermittedValue(f.Sort, f.SortSafelist...), "sort", "invalid sort value")
}

// sortColumn 返回去掉 "-" 的列名。Sort 会直接拼进 SQL，未经 ValidateFilters 的值在这里 panic
func (f Filters) sortColumn() string {
	if !slices.Contains(f.SortSafelist, f.Sort) {
		panic("unsafe sort parameter: " + f.Sort)
	}

	return strings.TrimPrefix(f.Sort, "-")
}

func (f Filters) sortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return "DESC"
	}
	return "ASC"
}

// orderClause 生成 ORDER BY 子句，并以 id 作为稳定的次级排序
func (f Filters) orderClause() string {
	return f.sortColumn() + " " + f.sortDirection() + ", id ASC"
}
