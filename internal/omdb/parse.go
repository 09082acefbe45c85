package omdb

import (
	"math"
	"strconv"
	"strings"
)

// ParseYear 解析年份，区间形式（如 "1967–1987"）只取起始年份，无法解析时返回 nil
func ParseYear(s string) *int32 {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "-–—"); i >= 0 {
		s = s[:i]
	}

	year, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return nil
	}

	y := int32(year)
	return &y
}

// ParseRating 解析评分，"N/A" 或非数字返回 nil 而不是 0
func ParseRating(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == notApplicable {
		return nil
	}

	rating, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return nil
	}

	return &rating
}
