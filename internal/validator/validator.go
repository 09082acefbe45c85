package validator

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

// Validator 按字段名收集校验错误，每个字段最多一条
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: map[string]string{}}
}

// Valid 没有记录任何错误时为 true
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError 记录 key 的错误；key 已有错误时保留先前那条
func (v *Validator) AddError(key, message string) {
	if _, ok := v.Errors[key]; ok {
		return
	}

	v.Errors[key] = message
}

// Check 是 AddError 的条件版本，ok 为 false 才记录
func (v *Validator) Check(ok bool, key, message string) {
	if ok {
		return
	}

	v.AddError(key, message)
}

// NotBlank 去掉首尾空白后不为空时返回 true
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MinChars 按字符（而非字节）计数
func MinChars(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

func MaxChars(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// Finite 数值不是 NaN 或无穷大时返回 true
func Finite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func PermittedValue[T comparable](value T, permitted ...T) bool {
	return slices.Contains(permitted, value)
}
