package utils

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// MissingColumns 返回df中不存在的列名，保持传入顺序
func MissingColumns(df dataframe.DataFrame, names ...string) []string {
	var missing []string
	for _, name := range names {
		if !HasColumn(df, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// IsMissing 判断元素是否为缺失值
func IsMissing(e series.Element) bool {
	if e.IsNA() {
		return true
	}
	switch e.Type() {
	case series.Float, series.Int:
		return math.IsNaN(e.Float())
	}
	return false
}

// FloatsNoNA 取出数值列中非缺失的值
func FloatsNoNA(s series.Series) []float64 {
	out := make([]float64, 0, s.Len())
	for _, v := range s.Float() {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// FormatElement 单元格的文本形式，缺失值返回空字符串，浮点数使用最短可还原表示
func FormatElement(e series.Element) string {
	if IsMissing(e) {
		return ""
	}
	switch e.Type() {
	case series.Float:
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return ""
		}
		return strconv.Itoa(v)
	default:
		return e.String()
	}
}
