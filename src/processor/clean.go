// clean.go
package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"AirlinesEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// StopsMapping stops分类到数值的固定映射
var StopsMapping = map[string]int{
	"zero":        0,
	"one":         1,
	"two_or_more": 2,
}

// missingLabel 记录缺失的stops时使用的标签
const missingLabel = "<missing>"

// CoerceTypes 检查必需列并把duration、price转为Float，days_left转为Int。
// 空单元格变为缺失值，无法解析的值返回SchemaError。
func CoerceTypes(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if missing := utils.MissingColumns(df, RequiredColumns...); len(missing) > 0 {
		return df, utils.SchemaError("coerce types", fmt.Errorf("missing columns %v", missing))
	}

	for _, name := range []string{ColDuration, ColPrice} {
		vals, err := parseFloats(df.Col(name))
		if err != nil {
			return df, utils.SchemaError("coerce types", fmt.Errorf("column %q: %w", name, err))
		}
		df = df.Mutate(series.New(vals, series.Float, name))
	}

	days, err := parseInts(df.Col(ColDaysLeft))
	if err != nil {
		return df, utils.SchemaError("coerce types", fmt.Errorf("column %q: %w", ColDaysLeft, err))
	}
	df = df.Mutate(series.New(days, series.Int, ColDaysLeft))

	if df.Err != nil {
		return df, utils.SchemaError("coerce types", df.Err)
	}
	return df, nil
}

func cellText(e series.Element) (string, bool) {
	if e.IsNA() {
		return "", false
	}
	s := strings.TrimSpace(e.String())
	return s, s != ""
}

func parseFloats(s series.Series) ([]float64, error) {
	out := make([]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		text, ok := cellText(s.Elem(i))
		if !ok {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %q is not numeric", i, text)
		}
		out[i] = v
	}
	return out, nil
}

// parseInts 返回字符串形式，缺失值为"NaN"，交给series.Int识别
func parseInts(s series.Series) ([]string, error) {
	out := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		text, ok := cellText(s.Elem(i))
		if !ok {
			out[i] = "NaN"
			continue
		}
		if v, err := strconv.Atoi(text); err == nil {
			out[i] = strconv.Itoa(v)
			continue
		}
		// 兼容"3.0"这类整数值
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("row %d: %q is not an integer", i, text)
		}
		// int(f)超出范围时结果未定义
		if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
			return nil, fmt.Errorf("row %d: %q is out of integer range", i, text)
		}
		out[i] = strconv.Itoa(int(f))
	}
	return out, nil
}

// DropIndex 删除标识列index，列不存在时返回SchemaError
func DropIndex(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !utils.HasColumn(df, ColIndex) {
		return df, utils.SchemaError("drop index", fmt.Errorf("column %q not found", ColIndex))
	}
	out := df.Drop(ColIndex)
	if out.Err != nil {
		return df, utils.SchemaError("drop index", out.Err)
	}
	return out, nil
}

// MapStops 按StopsMapping把stops转为Int列，未识别的取值变为缺失值。
// 返回未识别取值及其出现次数。
func MapStops(df dataframe.DataFrame) (dataframe.DataFrame, map[string]int, error) {
	if !utils.HasColumn(df, ColStops) {
		return df, nil, utils.SchemaError("map stops", fmt.Errorf("column %q not found", ColStops))
	}

	col := df.Col(ColStops)
	mapped := make([]string, col.Len())
	unmapped := make(map[string]int)

	for i := 0; i < col.Len(); i++ {
		e := col.Elem(i)
		label := missingLabel
		if !e.IsNA() {
			label = e.String()
		}
		if v, ok := StopsMapping[label]; ok {
			mapped[i] = strconv.Itoa(v)
			continue
		}
		mapped[i] = "NaN"
		unmapped[label]++
	}

	df = df.Mutate(series.New(mapped, series.Int, ColStops))
	if df.Err != nil {
		return df, nil, utils.SchemaError("map stops", df.Err)
	}
	return df, unmapped, nil
}

// DropDuplicates 按整行相等去重，保留第一次出现的行
func DropDuplicates(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	names := df.Names()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = df.Col(name)
	}

	seen := make(map[string]struct{}, df.Nrow())
	keep := make([]int, 0, df.Nrow())
	parts := make([]string, len(cols))

	for row := 0; row < df.Nrow(); row++ {
		for i, col := range cols {
			parts[i] = utils.FormatElement(col.Elem(row))
		}
		key := strings.Join(parts, "\x1f")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, row)
	}

	removed := df.Nrow() - len(keep)
	if removed == 0 {
		return df, 0
	}
	return df.Subset(keep), removed
}
