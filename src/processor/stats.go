// stats.go
package processor

import (
	"math"
	"sort"

	"AirlinesEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary 数值列的描述统计
type ColumnSummary struct {
	Name                    string
	Count                   int
	Mean, Std               float64
	Min, Q25, Q50, Q75, Max float64
}

// ValueCount 分类列中某个取值的出现次数
type ValueCount struct {
	Label string
	Count int
}

// OutlierStat 基于1.5倍四分位距的异常值统计
type OutlierStat struct {
	Name         string
	Q1, Q3       float64
	Lower, Upper float64 // 上下界
	Count        int     // 落在界外的行数
}

// Describe 对每个数值列计算count/mean/std/min/四分位数/max，缺失值不参与
func Describe(df dataframe.DataFrame, cols []string) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(cols))
	for _, name := range cols {
		if !utils.HasColumn(df, name) {
			continue
		}
		vals := utils.FloatsNoNA(df.Col(name))
		sum := ColumnSummary{Name: name, Count: len(vals)}
		if len(vals) == 0 {
			nan := math.NaN()
			sum.Mean, sum.Std = nan, nan
			sum.Min, sum.Q25, sum.Q50, sum.Q75, sum.Max = nan, nan, nan, nan, nan
			out = append(out, sum)
			continue
		}

		sort.Float64s(vals)
		sum.Mean, sum.Std = stat.MeanStdDev(vals, nil)
		if len(vals) < 2 {
			sum.Std = math.NaN()
		}
		sum.Min = floats.Min(vals)
		sum.Max = floats.Max(vals)
		sum.Q25 = Quantile(vals, 0.25)
		sum.Q50 = Quantile(vals, 0.5)
		sum.Q75 = Quantile(vals, 0.75)
		out = append(out, sum)
	}
	return out
}

// Quantile 在已排序的数据上按线性插值计算p分位数(p取0~1)，
// 与pandas默认的插值方式一致
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return sorted[lower]
	}
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// ValueCounts 按出现次数降序统计分类列，次数相同时按标签排序，缺失值不计
func ValueCounts(df dataframe.DataFrame, col string) []ValueCount {
	if !utils.HasColumn(df, col) {
		return nil
	}
	s := df.Col(col)
	counts := make(map[string]int)
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if utils.IsMissing(e) {
			continue
		}
		counts[e.String()]++
	}

	out := make([]ValueCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, ValueCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// CorrelationMatrix 计算两两Pearson相关系数，每一对只使用两列都不缺失的行。
// 有效行少于2或方差为0时为NaN。
func CorrelationMatrix(df dataframe.DataFrame, cols []string) [][]float64 {
	data := make([][]float64, len(cols))
	for i, name := range cols {
		if utils.HasColumn(df, name) {
			data[i] = df.Col(name).Float()
		}
	}

	n := len(cols)
	corr := make([][]float64, n)
	for i := range corr {
		corr[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c := pairwiseCorrelation(data[i], data[j])
			corr[i][j] = c
			corr[j][i] = c
		}
	}
	return corr
}

func pairwiseCorrelation(x, y []float64) float64 {
	if x == nil || y == nil {
		return math.NaN()
	}
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for k := range x {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	c := stat.Correlation(xs, ys, nil)
	if math.IsInf(c, 0) {
		return math.NaN()
	}
	// 浮点误差可能略超出[-1, 1]
	return math.Max(-1, math.Min(1, c))
}

// OutlierSummary 对每个数值列计算1.5倍四分位距的上下界及界外行数
func OutlierSummary(df dataframe.DataFrame, cols []string) []OutlierStat {
	out := make([]OutlierStat, 0, len(cols))
	for _, name := range cols {
		if !utils.HasColumn(df, name) {
			continue
		}
		vals := utils.FloatsNoNA(df.Col(name))
		st := OutlierStat{Name: name}
		if len(vals) == 0 {
			st.Q1, st.Q3, st.Lower, st.Upper = math.NaN(), math.NaN(), math.NaN(), math.NaN()
			out = append(out, st)
			continue
		}
		sort.Float64s(vals)
		st.Q1 = Quantile(vals, 0.25)
		st.Q3 = Quantile(vals, 0.75)
		iqr := st.Q3 - st.Q1
		st.Lower = st.Q1 - 1.5*iqr
		st.Upper = st.Q3 + 1.5*iqr
		for _, v := range vals {
			if v < st.Lower || v > st.Upper {
				st.Count++
			}
		}
		out = append(out, st)
	}
	return out
}
