// features.go
package processor

import (
	"fmt"
	"math"

	"AirlinesEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// RouteSeparator route列中出发城市与到达城市之间的分隔
const RouteSeparator = " to "

// AddPricePerHour 新增price_per_hour = price / duration。
// duration为0或任一操作数缺失时结果为缺失值，返回duration为0的行数。
func AddPricePerHour(df dataframe.DataFrame) (dataframe.DataFrame, int, error) {
	if missing := utils.MissingColumns(df, ColPrice, ColDuration); len(missing) > 0 {
		return df, 0, utils.SchemaError("price per hour", fmt.Errorf("missing columns %v", missing))
	}

	prices := df.Col(ColPrice).Float()
	durations := df.Col(ColDuration).Float()

	ratio := make([]float64, len(prices))
	zero := 0
	for i := range prices {
		p, d := prices[i], durations[i]
		switch {
		case math.IsNaN(p) || math.IsNaN(d):
			ratio[i] = math.NaN()
		case d == 0:
			ratio[i] = math.NaN()
			zero++
		default:
			ratio[i] = p / d
		}
	}

	df = df.Mutate(series.New(ratio, series.Float, ColPricePerHour))
	if df.Err != nil {
		return df, zero, utils.SchemaError("price per hour", df.Err)
	}
	return df, zero, nil
}

// AddRoute 新增route = source_city + " to " + destination_city，任一城市缺失时为缺失值
func AddRoute(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if missing := utils.MissingColumns(df, ColSourceCity, ColDestinationCity); len(missing) > 0 {
		return df, utils.SchemaError("route", fmt.Errorf("missing columns %v", missing))
	}

	src := df.Col(ColSourceCity)
	dst := df.Col(ColDestinationCity)

	routes := make([]string, src.Len())
	for i := range routes {
		s, d := src.Elem(i), dst.Elem(i)
		if s.IsNA() || d.IsNA() {
			routes[i] = "NaN"
			continue
		}
		routes[i] = s.String() + RouteSeparator + d.String()
	}

	df = df.Mutate(series.New(routes, series.String, ColRoute))
	if df.Err != nil {
		return df, utils.SchemaError("route", df.Err)
	}
	return df, nil
}
