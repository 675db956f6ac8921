// data.go
package processor

import (
	"fmt"

	"AirlinesEDA/src/storage"
	"AirlinesEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
)

// 列名
const (
	ColIndex           = "index"
	ColAirline         = "airline"
	ColFlight          = "flight"
	ColSourceCity      = "source_city"
	ColDepartureTime   = "departure_time"
	ColStops           = "stops"
	ColArrivalTime     = "arrival_time"
	ColDestinationCity = "destination_city"
	ColClass           = "class"
	ColDuration        = "duration"
	ColDaysLeft        = "days_left"
	ColPrice           = "price"
	ColPricePerHour    = "price_per_hour"
	ColRoute           = "route"
)

// RequiredColumns 输入文件中必须存在的列(index单独检查)
var RequiredColumns = []string{
	ColAirline, ColSourceCity, ColDepartureTime, ColStops, ColArrivalTime,
	ColDestinationCity, ColClass, ColDuration, ColDaysLeft, ColPrice,
}

// CategoricalColumns 计数图使用的分类列
var CategoricalColumns = []string{
	ColAirline, ColSourceCity, ColDestinationCity,
	ColDepartureTime, ColArrivalTime, ColClass,
}

// NumericColumns 直方图、相关矩阵和箱线图使用的数值列
var NumericColumns = []string{ColDuration, ColDaysLeft, ColPrice, ColPricePerHour}

// CleanStats 清洗和特征阶段的统计
type CleanStats struct {
	RowsLoaded        int
	DuplicatesRemoved int
	UnmappedStops     map[string]int // 未识别的stops取值及次数
	ZeroDurationRows  int
}

// UnmappedStopsTotal 未识别stops的总行数
func (s CleanStats) UnmappedStopsTotal() int {
	total := 0
	for _, n := range s.UnmappedStops {
		total += n
	}
	return total
}

// DataProcessor 持有整个流水线唯一的一张表，清洗和特征阶段原地更新
type DataProcessor struct {
	df     dataframe.DataFrame
	logger *storage.Logger
	Stats  CleanStats
}

func NewDataProcessor(df dataframe.DataFrame, logger *storage.Logger) *DataProcessor {
	return &DataProcessor{
		df:     df,
		logger: logger,
		Stats:  CleanStats{RowsLoaded: df.Nrow()},
	}
}

// DataFrame 返回当前表
func (p *DataProcessor) DataFrame() dataframe.DataFrame {
	return p.df
}

// Shape 返回(行数, 列数)
func (p *DataProcessor) Shape() (int, int) {
	return p.df.Dims()
}

// CleanData 类型转换、删除index列、stops转数值、去重
func (p *DataProcessor) CleanData() error {
	df, err := CoerceTypes(p.df)
	if err != nil {
		return err
	}

	df, err = DropIndex(df)
	if err != nil {
		return err
	}

	df, unmapped, err := MapStops(df)
	if err != nil {
		return err
	}
	p.Stats.UnmappedStops = unmapped
	for label, n := range unmapped {
		verr := utils.ValueError("map stops", fmt.Errorf("unknown label %q", label))
		p.logger.Warning("unmapped stops value replaced with missing marker",
			"value", label, "rows", n, "error", verr.Error())
	}

	df, removed := DropDuplicates(df)
	p.Stats.DuplicatesRemoved = removed
	p.logger.Info("duplicates removed", "rows", removed, "remaining", df.Nrow())

	p.df = df
	return nil
}

// CreateFeatures 生成price_per_hour和route
func (p *DataProcessor) CreateFeatures() error {
	df, zero, err := AddPricePerHour(p.df)
	if err != nil {
		return err
	}
	p.Stats.ZeroDurationRows = zero
	if zero > 0 {
		verr := utils.ValueError("price_per_hour", fmt.Errorf("duration is 0 in %d rows", zero))
		p.logger.Warning("zero duration, price_per_hour set to missing", "rows", zero, "error", verr.Error())
	}

	df, err = AddRoute(df)
	if err != nil {
		return err
	}

	p.df = df
	return nil
}

// CalculateMetrics 运行统计，键名与导出的指标对应
func (p *DataProcessor) CalculateMetrics() map[string]int {
	rows, cols := p.Shape()
	return map[string]int{
		"rows_loaded":        p.Stats.RowsLoaded,
		"duplicates_removed": p.Stats.DuplicatesRemoved,
		"unmapped_stops":     p.Stats.UnmappedStopsTotal(),
		"zero_duration_rows": p.Stats.ZeroDurationRows,
		"final_rows":         rows,
		"final_columns":      cols,
	}
}
