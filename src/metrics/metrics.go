package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RunMetrics 单次运行的指标，独立registry，运行结束后写成textfile
type RunMetrics struct {
	registry *prometheus.Registry

	RowsLoaded        prometheus.Gauge
	DuplicatesRemoved prometheus.Gauge
	UnmappedStops     prometheus.Gauge
	ZeroDurationRows  prometheus.Gauge
	FinalRows         prometheus.Gauge
	ChartsRendered    prometheus.Counter
	StageDuration     *prometheus.GaugeVec
}

func NewRunMetrics() *RunMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &RunMetrics{
		registry: reg,
		RowsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "airlines_eda_rows_loaded",
			Help: "Rows read from the input file",
		}),
		DuplicatesRemoved: factory.NewGauge(prometheus.GaugeOpts{
			Name: "airlines_eda_duplicates_removed",
			Help: "Exact duplicate rows dropped during cleaning",
		}),
		UnmappedStops: factory.NewGauge(prometheus.GaugeOpts{
			Name: "airlines_eda_unmapped_stops",
			Help: "Rows whose stops label had no numeric mapping",
		}),
		ZeroDurationRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "airlines_eda_zero_duration_rows",
			Help: "Rows with duration 0, price_per_hour left missing",
		}),
		FinalRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "airlines_eda_final_rows",
			Help: "Rows in the cleaned dataset",
		}),
		ChartsRendered: factory.NewCounter(prometheus.CounterOpts{
			Name: "airlines_eda_charts_rendered_total",
			Help: "Chart images written",
		}),
		StageDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "airlines_eda_stage_duration_seconds",
			Help: "Wall time spent in each pipeline stage",
		}, []string{"stage"}),
	}
}

// Registry 供测试和导出使用
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage 记录某个阶段的耗时，用法: defer m.ObserveStage("load", time.Now())
func (m *RunMetrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

// RecordClean 把DataProcessor.CalculateMetrics的结果同步到指标
func (m *RunMetrics) RecordClean(stats map[string]int) {
	m.RowsLoaded.Set(float64(stats["rows_loaded"]))
	m.DuplicatesRemoved.Set(float64(stats["duplicates_removed"]))
	m.UnmappedStops.Set(float64(stats["unmapped_stops"]))
	m.ZeroDurationRows.Set(float64(stats["zero_duration_rows"]))
	m.FinalRows.Set(float64(stats["final_rows"]))
}

// WriteTextfile 以node_exporter textfile格式写出
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("写入指标文件失败: %w", err)
	}
	return nil
}
