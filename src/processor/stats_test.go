package processor

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"AirlinesEDA/src/storage"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numericFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]float64{1, 2, 3, 4, 100}, series.Float, ColDuration),
		series.New([]float64{2, 4, 6, 8, math.NaN()}, series.Float, ColPrice),
		series.New([]float64{5, 5, 5, 5, 5}, series.Float, ColDaysLeft),
		series.New([]string{"Vistara", "Indigo", "Vistara", "AirAsia", "Indigo"}, series.String, ColAirline),
	)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, Quantile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Quantile(sorted, 0.75), 1e-12)
	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 4.0, Quantile(sorted, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestDescribe(t *testing.T) {
	summaries := Describe(numericFrame(), []string{ColPrice, "missing"})
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(20.0/3.0), s.Std, 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 8.0, s.Max)
	assert.InDelta(t, 5, s.Q50, 1e-12)
}

func TestValueCounts(t *testing.T) {
	counts := ValueCounts(numericFrame(), ColAirline)
	assert.Equal(t, []ValueCount{
		{Label: "Indigo", Count: 2},
		{Label: "Vistara", Count: 2},
		{Label: "AirAsia", Count: 1},
	}, counts)
	assert.Nil(t, ValueCounts(numericFrame(), "missing"))
}

func TestCorrelationMatrix(t *testing.T) {
	corr := CorrelationMatrix(numericFrame(), []string{ColDuration, ColPrice, ColDaysLeft})

	// 对角线为1，对称
	assert.InDelta(t, 1, corr[0][0], 1e-12)
	assert.InDelta(t, 1, corr[1][1], 1e-12)
	assert.Equal(t, corr[0][1], corr[1][0])
	// duration与price只比较前四行，完全线性相关
	assert.InDelta(t, 1, corr[0][1], 1e-12)
	// 常数列相关系数为NaN
	assert.True(t, math.IsNaN(corr[0][2]))
	assert.True(t, math.IsNaN(corr[2][2]))
}

func TestOutlierSummary(t *testing.T) {
	stats := OutlierSummary(numericFrame(), []string{ColDuration})
	require.Len(t, stats, 1)

	s := stats[0]
	assert.InDelta(t, 2, s.Q1, 1e-12)
	assert.InDelta(t, 4, s.Q3, 1e-12)
	assert.InDelta(t, -1, s.Lower, 1e-12)
	assert.InDelta(t, 7, s.Upper, 1e-12)
	assert.Equal(t, 1, s.Count)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("stdout closed") }

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, storage.NewNopLogger())

	df := numericFrame()
	r.DatasetInfo(df)
	r.ValueCounts(ColAirline, ValueCounts(df, ColAirline), 2)
	r.Describe(Describe(df, []string{ColDuration}))

	out := buf.String()
	assert.Contains(t, out, "Final shape: (5, 4)")
	assert.Contains(t, out, "Columns: [duration, price, days_left, airline]")
	assert.Contains(t, out, "airline (3 distinct): Indigo=2 Vistara=2 ...")
	assert.Contains(t, out, "duration")
	assert.NoError(t, r.Err())
}

func TestReporter_WriteFailureIsAWarning(t *testing.T) {
	logger := storage.NewNopLogger()
	warnings := logger.Subscribe()
	r := NewReporter(failingWriter{}, logger)

	r.Println("Loading data...")
	r.Println("Cleaning data...")

	require.Error(t, r.Err())
	assert.Contains(t, <-warnings, "WARNING: report output failed")
	// 只警告一次
	assert.Empty(t, warnings)
}
