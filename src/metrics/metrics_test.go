package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"AirlinesEDA/src/processor"
	"AirlinesEDA/src/storage"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flightFrame 三行去重后剩两行，一行stops无法识别，一行duration为0
func flightFrame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.LoadRecords([][]string{
		{"index", "airline", "flight", "source_city", "departure_time", "stops", "arrival_time", "destination_city", "class", "duration", "days_left", "price"},
		{"0", "Vistara", "UK-955", "Delhi", "Evening", "zero", "Night", "Mumbai", "Economy", "0", "1", "5953"},
		{"0", "Vistara", "UK-955", "Delhi", "Evening", "zero", "Night", "Mumbai", "Economy", "0", "1", "5953"},
		{"1", "Indigo", "6E-201", "Delhi", "Morning", "three", "Night", "Mumbai", "Economy", "2.5", "3", "6000"},
	}, dataframe.HasHeader(true), dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	require.NoError(t, df.Err)
	return df
}

func TestRecordClean(t *testing.T) {
	m := NewRunMetrics()
	logger := storage.NewNopLogger()
	p := processor.NewDataProcessor(flightFrame(t), logger)
	require.NoError(t, p.CleanData())
	require.NoError(t, p.CreateFeatures())
	m.RecordClean(p.CalculateMetrics())

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DuplicatesRemoved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnmappedStops))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ZeroDurationRows))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FinalRows))
}

func TestObserveStage(t *testing.T) {
	m := NewRunMetrics()
	m.ObserveStage("load", time.Now().Add(-time.Second))

	got := testutil.ToFloat64(m.StageDuration.WithLabelValues("load"))
	assert.GreaterOrEqual(t, got, 1.0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
}

func TestWriteTextfile(t *testing.T) {
	m := NewRunMetrics()
	m.ChartsRendered.Add(11)

	path := filepath.Join(t.TempDir(), "eda.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "airlines_eda_charts_rendered_total 11")
	assert.Contains(t, string(raw), "# HELP airlines_eda_rows_loaded")

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "eda.prom"))
	assert.Error(t, err)
}
