package processor

import (
	"math"
	"testing"

	"AirlinesEDA/src/storage"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPricePerHour(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{6000, 5000, 4000, math.NaN()}, series.Float, ColPrice),
		series.New([]float64{2.5, 0, math.NaN(), 2}, series.Float, ColDuration),
	)

	out, zero, err := AddPricePerHour(df)
	require.NoError(t, err)
	assert.Equal(t, 1, zero)

	pph := out.Col(ColPricePerHour).Float()
	assert.InDelta(t, 2400, pph[0], 1e-9)
	assert.True(t, math.IsNaN(pph[1]), "duration 0 must give a missing value")
	assert.False(t, math.IsInf(pph[1], 0))
	assert.True(t, math.IsNaN(pph[2]))
	assert.True(t, math.IsNaN(pph[3]))
}

func TestAddPricePerHour_MatchesRatio(t *testing.T) {
	prices := []float64{5953, 12150, 105.5, 1}
	durations := []float64{2.17, 7.33, 0.83, 3}
	df := dataframe.New(
		series.New(prices, series.Float, ColPrice),
		series.New(durations, series.Float, ColDuration),
	)

	out, zero, err := AddPricePerHour(df)
	require.NoError(t, err)
	assert.Zero(t, zero)
	for i, got := range out.Col(ColPricePerHour).Float() {
		assert.InDelta(t, prices[i]/durations[i], got, 1e-9)
	}
}

func TestAddRoute(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Delhi", "Mumbai", "NaN"}, series.String, ColSourceCity),
		series.New([]string{"Mumbai", "Kolkata", "Chennai"}, series.String, ColDestinationCity),
	)

	out, err := AddRoute(df)
	require.NoError(t, err)

	route := out.Col(ColRoute)
	assert.Equal(t, "Delhi to Mumbai", route.Elem(0).String())
	assert.Equal(t, "Mumbai to Kolkata", route.Elem(1).String())
	assert.True(t, route.Elem(2).IsNA())
}

func TestAddRoute_MissingColumn(t *testing.T) {
	df := dataframe.New(series.New([]string{"Delhi"}, series.String, ColSourceCity))
	_, err := AddRoute(df)
	assert.Error(t, err)
}

// 三行输入，其中一行重复，stops为two_or_more且duration为0
func TestPipelineScenario(t *testing.T) {
	logger := storage.NewNopLogger()
	df := rawFrame(t,
		row("0", "two_or_more", "0", "5953"),
		row("0", "two_or_more", "0", "5953"),
		row("1", "one", "2.5", "6000"),
	)

	p := NewDataProcessor(df, logger)
	require.NoError(t, p.CleanData())
	require.NoError(t, p.CreateFeatures())

	out := p.DataFrame()
	require.Equal(t, 2, out.Nrow())

	stops, err := out.Col(ColStops).Elem(0).Int()
	require.NoError(t, err)
	assert.Equal(t, 2, stops)
	assert.True(t, math.IsNaN(out.Col(ColPricePerHour).Elem(0).Float()))
	assert.InDelta(t, 2400, out.Col(ColPricePerHour).Elem(1).Float(), 1e-9)
	assert.Equal(t, 1, p.Stats.ZeroDurationRows)

	for i := 0; i < out.Nrow(); i++ {
		want := out.Col(ColSourceCity).Elem(i).String() + " to " + out.Col(ColDestinationCity).Elem(i).String()
		assert.Equal(t, want, out.Col(ColRoute).Elem(i).String())
	}

	m := p.CalculateMetrics()
	assert.Equal(t, 3, m["rows_loaded"])
	assert.Equal(t, 1, m["duplicates_removed"])
	assert.Equal(t, 2, m["final_rows"])
	assert.Equal(t, 13, m["final_columns"])
}
