package lbo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioCachePutGet(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scenario_cache.db")
	cache, err := OpenScenarioCache(dbPath)
	require.NoError(t, err)
	defer cache.Close()

	key := hashAssumptions(alphaCo())

	_, ok := cache.Get(key, MetricMOIC)
	assert.False(t, ok, "expected a cold cache miss")

	require.NoError(t, cache.Put(key, MetricMOIC, 3.31))

	value, ok := cache.Get(key, MetricMOIC)
	require.True(t, ok)
	assert.InDelta(t, 3.31, value, 1e-9)

	// A second metric under the same key must not clobber the first.
	require.NoError(t, cache.Put(key, MetricIRR, 0.27))
	moic, ok := cache.Get(key, MetricMOIC)
	require.True(t, ok)
	assert.InDelta(t, 3.31, moic, 1e-9)
}

func TestScenarioCacheUsedByGrid(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scenario_cache.db")
	cache, err := OpenScenarioCache(dbPath)
	require.NoError(t, err)
	defer cache.Close()

	base := alphaCo()
	grid := ScenarioGrid{
		Base:   base,
		Rows:   entryMultipleOverrides([]float64{10.0}),
		Cols:   exitMultipleOverrides([]float64{10.5}),
		Metric: MetricMOIC,
		Cache:  cache,
	}

	matrix := runScenarioGridForTest(t, grid)
	require.Equal(t, CellOK, matrix[0][0].Status)

	key := hashAssumptions(grid.Cols[0].Apply(grid.Rows[0].Apply(base)))
	value, ok := cache.Get(key, MetricMOIC)
	require.True(t, ok)
	assert.InDelta(t, matrix[0][0].Value, value, 1e-9)
}

func runScenarioGridForTest(t *testing.T, grid ScenarioGrid) [][]Cell {
	t.Helper()
	return RunScenarioGrid(t.Context(), grid)
}
