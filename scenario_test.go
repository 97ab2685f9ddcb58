package lbo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exitMultipleOverrides(values []float64) []Override {
	overrides := make([]Override, len(values))
	for i, v := range values {
		v := v
		overrides[i] = Override{
			Name: "exit_multiple",
			Apply: func(a Assumptions) Assumptions {
				a.ExitMultiple = v
				return a
			},
		}
	}
	return overrides
}

func entryMultipleOverrides(values []float64) []Override {
	overrides := make([]Override, len(values))
	for i, v := range values {
		v := v
		overrides[i] = Override{
			Name: "entry_multiple",
			Apply: func(a Assumptions) Assumptions {
				a.EntryMultiple = v
				return a
			},
		}
	}
	return overrides
}

func TestRunScenarioGridMonotonicInExitMultiple(t *testing.T) {
	base := alphaCo()
	grid := ScenarioGrid{
		Base:   base,
		Rows:   entryMultipleOverrides([]float64{10.0}),
		Cols:   exitMultipleOverrides([]float64{9.0, 10.0, 11.0, 12.0}),
		Metric: MetricMOIC,
	}

	matrix := RunScenarioGrid(context.Background(), grid)
	require.Len(t, matrix, 1)
	require.Len(t, matrix[0], 4)

	for c := 1; c < len(matrix[0]); c++ {
		prev := matrix[0][c-1]
		cur := matrix[0][c]
		require.Equal(t, CellOK, prev.Status)
		require.Equal(t, CellOK, cur.Status)
		assert.Greater(t, cur.Value, prev.Value, "increasing exit_multiple must strictly increase MOIC")
	}
}

func TestRunScenarioGridIsIdempotent(t *testing.T) {
	base := alphaCo()
	grid := ScenarioGrid{
		Base:   base,
		Rows:   entryMultipleOverrides([]float64{9.0, 10.0}),
		Cols:   exitMultipleOverrides([]float64{9.5, 10.5}),
		Metric: MetricMOIC,
	}

	first := RunScenarioGrid(context.Background(), grid)
	second := RunScenarioGrid(context.Background(), grid)

	for r := range first {
		for c := range first[r] {
			assert.Equal(t, first[r][c].Status, second[r][c].Status)
			assert.InDelta(t, first[r][c].Value, second[r][c].Value, 1e-9)
		}
	}
}

func TestRunScenarioGridDepositsAtCoordinates(t *testing.T) {
	base := alphaCo()
	grid := ScenarioGrid{
		Base:   base,
		Rows:   entryMultipleOverrides([]float64{8.0, 9.0, 10.0}),
		Cols:   exitMultipleOverrides([]float64{9.0, 11.0}),
		Metric: MetricExitEquity,
	}

	matrix := RunScenarioGrid(context.Background(), grid)
	require.Len(t, matrix, 3)
	for r, row := range matrix {
		require.Len(t, row, 2)
		for c, cell := range row {
			assert.Equal(t, r, cell.Row)
			assert.Equal(t, c, cell.Col)
		}
	}
}

func TestRunScenarioGridCancellation(t *testing.T) {
	base := alphaCo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grid := ScenarioGrid{
		Base:   base,
		Rows:   entryMultipleOverrides([]float64{10.0}),
		Cols:   exitMultipleOverrides([]float64{10.0}),
		Metric: MetricMOIC,
	}

	matrix := RunScenarioGrid(ctx, grid)
	require.Len(t, matrix, 1)
	require.Len(t, matrix[0], 1)
	assert.Equal(t, CellTimeout, matrix[0][0].Status)
}
