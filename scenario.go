package lbo

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Override is a single field mutation applied to a base Assumptions copy
// to produce one scenario grid cell. Apply must be a pure
// function of (Assumptions) -> Assumptions; it must not mutate base.
type Override struct {
	Name  string
	Apply func(a Assumptions) Assumptions
}

// Metric selects which output of a run populates a scenario grid cell.
type Metric string

const (
	MetricMOIC       Metric = "moic"
	MetricIRR        Metric = "irr"
	MetricExitEquity Metric = "exit_equity"
)

// CellStatus reports how a grid cell resolved.
type CellStatus string

const (
	CellOK      CellStatus = "ok"
	CellError   CellStatus = "error"
	CellTimeout CellStatus = "timeout"
)

// Cell is one grid coordinate's outcome.
type Cell struct {
	Row, Col int
	Value    float64
	Status   CellStatus
	Err      error
}

// ScenarioGrid describes the sensitivity sweep: rows and
// columns are independent axes of Override, applied in combination to a
// shared base Assumptions.
type ScenarioGrid struct {
	Base    Assumptions
	Rows    []Override
	Cols    []Override
	Metric  Metric
	// MaxConcurrency bounds the number of simultaneous cell runs. 0 means
	// runtime.GOMAXPROCS(0).
	MaxConcurrency int
	// Cache, if non-nil, is consulted before running a cell and populated
	// after. Entirely optional; this is the only I/O surface anywhere in
	// the engine, and only the grid driver touches it.
	Cache *ScenarioCache
}

// RunScenarioGrid runs the full engine once per (row, col) combination,
// embarrassingly parallel across cells, and deposits each
// result at its grid coordinate. Cells are never blocked on one another;
// ctx cancellation is checked before each cell starts, and any cell still
// pending when ctx is done is recorded with CellStatus "timeout" rather
// than silently dropped.
func RunScenarioGrid(ctx context.Context, grid ScenarioGrid) [][]Cell {
	rows := len(grid.Rows)
	cols := len(grid.Cols)
	matrix := make([][]Cell, rows)
	for r := range matrix {
		matrix[r] = make([]Cell, cols)
	}

	limit := grid.MaxConcurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			r, c := r, c
			g.Go(func() error {
				matrix[r][c] = runCell(gctx, grid, r, c)
				return nil
			})
		}
	}

	// g.Wait's error is always nil here: runCell never returns an error
	// to the errgroup itself, it records failures as Cell.Status so a
	// partial grid is still usable.
	_ = g.Wait()

	return matrix
}

func runCell(ctx context.Context, grid ScenarioGrid, row, col int) Cell {
	if err := ctx.Err(); err != nil {
		return Cell{Row: row, Col: col, Status: CellTimeout, Err: err}
	}

	a := grid.Rows[row].Apply(grid.Base)
	a = grid.Cols[col].Apply(a)

	var cacheKey [32]byte
	if grid.Cache != nil {
		cacheKey = hashAssumptions(a)
		if v, ok := grid.Cache.Get(cacheKey, grid.Metric); ok {
			return Cell{Row: row, Col: col, Value: v, Status: CellOK}
		}
	}

	engine := NewEngine()
	result, err := engine.Run(&a)
	if err != nil {
		return Cell{Row: row, Col: col, Status: CellError, Err: err}
	}

	value, err := metricValue(result, grid.Metric)
	if err != nil {
		return Cell{Row: row, Col: col, Status: CellError, Err: err}
	}

	if grid.Cache != nil {
		_ = grid.Cache.Put(cacheKey, grid.Metric, value)
	}

	return Cell{Row: row, Col: col, Value: value, Status: CellOK}
}

func metricValue(result *Result, metric Metric) (float64, error) {
	switch metric {
	case MetricMOIC:
		return result.Returns.MOIC, nil
	case MetricExitEquity:
		return result.Returns.ExitEquity, nil
	case MetricIRR:
		if result.Returns.IRR == nil {
			return 0, fmt.Errorf("irr_not_found: IRR did not converge for this cell")
		}
		return *result.Returns.IRR, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", metric)
	}
}

// hashAssumptions content-hashes the fields RunScenarioGrid actually
// varies, for ScenarioCache keys. It is intentionally narrow (not a full
// struct hash) since only scalar drivers change between cells in
// practice; DebtInstruments identity is assumed stable across a grid.
func hashAssumptions(a Assumptions) [32]byte {
	h := sha256.New()
	buf := make([]byte, 8)
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}
	writeFloat(a.EntryEBITDA)
	writeFloat(a.EntryMultiple)
	writeFloat(a.ExitMultiple)
	writeFloat(a.StartingRevenue)
	writeFloat(a.CogsPct)
	writeFloat(a.SGAndAPct)
	writeFloat(a.CapexPct)
	writeFloat(a.TaxRate)
	for _, g := range a.RevenueGrowthRate {
		writeFloat(g)
	}
	binary.LittleEndian.PutUint64(buf, uint64(a.ExitYear))
	h.Write(buf)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
