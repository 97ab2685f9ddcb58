package lbo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alphaCo builds a baseline deal: entry_ebitda 46,000 at a 10.0x
// multiple, 12% flat growth for 5 years, a 22.3% EBITDA margin, exiting
// at 10.5x with a 4.0x senior amortizing tranche and a 1.5x subordinated
// bullet tranche.
func alphaCo() Assumptions {
	return baseValidAssumptions()
}

// dataCore builds the S2 scenario.
func dataCore() Assumptions {
	a := baseValidAssumptions()
	a.EntryEBITDA = 81300
	a.EntryMultiple = 5.8
	a.RevenueGrowthRate = []float64{0.25, 0.22, 0.19, 0.17, 0.16}
	a.EBITDAMargin = 0.26
	a.ExitMultiple = 7.0
	a.DebtInstruments = []DebtInstrument{
		{Name: "senior", InterestRate: 0.075, EBITDAMultiple: 2.5, AmortizationSchedule: Amortizing, AmortizationPeriods: 5, Seniority: 0},
		{Name: "sub", InterestRate: 0.12, EBITDAMultiple: 0.7, AmortizationSchedule: Bullet, Seniority: 1},
	}
	return a
}

// sentinelGuard builds the S3 scenario: single senior amortizing tranche,
// zero reconciliation warnings expected.
func sentinelGuard() Assumptions {
	a := baseValidAssumptions()
	a.EntryEBITDA = 60000
	a.EntryMultiple = 10.0
	a.RevenueGrowthRate = []float64{0.17, 0.17, 0.17, 0.17, 0.17}
	a.EBITDAMargin = 0.17
	a.SGAndAPct = 0.23 // 1 - CogsPct - SGAndAPct matches the 17% margin
	a.ExitMultiple = 12.0
	a.DebtInstruments = []DebtInstrument{
		{Name: "senior", InterestRate: 0.08, EBITDAMultiple: 4.5, AmortizationSchedule: Amortizing, AmortizationPeriods: 5, Seniority: 0},
	}
	return a
}

// vectorServe builds the S4 scenario.
func vectorServe() Assumptions {
	a := baseValidAssumptions()
	a.EntryEBITDA = 62000
	a.EntryMultiple = 8.5
	a.RevenueGrowthRate = []float64{0.059, 0.059, 0.059, 0.059, 0.059}
	a.EBITDAMargin = 0.20
	a.ExitMultiple = 9.0
	a.DebtInstruments = []DebtInstrument{
		{Name: "senior", InterestRate: 0.07, EBITDAMultiple: 4.0, AmortizationSchedule: Amortizing, AmortizationPeriods: 5, Seniority: 0},
		{Name: "sub", InterestRate: 0.11, EBITDAMultiple: 2.0, AmortizationSchedule: Bullet, Seniority: 1},
	}
	return a
}

// liquidityStarved builds the S5 synthetic scenario: sentinelGuard with
// flat (0%) growth and a depressed exit multiple, which should starve the
// senior tranche of cash and trigger liquidity warnings.
func liquidityStarved() Assumptions {
	a := sentinelGuard()
	a.RevenueGrowthRate = []float64{0, 0, 0, 0, 0}
	a.ExitMultiple = 6.0
	return a
}

func assertUniversalInvariants(t *testing.T, result *Result) {
	t.Helper()

	for _, state := range result.PeriodStates {
		eps := epsilonFor(state.Balance.TotalAssets)
		assert.InDelta(t, state.Balance.TotalLiabAndEquity, state.Balance.TotalAssets, eps+1e-6,
			"balance sheet identity violated in year %d", state.Year)

		var debtSum float64
		for _, d := range state.Balance.InstrumentDebt {
			debtSum += d.Ending
			assert.GreaterOrEqual(t, d.Ending, -1e-9, "instrument %s ended negative in year %d", d.Name, state.Year)
		}
		assert.InDelta(t, state.Balance.TotalDebt, debtSum, 1e-6, "per-instrument debt does not sum to total_debt in year %d", state.Year)
	}

	for i := 1; i < len(result.PeriodStates); i++ {
		prev := result.PeriodStates[i-1]
		cur := result.PeriodStates[i]
		expectedCash := prev.Balance.Cash + cur.CashFlow.NetDeltaCash
		assert.InDelta(t, expectedCash, cur.Balance.Cash, 1e-6, "cash continuity violated in year %d", cur.Year)
		assert.GreaterOrEqual(t, cur.Balance.Cash, -1e-9, "cash went negative in year %d", cur.Year)
	}
}

func TestEngineAlphaCoInvariants(t *testing.T) {
	a := alphaCo()
	engine := NewEngine()
	result, err := engine.Run(&a)
	require.NoError(t, err)

	assertUniversalInvariants(t, result)

	require.Len(t, result.PeriodStates, a.ExitYear+1)
	exit := result.PeriodStates[a.ExitYear]
	assert.Greater(t, exit.Income.EBITDA, a.EntryEBITDA, "EBITDA should have grown by exit")
	require.NotNil(t, result.Returns.IRR)
	assert.Greater(t, result.Returns.MOIC, 1.0)
}

func TestEngineDataCoreHasReconciliationWarning(t *testing.T) {
	a := dataCore()
	engine := NewEngine()
	result, err := engine.Run(&a)
	require.NoError(t, err)
	assertUniversalInvariants(t, result)
	assert.Greater(t, result.Returns.MOIC, 1.0)

	foundWarning := false
	for _, f := range result.Findings {
		if f.Code == "reconciliation_warning" {
			foundWarning = true
		}
	}
	assert.True(t, foundWarning, "expected at least one reconciliation_warning finding")
}

func TestEngineSentinelGuardInvariants(t *testing.T) {
	a := sentinelGuard()
	engine := NewEngine()
	result, err := engine.Run(&a)
	require.NoError(t, err)
	assertUniversalInvariants(t, result)
	assert.Greater(t, result.Returns.MOIC, 1.0)

	for _, f := range result.Findings {
		assert.NotEqual(t, "reconciliation_warning", f.Code, "sentinelGuard's single amortizing tranche should not trip a reconciliation warning")
	}
}

func TestEngineVectorServeInvariants(t *testing.T) {
	a := vectorServe()
	engine := NewEngine()
	result, err := engine.Run(&a)
	require.NoError(t, err)
	assertUniversalInvariants(t, result)
	assert.Greater(t, result.Returns.MOIC, 1.0)
}

func TestEngineLiquidityStarvedTriggersWarnings(t *testing.T) {
	a := liquidityStarved()
	engine := NewEngine()
	result, err := engine.Run(&a)
	require.NoError(t, err)
	assertUniversalInvariants(t, result)

	assert.Less(t, result.Returns.MOIC, 1.0)
	require.NotNil(t, result.Returns.IRR)
	assert.Less(t, *result.Returns.IRR, 0.0)

	foundShortfall := false
	for _, f := range result.Findings {
		if f.Code == "liquidity_shortfall" {
			foundShortfall = true
		}
	}
	assert.True(t, foundShortfall, "expected at least one liquidity_shortfall finding")

	exit := result.PeriodStates[a.ExitYear]
	assert.Greater(t, exit.Balance.TotalDebt, 0.0, "expected residual debt at exit under the starved scenario")
}

func TestEngineMonotoneAmortization(t *testing.T) {
	a := alphaCo()
	engine := NewEngine()
	result, err := engine.Run(&a)
	require.NoError(t, err)

	balances := make(map[string][]float64)
	for _, state := range result.PeriodStates {
		for _, d := range state.Balance.InstrumentDebt {
			balances[d.Name] = append(balances[d.Name], d.Ending)
		}
	}

	senior := balances["senior"]
	for i := 1; i < len(senior); i++ {
		assert.LessOrEqual(t, senior[i], senior[i-1]+1e-6, "amortizing tranche balance increased")
	}
}

func TestEngineRejectsInvalidAssumptions(t *testing.T) {
	a := baseValidAssumptions()
	a.EntryEBITDA = -1
	engine := NewEngine()
	_, err := engine.Run(&a)
	require.Error(t, err)
	var configErrs ConfigErrors
	require.ErrorAs(t, err, &configErrs)
}
