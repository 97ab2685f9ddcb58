package lbo

import "fmt"

// Engine is the main entry point for the LBO projection pipeline, a thin
// facade wiring together the independently-testable pipeline stages.
type Engine struct{}

// NewEngine creates an LBO projection engine. It holds no state of its
// own — every Run call is a straight-line computation over the
// Assumptions passed in.
func NewEngine() *Engine {
	return &Engine{}
}

// Run executes the full pipeline — Assumptions & Debt-Stack validation,
// Sources & Uses, Opening Balance Sheet, the year-by-year Period
// Projector / Debt Schedule Solver / Reconciler loop, and the Returns
// Calculator at the exit year — and returns the immutable Result bundle.
//
// Configuration errors halt before any projection and are returned
// directly. Calculation errors halt mid-run and are also returned
// directly, with period/instrument context. Every other diagnostic is
// collected into the Result's Findings instead of stopping the run.
func (e *Engine) Run(a *Assumptions) (*Result, error) {
	if errs := a.Validate(); errs.HasErrors() {
		return nil, errs
	}

	resolvedDebt, err := ResolveDebtStack(a.DebtInstruments, a.EntryEBITDA)
	if err != nil {
		return nil, err
	}

	su, err := BuildSourcesAndUses(a, resolvedDebt)
	if err != nil {
		return nil, err
	}

	vr := NewValidationReporter()
	reconciler := NewReconciler()

	opening, openingFindings := BuildOpeningBalanceSheet(a, resolvedDebt, su)
	for _, f := range openingFindings {
		vr.Report(f)
	}

	periods := make([]PeriodState, 0, a.ExitYear+1)
	periods = append(periods, opening)

	var allRows []DebtScheduleRow

	beginningBalances := make(map[string]float64, len(resolvedDebt))
	for _, d := range resolvedDebt {
		beginningBalances[d.Name] = d.Amount
	}

	prev := opening
	for year := 1; year <= a.ExitYear; year++ {
		state, rows, endingBalances, err := ProjectPeriod(prev, a, resolvedDebt, beginningBalances, year, vr)
		if err != nil {
			return nil, fmt.Errorf("projection failed: %w", err)
		}

		reconciler.Reconcile(&state, rows, resolvedDebt, prev.Balance.Equity, a.TaxRate, vr)

		periods = append(periods, state)
		allRows = append(allRows, rows...)
		beginningBalances = endingBalances
		prev = state
	}

	exitState := periods[a.ExitYear]
	returns := CalculateReturns(exitState, a, su.SponsorEquity, nil, vr)

	suspect := reconciler.CheckSuspect(exitState.Balance.Equity, vr)

	result := &Result{
		Assumptions:      *a,
		SourcesAndUses:   *su,
		PeriodStates:     periods,
		DebtSchedule:     allRows,
		Returns:          returns,
		Findings:         vr.Findings(),
		PaymentScenarios: vr.ScenarioTags(),
		Suspect:          suspect,
	}

	return result, nil
}
