package lbo

import "math"

// DebtScheduleRow is one (instrument, year) row of the amortization
// schedule. Invariant: beginning - scheduled - sweep = ending;
// ending >= 0; scheduled + sweep <= beginning.
type DebtScheduleRow struct {
	InstrumentName     string  `json:"instrument_name"`
	Year               int     `json:"year"`
	Beginning          float64 `json:"beginning"`
	Interest           float64 `json:"interest"`
	ScheduledPrincipal float64 `json:"scheduled_principal"`
	SweepPrincipal     float64 `json:"sweep_principal"`
	Ending             float64 `json:"ending"`
}

// computeInterestAndScheduled derives, for each instrument, in ascending
// seniority order (ResolveDebtStack already sorted them), the beginning
// balance, interest on that beginning balance, and the contractually
// scheduled principal for year t. Neither of these depends on the
// period's cash flow, which is what lets the solver avoid an
// intra-period fixed point.
func computeInterestAndScheduled(instruments []DebtInstrument, beginningBalances map[string]float64, year, exitYear int) ([]DebtScheduleRow, float64, float64, error) {
	rows := make([]DebtScheduleRow, len(instruments))
	var totalInterest, totalScheduled float64

	for i, d := range instruments {
		begin := beginningBalances[d.Name]
		if begin < 0 || math.IsNaN(begin) || math.IsInf(begin, 0) {
			return nil, 0, 0, CalculationError{Code: "invalid_debt_balance", Period: year,
				LineItem: d.Name, Message: "beginning balance is negative, NaN, or Inf"}
		}

		interest := begin * d.InterestRate
		if math.IsNaN(interest) || math.IsInf(interest, 0) {
			return nil, 0, 0, CalculationError{Code: "invalid_interest_rate", Period: year,
				LineItem: d.Name, Message: "interest computation produced NaN or Inf"}
		}

		var scheduled float64
		switch d.AmortizationSchedule {
		case Bullet:
			maturity := d.Maturity
			if maturity == 0 {
				maturity = exitYear
			}
			if year == exitYear || year == maturity {
				scheduled = begin
			}
		case Amortizing:
			if year <= d.AmortizationPeriods {
				scheduled = d.Amount / float64(d.AmortizationPeriods)
			}
			if scheduled > begin {
				scheduled = begin
			}
		case CashFlowSweep:
			scheduled = 0
		}

		rows[i] = DebtScheduleRow{
			InstrumentName:     d.Name,
			Year:               year,
			Beginning:          begin,
			Interest:           interest,
			ScheduledPrincipal: scheduled,
		}
		totalInterest += interest
		totalScheduled += scheduled
	}

	return rows, totalInterest, totalScheduled, nil
}

// sweepEligible reports whether an instrument participates in the cash
// sweep: amortizing and cash_flow_sweep tranches
// always; a bullet tranche only if BulletSweepAllowed is set.
func sweepEligible(d DebtInstrument) bool {
	switch d.AmortizationSchedule {
	case Amortizing, CashFlowSweep:
		return true
	case Bullet:
		return d.BulletSweepAllowed
	}
	return false
}

// allocateSweep distributes the sweep pool greedily by ascending
// seniority (the order instruments/rows already carry), capping each
// instrument's total repayment at its beginning balance, then derives
// the ending balance.
func allocateSweep(rows []DebtScheduleRow, instruments []DebtInstrument, sweepPool float64) {
	for i := range rows {
		d := instruments[i]
		row := &rows[i]
		if sweepEligible(d) && sweepPool > 0 {
			capacity := row.Beginning - row.ScheduledPrincipal
			sweep := sweepPool
			if sweep > capacity {
				sweep = capacity
			}
			row.SweepPrincipal = sweep
			sweepPool -= sweep
		}
		row.Ending = row.Beginning - row.ScheduledPrincipal - row.SweepPrincipal
		if row.Ending < 0 {
			row.Ending = 0
		}
	}
}

// scenarioTagFor reports the payment scenario an instrument exercised in
// this particular period's row.
func scenarioTagFor(d DebtInstrument, row DebtScheduleRow) PaymentScenarioTag {
	switch {
	case row.ScheduledPrincipal > 0 && d.AmortizationSchedule == Amortizing:
		return ScenarioAmortizing
	case row.ScheduledPrincipal > 0 && d.AmortizationSchedule == Bullet:
		return ScenarioBullet
	case row.SweepPrincipal > 0:
		return ScenarioCashFlowSweep
	default:
		return ScenarioAmortizing
	}
}
