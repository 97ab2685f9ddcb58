package lbo

import "math"

// Reconciler diffs two independently-built views of the period's equity
// and plugs the gap so downstream periods always start from a tied
// balance sheet. The testable property is that the cumulative plug
// stays bounded relative to final equity.
type Reconciler struct {
	cumulativePlug float64
}

// NewReconciler creates a Reconciler with no accumulated plug.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile rebuilds the liabilities-and-equity side from a second,
// independent equity derivation and compares it to state.Balance's
// assets side, which ProjectPeriod already rebuilt from the period's
// flows (the cash-flow statement, the debt schedule, the DSO/DIO/DPO
// working-capital roll).
//
// The independent derivation carries the equity line forward on its own
// terms: net income recomputed with interest accrued on the average of
// each instrument's beginning and ending balance for the period, rather
// than on the beginning balance alone (the convention the debt schedule
// solver uses to avoid an intra-period fixed point). The two conventions
// agree exactly only when no principal amortizes during the period;
// every scheduled payment or cash sweep makes them diverge by
// 0.5 * rate * principal_repaid, so a period with a large sweep can push
// the gap well past epsilon even though nothing is actually wrong.
//
// A gap beyond epsilon is plugged onto the equity line: state.Balance
// adopts the independent derivation's equity, and TotalLiabAndEquity is
// forced back to TotalAssets so every downstream invariant still holds.
// The signed pre-plug gap is logged as a reconciliation_warning and
// folded into the cumulative plug CheckSuspect later inspects.
func (r *Reconciler) Reconcile(state *PeriodState, rows []DebtScheduleRow, resolvedDebt []DebtInstrument, prevEquity, taxRate float64, vr *ValidationReporter) {
	rateByName := make(map[string]float64, len(resolvedDebt))
	for _, d := range resolvedDebt {
		rateByName[d.Name] = d.InterestRate
	}

	var altInterest float64
	for _, row := range rows {
		altInterest += 0.5 * (row.Beginning + row.Ending) * rateByName[row.InstrumentName]
	}

	altPretax := state.Income.EBIT - altInterest
	altTax := math.Max(0, altPretax*taxRate)
	altEquity := prevEquity + altPretax - altTax

	state.Balance.Equity = altEquity
	state.Balance.TotalLiabAndEquity = state.Balance.AP + state.Balance.TotalDebt + altEquity

	eps := epsilonFor(state.Balance.TotalAssets)
	delta := state.Balance.TotalAssets - state.Balance.TotalLiabAndEquity
	if delta > eps || delta < -eps {
		state.Balance.Equity += delta
		state.Balance.TotalLiabAndEquity += delta
		r.cumulativePlug += delta

		vr.Report(Finding{
			Category: CategoryWarning,
			Code:     "reconciliation_warning",
			Message:  "average-balance equity derivation disagreed with the flow-built balance sheet; plugged equity",
			Delta:    floatPtr(delta),
			Period:   intPtr(state.Year),
		})
	}
}

// CumulativePlug returns the signed sum of every equity plug applied
// across the run so far.
func (r *Reconciler) CumulativePlug() float64 {
	return r.cumulativePlug
}

// CheckSuspect compares the cumulative plug to final equity and reports a
// reconciliation_plug_excessive finding if it exceeds 1%.
func (r *Reconciler) CheckSuspect(finalEquity float64, vr *ValidationReporter) bool {
	if finalEquity == 0 {
		return false
	}
	ratio := r.cumulativePlug / finalEquity
	if ratio < 0 {
		ratio = -ratio
	}
	if ratio > 0.01 {
		vr.Report(Finding{
			Category: CategoryWarning,
			Code:     "reconciliation_plug_excessive",
			Message:  "cumulative reconciliation plug exceeds 1% of final equity; run marked suspect",
			Delta:    floatPtr(r.cumulativePlug),
		})
		return true
	}
	return false
}
