package lbo

import "math"

// ReturnsResult is the output of the Returns Calculator.
type ReturnsResult struct {
	ExitEV     float64  `json:"exit_ev"`
	ExitEquity float64  `json:"exit_equity"`
	MOIC       float64  `json:"moic"`
	IRR        *float64 `json:"irr,omitempty"` // nil when sponsor equity is zero, MOIC is negative, or the solve does not converge
}

// CalculateReturns computes exit enterprise value, the net-debt bridge to
// exit equity, MOIC, and IRR at the exit-year PeriodState.
// interimCashFlows, if non-empty, are interim per-year distributions to
// equity; pass nil/empty for the standard no-interim-dividend case.
func CalculateReturns(exitState PeriodState, a *Assumptions, sponsorEquity float64, interimCashFlows []float64, vr *ValidationReporter) ReturnsResult {
	exitEV := a.ExitMultiple * exitState.Income.EBITDA
	exitEquity := exitEV - exitState.Balance.TotalDebt + exitState.Balance.Cash

	result := ReturnsResult{
		ExitEV:     exitEV,
		ExitEquity: exitEquity,
	}

	if sponsorEquity == 0 {
		vr.Report(Finding{Category: CategoryWarning, Code: "indeterminate",
			Message: "sponsor equity is zero; MOIC and IRR cannot be computed"})
		return result
	}

	result.MOIC = exitEquity / sponsorEquity

	if len(interimCashFlows) == 0 {
		if result.MOIC < 0 {
			vr.Report(Finding{Category: CategoryWarning, Code: "irr_not_found",
				Message: "MOIC is negative; IRR has no real solution under the closed-form shortcut"})
			return result
		}
		irr := math.Pow(result.MOIC, 1.0/float64(a.ExitYear)) - 1
		result.IRR = &irr
		return result
	}

	flows := make([]float64, len(interimCashFlows)+1)
	flows[0] = -sponsorEquity
	copy(flows[1:], interimCashFlows)
	flows[len(flows)-1] += exitEquity

	irr, ok := solveIRRByBisection(flows)
	if !ok {
		vr.Report(Finding{Category: CategoryWarning, Code: "irr_not_found",
			Message: "bisection did not converge within [-0.99, 10.0]"})
		return result
	}
	result.IRR = &irr
	return result
}

// npv evaluates the net present value of a cash-flow series (index 0 is
// t=0, the sponsor's initial outlay) at rate r.
func npv(flows []float64, r float64) float64 {
	var sum float64
	for t, cf := range flows {
		sum += cf / math.Pow(1+r, float64(t))
	}
	return sum
}

// solveIRRByBisection finds r such that npv(flows, r) == 0 on [-0.99, 10.0]
// to tolerance 1e-6.
func solveIRRByBisection(flows []float64) (float64, bool) {
	const (
		lo        = -0.99
		hi        = 10.0
		tolerance = 1e-6
		maxIter   = 200
	)

	fLo := npv(flows, lo)
	fHi := npv(flows, hi)
	if math.IsNaN(fLo) || math.IsNaN(fHi) {
		return 0, false
	}
	if fLo == 0 {
		return lo, true
	}
	if fHi == 0 {
		return hi, true
	}
	if (fLo > 0) == (fHi > 0) {
		// No sign change across the bracket: bisection cannot proceed.
		return 0, false
	}

	a, b := lo, hi
	fa := fLo
	for i := 0; i < maxIter; i++ {
		mid := (a + b) / 2
		fMid := npv(flows, mid)
		if math.Abs(fMid) < tolerance || (b-a)/2 < tolerance {
			return mid, true
		}
		if (fMid > 0) == (fa > 0) {
			a, fa = mid, fMid
		} else {
			b = mid
		}
	}
	return (a + b) / 2, true
}
