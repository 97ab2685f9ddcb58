package lbo

// SourcesAndUses is the resolved transaction funding table.
type SourcesAndUses struct {
	EnterpriseValue     float64 `json:"enterprise_value"`
	EquityPurchasePrice float64 `json:"equity_purchase_price"`

	TransactionExpenses float64 `json:"transaction_expenses"`
	FinancingFees       float64 `json:"financing_fees"`
	RefinancedDebt      float64 `json:"refinanced_debt"`
	TotalUses           float64 `json:"total_uses"`

	NewDebt       float64 `json:"new_debt"`
	SponsorEquity float64 `json:"sponsor_equity"`
	TotalSources  float64 `json:"total_sources"`
}

// epsilonFor computes the tolerance ε = max(0.01, 1e-6 * magnitude), the
// scale-aware tolerance is required for every reconciliation check.
func epsilonFor(magnitude float64) float64 {
	abs := magnitude
	if abs < 0 {
		abs = -abs
	}
	eps := 1e-6 * abs
	if eps < 0.01 {
		eps = 0.01
	}
	return eps
}

// BuildSourcesAndUses computes enterprise value, equity purchase price,
// transaction costs, and sponsor equity. resolvedDebt must already be
// resolved (ResolveDebtStack) so NewDebt is a concrete number.
func BuildSourcesAndUses(a *Assumptions, resolvedDebt []DebtInstrument) (*SourcesAndUses, error) {
	ev := a.EntryEBITDA * a.EntryMultiple
	equityPurchasePrice := ev - a.ExistingDebt + a.ExistingCash

	newDebt := TotalResolvedDebt(resolvedDebt)

	txnExpenses := a.TransactionExpensesPct * ev
	financingFees := a.FinancingFeesPct * newDebt
	refinancedDebt := a.ExistingDebt

	totalUses := equityPurchasePrice + txnExpenses + financingFees + refinancedDebt

	su := &SourcesAndUses{
		EnterpriseValue:     ev,
		EquityPurchasePrice: equityPurchasePrice,
		TransactionExpenses: txnExpenses,
		FinancingFees:       financingFees,
		RefinancedDebt:      refinancedDebt,
		TotalUses:           totalUses,
		NewDebt:             newDebt,
	}

	if a.OverrideEquityAmount {
		su.SponsorEquity = a.EquityAmount
		su.TotalSources = su.NewDebt + su.SponsorEquity
		eps := epsilonFor(su.TotalUses)
		if diff := su.TotalSources - su.TotalUses; diff > eps || diff < -eps {
			return su, ConfigError{Code: "debt_exceeds_sources", Field: "equity_amount",
				Message: "fixed sources do not fund uses within tolerance"}
		}
		return su, nil
	}

	su.SponsorEquity = totalUses - newDebt
	su.TotalSources = su.NewDebt + su.SponsorEquity
	if su.SponsorEquity < 0 {
		return su, ConfigError{Code: "debt_exceeds_sources", Field: "debt_instruments",
			Message: "new debt alone exceeds total uses; sponsor equity would be negative"}
	}
	return su, nil
}
