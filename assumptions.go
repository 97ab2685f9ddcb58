package lbo

// Assumptions and the debt stack are immutable once validated. No method
// on either type mutates it; every downstream component treats both as
// read-only.

// Assumptions is the full set of user-supplied drivers for an LBO
// projection.
type Assumptions struct {
	EntryEBITDA   float64
	EntryMultiple float64

	RevenueGrowthRate []float64 // per-year rates, decimal; extended by repeating the last value
	StartingRevenue   float64   // if 0, derived from EntryEBITDA / EBITDAMargin

	EBITDAMargin float64 // only used to derive StartingRevenue when it is 0

	CogsPct              float64
	SGAndAPct             float64
	CapexPct             float64
	DepreciationPctOfPPE float64
	TaxRate              float64

	DaysSalesOutstanding   int
	DaysInventoryOutstanding int
	DaysPayableOutstanding int

	ExitYear     int
	ExitMultiple float64

	TransactionExpensesPct float64
	FinancingFeesPct       float64

	MinCashBalance float64
	ExistingDebt   float64
	ExistingCash   float64

	// Optional overrides. Each value applies only when its matching
	// Override* flag below is set, so an explicit 0 is distinguishable
	// from "not set".
	InitialPPE       float64
	InitialAR        float64
	InitialInventory float64
	InitialAP        float64
	EquityAmount     float64

	OverrideInitialPPE       bool
	OverrideInitialAR        bool
	OverrideInitialInventory bool
	OverrideInitialAP        bool
	OverrideEquityAmount     bool

	DebtInstruments []DebtInstrument
}

// Validate runs every validation rule and aggregates failures instead of
// stopping at the first one, collecting every violation in a single pass.
func (a *Assumptions) Validate() ConfigErrors {
	var errs ConfigErrors

	errs = append(errs, validatePositive("entry_ebitda", a.EntryEBITDA)...)
	errs = append(errs, validatePositive("entry_multiple", a.EntryMultiple)...)
	errs = append(errs, validatePositive("exit_multiple", a.ExitMultiple)...)

	if a.ExitYear < 1 {
		errs = append(errs, ConfigError{Code: "invalid_exit_year", Field: "exit_year",
			Message: "must be >= 1"})
	}

	errs = append(errs, validatePercent("cogs_pct", a.CogsPct)...)
	errs = append(errs, validatePercent("sganda_pct", a.SGAndAPct)...)
	errs = append(errs, validatePercent("capex_pct", a.CapexPct)...)
	errs = append(errs, validatePercent("depreciation_pct_of_ppe", a.DepreciationPctOfPPE)...)
	errs = append(errs, validatePercent("tax_rate", a.TaxRate)...)
	errs = append(errs, validatePercent("transaction_expenses_pct", a.TransactionExpensesPct)...)
	errs = append(errs, validatePercent("financing_fees_pct", a.FinancingFeesPct)...)

	if a.StartingRevenue == 0 && a.EBITDAMargin <= 0 {
		errs = append(errs, ConfigError{Code: "missing_starting_revenue", Field: "starting_revenue",
			Message: "starting_revenue is 0 and ebitda_margin is not set to derive it"})
	}

	if a.DaysSalesOutstanding < 0 {
		errs = append(errs, ConfigError{Code: "negative_dso", Field: "days_sales_outstanding", Message: "must be >= 0"})
	}
	if a.DaysInventoryOutstanding < 0 {
		errs = append(errs, ConfigError{Code: "negative_dio", Field: "days_inventory_outstanding", Message: "must be >= 0"})
	}
	if a.DaysPayableOutstanding < 0 {
		errs = append(errs, ConfigError{Code: "negative_dpo", Field: "days_payable_outstanding", Message: "must be >= 0"})
	}
	if a.MinCashBalance < 0 {
		errs = append(errs, ConfigError{Code: "negative_min_cash", Field: "min_cash_balance", Message: "must be >= 0"})
	}
	if a.ExistingDebt < 0 {
		errs = append(errs, ConfigError{Code: "negative_existing_debt", Field: "existing_debt", Message: "must be >= 0"})
	}
	if a.ExistingCash < 0 {
		errs = append(errs, ConfigError{Code: "negative_existing_cash", Field: "existing_cash", Message: "must be >= 0"})
	}

	if len(a.RevenueGrowthRate) == 0 {
		errs = append(errs, ConfigError{Code: "missing_growth_rate", Field: "revenue_growth_rate",
			Message: "must have at least one entry"})
	}

	errs = append(errs, a.validateDebtStack()...)

	return errs
}

// validatePositive rejects values <= 0. Values > 1 are allowed here (these
// are money/multiple fields, not percentages).
func validatePositive(field string, v float64) ConfigErrors {
	if v <= 0 {
		return ConfigErrors{{Code: "non_positive_value", Field: field, Message: "must be > 0"}}
	}
	return nil
}

// validatePercent enforces the [0,1] decimal convention and surfaces a
// "did you mean %?" hint for the common off-by-100 mistake.
func validatePercent(field string, v float64) ConfigErrors {
	if v < 0 {
		return ConfigErrors{{Code: "negative_percent", Field: field, Message: "must be >= 0"}}
	}
	if v > 1 {
		return ConfigErrors{{Code: "percent_out_of_range", Field: field,
			Message: "must be a decimal in [0,1]; did you mean to divide by 100?"}}
	}
	return nil
}

// ExtendGrowthRates pads RevenueGrowthRate to at least n entries by
// repeating its last value; does not mutate a.RevenueGrowthRate
// (Assumptions stays immutable post-validation).
func (a *Assumptions) ExtendGrowthRates(n int) []float64 {
	if len(a.RevenueGrowthRate) >= n {
		return a.RevenueGrowthRate
	}
	out := make([]float64, n)
	copy(out, a.RevenueGrowthRate)
	last := a.RevenueGrowthRate[len(a.RevenueGrowthRate)-1]
	for i := len(a.RevenueGrowthRate); i < n; i++ {
		out[i] = last
	}
	return out
}

// ResolvedStartingRevenue returns StartingRevenue, deriving it from
// EntryEBITDA/EBITDAMargin when the override is zero.
func (a *Assumptions) ResolvedStartingRevenue() float64 {
	if a.StartingRevenue > 0 {
		return a.StartingRevenue
	}
	return a.EntryEBITDA / a.EBITDAMargin
}
