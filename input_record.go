package lbo

import "fmt"

// DebtInstrumentRecord is the serializable form of one DebtInstrument.
type DebtInstrumentRecord struct {
	Name                 string  `json:"name"`
	InterestRate         float64 `json:"interest_rate"`
	Amount               float64 `json:"amount,omitempty"`
	EBITDAMultiple       float64 `json:"ebitda_multiple,omitempty"`
	AmortizationSchedule string  `json:"amortization_schedule"`
	AmortizationPeriods  int     `json:"amortization_periods,omitempty"`
	Seniority            int     `json:"seniority"`
	Maturity             int     `json:"maturity,omitempty"`
	BulletSweepAllowed   bool    `json:"bullet_sweep_allowed,omitempty"`
}

// InputRecord is the flat, serializable boundary contract a config loader
// builds and hands to the engine. It carries
// exactly the Assumptions field set plus the debt stack.
type InputRecord struct {
	EntryEBITDA   float64 `json:"entry_ebitda"`
	EntryMultiple float64 `json:"entry_multiple"`

	RevenueGrowthRate []float64 `json:"revenue_growth_rate"`
	StartingRevenue   float64   `json:"starting_revenue"`
	EBITDAMargin      float64   `json:"ebitda_margin,omitempty"`

	CogsPct              float64 `json:"cogs_pct"`
	SGAndAPct             float64 `json:"sganda_pct"`
	CapexPct              float64 `json:"capex_pct"`
	DepreciationPctOfPPE  float64 `json:"depreciation_pct_of_ppe"`
	TaxRate               float64 `json:"tax_rate"`

	DaysSalesOutstanding     int `json:"days_sales_outstanding"`
	DaysInventoryOutstanding int `json:"days_inventory_outstanding"`
	DaysPayableOutstanding   int `json:"days_payable_outstanding"`

	ExitYear     int     `json:"exit_year"`
	ExitMultiple float64 `json:"exit_multiple"`

	TransactionExpensesPct float64 `json:"transaction_expenses_pct"`
	FinancingFeesPct       float64 `json:"financing_fees_pct"`

	MinCashBalance float64 `json:"min_cash_balance"`
	ExistingDebt   float64 `json:"existing_debt"`
	ExistingCash   float64 `json:"existing_cash"`

	InitialPPE       *float64 `json:"initial_ppe,omitempty"`
	InitialAR        *float64 `json:"initial_ar,omitempty"`
	InitialInventory *float64 `json:"initial_inventory,omitempty"`
	InitialAP        *float64 `json:"initial_ap,omitempty"`
	EquityAmount     *float64 `json:"equity_amount,omitempty"`

	DebtInstruments []DebtInstrumentRecord `json:"debt_instruments"`
}

// ToInputRecord converts Assumptions to its serializable form.
func (a *Assumptions) ToInputRecord() InputRecord {
	rec := InputRecord{
		EntryEBITDA:              a.EntryEBITDA,
		EntryMultiple:            a.EntryMultiple,
		RevenueGrowthRate:        append([]float64(nil), a.RevenueGrowthRate...),
		StartingRevenue:          a.StartingRevenue,
		EBITDAMargin:             a.EBITDAMargin,
		CogsPct:                  a.CogsPct,
		SGAndAPct:                a.SGAndAPct,
		CapexPct:                 a.CapexPct,
		DepreciationPctOfPPE:     a.DepreciationPctOfPPE,
		TaxRate:                  a.TaxRate,
		DaysSalesOutstanding:     a.DaysSalesOutstanding,
		DaysInventoryOutstanding: a.DaysInventoryOutstanding,
		DaysPayableOutstanding:   a.DaysPayableOutstanding,
		ExitYear:                 a.ExitYear,
		ExitMultiple:             a.ExitMultiple,
		TransactionExpensesPct:   a.TransactionExpensesPct,
		FinancingFeesPct:         a.FinancingFeesPct,
		MinCashBalance:           a.MinCashBalance,
		ExistingDebt:             a.ExistingDebt,
		ExistingCash:             a.ExistingCash,
	}

	if a.OverrideInitialPPE {
		rec.InitialPPE = floatPtr(a.InitialPPE)
	}
	if a.OverrideInitialAR {
		rec.InitialAR = floatPtr(a.InitialAR)
	}
	if a.OverrideInitialInventory {
		rec.InitialInventory = floatPtr(a.InitialInventory)
	}
	if a.OverrideInitialAP {
		rec.InitialAP = floatPtr(a.InitialAP)
	}
	if a.OverrideEquityAmount {
		rec.EquityAmount = floatPtr(a.EquityAmount)
	}

	rec.DebtInstruments = make([]DebtInstrumentRecord, len(a.DebtInstruments))
	for i, d := range a.DebtInstruments {
		rec.DebtInstruments[i] = DebtInstrumentRecord{
			Name:                 d.Name,
			InterestRate:         d.InterestRate,
			Amount:               d.Amount,
			EBITDAMultiple:       d.EBITDAMultiple,
			AmortizationSchedule: string(d.AmortizationSchedule),
			AmortizationPeriods:  d.AmortizationPeriods,
			Seniority:            d.Seniority,
			Maturity:             d.Maturity,
			BulletSweepAllowed:   d.BulletSweepAllowed,
		}
	}

	return rec
}

// FromInputRecord converts a serialized InputRecord back into Assumptions.
func FromInputRecord(rec InputRecord) Assumptions {
	a := Assumptions{
		EntryEBITDA:              rec.EntryEBITDA,
		EntryMultiple:            rec.EntryMultiple,
		RevenueGrowthRate:        append([]float64(nil), rec.RevenueGrowthRate...),
		StartingRevenue:          rec.StartingRevenue,
		EBITDAMargin:             rec.EBITDAMargin,
		CogsPct:                  rec.CogsPct,
		SGAndAPct:                rec.SGAndAPct,
		CapexPct:                 rec.CapexPct,
		DepreciationPctOfPPE:     rec.DepreciationPctOfPPE,
		TaxRate:                  rec.TaxRate,
		DaysSalesOutstanding:     rec.DaysSalesOutstanding,
		DaysInventoryOutstanding: rec.DaysInventoryOutstanding,
		DaysPayableOutstanding:   rec.DaysPayableOutstanding,
		ExitYear:                 rec.ExitYear,
		ExitMultiple:             rec.ExitMultiple,
		TransactionExpensesPct:   rec.TransactionExpensesPct,
		FinancingFeesPct:         rec.FinancingFeesPct,
		MinCashBalance:           rec.MinCashBalance,
		ExistingDebt:             rec.ExistingDebt,
		ExistingCash:             rec.ExistingCash,
	}

	if rec.InitialPPE != nil {
		a.InitialPPE = *rec.InitialPPE
		a.OverrideInitialPPE = true
	}
	if rec.InitialAR != nil {
		a.InitialAR = *rec.InitialAR
		a.OverrideInitialAR = true
	}
	if rec.InitialInventory != nil {
		a.InitialInventory = *rec.InitialInventory
		a.OverrideInitialInventory = true
	}
	if rec.InitialAP != nil {
		a.InitialAP = *rec.InitialAP
		a.OverrideInitialAP = true
	}
	if rec.EquityAmount != nil {
		a.EquityAmount = *rec.EquityAmount
		a.OverrideEquityAmount = true
	}

	a.DebtInstruments = make([]DebtInstrument, len(rec.DebtInstruments))
	for i, d := range rec.DebtInstruments {
		a.DebtInstruments[i] = DebtInstrument{
			Name:                 d.Name,
			InterestRate:         d.InterestRate,
			Amount:               d.Amount,
			EBITDAMultiple:       d.EBITDAMultiple,
			AmortizationSchedule: AmortizationSchedule(d.AmortizationSchedule),
			AmortizationPeriods:  d.AmortizationPeriods,
			Seniority:            d.Seniority,
			Maturity:             d.Maturity,
			BulletSweepAllowed:   d.BulletSweepAllowed,
		}
	}

	return a
}

// knownInputFields is the stable, documented field-name set InputRecord
// exposes at the JSON boundary.
var knownInputFields = map[string]bool{
	"entry_ebitda": true, "entry_multiple": true, "revenue_growth_rate": true,
	"starting_revenue": true, "ebitda_margin": true, "cogs_pct": true,
	"sganda_pct": true, "capex_pct": true, "depreciation_pct_of_ppe": true,
	"tax_rate": true, "days_sales_outstanding": true, "days_inventory_outstanding": true,
	"days_payable_outstanding": true, "exit_year": true, "exit_multiple": true,
	"transaction_expenses_pct": true, "financing_fees_pct": true, "min_cash_balance": true,
	"existing_debt": true, "existing_cash": true, "initial_ppe": true, "initial_ar": true,
	"initial_inventory": true, "initial_ap": true, "equity_amount": true, "debt_instruments": true,
}

// ParseInputRecord validates that raw (the shape a JSON decoder would
// hand back, e.g. via json.Unmarshal into a map) contains no unknown
// top-level keys before the caller decodes it into an InputRecord.
// Unknown fields are rejected with an unknown_field error.
func ParseInputRecord(raw map[string]any) error {
	for key := range raw {
		if !knownInputFields[key] {
			return ConfigError{Code: "unknown_field", Field: key,
				Message: fmt.Sprintf("%q is not a recognized input field", key)}
		}
	}
	return nil
}
