package lbo

// BuildOpeningBalanceSheet produces PeriodState[0] from the resolved debt
// stack and Sources & Uses, with any reconciliation warning emitted for
// the goodwill plug.
func BuildOpeningBalanceSheet(a *Assumptions, resolvedDebt []DebtInstrument, su *SourcesAndUses) (PeriodState, []Finding) {
	var findings []Finding

	startingRevenue := a.ResolvedStartingRevenue()

	cash := a.MinCashBalance

	ar := a.InitialAR
	if !a.OverrideInitialAR {
		ar = startingRevenue * float64(a.DaysSalesOutstanding) / 365.0
	}

	cogsBasis := a.CogsPct * startingRevenue
	inventory := a.InitialInventory
	if !a.OverrideInitialInventory {
		inventory = cogsBasis * float64(a.DaysInventoryOutstanding) / 365.0
	}

	ppeNet := a.InitialPPE
	if !a.OverrideInitialPPE {
		ppeNet = a.CapexPct * startingRevenue * 10
	}

	ap := a.InitialAP
	if !a.OverrideInitialAP {
		ap = cogsBasis * float64(a.DaysPayableOutstanding) / 365.0
	}

	netWorkingCapitalAssets := ppeNet + ar + inventory - ap

	goodwill := su.EnterpriseValue - netWorkingCapitalAssets

	instrumentDebts := make([]InstrumentDebt, len(resolvedDebt))
	for i, d := range resolvedDebt {
		instrumentDebts[i] = InstrumentDebt{Name: d.Name, Ending: d.Amount}
	}

	balance := BalanceLine{
		Cash:      cash,
		AR:        ar,
		Inventory: inventory,
		PPEGross:  ppeNet,
		PPENet:    ppeNet,
		Goodwill:  goodwill,

		AP:             ap,
		InstrumentDebt: instrumentDebts,
		TotalDebt:      su.NewDebt,
		Equity:         su.SponsorEquity,
	}
	balance.TotalAssets = balance.Cash + balance.AR + balance.Inventory + balance.PPENet + balance.Goodwill
	balance.TotalLiabAndEquity = balance.AP + balance.TotalDebt + balance.Equity

	eps := epsilonFor(balance.TotalAssets)
	if diff := balance.TotalAssets - balance.TotalLiabAndEquity; diff > eps || diff < -eps {
		plug := balance.TotalLiabAndEquity - balance.TotalAssets
		balance.Goodwill += plug
		balance.TotalAssets += plug
		findings = append(findings, Finding{
			Category: CategoryWarning,
			Code:     "opening_balance_plug",
			Message:  "opening balance sheet did not tie out; plugged goodwill",
			Delta:    &plug,
			Period:   intPtr(0),
		})
	}

	return PeriodState{
		Year:    0,
		Income:  IncomeLine{Revenue: startingRevenue},
		Balance: balance,
		CashFlow: CashFlowLine{},
	}, findings
}

func intPtr(v int) *int { return &v }
