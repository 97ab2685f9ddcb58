package main

import (
	"context"
	"fmt"
	"log"

	"lbo"
)

func main() {
	fmt.Println("LBO Projection Engine Demo")
	fmt.Println("==========================")

	// Step 1: Build the assumption set for a representative deal.
	fmt.Println("\nStep 1: Defining Deal Assumptions")
	a := lbo.Assumptions{
		EntryEBITDA:              46000,
		EntryMultiple:            10.0,
		RevenueGrowthRate:        []float64{0.12, 0.12, 0.12, 0.12, 0.12},
		EBITDAMargin:             0.223,
		CogsPct:                 0.60,
		SGAndAPct:                0.177,
		CapexPct:                0.04,
		DepreciationPctOfPPE:     0.10,
		TaxRate:                  0.25,
		DaysSalesOutstanding:     45,
		DaysInventoryOutstanding: 30,
		DaysPayableOutstanding:   40,
		ExitYear:                 5,
		ExitMultiple:             10.5,
		TransactionExpensesPct:   0.02,
		FinancingFeesPct:         0.015,
		MinCashBalance:           5000,
		DebtInstruments: []lbo.DebtInstrument{
			{
				Name:                 "senior",
				InterestRate:         0.065,
				EBITDAMultiple:       4.0,
				AmortizationSchedule: lbo.Amortizing,
				AmortizationPeriods:  5,
				Seniority:            0,
			},
			{
				Name:                 "sub",
				InterestRate:         0.10,
				EBITDAMultiple:       1.5,
				AmortizationSchedule: lbo.Bullet,
				Seniority:            1,
			},
		},
	}

	if errs := a.Validate(); errs.HasErrors() {
		log.Fatalf("assumptions failed validation: %v", errs)
	}
	fmt.Println("Assumptions validated")

	// Step 2: Run a single projection.
	fmt.Println("\nStep 2: Running the Base Case Projection")
	engine := lbo.NewEngine()
	result, err := engine.Run(&a)
	if err != nil {
		log.Fatalf("engine run failed: %v", err)
	}
	fmt.Printf("Sources & Uses: enterprise value $%.0f, sponsor equity $%.0f\n",
		result.SourcesAndUses.EnterpriseValue, result.SourcesAndUses.SponsorEquity)

	// Step 3: Walk the projected statements.
	fmt.Println("\nStep 3: Projected Statements")
	fmt.Println("   Year     Revenue      EBITDA    Net Income   Total Debt        Cash")
	for _, state := range result.PeriodStates {
		fmt.Printf("   %4d  %10.0f  %10.0f  %10.0f  %10.0f  %10.0f\n",
			state.Year, state.Income.Revenue, state.Income.EBITDA,
			state.Income.NetIncome, state.Balance.TotalDebt, state.Balance.Cash)
	}

	// Step 4: Debt amortization schedule.
	fmt.Println("\nStep 4: Debt Schedule")
	for _, row := range result.DebtSchedule {
		fmt.Printf("   %-8s year %d: beginning $%.0f, interest $%.0f, scheduled $%.0f, sweep $%.0f, ending $%.0f\n",
			row.InstrumentName, row.Year, row.Beginning, row.Interest,
			row.ScheduledPrincipal, row.SweepPrincipal, row.Ending)
	}

	// Step 5: Returns.
	fmt.Println("\nStep 5: Returns")
	fmt.Printf("   MOIC: %.2fx\n", result.Returns.MOIC)
	if result.Returns.IRR != nil {
		fmt.Printf("   IRR:  %.1f%%\n", *result.Returns.IRR*100)
	} else {
		fmt.Println("   IRR:  indeterminate")
	}

	// Step 6: Findings raised along the way.
	fmt.Println("\nStep 6: Findings")
	if len(result.Findings) == 0 {
		fmt.Println("   none")
	}
	for _, f := range result.Findings {
		fmt.Printf("   [%s] %s: %s\n", f.Category, f.Code, f.Message)
	}
	if result.Suspect {
		fmt.Println("   WARNING: cumulative reconciliation plug is suspiciously large")
	}

	// Step 7: Sweep a sensitivity grid over entry/exit multiple.
	fmt.Println("\nStep 7: Entry/Exit Multiple Sensitivity Grid")
	grid := lbo.ScenarioGrid{
		Base:   a,
		Metric: lbo.MetricMOIC,
		Rows: []lbo.Override{
			{Name: "entry_9.0x", Apply: func(x lbo.Assumptions) lbo.Assumptions { x.EntryMultiple = 9.0; return x }},
			{Name: "entry_10.0x", Apply: func(x lbo.Assumptions) lbo.Assumptions { x.EntryMultiple = 10.0; return x }},
		},
		Cols: []lbo.Override{
			{Name: "exit_9.5x", Apply: func(x lbo.Assumptions) lbo.Assumptions { x.ExitMultiple = 9.5; return x }},
			{Name: "exit_10.5x", Apply: func(x lbo.Assumptions) lbo.Assumptions { x.ExitMultiple = 10.5; return x }},
			{Name: "exit_11.5x", Apply: func(x lbo.Assumptions) lbo.Assumptions { x.ExitMultiple = 11.5; return x }},
		},
	}

	matrix := lbo.RunScenarioGrid(context.Background(), grid)
	for r, row := range matrix {
		fmt.Printf("   entry row %d:", r)
		for _, cell := range row {
			if cell.Status == lbo.CellOK {
				fmt.Printf("  %.2fx", cell.Value)
			} else {
				fmt.Printf("  %s", cell.Status)
			}
		}
		fmt.Println()
	}

	fmt.Println("\nDemo completed")
}
