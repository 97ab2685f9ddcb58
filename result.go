package lbo

// Result is the immutable output bundle handed to external collaborators
// (Excel writer, UI, LLM advisor). The engine never mutates a Result
// after Run returns it.
type Result struct {
	Assumptions      Assumptions                     `json:"assumptions"`
	SourcesAndUses   SourcesAndUses                   `json:"sources_and_uses"`
	PeriodStates     []PeriodState                    `json:"period_states"`
	DebtSchedule     []DebtScheduleRow                `json:"debt_schedule"`
	Returns          ReturnsResult                    `json:"returns"`
	Findings         []Finding                        `json:"findings"`
	PaymentScenarios map[string][]PaymentScenarioTag  `json:"payment_scenarios"`
	Suspect          bool                             `json:"suspect"`
}
