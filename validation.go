package lbo

import "github.com/google/uuid"

// FindingCategory classifies a Finding by severity.
type FindingCategory string

const (
	CategoryError   FindingCategory = "error"   // halts the run
	CategoryWarning FindingCategory = "warning" // continues, collected
	CategoryInfo    FindingCategory = "info"
)

// Finding is one typed diagnostic collected by the ValidationReporter.
type Finding struct {
	ID       string          `json:"id"`
	Category FindingCategory `json:"category"`
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Delta    *float64        `json:"delta,omitempty"`  // optional signed numeric delta
	Period   *int            `json:"period,omitempty"` // optional period index
}

// PaymentScenarioTag records which repayment behavior an instrument
// actually exercised over the run, for downstream display.
type PaymentScenarioTag string

const (
	ScenarioAmortizing     PaymentScenarioTag = "amortizing"
	ScenarioBullet         PaymentScenarioTag = "bullet"
	ScenarioCashFlowSweep  PaymentScenarioTag = "cash_flow_sweep"
	ScenarioMixedStructure PaymentScenarioTag = "mixed_structure"
)

// ValidationReporter accumulates findings from every pipeline stage and
// the per-instrument payment-scenario tags, then produces the final
// summary consumed by the Result bundle.
type ValidationReporter struct {
	findings []Finding
	tags     map[string]map[PaymentScenarioTag]bool
}

// NewValidationReporter creates an empty reporter.
func NewValidationReporter() *ValidationReporter {
	return &ValidationReporter{
		tags: make(map[string]map[PaymentScenarioTag]bool),
	}
}

// Report appends a finding, stamping it with a fresh ID if it has none.
func (vr *ValidationReporter) Report(f Finding) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	vr.findings = append(vr.findings, f)
}

// TagScenario records that instrumentName exercised the given repayment
// scenario in some period of the run.
func (vr *ValidationReporter) TagScenario(instrumentName string, scenario PaymentScenarioTag) {
	if vr.tags[instrumentName] == nil {
		vr.tags[instrumentName] = make(map[PaymentScenarioTag]bool)
	}
	vr.tags[instrumentName][scenario] = true
}

// Findings returns every collected finding, in insertion order.
func (vr *ValidationReporter) Findings() []Finding {
	return vr.findings
}

// HasErrors reports whether any CategoryError finding was collected.
func (vr *ValidationReporter) HasErrors() bool {
	for _, f := range vr.findings {
		if f.Category == CategoryError {
			return true
		}
	}
	return false
}

// ScenarioTags resolves the final per-instrument tag set. An instrument
// that exercised more than one distinct scenario (e.g. scheduled
// amortization plus a late-life sweep) is tagged mixed_structure as well
// as the individual scenarios observed.
func (vr *ValidationReporter) ScenarioTags() map[string][]PaymentScenarioTag {
	out := make(map[string][]PaymentScenarioTag, len(vr.tags))
	for name, set := range vr.tags {
		var tags []PaymentScenarioTag
		for tag := range set {
			tags = append(tags, tag)
		}
		if len(set) > 1 {
			tags = append(tags, ScenarioMixedStructure)
		}
		out[name] = tags
	}
	return out
}
