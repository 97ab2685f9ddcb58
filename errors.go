package lbo

import "fmt"

// ConfigError is a pre-run validation failure: a missing or out-of-range
// field, or an inconsistent sources/uses build. Halts before any
// projection runs.
type ConfigError struct {
	Code    string
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: field %q: %s", e.Code, e.Field, e.Message)
}

// CalculationError is a mid-run failure: arithmetic that produced NaN/Inf,
// a division by zero the validator missed, or a malformed debt instrument.
// Carries enough context to identify the offending period/instrument.
type CalculationError struct {
	Code      string
	Period    int
	LineItem  string
	Message   string
}

func (e CalculationError) Error() string {
	return fmt.Sprintf("%s: period %d, %s: %s", e.Code, e.Period, e.LineItem, e.Message)
}

// ConfigErrors aggregates multiple ConfigError values so a caller sees
// every validation problem from one pass, not just the first.
type ConfigErrors []ConfigError

func (es ConfigErrors) Error() string {
	if len(es) == 0 {
		return "no errors"
	}
	if len(es) == 1 {
		return es[0].Error()
	}
	return fmt.Sprintf("%d configuration errors, first: %s", len(es), es[0].Error())
}

func (es ConfigErrors) HasErrors() bool {
	return len(es) > 0
}
