package lbo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTripAssumptions checks that serializing any of the named
// scenarios' Assumptions to InputRecord and back yields a byte-identical
// (field-for-field) Assumptions, and that re-running the engine on the
// round-tripped value yields identical PeriodStates.
func TestRoundTripAssumptions(t *testing.T) {
	scenarios := map[string]Assumptions{
		"alphaCo":       alphaCo(),
		"dataCore":      dataCore(),
		"sentinelGuard": sentinelGuard(),
		"vectorServe":   vectorServe(),
	}

	for name, original := range scenarios {
		original := original
		t.Run(name, func(t *testing.T) {
			rec := original.ToInputRecord()
			roundTripped := FromInputRecord(rec)

			assert.Equal(t, original, roundTripped, "round-tripped Assumptions must match field-for-field")

			engine := NewEngine()
			resultA, err := engine.Run(&original)
			require.NoError(t, err)

			resultB, err := engine.Run(&roundTripped)
			require.NoError(t, err)

			assert.Equal(t, resultA.PeriodStates, resultB.PeriodStates, "re-run on round-tripped Assumptions must be identical")
		})
	}
}

func TestParseInputRecordRejectsUnknownField(t *testing.T) {
	raw := map[string]any{
		"entry_ebitda":   46000.0,
		"entry_multiple": 10.0,
		"bogus_field":    true,
	}
	err := ParseInputRecord(raw)
	require.Error(t, err)
	var cfgErr ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "unknown_field", cfgErr.Code)
}

func TestParseInputRecordAcceptsKnownFields(t *testing.T) {
	raw := map[string]any{
		"entry_ebitda":     46000.0,
		"entry_multiple":   10.0,
		"debt_instruments": []any{},
	}
	require.NoError(t, ParseInputRecord(raw))
}
