package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsZeroMembers(t *testing.T) {
	p := Default()
	p.NumMembers = 0

	err := p.Validate()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "NUM_MEMBERS", cfgErr.Field)
}

func TestValidateRejectsCombinedSavingsOverOne(t *testing.T) {
	p := Default()
	p.GroupBuySavingsPercent = 0.7
	p.LocalProductionSavingsPercent = 0.5

	var cfgErr *ConfigurationError
	require.ErrorAs(t, p.Validate(), &cfgErr)
}

func TestValidateRejectsShockPastHorizon(t *testing.T) {
	p := Default()
	p.SimulationWeeks = 52
	p.Shock = &ShockEvent{
		Type:          ShockIncomeReduction,
		Magnitude:     0.2,
		DurationWeeks: 4,
		StartWeek:     60,
	}

	var cfgErr *ConfigurationError
	require.ErrorAs(t, p.Validate(), &cfgErr)
	assert.Equal(t, "SHOCK.start_week", cfgErr.Field)
}

func TestApplyJSONRejectsUnknownFields(t *testing.T) {
	_, err := ApplyJSON(Default(), []byte(`{"NUM_MEMBRES": 100}`))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestApplyJSONMergesOverBase(t *testing.T) {
	p, err := ApplyJSON(Default(), []byte(`{"NUM_MEMBERS": 77}`))
	require.NoError(t, err)

	assert.Equal(t, 77, p.NumMembers)
	assert.Equal(t, Default().WeeklyIncomeAvg, p.WeeklyIncomeAvg)
}

func TestParseRequestWithPresetAndOverride(t *testing.T) {
	p, preset, err := ParseRequest([]byte(`{"preset": "baseline", "NUM_MEMBERS": 250}`))
	require.NoError(t, err)

	assert.Equal(t, "baseline", preset)
	assert.Equal(t, 250, p.NumMembers)

	base, ok := Preset("baseline")
	require.True(t, ok)
	assert.Equal(t, base.WeeklyIncomeAvg, p.WeeklyIncomeAvg)
	assert.Equal(t, base.SimulationWeeks, p.SimulationWeeks)
}

func TestParseRequestUnknownPreset(t *testing.T) {
	_, _, err := ParseRequest([]byte(`{"preset": "nope"}`))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "preset", cfgErr.Field)
}

func TestAllPresetsValidate(t *testing.T) {
	for _, name := range PresetNames() {
		p, ok := Preset(name)
		require.True(t, ok, name)
		require.NoError(t, p.Validate(), name)
	}
}

func TestPovertyLineIsFourWeeksOfBudget(t *testing.T) {
	p := Default()
	p.WeeklyFoodBudgetAvg = 80

	assert.InDelta(t, 320.0, p.PovertyLine(), 1e-9)
}
