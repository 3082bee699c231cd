package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evisdrenova/zonaei-skill/internal/alexa"
)

func TestCurrentState_Decoding(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  AppState
	}{
		{"json number", float64(8), ProgramToProjectSwitch},
		{"int", 4, ProjectStart},
		{"numeric string", "6", SingleProjectQuery},
		{"zero is start", float64(0), Start},
		{"fractional", 1.5, Unset},
		{"out of range", float64(42), Unset},
		{"negative", float64(-1), Unset},
		{"garbage", "programas", Unset},
		{"wrong type", true, Unset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := alexa.NewAttributesManager(map[string]any{KeyAppState: tt.value})
			assert.Equal(t, tt.want, CurrentState(m))
		})
	}

	assert.Equal(t, Unset, CurrentState(alexa.NewAttributesManager(nil)))
}

func TestStateRoundTripsThroughJSON(t *testing.T) {
	m := alexa.NewAttributesManager(nil)
	SetState(m, SingleProjectQueryEnded)
	SetCurrentProgram(m, "Tec Lean Discover")
	SetCurrentProject(m, "Huerto Urbano")

	raw, err := json.Marshal(m.SessionAttributes())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	next := alexa.NewAttributesManager(decoded)
	assert.Equal(t, SingleProjectQueryEnded, CurrentState(next))
	assert.Equal(t, "Tec Lean Discover", CurrentProgram(next))
	assert.Equal(t, "Huerto Urbano", CurrentProject(next))
}

func TestIsProgramPhase(t *testing.T) {
	for _, s := range []AppState{ProgramsQueryStart, ProgramInterestQuery, SingleProgramQuery} {
		assert.True(t, s.IsProgramPhase(), s.String())
	}
	for _, s := range []AppState{Unset, Start, ProjectStart, ProjectsListing, SingleProjectQuery, SingleProjectQueryEnded, ProgramToProjectSwitch} {
		assert.False(t, s.IsProgramPhase(), s.String())
	}
}

func TestAppStateString(t *testing.T) {
	assert.Equal(t, "program_to_project_switch", ProgramToProjectSwitch.String())
	assert.Equal(t, "unset", Unset.String())
	assert.Equal(t, "state(99)", AppState(99).String())
}
