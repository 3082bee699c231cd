// Package session reads and writes the per-session attributes that thread the
// conversation phase between turns.
package session

import (
	"strconv"

	"github.com/evisdrenova/zonaei-skill/internal/alexa"
)

const (
	KeyAppState       = "app-state"
	KeyCurrentProgram = "current-program"
	KeyCurrentProject = "current-project"
)

// AppState is the conversation phase. Several intents are reused across
// phases and the state decides which handler answers them.
type AppState int

const (
	Unset AppState = iota - 1
	Start
	ProgramsQueryStart
	SingleProgramQuery
	ProgramInterestQuery
	ProjectStart
	ProjectsListing
	SingleProjectQuery
	SingleProjectQueryEnded
	ProgramToProjectSwitch
)

var stateNames = map[AppState]string{
	Unset:                   "unset",
	Start:                   "start",
	ProgramsQueryStart:      "programs_query_start",
	SingleProgramQuery:      "single_program_query",
	ProgramInterestQuery:    "program_interest_query",
	ProjectStart:            "project_start",
	ProjectsListing:         "projects_listing",
	SingleProjectQuery:      "single_project_query",
	SingleProjectQueryEnded: "single_project_query_ended",
	ProgramToProjectSwitch:  "program_to_project_switch",
}

func (s AppState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// IsProgramPhase reports whether the user is browsing programs rather than projects.
func (s AppState) IsProgramPhase() bool {
	return s == ProgramsQueryStart || s == ProgramInterestQuery || s == SingleProgramQuery
}

// In reports whether s is one of states.
func (s AppState) In(states ...AppState) bool {
	for _, st := range states {
		if s == st {
			return true
		}
	}
	return false
}

// CurrentState decodes the stored phase. Attributes round-trip through JSON,
// so numbers usually arrive as float64.
func CurrentState(m *alexa.AttributesManager) AppState {
	v, ok := m.SessionAttributes()[KeyAppState]
	if !ok {
		return Unset
	}
	var n int
	switch t := v.(type) {
	case AppState:
		return t
	case int:
		n = t
	case int64:
		n = int(t)
	case float64:
		if t != float64(int(t)) {
			return Unset
		}
		n = int(t)
	case string:
		i, err := strconv.Atoi(t)
		if err != nil {
			return Unset
		}
		n = i
	default:
		return Unset
	}
	s := AppState(n)
	if _, known := stateNames[s]; !known || s == Unset {
		return Unset
	}
	return s
}

func SetState(m *alexa.AttributesManager, s AppState) {
	set(m, KeyAppState, int(s))
}

// CurrentProgram is the program the user asked about most recently, "" if none.
func CurrentProgram(m *alexa.AttributesManager) string {
	return getString(m, KeyCurrentProgram)
}

func SetCurrentProgram(m *alexa.AttributesManager, name string) {
	set(m, KeyCurrentProgram, name)
}

// CurrentProject is the project the user asked about most recently, "" if none.
func CurrentProject(m *alexa.AttributesManager) string {
	return getString(m, KeyCurrentProject)
}

func SetCurrentProject(m *alexa.AttributesManager, name string) {
	set(m, KeyCurrentProject, name)
}

func getString(m *alexa.AttributesManager, key string) string {
	s, _ := m.SessionAttributes()[key].(string)
	return s
}

func set(m *alexa.AttributesManager, key string, v any) {
	attrs := m.SessionAttributes()
	attrs[key] = v
	m.SetSessionAttributes(attrs)
}
