package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/evisdrenova/zonaei-skill/internal/alexa"
	"github.com/evisdrenova/zonaei-skill/internal/catalog"
	"github.com/evisdrenova/zonaei-skill/internal/session"
)

// Custom intents of the interaction model.
const (
	IntentProgramsEntry      = "programasEntry"
	IntentProjectsEntry      = "proyectosEntry"
	IntentInformation        = "Information"
	IntentProgramInscription = "programaInscripcion"
	IntentProjectInfo        = "proyectoInfo"
	IntentCallback           = "Callback"
	IntentFreeQuestion       = "preguntaLibre"
)

// Slots of the custom intents.
const (
	SlotProgramName = "programaName"
	SlotProject     = "proyecto"
	SlotYesNo       = "sino"
	SlotQuestion    = "pregunta"
)

var errMissingSlot = errors.New("slot has no value")

func isRequest(in *alexa.Input, typ string) bool {
	return alexa.RequestType(in.Envelope) == typ
}

func isIntent(in *alexa.Input, names ...string) bool {
	got := alexa.IntentName(in.Envelope)
	if got == "" {
		return false
	}
	for _, n := range names {
		if got == n {
			return true
		}
	}
	return false
}

func stateIn(in *alexa.Input, states ...session.AppState) bool {
	return session.CurrentState(in.Attributes).In(states...)
}

// ask speaks text and keeps the microphone open with the same text.
func ask(in *alexa.Input, text string) (*alexa.Response, error) {
	return in.Builder.Speak(text).Reprompt(text).Response(), nil
}

func slotName(in *alexa.Input, slot string) (string, error) {
	name := strings.TrimSpace(alexa.GetSlot(in.Envelope, slot).ResolvedName())
	if name == "" {
		return "", fmt.Errorf("%s: %w", slot, errMissingSlot)
	}
	return name, nil
}

// Launch greets the user when the skill is opened.
type Launch struct{}

func (Launch) Name() string { return "launch" }

func (Launch) CanHandle(in *alexa.Input) bool {
	return isRequest(in, alexa.LaunchRequest)
}

func (Launch) Handle(in *alexa.Input) (*alexa.Response, error) {
	session.SetState(in.Attributes, session.Start)
	return ask(in, welcomeSpeech)
}

// InformationSwitch answers "which projects?" right after a program was
// described. It shares the utterances of ProjectsEntry and must be registered
// before it.
type InformationSwitch struct {
	Catalog catalog.Catalog
}

func (InformationSwitch) Name() string { return "information_switch" }

func (InformationSwitch) CanHandle(in *alexa.Input) bool {
	return isIntent(in, IntentProjectsEntry) && stateIn(in, session.ProgramToProjectSwitch)
}

func (h InformationSwitch) Handle(in *alexa.Input) (*alexa.Response, error) {
	program := session.CurrentProgram(in.Attributes)
	projects, err := h.Catalog.ProjectsByStage(in.Ctx, catalog.StageFromProgram(program))
	if err != nil {
		return nil, err
	}
	return ask(in, projectListSpeech(program, projects))
}

// ProjectsEntry introduces the project stages.
type ProjectsEntry struct{}

func (ProjectsEntry) Name() string { return "projects_entry" }

func (ProjectsEntry) CanHandle(in *alexa.Input) bool {
	return isIntent(in, IntentProjectsEntry)
}

func (ProjectsEntry) Handle(in *alexa.Input) (*alexa.Response, error) {
	session.SetState(in.Attributes, session.ProjectStart)
	return ask(in, projectsIntroSpeech)
}

// ProjectInfo describes a single project.
type ProjectInfo struct {
	Catalog catalog.Catalog
}

func (ProjectInfo) Name() string { return "project_info" }

func (ProjectInfo) CanHandle(in *alexa.Input) bool {
	return isIntent(in, IntentProjectInfo) &&
		stateIn(in, session.SingleProjectQuery, session.ProjectsListing, session.ProjectStart)
}

func (h ProjectInfo) Handle(in *alexa.Input) (*alexa.Response, error) {
	session.SetState(in.Attributes, session.SingleProjectQuery)

	name, err := slotName(in, SlotProject)
	if err != nil {
		return nil, err
	}
	session.SetCurrentProject(in.Attributes, name)

	p, err := h.Catalog.ProjectByName(in.Ctx, name)
	if err != nil {
		return nil, err
	}
	return ask(in, projectSpeech(p))
}

// ProgramsEntry introduces the programs. It has no state guard so the user can
// jump back to programs from anywhere.
type ProgramsEntry struct{}

func (ProgramsEntry) Name() string { return "programs_entry" }

func (ProgramsEntry) CanHandle(in *alexa.Input) bool {
	return isIntent(in, IntentProgramsEntry)
}

func (ProgramsEntry) Handle(in *alexa.Input) (*alexa.Response, error) {
	session.SetState(in.Attributes, session.ProgramsQueryStart)
	return ask(in, programsIntroSpeech)
}

// Information is the "tell me about X" intent. While browsing programs X is a
// program to describe; otherwise X names the stage whose projects are listed.
type Information struct {
	Catalog catalog.Catalog
}

func (Information) Name() string { return "information" }

func (Information) CanHandle(in *alexa.Input) bool {
	return isIntent(in, IntentInformation)
}

func (h Information) Handle(in *alexa.Input) (*alexa.Response, error) {
	name, err := slotName(in, SlotProgramName)
	if err != nil {
		return nil, err
	}

	if session.CurrentState(in.Attributes).IsProgramPhase() {
		p, err := h.Catalog.ProgramByName(in.Ctx, name)
		if err != nil {
			return nil, err
		}
		speech := noProgramSpeech
		if p != nil {
			speech = programSpeech(name, p)
			session.SetCurrentProgram(in.Attributes, name)
		}
		session.SetState(in.Attributes, session.ProgramToProjectSwitch)
		return ask(in, speech)
	}

	projects, err := h.Catalog.ProjectsByStage(in.Ctx, catalog.StageFromProgram(name))
	if err != nil {
		return nil, err
	}
	session.SetState(in.Attributes, session.ProjectsListing)
	return ask(in, projectListSpeech(name, projects))
}

// ProgramInscription explains how to enroll.
type ProgramInscription struct {
	Email string
}

func (ProgramInscription) Name() string { return "program_inscription" }

func (ProgramInscription) CanHandle(in *alexa.Input) bool {
	if !isIntent(in, IntentProgramInscription) {
		return false
	}
	s := session.CurrentState(in.Attributes)
	return s.IsProgramPhase() || s == session.ProgramToProjectSwitch
}

func (h ProgramInscription) Handle(in *alexa.Input) (*alexa.Response, error) {
	speech := inscriptionSpeech(session.CurrentProgram(in.Attributes), h.Email)
	session.SetState(in.Attributes, session.ProgramInterestQuery)
	return ask(in, speech)
}

// Repeat re-reads the current project once the user was given its contact.
type Repeat struct {
	Catalog catalog.Catalog
}

func (Repeat) Name() string { return "repeat" }

func (Repeat) CanHandle(in *alexa.Input) bool {
	return isIntent(in, alexa.RepeatIntent) && stateIn(in, session.SingleProjectQueryEnded)
}

func (h Repeat) Handle(in *alexa.Input) (*alexa.Response, error) {
	name := session.CurrentProject(in.Attributes)
	if name == "" {
		return ask(in, noProjectSpeech)
	}
	p, err := h.Catalog.ProjectByName(in.Ctx, name)
	if err != nil {
		return nil, err
	}
	return ask(in, projectSpeech(p))
}

type Help struct{}

func (Help) Name() string { return "help" }

func (Help) CanHandle(in *alexa.Input) bool {
	return isIntent(in, alexa.HelpIntent)
}

func (Help) Handle(in *alexa.Input) (*alexa.Response, error) {
	return ask(in, helpSpeech(session.CurrentState(in.Attributes)))
}

type CancelAndStop struct{}

func (CancelAndStop) Name() string { return "cancel_and_stop" }

func (CancelAndStop) CanHandle(in *alexa.Input) bool {
	return isIntent(in, alexa.CancelIntent, alexa.StopIntent)
}

func (CancelAndStop) Handle(in *alexa.Input) (*alexa.Response, error) {
	session.SetState(in.Attributes, session.Start)
	return in.Builder.Speak(goodbyeSpeech).WithShouldEndSession(true).Response(), nil
}

type SessionEnded struct{}

func (SessionEnded) Name() string { return "session_ended" }

func (SessionEnded) CanHandle(in *alexa.Input) bool {
	return isRequest(in, alexa.SessionEndedRequest)
}

func (SessionEnded) Handle(in *alexa.Input) (*alexa.Response, error) {
	req := in.Envelope.Request
	ev := log.Ctx(in.Ctx).Debug().Str("reason", req.Reason)
	if req.Error != nil {
		ev = ev.Str("error_type", req.Error.Type).Str("error_message", req.Error.Message)
	}
	ev.Msg("session ended")

	session.SetState(in.Attributes, session.Start)
	return in.Builder.Speak(goodbyeSpeech).Response(), nil
}

// Callback resolves the yes/no questions the skill asks at the end of a branch.
type Callback struct{}

func (Callback) Name() string { return "callback" }

func (Callback) CanHandle(in *alexa.Input) bool {
	return isIntent(in, IntentCallback) &&
		stateIn(in, session.ProgramInterestQuery, session.SingleProjectQuery, session.SingleProjectQueryEnded)
}

func (Callback) Handle(in *alexa.Input) (*alexa.Response, error) {
	yes := isYes(alexa.GetSlot(in.Envelope, SlotYesNo))

	var (
		speech string
		end    bool
	)
	switch session.CurrentState(in.Attributes) {
	case session.ProgramInterestQuery, session.SingleProjectQueryEnded:
		if yes {
			session.SetState(in.Attributes, session.ProgramsQueryStart)
			speech = whatNextSpeech
		} else {
			session.SetState(in.Attributes, session.Start)
			speech, end = goodbyeSpeech, true
		}
	case session.SingleProjectQuery:
		if yes {
			speech = contactSpeech(session.CurrentProject(in.Attributes))
			session.SetState(in.Attributes, session.SingleProjectQueryEnded)
		} else {
			session.SetState(in.Attributes, session.Start)
			speech, end = farewellSpeech, true
		}
	}

	b := in.Builder.Speak(speech)
	if !end {
		b.Reprompt(speech)
	}
	return b.WithShouldEndSession(end).Response(), nil
}

func isYes(slot *alexa.Slot) bool {
	if slot == nil {
		return false
	}
	v := strings.ToLower(strings.TrimSpace(slot.Value))
	if v == "" {
		v = strings.ToLower(slot.ResolvedName())
	}
	return v == "si" || v == "sí"
}

// FreeQuestion answers an open question with the configured Answerer.
type FreeQuestion struct {
	Answerer Answerer
}

func (FreeQuestion) Name() string { return "free_question" }

func (FreeQuestion) CanHandle(in *alexa.Input) bool {
	return isIntent(in, IntentFreeQuestion)
}

func (h FreeQuestion) Handle(in *alexa.Input) (*alexa.Response, error) {
	q, err := slotName(in, SlotQuestion)
	if err != nil {
		return ask(in, fallbackSpeech)
	}
	answer, err := h.Answerer.Answer(in.Ctx, q)
	if err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}
	return ask(in, answer)
}

// Fallback handles utterances the interaction model could not map.
type Fallback struct{}

func (Fallback) Name() string { return "fallback" }

func (Fallback) CanHandle(in *alexa.Input) bool {
	return isIntent(in, alexa.FallbackIntent)
}

func (Fallback) Handle(in *alexa.Input) (*alexa.Response, error) {
	return ask(in, fallbackSpeech)
}

// IntentReflector echoes intents nobody else claimed. Useful while the
// interaction model is being edited.
type IntentReflector struct{}

func (IntentReflector) Name() string { return "intent_reflector" }

func (IntentReflector) CanHandle(in *alexa.Input) bool {
	return isRequest(in, alexa.IntentRequest)
}

func (IntentReflector) Handle(in *alexa.Input) (*alexa.Response, error) {
	return ask(in, fmt.Sprintf("You just triggered %s", alexa.IntentName(in.Envelope)))
}

// Apology is the catch-all error handler.
type Apology struct{}

func (Apology) Name() string { return "apology" }

func (Apology) CanHandle(*alexa.Input, error) bool { return true }

func (Apology) Handle(in *alexa.Input, err error) (*alexa.Response, error) {
	log.Ctx(in.Ctx).Error().
		Err(err).
		Str("request_type", alexa.RequestType(in.Envelope)).
		Str("intent", alexa.IntentName(in.Envelope)).
		Str("state", session.CurrentState(in.Attributes).String()).
		Msg("error handled")
	return ask(in, apologySpeech)
}
