// Package handler holds the conversational flow of the Zona Ei skill: one
// request handler per (intent, app state) pair and the apology error handler.
package handler

import (
	"github.com/rs/zerolog/log"

	"github.com/evisdrenova/zonaei-skill/internal/alexa"
	"github.com/evisdrenova/zonaei-skill/internal/catalog"
	"github.com/evisdrenova/zonaei-skill/internal/metrics"
	"github.com/evisdrenova/zonaei-skill/internal/session"
)

const DefaultInscriptionEmail = "silvia.salazarr@tec.mx"

type Deps struct {
	Catalog          catalog.Catalog
	Answerer         Answerer
	InscriptionEmail string
}

// Handlers returns the request handlers in precedence order.
func Handlers(d Deps) []alexa.RequestHandler {
	email := d.InscriptionEmail
	if email == "" {
		email = DefaultInscriptionEmail
	}
	answerer := d.Answerer
	if answerer == nil {
		answerer = StaticAnswerer{}
	}
	return []alexa.RequestHandler{
		Launch{},
		InformationSwitch{Catalog: d.Catalog},
		ProjectsEntry{},
		ProjectInfo{Catalog: d.Catalog},
		ProgramsEntry{},
		Information{Catalog: d.Catalog},
		ProgramInscription{Email: email},
		Repeat{Catalog: d.Catalog},
		Help{},
		CancelAndStop{},
		SessionEnded{},
		Callback{},
		FreeQuestion{Answerer: answerer},
		Fallback{},
		IntentReflector{},
	}
}

// NewSkill wires the flow into a dispatcher. Extra interceptors (e.g. the
// transcript recorder) run after the built-in metrics and logging ones.
func NewSkill(d Deps, interceptors ...alexa.ResponseInterceptor) *alexa.Skill {
	all := append([]alexa.ResponseInterceptor{alexa.ResponseInterceptorFunc(observeTurn)}, interceptors...)
	return alexa.NewSkill(
		alexa.WithRequestHandlers(Handlers(d)...),
		alexa.WithErrorHandlers(Apology{}),
		alexa.WithInterceptors(all...),
	)
}

func observeTurn(in *alexa.Input, resp *alexa.Response) {
	metrics.Requests.WithLabelValues(in.Handler).Inc()
	if in.Handler == (Apology{}).Name() {
		metrics.Errors.Inc()
	}

	ev := log.Ctx(in.Ctx).Debug().
		Str("handler", in.Handler).
		Str("request_type", alexa.RequestType(in.Envelope)).
		Str("intent", alexa.IntentName(in.Envelope)).
		Str("state", session.CurrentState(in.Attributes).String())
	if resp != nil && resp.OutputSpeech != nil {
		ev = ev.Str("speech", resp.OutputSpeech.SpokenText())
	}
	ev.Msg("turn answered")
}
