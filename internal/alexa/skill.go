package alexa

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrNoHandler is reported when no registered handler accepts a request.
	ErrNoHandler = errors.New("alexa: no handler can handle the request")
	// ErrInvalidRequest is reported for envelopes without a request body.
	ErrInvalidRequest = errors.New("alexa: invalid request envelope")
)

// Input is everything a handler sees for one turn.
type Input struct {
	Ctx        context.Context
	Envelope   *RequestEnvelope
	Attributes *AttributesManager
	Builder    *ResponseBuilder

	// Handler is the name of the handler that produced the response, set by
	// the skill before interceptors run.
	Handler string
}

type RequestHandler interface {
	CanHandle(in *Input) bool
	Handle(in *Input) (*Response, error)
}

type ErrorHandler interface {
	CanHandle(in *Input, err error) bool
	Handle(in *Input, err error) (*Response, error)
}

// ResponseInterceptor observes a finished turn. Interceptors cannot fail the
// turn; they are for side effects such as transcripts and metrics.
type ResponseInterceptor interface {
	Process(in *Input, resp *Response)
}

// ResponseInterceptorFunc adapts a function to ResponseInterceptor.
type ResponseInterceptorFunc func(in *Input, resp *Response)

func (f ResponseInterceptorFunc) Process(in *Input, resp *Response) { f(in, resp) }

// Named is implemented by handlers that want a stable name in logs and metrics.
type Named interface {
	Name() string
}

type Skill struct {
	handlers      []RequestHandler
	errorHandlers []ErrorHandler
	interceptors  []ResponseInterceptor
}

type Option func(*Skill)

// WithRequestHandlers appends handlers; registration order is precedence order.
func WithRequestHandlers(h ...RequestHandler) Option {
	return func(s *Skill) { s.handlers = append(s.handlers, h...) }
}

func WithErrorHandlers(h ...ErrorHandler) Option {
	return func(s *Skill) { s.errorHandlers = append(s.errorHandlers, h...) }
}

func WithInterceptors(i ...ResponseInterceptor) Option {
	return func(s *Skill) { s.interceptors = append(s.interceptors, i...) }
}

func NewSkill(opts ...Option) *Skill {
	s := &Skill{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invoke runs one request/response cycle.
func (s *Skill) Invoke(ctx context.Context, env *RequestEnvelope) (*ResponseEnvelope, error) {
	if env == nil || env.Request == nil {
		return nil, ErrInvalidRequest
	}

	var attrs map[string]any
	if env.Session != nil {
		attrs = env.Session.Attributes
	}
	in := &Input{
		Ctx:        ctx,
		Envelope:   env,
		Attributes: NewAttributesManager(attrs),
		Builder:    &ResponseBuilder{},
	}

	resp, err := s.dispatch(in)
	if err != nil {
		resp, err = s.handleError(in, err)
		if err != nil {
			return nil, err
		}
	}

	for _, i := range s.interceptors {
		i.Process(in, resp)
	}

	return &ResponseEnvelope{
		Version:           envelopeVersion,
		SessionAttributes: in.Attributes.SessionAttributes(),
		Response:          resp,
	}, nil
}

func (s *Skill) dispatch(in *Input) (resp *Response, err error) {
	for _, h := range s.handlers {
		if !h.CanHandle(in) {
			continue
		}
		in.Handler = handlerName(h)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler %s panicked: %v\n%s", in.Handler, r, debug.Stack())
			}
		}()
		return h.Handle(in)
	}
	return nil, ErrNoHandler
}

func (s *Skill) handleError(in *Input, cause error) (*Response, error) {
	for _, h := range s.errorHandlers {
		if !h.CanHandle(in, cause) {
			continue
		}
		in.Handler = handlerName(h)
		// the error handler starts from a clean builder
		in.Builder = &ResponseBuilder{}
		resp, err := h.Handle(in, cause)
		if err != nil {
			return nil, fmt.Errorf("error handler %s: %w (while handling: %v)", in.Handler, err, cause)
		}
		return resp, nil
	}
	return nil, cause
}

func handlerName(h any) string {
	if n, ok := h.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", h)
}
