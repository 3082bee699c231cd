// Package alexa models the slice of the voice platform's request/response
// envelope this skill needs, plus the dispatcher that routes a request to the
// first eligible handler.
package alexa

import "time"

// Request types sent by the platform.
const (
	LaunchRequest       = "LaunchRequest"
	IntentRequest       = "IntentRequest"
	SessionEndedRequest = "SessionEndedRequest"
)

// Built-in intents.
const (
	HelpIntent     = "AMAZON.HelpIntent"
	CancelIntent   = "AMAZON.CancelIntent"
	StopIntent     = "AMAZON.StopIntent"
	RepeatIntent   = "AMAZON.RepeatIntent"
	FallbackIntent = "AMAZON.FallbackIntent"
)

const envelopeVersion = "1.0"

type RequestEnvelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Request *Request `json:"request"`
}

type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	User        User           `json:"user"`
	Application Application    `json:"application"`
}

type User struct {
	UserID string `json:"userId"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type Request struct {
	Type      string        `json:"type"`
	RequestID string        `json:"requestId"`
	Timestamp time.Time     `json:"timestamp"`
	Locale    string        `json:"locale,omitempty"`
	Intent    *Intent       `json:"intent,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Error     *RequestError `json:"error,omitempty"`
}

type RequestError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Intent struct {
	Name               string           `json:"name"`
	ConfirmationStatus string           `json:"confirmationStatus,omitempty"`
	Slots              map[string]*Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name        string       `json:"name"`
	Value       string       `json:"value,omitempty"`
	Resolutions *Resolutions `json:"resolutions,omitempty"`
}

type Resolutions struct {
	ResolutionsPerAuthority []Resolution `json:"resolutionsPerAuthority"`
}

type Resolution struct {
	Authority string           `json:"authority"`
	Status    ResolutionStatus `json:"status"`
	Values    []ResolvedValue  `json:"values"`
}

type ResolutionStatus struct {
	Code string `json:"code"`
}

type ResolvedValue struct {
	Value struct {
		Name string `json:"name"`
		ID   string `json:"id,omitempty"`
	} `json:"value"`
}

// ResolvedName returns the canonical entity name the platform matched for the
// slot, or the raw spoken value when entity resolution found nothing.
func (s *Slot) ResolvedName() string {
	if s == nil {
		return ""
	}
	if s.Resolutions != nil {
		for _, r := range s.Resolutions.ResolutionsPerAuthority {
			if len(r.Values) > 0 && r.Values[0].Value.Name != "" {
				return r.Values[0].Value.Name
			}
		}
	}
	return s.Value
}

type ResponseEnvelope struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes,omitempty"`
	Response          *Response      `json:"response"`
}

type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	SSML string `json:"ssml,omitempty"`
	Text string `json:"text,omitempty"`
}

type Reprompt struct {
	OutputSpeech *OutputSpeech `json:"outputSpeech"`
}

// RequestType returns the request type or "" for a malformed envelope.
func RequestType(env *RequestEnvelope) string {
	if env == nil || env.Request == nil {
		return ""
	}
	return env.Request.Type
}

// IntentName returns the intent name of an intent request, "" otherwise.
func IntentName(env *RequestEnvelope) string {
	if RequestType(env) != IntentRequest || env.Request.Intent == nil {
		return ""
	}
	return env.Request.Intent.Name
}

// GetSlot returns the named slot of the current intent or nil.
func GetSlot(env *RequestEnvelope, name string) *Slot {
	if IntentName(env) == "" {
		return nil
	}
	return env.Request.Intent.Slots[name]
}

func SessionID(env *RequestEnvelope) string {
	if env == nil || env.Session == nil {
		return ""
	}
	return env.Session.SessionID
}

func UserID(env *RequestEnvelope) string {
	if env == nil || env.Session == nil {
		return ""
	}
	return env.Session.User.UserID
}

func ApplicationID(env *RequestEnvelope) string {
	if env == nil || env.Session == nil {
		return ""
	}
	return env.Session.Application.ApplicationID
}
