package alexa

import (
	"encoding/xml"
	"strings"
)

// AttributesManager holds the session attributes of one turn. It starts from a
// copy of what the platform sent, so handlers never mutate the inbound request.
type AttributesManager struct {
	attrs map[string]any
}

// NewAttributesManager copies attrs into a fresh manager.
func NewAttributesManager(attrs map[string]any) *AttributesManager {
	cp := make(map[string]any, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	return &AttributesManager{attrs: cp}
}

func (m *AttributesManager) SessionAttributes() map[string]any {
	return m.attrs
}

func (m *AttributesManager) SetSessionAttributes(attrs map[string]any) {
	if attrs == nil {
		attrs = map[string]any{}
	}
	m.attrs = attrs
}

// ResponseBuilder accumulates the reply of a handler.
type ResponseBuilder struct {
	resp Response
}

func (b *ResponseBuilder) Speak(text string) *ResponseBuilder {
	b.resp.OutputSpeech = ssml(text)
	return b
}

func (b *ResponseBuilder) Reprompt(text string) *ResponseBuilder {
	b.resp.Reprompt = &Reprompt{OutputSpeech: ssml(text)}
	return b
}

func (b *ResponseBuilder) WithShouldEndSession(end bool) *ResponseBuilder {
	b.resp.ShouldEndSession = &end
	return b
}

func (b *ResponseBuilder) Response() *Response {
	resp := b.resp
	return &resp
}

func ssml(text string) *OutputSpeech {
	var sb strings.Builder
	sb.WriteString("<speak>")
	_ = xml.EscapeText(&sb, []byte(text))
	sb.WriteString("</speak>")
	return &OutputSpeech{Type: "SSML", SSML: sb.String()}
}

// SpokenText strips the SSML wrapper back off, mostly for logs and tests.
func (o *OutputSpeech) SpokenText() string {
	if o == nil {
		return ""
	}
	if o.Type == "PlainText" {
		return o.Text
	}
	s := strings.TrimSuffix(strings.TrimPrefix(o.SSML, "<speak>"), "</speak>")
	r := strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&#34;", `"`, "&#39;", "'", "&#xA;", "\n", "&#x9;", "\t", "&#xD;", "\r")
	return r.Replace(s)
}
