package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/evisdrenova/zonaei-skill/internal/alexa"
	"github.com/evisdrenova/zonaei-skill/internal/ratelimit"
)

type fakeSkill struct {
	got *alexa.RequestEnvelope
	err error
}

func (f *fakeSkill) Invoke(_ context.Context, env *alexa.RequestEnvelope) (*alexa.ResponseEnvelope, error) {
	f.got = env
	if f.err != nil {
		return nil, f.err
	}
	resp := (&alexa.ResponseBuilder{}).Speak("hola").Response()
	return &alexa.ResponseEnvelope{Version: "1.0", SessionAttributes: map[string]any{"app-state": 0}, Response: resp}, nil
}

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestServer(skill Invoker, opts Options) http.Handler {
	s := NewHTTPServer(skill, opts)
	s.now = func() time.Time { return now }
	return s.Router()
}

func envelopeJSON(t *testing.T, appID, userID string, ts time.Time) []byte {
	t.Helper()
	env := alexa.RequestEnvelope{
		Version: "1.0",
		Session: &alexa.Session{
			SessionID:   "s-1",
			User:        alexa.User{UserID: userID},
			Application: alexa.Application{ApplicationID: appID},
		},
		Request: &alexa.Request{Type: alexa.LaunchRequest, RequestID: "r-1", Timestamp: ts},
	}
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	return raw
}

func post(h http.Handler, body []byte) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/skill", bytes.NewReader(body))
	h.ServeHTTP(rec, req)
	return rec
}

func TestSkillEndpoint(t *testing.T) {
	skill := &fakeSkill{}
	h := newTestServer(skill, Options{ApplicationID: "amzn1.ask.skill.zonaei", VerifyTimestamp: true})

	rec := post(h, envelopeJSON(t, "amzn1.ask.skill.zonaei", "u-1", now.Add(-10*time.Second)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var out alexa.ResponseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "hola", out.Response.OutputSpeech.SpokenText())
	require.NotNil(t, skill.got)
	assert.Equal(t, "r-1", skill.got.Request.RequestID)
}

func TestSkillEndpoint_Rejections(t *testing.T) {
	h := newTestServer(&fakeSkill{}, Options{ApplicationID: "amzn1.ask.skill.zonaei", VerifyTimestamp: true})

	t.Run("malformed json", func(t *testing.T) {
		rec := post(h, []byte(`{"request":`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("no request", func(t *testing.T) {
		rec := post(h, []byte(`{"version":"1.0"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("wrong application", func(t *testing.T) {
		rec := post(h, envelopeJSON(t, "amzn1.ask.skill.other", "u", now))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "another application")
	})
	t.Run("stale timestamp", func(t *testing.T) {
		rec := post(h, envelopeJSON(t, "amzn1.ask.skill.zonaei", "u", now.Add(-10*time.Minute)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "timestamp")
	})
	t.Run("future timestamp", func(t *testing.T) {
		rec := post(h, envelopeJSON(t, "amzn1.ask.skill.zonaei", "u", now.Add(10*time.Minute)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/skill", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestSkillEndpoint_TimestampCheckDisabled(t *testing.T) {
	h := newTestServer(&fakeSkill{}, Options{})
	rec := post(h, envelopeJSON(t, "any", "u", now.Add(-24*time.Hour)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSkillEndpoint_BodyLimit(t *testing.T) {
	h := newTestServer(&fakeSkill{}, Options{MaxBodyBytes: 64})
	rec := post(h, []byte(`{"version":"1.0","pad":"`+strings.Repeat("x", 200)+`"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSkillEndpoint_RateLimited(t *testing.T) {
	h := newTestServer(&fakeSkill{}, Options{Limiter: ratelimit.New(1, 1, time.Minute)})

	assert.Equal(t, http.StatusOK, post(h, envelopeJSON(t, "a", "u-1", now)).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(h, envelopeJSON(t, "a", "u-1", now)).Code)
	assert.Equal(t, http.StatusOK, post(h, envelopeJSON(t, "a", "u-2", now)).Code)
}

func TestSkillEndpoint_InvokeError(t *testing.T) {
	h := newTestServer(&fakeSkill{err: errors.New("no error handler")}, Options{})
	rec := post(h, envelopeJSON(t, "a", "u", now))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(&fakeSkill{}, Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestGRPCHealth(t *testing.T) {
	hs, err := NewHealthServer("", "")
	require.NoError(t, err)

	ln := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hs.Serve(ctx, ln) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return ln.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	hs.SetServing(true)
	resp, err = client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	cancel()
	require.NoError(t, <-done)
}
