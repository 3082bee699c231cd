// Package history keeps a short transcript of each voice session in Redis.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/evisdrenova/zonaei-skill/internal/alexa"
	"github.com/evisdrenova/zonaei-skill/internal/session"
)

const (
	DefaultTTL = 24 * time.Hour
	// maxTurns bounds the list; older turns are trimmed off the tail.
	maxTurns = 200
	// writeTimeout bounds the Redis round trip so a slow Redis cannot hold up the reply.
	writeTimeout = 500 * time.Millisecond
)

type Turn struct {
	RequestID   string    `json:"request_id"`
	RequestType string    `json:"request_type"`
	Intent      string    `json:"intent,omitempty"`
	Handler     string    `json:"handler"`
	StateBefore string    `json:"state_before"`
	StateAfter  string    `json:"state_after"`
	Speech      string    `json:"speech,omitempty"`
	At          time.Time `json:"at"`
}

// Redis is the subset of *redis.Client the recorder uses.
type Redis interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

type Recorder struct {
	rdb Redis
	ttl time.Duration
	now func() time.Time
}

func NewRecorder(rdb Redis, ttl time.Duration) *Recorder {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Recorder{rdb: rdb, ttl: ttl, now: time.Now}
}

func key(sessionID string) string {
	return "session:" + sessionID
}

// Process implements alexa.ResponseInterceptor. Redis failures are logged and
// never reach the user.
func (r *Recorder) Process(in *alexa.Input, resp *alexa.Response) {
	sid := alexa.SessionID(in.Envelope)
	if sid == "" {
		return
	}

	before := session.CurrentState(alexa.NewAttributesManager(in.Envelope.Session.Attributes))
	t := Turn{
		RequestID:   in.Envelope.Request.RequestID,
		RequestType: alexa.RequestType(in.Envelope),
		Intent:      alexa.IntentName(in.Envelope),
		Handler:     in.Handler,
		StateBefore: before.String(),
		StateAfter:  session.CurrentState(in.Attributes).String(),
		At:          r.now().UTC(),
	}
	if resp != nil && resp.OutputSpeech != nil {
		t.Speech = resp.OutputSpeech.SpokenText()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(in.Ctx), writeTimeout)
	defer cancel()
	if err := r.Append(ctx, sid, t); err != nil {
		log.Ctx(in.Ctx).Warn().Err(err).Str("session_id", sid).Msg("redis: record turn")
	}
}

func (r *Recorder) Append(ctx context.Context, sessionID string, t Turn) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	k := key(sessionID)
	if err := r.rdb.LPush(ctx, k, raw).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}
	if err := r.rdb.LTrim(ctx, k, 0, maxTurns-1).Err(); err != nil {
		return fmt.Errorf("ltrim: %w", err)
	}
	if err := r.rdb.Expire(ctx, k, r.ttl).Err(); err != nil {
		return fmt.Errorf("expire: %w", err)
	}
	return nil
}

// Recent returns up to n turns of the session, newest first.
func (r *Recorder) Recent(ctx context.Context, sessionID string, n int) ([]Turn, error) {
	if n <= 0 {
		return nil, nil
	}
	raws, err := r.rdb.LRange(ctx, key(sessionID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange: %w", err)
	}
	turns := make([]Turn, 0, len(raws))
	for _, raw := range raws {
		var t Turn
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}
