package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairpad/internal/models"
	"pairpad/internal/utils"
)

type envelope struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

func subscribe(t *testing.T, addr, channel string) <-chan *redis.Message {
	t.Helper()
	sub := redis.NewClient(&redis.Options{Addr: addr}).Subscribe(context.Background(), channel)
	t.Cleanup(func() { _ = sub.Close() })

	// wait for the subscription to be live before publishing
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)
	return sub.Channel()
}

func receive(t *testing.T, ch <-chan *redis.Message) envelope {
	t.Helper()
	select {
	case msg := <-ch:
		var env envelope
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("expected lifecycle event")
		return envelope{}
	}
}

func TestNilPublisherIsNoop(t *testing.T) {
	p := NewPublisher("", "sessions", utils.NewTestLogger())
	require.Nil(t, p)

	// all methods must be safe on the nil receiver
	p.SessionCreated(context.Background(), "abc123", models.LangJavaScript)
	p.SessionEnded(context.Background(), "abc123", models.LangJavaScript, time.Now())
	assert.NoError(t, p.Close())
}

func TestPublishSessionCreated(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	ch := subscribe(t, mr.Addr(), "sessions")

	p := NewPublisher(mr.Addr(), "sessions", utils.NewTestLogger())
	require.NotNil(t, p)
	t.Cleanup(func() { _ = p.Close() })

	p.SessionCreated(context.Background(), "abc123", models.LangPython)

	env := receive(t, ch)
	assert.Equal(t, "session_created", env.Type)

	var event models.SessionCreatedEvent
	require.NoError(t, json.Unmarshal(env.Event, &event))
	assert.Equal(t, "abc123", event.SessionID)
	assert.Equal(t, models.LangPython, event.Language)
	assert.NotEmpty(t, event.CreatedAt)
}

func TestPublishSessionEnded(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	ch := subscribe(t, mr.Addr(), "sessions")

	p := NewPublisher(mr.Addr(), "sessions", utils.NewTestLogger())
	t.Cleanup(func() { _ = p.Close() })

	p.SessionEnded(context.Background(), "abc123", models.LangJavaScript, time.Now().Add(-90*time.Second))

	env := receive(t, ch)
	assert.Equal(t, "session_ended", env.Type)

	var event models.SessionEndedEvent
	require.NoError(t, json.Unmarshal(env.Event, &event))
	assert.Equal(t, "abc123", event.SessionID)
	assert.GreaterOrEqual(t, event.DurationSec, 89)
}
