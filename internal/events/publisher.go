// Package events announces session lifecycle changes on a redis channel so
// sibling services (matching, history) can react without polling the hub.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"pairpad/internal/models"
	"pairpad/internal/utils"
)

type Publisher struct {
	rdb     *redis.Client
	channel string
	log     *utils.Logger
}

// NewPublisher returns nil when addr is empty; a nil Publisher is a no-op, so
// the hub runs fine without redis.
func NewPublisher(addr, channel string, log *utils.Logger) *Publisher {
	if addr == "" {
		return nil
	}
	return &Publisher{
		rdb:     redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
		log:     log,
	}
}

func (p *Publisher) SessionCreated(ctx context.Context, sessionID string, language models.Language) {
	p.publish(ctx, "session_created", models.SessionCreatedEvent{
		SessionID: sessionID,
		Language:  language,
		CreatedAt: time.Now().Format(time.RFC3339),
	})
}

func (p *Publisher) SessionEnded(ctx context.Context, sessionID string, language models.Language, createdAt time.Time) {
	p.publish(ctx, "session_ended", models.SessionEndedEvent{
		SessionID:   sessionID,
		Language:    language,
		EndedAt:     time.Now().Format(time.RFC3339),
		DurationSec: int(time.Since(createdAt).Seconds()),
	})
}

func (p *Publisher) publish(ctx context.Context, kind string, event any) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(struct {
		Type  string `json:"type"`
		Event any    `json:"event"`
	}{Type: kind, Event: event})
	if err != nil {
		p.log.Error("marshal lifecycle event", "type", kind, "error", err.Error())
		return
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Warn("publish lifecycle event", "type", kind, "error", err.Error())
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.rdb.Close()
}
