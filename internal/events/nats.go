package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"leasehub-backend/internal/logger"
)

type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSPublisher publishes events to <prefix>.<resource_type>.<event_type>.
type NATSPublisher struct {
	conn   msgPublisher
	close  func()
	prefix string
}

// NewNATSPublisher connects to url. An empty url yields a no-op publisher.
func NewNATSPublisher(url, prefix string) (Publisher, error) {
	if url == "" {
		return NewNoopPublisher(), nil
	}
	nc, err := nats.Connect(url, nats.Name("leasehub-backend"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{
		conn:   nc,
		prefix: prefix,
		close: func() {
			if err := nc.Drain(); err != nil {
				nc.Close()
			}
		},
	}, nil
}

func (p *NATSPublisher) Subject(e Event) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, e.ResourceType, e.EventType)
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		logger.WarnContext(ctx, "events: failed to marshal event", "event_type", e.EventType, "error", err)
		return
	}

	msg := nats.NewMsg(p.Subject(e))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, uuid.NewString())

	if err := p.conn.PublishMsg(msg); err != nil {
		logger.WarnContext(ctx, "events: failed to publish (non-fatal)", "subject", msg.Subject, "resource_id", e.ResourceID, "error", err)
		return
	}
	logger.DebugContext(ctx, "events: published", "subject", msg.Subject, "resource_id", e.ResourceID)
}

func (p *NATSPublisher) Close() {
	if p.close != nil {
		p.close()
	}
}
