// Package events publishes favorite changes for other services.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/models"
)

// Publisher announces favorite toggles
type Publisher interface {
	PublishFavoriteToggled(ctx context.Context, event models.FavoriteToggled) error
	Close()
}

var (
	_ Publisher = (*NATSPublisher)(nil)
	_ Publisher = NoopPublisher{}
)

// NATSPublisher sends JSON events on a single NATS subject
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
}

// NewNATSPublisher connects to url
func NewNATSPublisher(url, subject string, logger *zap.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("iv-catalog"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	logger.Info("Connected to NATS", zap.String("url", url), zap.String("subject", subject))
	return &NATSPublisher{conn: conn, subject: subject, logger: logger}, nil
}

func (p *NATSPublisher) PublishFavoriteToggled(ctx context.Context, event models.FavoriteToggled) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}
	p.logger.Debug("Published favorite toggle",
		zap.String("subject", p.subject),
		zap.Int("listing_id", event.ListingID))
	return nil
}

// Close drains pending messages before closing the connection
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("NATS drain failed", zap.Error(err))
		p.conn.Close()
	}
}

// NoopPublisher is used when NATS_URL is not configured
type NoopPublisher struct{}

func (NoopPublisher) PublishFavoriteToggled(context.Context, models.FavoriteToggled) error {
	return nil
}

func (NoopPublisher) Close() {}
