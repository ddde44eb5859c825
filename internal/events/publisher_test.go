package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/models"
)

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	err := p.PublishFavoriteToggled(context.Background(), models.FavoriteToggled{
		SessionID:  "s-1",
		ListingID:  3,
		IsFavorite: true,
		ToggledAt:  time.Now(),
	})
	assert.NoError(t, err)
	p.Close()
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "catalog.favorites.toggled", zap.NewNop())
	assert.Error(t, err)
}
