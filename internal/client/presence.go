package client

import (
	"context"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/campaign"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
)

const presenceTimeout = 5 * time.Second

// presence marks the logged in player online while the viewer runs and
// offline when it stops.
type presence struct {
	client *campaign.Client
	logger *logger.Logger
}

func newPresence(client *campaign.Client, log *logger.Logger) *presence {
	return &presence{client: client, logger: logger.OrNop(log).Component("presence")}
}

func (p *presence) Run(ctx context.Context) {
	us, err := p.client.CurrentPlayer()
	if err != nil {
		p.logger.Debug().Err(err).Msg("no current player, presence disabled")
		return
	}

	if err = us.SetOnline(ctx, true); err != nil {
		p.logger.Warn().Err(err).Msg("failed to mark player online")
		return
	}
	p.logger.Info().Str("player_id", us.ID()).Msg("player online")

	<-ctx.Done()

	offCtx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err = us.SetOnline(offCtx, false); err != nil {
		p.logger.Warn().Err(err).Msg("failed to mark player offline")
		return
	}
	p.logger.Info().Str("player_id", us.ID()).Msg("player offline")
}
