package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-campaign-mirror/internal/campaign"
	"github.com/MKhiriev/go-campaign-mirror/internal/config"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote/rest"
	"github.com/MKhiriev/go-campaign-mirror/internal/tui"
	"github.com/MKhiriev/go-campaign-mirror/internal/workers"
)

var errNilConfig = errors.New("client config is nil")

type App struct {
	cfg    *config.ClientConfig
	info   tui.BuildInfo
	logger *logger.Logger
}

var _ Client = (*App)(nil)

func NewApp(cfg *config.ClientConfig, info tui.BuildInfo, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errNilConfig
	}
	return &App{cfg: cfg, info: info, logger: logger.OrNop(log)}, nil
}

// Run mirrors the configured campaign and shows the viewer until the user
// quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	client, closeAll, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer closeAll()

	ui, err := tui.New(client, a.info, a.cfg.Remote.URL, a.logger)
	if err != nil {
		return fmt.Errorf("create ui: %w", err)
	}

	workersCtx, stopWorkers := context.WithCancel(ctx)
	jobs := workers.New(newPresence(client, a.logger))
	jobsDone := make(chan struct{})
	go func() {
		defer close(jobsDone)
		jobs.Run(workersCtx)
	}()

	err = ui.Run(ctx)

	stopWorkers()
	<-jobsDone
	return err
}

// connect builds the backend and the campaign client, logs in when a token
// is configured and waits for the campaign to be ready. The returned func
// closes the client and then the backend.
func (a *App) connect(ctx context.Context) (*campaign.Client, func(), error) {
	backend := rest.New(rest.Config{
		BaseURL:   a.cfg.Remote.URL,
		AuthToken: a.cfg.Remote.AuthToken,
		Timeout:   a.cfg.Remote.RequestTimeout,
		Logger:    a.logger,
	})

	client := campaign.NewClient(ctx, backend, campaign.Options{
		Logger:        a.logger,
		CreateTimeout: a.cfg.Mirror.CreateTimeout,
	})
	closeAll := func() {
		client.Close()
		_ = backend.Close()
	}

	if a.cfg.Remote.AuthToken != "" {
		if _, err := client.Login(ctx, a.cfg.Remote.AuthToken); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("login: %w", err)
		}
	}

	a.logger.Info().Str("remote", a.cfg.Remote.URL).Msg("waiting for campaign")
	waitCtx, cancel := context.WithTimeout(ctx, a.cfg.Mirror.ReadyTimeout)
	defer cancel()
	if err := client.Wait(waitCtx); err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("campaign did not become ready: %w", err)
	}

	return client, closeAll, nil
}
