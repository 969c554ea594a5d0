package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-campaign-mirror/internal/campaign"
	"github.com/MKhiriev/go-campaign-mirror/internal/events"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/mirror"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

// TUI is the live terminal viewer of one campaign.
type TUI struct {
	client *campaign.Client
	info   BuildInfo
	remote string
	logger *logger.Logger
}

func New(client *campaign.Client, info BuildInfo, remoteURL string, log *logger.Logger) (*TUI, error) {
	if client == nil {
		return nil, errors.New("tui: nil campaign client")
	}
	return &TUI{client: client, info: info, remote: remoteURL, logger: logger.OrNop(log).Component("tui")}, nil
}

// Run shows the viewer until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	model := newViewerModel(ctx, func() Snapshot { return takeSnapshot(t.client) }, t.say)
	model.info, model.remote = t.info, t.remote

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := t.watch(ctx, p)
	defer stop()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

func (t *TUI) say(ctx context.Context, content string) error {
	who := ""
	if us, err := t.client.CurrentPlayer(); err == nil {
		who = us.SpeakingAs()
		if who == "" {
			who = us.DisplayName()
		}
	}
	_, err := t.client.Say(ctx, content, who, models.ChatTypeGeneral)
	if err != nil {
		t.logger.Warn().Err(err).Msg("say failed")
	}
	return err
}

// watch turns mirror changes into refresh messages. Bursts of changes
// collapse into one pending refresh so subscribers never block on the UI.
func (t *TUI) watch(ctx context.Context, p *tea.Program) func() {
	pending := make(chan struct{}, 1)
	notify := func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	}

	stops := []func(){
		onAny(notify, t.client.Players().Added(), t.client.Players().Changed(), t.client.Players().Removed()),
		onAny(notify, t.client.Chat().Added(), t.client.Chat().Changed(), t.client.Chat().Removed()),
	}
	ready := t.client.Ready()
	h := ready.On(func(mirror.Ready) { notify() })
	stops = append(stops, func() { ready.Off(h) })

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-pending:
				p.Send(refreshMsg{})
			}
		}
	}()

	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

func onAny[T any](fn func(), regs ...*events.Registry[T]) func() {
	handles := make([]events.Handle, len(regs))
	for i, r := range regs {
		handles[i] = r.On(func(T) { fn() })
	}
	return func() {
		for i, r := range regs {
			r.Off(handles[i])
		}
	}
}
