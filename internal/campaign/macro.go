package campaign

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-campaign-mirror/internal/mirror"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

// Macro is a saved chat command of a player.
type Macro struct {
	*mirror.Record[models.MacroData]

	visibleTo *mirror.IDList[*Player]
}

func (c *Client) newMacro(_ context.Context, _ string, raw json.RawMessage, ref remote.Ref) (*Macro, error) {
	rec, err := mirror.NewRecord[models.MacroData](ref, raw)
	if err != nil {
		return nil, err
	}

	m := &Macro{Record: rec}
	m.visibleTo = mirror.NewIDList("visibleto", rec, mirror.CommaCodec{}, c.findPlayer, playerID, c.log)
	return m, nil
}

// UpdateLowLevel replaces the record and drops the cached visibility list.
func (m *Macro) UpdateLowLevel(raw json.RawMessage) (bool, error) {
	changed, err := m.Apply(raw)
	if changed {
		m.visibleTo.Invalidate()
	}
	return changed, err
}

// VisibleTo lists the players the macro is shown to.
func (m *Macro) VisibleTo() *mirror.IDList[*Player] {
	m.visibleTo.TryRepopulate()
	return m.visibleTo
}

func (m *Macro) Name() string {
	return m.Data().Name
}

func (m *Macro) SetName(ctx context.Context, name string) error {
	return m.SetField(ctx, "name", name)
}

func (m *Macro) Action() string {
	return m.Data().Action
}

func (m *Macro) SetAction(ctx context.Context, action string) error {
	return m.SetField(ctx, "action", action)
}

func (m *Macro) IsTokenAction() bool {
	return m.Data().IsTokenAction
}

func (m *Macro) SetTokenAction(ctx context.Context, state bool) error {
	return m.SetField(ctx, "istokenaction", state)
}
