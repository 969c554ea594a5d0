package campaign

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-campaign-mirror/internal/mirror"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

// Attribute is a named value on a character sheet.
type Attribute struct {
	*mirror.Record[models.AttributeData]
}

func newAttribute(_ context.Context, _ string, raw json.RawMessage, ref remote.Ref) (*Attribute, error) {
	rec, err := mirror.NewRecord[models.AttributeData](ref, raw)
	if err != nil {
		return nil, err
	}
	return &Attribute{Record: rec}, nil
}

func (a *Attribute) Name() string {
	return a.Data().Name
}

func (a *Attribute) SetName(ctx context.Context, name string) error {
	return a.SetField(ctx, "name", name)
}

func (a *Attribute) Current() string {
	return a.Data().Current
}

func (a *Attribute) SetCurrent(ctx context.Context, current string) error {
	return a.SetField(ctx, "current", current)
}

func (a *Attribute) Max() string {
	return a.Data().Max
}

func (a *Attribute) SetMax(ctx context.Context, value string) error {
	return a.SetField(ctx, "max", value)
}

// Ability is a character's rollable action.
type Ability struct {
	*mirror.Record[models.AbilityData]
}

func newAbility(_ context.Context, _ string, raw json.RawMessage, ref remote.Ref) (*Ability, error) {
	rec, err := mirror.NewRecord[models.AbilityData](ref, raw)
	if err != nil {
		return nil, err
	}
	return &Ability{Record: rec}, nil
}

func (a *Ability) Name() string {
	return a.Data().Name
}

func (a *Ability) SetName(ctx context.Context, name string) error {
	return a.SetField(ctx, "name", name)
}

func (a *Ability) Description() string {
	return a.Data().Description
}

func (a *Ability) SetDescription(ctx context.Context, desc string) error {
	return a.SetField(ctx, "description", desc)
}

func (a *Ability) Action() string {
	return a.Data().Action
}

func (a *Ability) SetAction(ctx context.Context, action string) error {
	return a.SetField(ctx, "action", action)
}

func (a *Ability) IsTokenAction() bool {
	return a.Data().IsTokenAction
}

func (a *Ability) SetTokenAction(ctx context.Context, state bool) error {
	return a.SetField(ctx, "istokenaction", state)
}

// Order returns the ability's position, 0 when unset or unparsable.
func (a *Ability) Order() int64 {
	v, _ := a.Data().Order.Get()
	return v
}

func (a *Ability) SetOrder(ctx context.Context, order int64) error {
	return a.SetField(ctx, "order", order)
}
