package campaign

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-campaign-mirror/internal/mirror"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

const (
	blobBio          = "bio"
	blobGMNotes      = "gmnotes"
	blobDefaultToken = "defaulttoken"
)

// Character is a character sheet with its attributes, abilities and blobs.
type Character struct {
	*mirror.Record[models.CharacterData]

	client *Client

	attributes *mirror.Collection[*Attribute]
	abilities  *mirror.Collection[*Ability]

	bio          *mirror.Var[string]
	gmNotes      *mirror.Var[string]
	defaultToken *mirror.Var[json.RawMessage]

	tags         *mirror.IDList[string]
	controlledBy *mirror.IDList[*Player]
	inJournals   *mirror.IDList[*Player]
}

func (c *Client) newCharacter(ctx context.Context, key string, raw json.RawMessage, ref remote.Ref) (*Character, error) {
	rec, err := mirror.NewRecord[models.CharacterData](ref, raw)
	if err != nil {
		return nil, err
	}

	ch := &Character{Record: rec, client: c}

	resolveTag, tagOf := mirror.StringIDs()
	ch.tags = mirror.NewIDList("tags", rec, mirror.JSONCodec{}, resolveTag, tagOf, c.log)
	ch.controlledBy = mirror.NewIDList("controlledby", rec, mirror.CommaCodec{}, c.findPlayer, playerID, c.log)
	ch.inJournals = mirror.NewIDList("inplayerjournals", rec, mirror.CommaCodec{}, c.findPlayer, playerID, c.log)

	ch.attributes = mirror.NewCollection(ctx, c.backend.Ref(attributesPath(key)), newAttribute, c.opts.Child("character attributes"))
	ch.abilities = mirror.NewCollection(ctx, c.backend.Ref(abilitiesPath(key)), newAbility, c.opts.Child("character abilities"))

	ch.bio = mirror.NewVar(ctx, c.backend.Ref(blobPath(key, blobBio)), mirror.StringDecoder, c.opts.Child("character bio blob"))
	ch.gmNotes = mirror.NewVar(ctx, c.backend.Ref(blobPath(key, blobGMNotes)), mirror.StringDecoder, c.opts.Child("character gmnotes blob"))
	ch.defaultToken = mirror.NewVar(ctx, c.backend.Ref(blobPath(key, blobDefaultToken)), rawDecoder, c.opts.Child("character defaulttoken blob"))

	if err = mirror.WaitAll(ctx, ch.attributes, ch.abilities); err != nil {
		ch.Close()
		return nil, fmt.Errorf("character %s: %w", key, err)
	}
	return ch, nil
}

func rawDecoder(raw json.RawMessage) (json.RawMessage, error) {
	return append(json.RawMessage(nil), raw...), nil
}

// UpdateLowLevel replaces the record and drops the cached id lists.
func (ch *Character) UpdateLowLevel(raw json.RawMessage) (bool, error) {
	changed, err := ch.Apply(raw)
	if changed {
		ch.tags.Invalidate()
		ch.controlledBy.Invalidate()
		ch.inJournals.Invalidate()
	}
	return changed, err
}

// Close stops mirroring every nested primitive.
func (ch *Character) Close() {
	ch.attributes.Close()
	ch.abilities.Close()
	ch.bio.Close()
	ch.gmNotes.Close()
	ch.defaultToken.Close()
}

func (ch *Character) Attributes() *mirror.Collection[*Attribute] {
	return ch.attributes
}

func (ch *Character) Abilities() *mirror.Collection[*Ability] {
	return ch.abilities
}

func (ch *Character) Bio() *mirror.Var[string] {
	return ch.bio
}

func (ch *Character) GMNotes() *mirror.Var[string] {
	return ch.gmNotes
}

func (ch *Character) DefaultToken() *mirror.Var[json.RawMessage] {
	return ch.defaultToken
}

// Tags is the character's tag list, stored as a JSON array string.
func (ch *Character) Tags() *mirror.IDList[string] {
	ch.tags.TryRepopulate()
	return ch.tags
}

// ControlledBy lists the players allowed to edit the character.
func (ch *Character) ControlledBy() *mirror.IDList[*Player] {
	ch.controlledBy.TryRepopulate()
	return ch.controlledBy
}

// InPlayerJournals lists the players who see the character in their
// journal.
func (ch *Character) InPlayerJournals() *mirror.IDList[*Player] {
	ch.inJournals.TryRepopulate()
	return ch.inJournals
}

// CanAccessBlobs reports whether the logged in player controls the
// character. It is false before login.
func (ch *Character) CanAccessBlobs() bool {
	id, err := ch.client.CurrentPlayerID()
	if err != nil {
		return false
	}
	return ch.ControlledBy().Contains(id)
}

func (ch *Character) Name() string {
	return ch.Data().Name
}

func (ch *Character) SetName(ctx context.Context, name string) error {
	return ch.SetField(ctx, "name", name)
}

func (ch *Character) AvatarURL() string {
	return ch.Data().Avatar
}

func (ch *Character) SetAvatarURL(ctx context.Context, url string) error {
	return ch.SetField(ctx, "avatar", url)
}

func (ch *Character) IsArchived() bool {
	return ch.Data().Archived
}

func (ch *Character) SetArchived(ctx context.Context, archived bool) error {
	return ch.SetField(ctx, "archived", archived)
}
