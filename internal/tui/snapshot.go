package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MKhiriev/go-campaign-mirror/internal/campaign"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

const maxChatLines = 500

// ChatLine is one rendered chat message.
type ChatLine struct {
	ID      string
	Speaker string
	Color   string
	Type    string
	Content string
	Rolls   []string
}

// Text is the plain form copied to the clipboard.
func (l ChatLine) Text() string {
	text := l.Speaker + ": " + l.Content
	if len(l.Rolls) > 0 {
		text += " [" + strings.Join(l.Rolls, ", ") + "]"
	}
	return text
}

// RosterEntry is one player of the roster column.
type RosterEntry struct {
	ID     string
	Name   string
	Color  string
	Online bool
	Us     bool
}

// Snapshot is what the viewer shows, read from the mirror in one pass.
type Snapshot struct {
	Ready  bool
	Chat   []ChatLine
	Roster []RosterEntry
}

func takeSnapshot(c *campaign.Client) Snapshot {
	s := Snapshot{Ready: c.IsReady()}

	for _, p := range c.Players().All() {
		s.Roster = append(s.Roster, RosterEntry{
			ID:     p.ID(),
			Name:   playerName(p),
			Color:  p.Color(),
			Online: p.IsOnline(),
			Us:     p.IsUs(),
		})
	}
	sortRoster(s.Roster)

	for _, m := range c.Chat().All() {
		line := ChatLine{
			ID:      m.ID(),
			Speaker: m.SpeakingAs(),
			Type:    m.Type(),
			Content: m.Content(),
			Rolls:   formatRolls(m.InlineRolls()),
		}
		if p, ok := m.Player(); ok {
			line.Color = p.Color()
			if line.Speaker == "" {
				line.Speaker = playerName(p)
			}
		}
		line.Speaker = valueOrDash(line.Speaker)
		s.Chat = append(s.Chat, line)
	}
	// push keys sort by creation time
	sort.SliceStable(s.Chat, func(i, j int) bool { return s.Chat[i].ID < s.Chat[j].ID })
	if len(s.Chat) > maxChatLines {
		s.Chat = s.Chat[len(s.Chat)-maxChatLines:]
	}

	return s
}

func playerName(p *campaign.Player) string {
	if name := p.DisplayName(); name != "" {
		return name
	}
	if name := p.Username(); name != "" {
		return name
	}
	return p.ID()
}

// sortRoster puts online players first, then orders by name.
func sortRoster(roster []RosterEntry) {
	sort.SliceStable(roster, func(i, j int) bool {
		if roster[i].Online != roster[j].Online {
			return roster[i].Online
		}
		return strings.ToLower(roster[i].Name) < strings.ToLower(roster[j].Name)
	})
}

func formatRolls(rolls []models.InlineRoll) []string {
	if len(rolls) == 0 {
		return nil
	}
	out := make([]string, 0, len(rolls))
	for _, r := range rolls {
		out = append(out, fmt.Sprintf("%s = %g", valueOrDash(r.Expression), r.Results.Total))
	}
	return out
}
