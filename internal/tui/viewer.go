package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	// title, divider, input and status lines around the chat
	chromeHeight = 6
)

type viewerModel struct {
	ctx      context.Context
	snapshot func() Snapshot
	say      func(ctx context.Context, content string) error
	copy     func(string) error
	info     BuildInfo
	remote   string

	chat  viewport.Model
	input textinput.Model

	lines  []ChatLine
	roster []RosterEntry
	ready  bool

	width  int
	height int

	sending  bool
	status   string
	errMsg   string
	showInfo bool
}

func newViewerModel(ctx context.Context, snapshot func() Snapshot, say func(context.Context, string) error) viewerModel {
	input := textinput.New()
	input.Placeholder = "Say something..."
	input.CharLimit = 2000
	input.Prompt = "> "
	input.Focus()

	m := viewerModel{
		ctx:      ctx,
		snapshot: snapshot,
		say:      say,
		copy:     clipboard.WriteAll,
		chat:     viewport.New(defaultWidth-rosterWidth-4, defaultHeight-chromeHeight),
		input:    input,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	return m
}

func (m viewerModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, cmdRefresh())
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.chat.SetContent(renderChat(m.lines, m.chat.Width))
		m.chat.GotoBottom()
		return m, nil

	case refreshMsg:
		s := m.snapshot()
		atBottom := m.chat.AtBottom() || len(m.lines) == 0
		m.lines, m.roster, m.ready = s.Chat, s.Roster, s.Ready
		m.chat.SetContent(renderChat(m.lines, m.chat.Width))
		if atBottom {
			m.chat.GotoBottom()
		}
		return m, nil

	case sentMsg:
		m.sending = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		return m, nil

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m viewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.quit) {
		return m, tea.Quit
	}

	if m.showInfo {
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.info) {
			m.showInfo = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.info):
		m.showInfo = true
		return m, nil

	case key.Matches(msg, keys.esc):
		return m, tea.Quit

	case key.Matches(msg, keys.copy):
		if len(m.lines) == 0 {
			m.status = "Nothing to copy"
			return m, cmdClearStatus()
		}
		if err := m.copy(m.lines[len(m.lines)-1].Text()); err != nil {
			m.errMsg = fmt.Sprintf("Copy failed: %v", err)
			return m, nil
		}
		m.status = "Copied"
		return m, cmdClearStatus()

	case key.Matches(msg, keys.scrollUp), key.Matches(msg, keys.scrollDn):
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case key.Matches(msg, keys.send):
		content := strings.TrimSpace(m.input.Value())
		if content == "" || m.sending {
			return m, nil
		}
		m.sending = true
		m.errMsg = ""
		m.input.SetValue("")
		return m, m.cmdSay(content)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *viewerModel) resize() {
	chatWidth := m.width - rosterWidth - 4
	if chatWidth < 10 {
		chatWidth = 10
	}
	chatHeight := m.height - chromeHeight
	if chatHeight < 1 {
		chatHeight = 1
	}
	m.chat.Width = chatWidth
	m.chat.Height = chatHeight
	m.input.Width = m.width - 6
}

func (m viewerModel) View() string {
	if m.showInfo {
		return appStyle.Render(renderBuildInfoWindow(m.info, m.remote))
	}

	var b strings.Builder

	title := "CAMPAIGN"
	if !m.ready {
		title += " (loading...)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(fitText(uiDivider, m.width-4))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		rosterStyle.Height(m.chat.Height).Render(renderRoster(m.roster)),
		" ",
		m.chat.View(),
	))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	case m.sending:
		b.WriteString(helpStyle.Render("Sending..."))
	case m.status != "":
		b.WriteString(helpStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: send  ctrl+y: copy last  pgup/pgdown: scroll  f1: about  esc: quit"))

	return appStyle.Render(b.String())
}

func renderRoster(roster []RosterEntry) string {
	if len(roster) == 0 {
		return helpStyle.Render("no players")
	}

	var b strings.Builder
	for i, p := range roster {
		if i > 0 {
			b.WriteString("\n")
		}
		marker := "○ "
		if p.Online {
			marker = "● "
		}
		name := fitText(p.Name, rosterWidth-4)
		if p.Us {
			name += " *"
		}
		if p.Online {
			b.WriteString(marker + speakerStyle(p.Color).Render(name))
		} else {
			b.WriteString(offlineStyle.Render(marker + name))
		}
	}
	return b.String()
}

func renderChat(lines []ChatLine, width int) string {
	if len(lines) == 0 {
		return helpStyle.Render("no messages yet")
	}

	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(wrap.Render(renderLine(l)))
		for _, roll := range l.Rolls {
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("  ⤷ " + roll))
		}
	}
	return b.String()
}

func renderLine(l ChatLine) string {
	speaker := speakerStyle(l.Color).Render(l.Speaker)
	switch l.Type {
	case "emote":
		return emoteStyle.Render(l.Speaker + " " + l.Content)
	case "whisper":
		return helpStyle.Render("(whisper) ") + speaker + ": " + l.Content
	default:
		return speaker + ": " + l.Content
	}
}

func (m viewerModel) cmdSay(content string) tea.Cmd {
	ctx, say := m.ctx, m.say
	return func() tea.Msg {
		return sentMsg{err: say(ctx, content)}
	}
}

func cmdRefresh() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
