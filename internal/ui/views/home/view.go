package home

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	protocoldto "dawn/internal/modules/protocol/dto"
	"dawn/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ProtocolPort interface {
	Preview(ctx context.Context, mode string, dayIndex int, deltas []int, maintenance bool) (protocoldto.ProtocolOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type PreviewLoadedMsg struct {
	Context  string
	Protocol protocoldto.ProtocolOutput
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type contextItem struct {
	value string
	title string
	desc  string
}

func (i contextItem) Title() string       { return i.title }
func (i contextItem) Description() string { return i.desc }
func (i contextItem) FilterValue() string { return i.value }

var contexts = []contextItem{
	{value: "standard", title: "Standard", desc: "bright light, steady breath, light movement"},
	{value: "low_light", title: "Low light", desc: "dim room or partner still asleep"},
	{value: "gentle", title: "Gentle", desc: "slow start, softer everything"},
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     ProtocolPort
	list     list.Model
	preview  viewport.Model
	spinner  spinner.Model
	protocol protocoldto.ProtocolOutput
	dayIndex int
	deltas   []int
	loading  bool
	width    int
	height   int
}

func New(port ProtocolPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Sun).BorderForeground(theme.Sun)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Ember).BorderForeground(theme.Sun)

	items := make([]list.Item, len(contexts))
	for i, c := range contexts {
		items[i] = c
	}
	l := list.New(items, delegate, 0, 0)
	l.Title = "Where are you waking up?"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Dusk).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Sun)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: port != nil,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPreviewCmd(m.SelectedContext()), m.spinner.Tick)
}

// SetProgress updates the program position used for previews and reloads
// the preview for the selected context.
func (m *Model) SetProgress(dayIndex int, deltas []int) tea.Cmd {
	m.dayIndex = dayIndex
	m.deltas = append([]int(nil), deltas...)
	return m.loadPreviewCmd(m.SelectedContext())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case PreviewLoadedMsg:
		m.loading = false
		if msg.Context != m.SelectedContext() {
			return m, nil
		}
		if msg.Err != nil {
			m.preview.SetContent(theme.Bad.Render("preview: " + msg.Err.Error()))
			return m, nil
		}
		m.protocol = msg.Protocol
		m.preview.SetContent(m.renderPreview())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	prevIdx := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prevIdx {
		cmds = append(cmds, m.loadPreviewCmd(m.SelectedContext()))
	}

	var vCmd tea.Cmd
	m.preview, vCmd = m.preview.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	body := m.preview.View()
	if m.loading {
		body = m.spinner.View() + " Building today's protocol…"
	}
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Dusk).
		Width(max(detailW-2, 1)).
		Height(max(m.height-2, 1)).
		Render(body)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedContext returns the wake context under the cursor.
func (m Model) SelectedContext() string {
	if item, ok := m.list.SelectedItem().(contextItem); ok {
		return item.value
	}
	return contexts[0].value
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = max(detailW-4, 1)
	m.preview.Height = max(m.height-4, 1)
}

func (m Model) renderPreview() string {
	p := m.protocol
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(p.Name) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s · %d min", p.ID, (p.TotalDurationSeconds+59)/60)) + "\n\n")
	for i, s := range p.Steps {
		sb.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, s.Name, theme.Muted.Render(formatSeconds(s.DurationSeconds))))
		if s.BreathCadence != nil {
			c := s.BreathCadence
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("   in %ds · hold %ds · out %ds × %d", c.InhaleSeconds, c.HoldSeconds, c.ExhaleSeconds, c.Cycles)) + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: start session  d: dashboard"))
	return sb.String()
}

func formatSeconds(s int) string {
	if s%60 == 0 {
		return fmt.Sprintf("%dm", s/60)
	}
	return fmt.Sprintf("%dm%02ds", s/60, s%60)
}

func (m Model) loadPreviewCmd(mode string) tea.Cmd {
	if m.port == nil {
		return nil
	}
	day, deltas := m.dayIndex, m.deltas
	return func() tea.Msg {
		p, err := m.port.Preview(context.Background(), mode, day, deltas, false)
		return PreviewLoadedMsg{Context: mode, Protocol: p, Err: err}
	}
}
