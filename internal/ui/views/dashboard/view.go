package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "dawn/internal/modules/session/dto"
	"dawn/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Dashboard(ctx context.Context) (sessiondto.DashboardOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Dashboard sessiondto.DashboardOutput
	Err       error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	table   table.Model
	spinner spinner.Model
	data    sessiondto.DashboardOutput
	err     error
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.Foreground(theme.Sky).BorderForeground(theme.Surface1).BorderBottom(true).Bold(true)
	st.Selected = st.Selected.Foreground(theme.Night).Background(theme.Sun)
	t.SetStyles(st)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Sun)

	return Model{port: port, table: t, spinner: sp}
}

// Reload fetches the dashboard again.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Init() tea.Cmd { return nil }

// Data returns the last dashboard loaded.
func (m Model) Data() sessiondto.DashboardOutput { return m.data }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(msg.Height-6, 3))

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.data = msg.Dashboard
			m.table.SetRows(rows(msg.Dashboard.Sessions))
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading progress…")
	}
	if m.err != nil {
		return theme.Bad.Render("dashboard: " + m.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), "", m.table.View())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) header() string {
	d := m.data
	day := d.DayIndex + 1
	if day > d.ProgramDays && d.ProgramDays > 0 {
		day = d.ProgramDays
	}
	stats := []string{
		theme.Title.Render(fmt.Sprintf("Day %d of %d", day, d.ProgramDays)),
		theme.Hot.Render(fmt.Sprintf("%d day streak", d.Streak)),
		theme.Good.Render(fmt.Sprintf("~%d min saved", d.TotalMinutesSaved)),
	}
	if len(d.RecentDeltas) > 0 {
		parts := make([]string, len(d.RecentDeltas))
		for i, v := range d.RecentDeltas {
			parts[i] = fmt.Sprintf("%+d", v)
		}
		stats = append(stats, theme.Muted.Render("recent: "+strings.Join(parts, " ")))
	}
	return strings.Join(stats, theme.Muted.Render("  │  "))
}

func columns(width int) []table.Column {
	date := 17
	rest := max((width-date-8)/5, 7)
	return []table.Column{
		{Title: "Date", Width: date},
		{Title: "Context", Width: rest + 2},
		{Title: "Pre", Width: rest - 2},
		{Title: "Post", Width: rest - 2},
		{Title: "Energy", Width: rest},
		{Title: "Min saved", Width: rest + 2},
	}
}

func rows(sessions []sessiondto.SessionOutput) []table.Row {
	out := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		ctx := s.Context
		if s.Maintenance {
			ctx += "*"
		}
		out = append(out, table.Row{
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			ctx,
			optInt(s.PreScore),
			optInt(s.PostScore),
			optInt(s.EnergyPre) + " → " + optInt(s.EnergyPost),
			optInt(s.MinutesSaved),
		})
	}
	return out
}

func optInt(v *int) string {
	if v == nil {
		return "—"
	}
	return strconv.Itoa(*v)
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		d, err := m.port.Dashboard(context.Background())
		return LoadedMsg{Dashboard: d, Err: err}
	}
}
