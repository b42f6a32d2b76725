package results

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	sessiondto "dawn/internal/modules/session/dto"
	"dawn/internal/ui/theme"
)

// Summary is everything the results screen shows for one finished session.
type Summary struct {
	Complete    sessiondto.CompleteOutput
	Maintenance bool
	EnergyPre   int
	EnergyPost  int
}

// Markdown renders the summary as a short markdown document.
func Markdown(s Summary) string {
	c := s.Complete
	var sb strings.Builder
	sb.WriteString("# Session complete\n\n")
	day := fmt.Sprintf("Day %d of %d", c.DayIndex+1, c.ProgramDays)
	if s.Maintenance {
		day += " (maintenance)"
	}
	sb.WriteString("**" + day + "**\n\n")

	if c.PostScore != nil && c.PreScore != nil {
		sign := ""
		if c.Improved && c.PercentChange >= 0 {
			sign = "+"
		}
		sb.WriteString(fmt.Sprintf("- Reaction: %d → %d (%s%d%%)\n", *c.PreScore, *c.PostScore, sign, c.PercentChange))
		if c.MinutesSaved > 0 {
			sb.WriteString(fmt.Sprintf("- Grogginess cut by ~%d min\n", c.MinutesSaved))
		}
	} else if c.PreScore != nil {
		sb.WriteString(fmt.Sprintf("- Reaction: %d (no post test)\n", *c.PreScore))
	}

	post := "—"
	if s.EnergyPost > 0 {
		post = fmt.Sprint(s.EnergyPost)
	}
	pre := "—"
	if s.EnergyPre > 0 {
		pre = fmt.Sprint(s.EnergyPre)
	}
	sb.WriteString(fmt.Sprintf("- Energy: %s → %s\n", pre, post))

	if c.JournalPath != "" {
		sb.WriteString(fmt.Sprintf("\nJournal entry: `%s`\n", c.JournalPath))
	}
	return sb.String()
}

type Model struct {
	summary  Summary
	viewport viewport.Model
	width    int
	height   int
}

func New(s Summary) Model {
	m := Model{summary: s, viewport: viewport.New(0, 0)}
	m.viewport.SetContent(m.render(72))
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if sz, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sz.Width
		m.height = sz.Height
		m.viewport.Width = max(sz.Width-4, 1)
		m.viewport.Height = max(sz.Height-3, 1)
		m.viewport.SetContent(m.render(m.viewport.Width))
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	footer := theme.Muted.Render("d: view progress  enter: done  q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m Model) render(width int) string {
	md := Markdown(m.summary)
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
