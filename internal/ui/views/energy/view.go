package energy

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dawn/internal/ui/theme"
)

// RatedMsg is emitted when the user confirms a rating.
type RatedMsg struct {
	Timing string
	Rating int
}

var labels = [...]string{
	"Very groggy",
	"Somewhat groggy",
	"Neutral",
	"Somewhat alert",
	"Fully awake",
}

var (
	cellStyle     = lipgloss.NewStyle().Padding(0, 2).Foreground(theme.Subtext0)
	selectedStyle = lipgloss.NewStyle().Padding(0, 2).Background(theme.Ember).Foreground(theme.Night).Bold(true)
)

type Model struct {
	timing string
	prompt string
	cursor int
	width  int
	height int
}

func New(timing string) Model {
	prompt := "How awake do you feel?"
	if timing == "post" {
		prompt = "How awake do you feel now?"
	}
	return Model{timing: timing, prompt: prompt, cursor: 2}
}

// Rating is the 1-5 value under the cursor.
func (m Model) Rating() int { return m.cursor + 1 }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch s := msg.String(); s {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(labels)-1 {
				m.cursor++
			}
		case "1", "2", "3", "4", "5":
			n, _ := strconv.Atoi(s)
			m.cursor = n - 1
			return m, m.submit()
		case "enter", " ":
			return m, m.submit()
		}
	}
	return m, nil
}

func (m Model) View() string {
	cells := make([]string, len(labels))
	for i := range labels {
		style := cellStyle
		if i == m.cursor {
			style = selectedStyle
		}
		cells[i] = style.Render(strconv.Itoa(i + 1))
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(m.prompt) + "\n\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, cells...) + "\n\n")
	sb.WriteString(theme.Hot.Render(labels[m.cursor]) + "\n\n")
	sb.WriteString(theme.Muted.Render("←/→ choose  1-5 pick  enter confirm"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Align(lipgloss.Center).Render(sb.String()))
}

func (m Model) submit() tea.Cmd {
	rated := RatedMsg{Timing: m.timing, Rating: m.Rating()}
	return func() tea.Msg { return rated }
}
