package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dawn/internal/ui/theme"
)

// PaletteSubmitMsg carries the completed command line.
type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

// Command is one entry the session palette understands. Args lists the
// accepted values of its single optional argument.
type Command struct {
	Name    string
	Args    []string
	Summary string
}

// Commands must stay in sync with executePalette in app/model.go.
var Commands = []Command{
	{Name: "start", Args: []string{"standard", "low_light", "gentle"}, Summary: "begin today's session"},
	{Name: "maintenance", Summary: "run the maintenance protocol"},
	{Name: "dashboard", Summary: "history and streak"},
	{Name: "skip-post-test", Summary: "finish without the second test"},
	{Name: "home", Summary: "back to context choice"},
	{Name: "quit", Summary: "leave dawn"},
}

const maxSuggestions = 6

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Sun).
			Background(theme.Dusk).
			Foreground(theme.Text).
			Padding(0, 1)

	suggestionStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
	selectedStyle   = lipgloss.NewStyle().Foreground(theme.Sun).Bold(true)
)

// Suggest completes a partial command line. Before the first space it
// offers command names; after it, the argument values of that command.
func Suggest(input string) []string {
	input = strings.ToLower(strings.TrimLeft(input, " "))
	name, arg, hasArg := strings.Cut(input, " ")
	var out []string
	if !hasArg {
		for _, c := range Commands {
			if strings.HasPrefix(c.Name, name) {
				out = append(out, c.Name)
			}
		}
		return out
	}
	arg = strings.TrimSpace(arg)
	for _, c := range Commands {
		if c.Name != name {
			continue
		}
		for _, a := range c.Args {
			if strings.HasPrefix(a, arg) {
				out = append(out, c.Name+" "+a)
			}
		}
	}
	return out
}

// Palette is the ":" overlay. tab cycles through suggestions; enter submits
// the line, expanding a command prefix that matches exactly one command.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	cursor  int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "start low_light"
	ti.CharLimit = 64
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open clears the line and focuses the input.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.cursor = 0
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			line := expand(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case "tab":
			if s := Suggest(p.input.Value()); len(s) > 0 {
				p.input.SetValue(s[p.cursor%len(s)])
				p.input.CursorEnd()
				p.cursor++
			}
			return p, nil
		}
		p.cursor = 0
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	suggestions := Suggest(p.input.Value())
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(suggestions) > 0 {
		sb.WriteString("\n")
	}
	for i, s := range suggestions {
		line := "  " + s
		if summary := summaryFor(s); summary != "" {
			line += "  " + theme.Muted.Render(summary)
		}
		if p.cursor > 0 && i == (p.cursor-1)%len(suggestions) {
			sb.WriteString(selectedStyle.Render(line) + "\n")
			continue
		}
		sb.WriteString(suggestionStyle.Render(line) + "\n")
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

func (p *Palette) close() {
	p.visible = false
	p.cursor = 0
	p.input.Blur()
}

// expand turns "dash" into "dashboard" when the prefix is unambiguous.
func expand(line string) string {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(line, " ")
	if name == "" {
		return ""
	}
	var hit string
	for _, c := range Commands {
		if c.Name == name {
			return line
		}
		if strings.HasPrefix(c.Name, name) {
			if hit != "" {
				return line
			}
			hit = c.Name
		}
	}
	if hit == "" {
		return line
	}
	return strings.TrimSpace(hit + " " + strings.TrimSpace(rest))
}

func summaryFor(suggestion string) string {
	if strings.Contains(suggestion, " ") {
		return ""
	}
	for _, c := range Commands {
		if c.Name == suggestion {
			return c.Summary
		}
	}
	return ""
}
