package reaction

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "dawn/internal/modules/session/dto"
	"dawn/internal/ui/theme"
)

const (
	DefaultDuration = 15 * time.Second

	minDelay      = 500 * time.Millisecond
	delaySpread   = 1000 * time.Millisecond
	feedbackDelay = 300 * time.Millisecond
	tickInterval  = 100 * time.Millisecond
)

// ─── messages ────────────────────────────────────────────────────────────────

// DoneMsg is emitted once when the test window closes.
type DoneMsg struct {
	Timing    string
	Reactions []sessiondto.ReactionInput
}

type stimulusMsg struct{ seq int }

type feedbackDoneMsg struct{ seq int }

type tickMsg struct{}

// ─── model ───────────────────────────────────────────────────────────────────

type state int

const (
	stateIdle state = iota
	stateWaiting
	stateReady
	stateTapped
	stateComplete
)

type Option func(*Model)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithDelay replaces the random pre-stimulus delay.
func WithDelay(delay func() time.Duration) Option {
	return func(m *Model) { m.delay = delay }
}

func WithDuration(d time.Duration) Option {
	return func(m *Model) { m.duration = d }
}

type Model struct {
	timing    string
	duration  time.Duration
	now       func() time.Time
	delay     func() time.Duration
	tap       key.Binding
	state     state
	seq       int
	startedAt time.Time
	shownAt   time.Time
	last      time.Duration
	early     bool
	reactions []sessiondto.ReactionInput
	width     int
	height    int
}

func New(timing string, opts ...Option) Model {
	m := Model{
		timing:   timing,
		duration: DefaultDuration,
		now:      time.Now,
		delay:    randomDelay,
		tap:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "tap")),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func randomDelay() time.Duration {
	return minDelay + rand.N(delaySpread)
}

func (m Model) Init() tea.Cmd { return nil }

// Reactions returns the taps recorded so far.
func (m Model) Reactions() []sessiondto.ReactionInput {
	return append([]sessiondto.ReactionInput(nil), m.reactions...)
}

func (m Model) Running() bool {
	return m.state != stateIdle && m.state != stateComplete
}

func (m Model) Done() bool { return m.state == stateComplete }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if !key.Matches(msg, m.tap) {
			return m, nil
		}
		switch m.state {
		case stateIdle:
			return m.start()
		case stateWaiting:
			m.early = true
		case stateReady:
			now := m.now()
			m.reactions = append(m.reactions, sessiondto.ReactionInput{
				StimulusShownAt: m.shownAt,
				RespondedAt:     now,
			})
			m.last = now.Sub(m.shownAt)
			m.early = false
			m.state = stateTapped
			seq := m.seq
			return m, tea.Tick(feedbackDelay, func(time.Time) tea.Msg { return feedbackDoneMsg{seq: seq} })
		}

	case stimulusMsg:
		if msg.seq != m.seq || m.state != stateWaiting {
			return m, nil
		}
		if m.expired() {
			return m.finish()
		}
		m.shownAt = m.now()
		m.state = stateReady

	case feedbackDoneMsg:
		if msg.seq != m.seq || m.state != stateTapped {
			return m, nil
		}
		if m.expired() {
			return m.finish()
		}
		return m.wait()

	case tickMsg:
		if !m.Running() {
			return m, nil
		}
		if m.expired() {
			return m.finish()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var body string
	switch m.state {
	case stateIdle:
		body = theme.Title.Render("Reaction test · "+m.timing) + "\n\n" +
			"Press space as soon as the block lights up.\n" +
			theme.Muted.Render("This measures how alert you are right now.") + "\n\n" +
			theme.Hot.Render("space: begin")
	case stateComplete:
		body = theme.Good.Render("Test complete") + "\n\n" +
			fmt.Sprintf("%d reactions recorded", len(m.reactions))
	default:
		body = theme.Muted.Render(fmt.Sprintf("time remaining: %ds", m.remainingSeconds())) + "\n\n"
		switch m.state {
		case stateReady:
			body += theme.Stimulus.Render("TAP!")
		case stateTapped:
			body += theme.Good.Render("Nice!")
		default:
			body += theme.Muted.Render("Wait…")
		}
		body += "\n\n"
		switch {
		case m.early:
			body += theme.Bad.Render("too early")
		case m.last > 0:
			body += fmt.Sprintf("%dms", m.last.Milliseconds())
		}
		body += "\n" + theme.Muted.Render(fmt.Sprintf("reactions: %d", len(m.reactions)))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Align(lipgloss.Center).Render(body))
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) start() (Model, tea.Cmd) {
	m.startedAt = m.now()
	m.reactions = nil
	m.last = 0
	m.early = false
	m, cmd := m.wait()
	return m, tea.Batch(cmd, tick())
}

func (m Model) wait() (Model, tea.Cmd) {
	m.state = stateWaiting
	m.seq++
	seq := m.seq
	return m, tea.Tick(m.delay(), func(time.Time) tea.Msg { return stimulusMsg{seq: seq} })
}

func (m Model) finish() (Model, tea.Cmd) {
	m.state = stateComplete
	m.seq++
	done := DoneMsg{Timing: m.timing, Reactions: m.Reactions()}
	return m, func() tea.Msg { return done }
}

func (m Model) expired() bool {
	return m.now().Sub(m.startedAt) >= m.duration
}

func (m Model) remainingSeconds() int {
	left := m.duration - m.now().Sub(m.startedAt)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}
