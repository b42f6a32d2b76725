package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	billingdto "dawn/internal/modules/billing/dto"
	protocoldto "dawn/internal/modules/protocol/dto"
	sessiondto "dawn/internal/modules/session/dto"
	apperrors "dawn/internal/platform/errors"
	"dawn/internal/ui/components"
	"dawn/internal/ui/theme"
	dashboardview "dawn/internal/ui/views/dashboard"
	energyview "dawn/internal/ui/views/energy"
	homeview "dawn/internal/ui/views/home"
	playerview "dawn/internal/ui/views/player"
	reactionview "dawn/internal/ui/views/reaction"
	resultsview "dawn/internal/ui/views/results"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	Start(ctx context.Context, ownerID, deviceID, mode string, wake *time.Time, acceptMaintenance bool) (sessiondto.StartOutput, error)
	RecordReactions(ctx context.Context, ownerID, sessionID, timing string, reactions []sessiondto.ReactionInput) (sessiondto.RecordTestOutput, error)
	RecordEnergy(ctx context.Context, ownerID, sessionID, timing string, rating int) (sessiondto.SessionOutput, error)
	Complete(ctx context.Context, ownerID, sessionID string) (sessiondto.CompleteOutput, error)
	GetActive(ctx context.Context, ownerID string) (sessiondto.SessionOutput, error)
	Dashboard(ctx context.Context, ownerID string) (sessiondto.DashboardOutput, error)
}

type protocolPort interface {
	Preview(ctx context.Context, mode string, dayIndex int, deltas []int, maintenance bool) (protocoldto.ProtocolOutput, error)
}

type billingPort interface {
	Show(ctx context.Context, ownerID string) billingdto.EntitlementOutput
}

// ─── stages ──────────────────────────────────────────────────────────────────

type stage int

const (
	stageHome stage = iota
	stagePaywall
	stagePreTest
	stagePreEnergy
	stagePlayer
	stagePostTest
	stagePostEnergy
	stageResults
	stageDashboard
)

var stageLabels = map[stage]string{
	stageHome:       "Today",
	stagePaywall:    "Trial ended",
	stagePreTest:    "Pre test",
	stagePreEnergy:  "Energy",
	stagePlayer:     "Protocol",
	stagePostTest:   "Post test",
	stagePostEnergy: "Energy",
	stageResults:    "Results",
	stageDashboard:  "Progress",
}

// ─── async messages ───────────────────────────────────────────────────────────

type activeLoadedMsg struct {
	active sessiondto.SessionOutput
	err    error
}

type progressLoadedMsg struct {
	dashboard sessiondto.DashboardOutput
	err       error
}

type entitlementLoadedMsg struct {
	entitlement billingdto.EntitlementOutput
}

type sessionStartedMsg struct {
	out  sessiondto.StartOutput
	mode string
	err  error
}

type testRecordedMsg struct {
	timing string
	out    sessiondto.RecordTestOutput
	err    error
}

type energyRecordedMsg struct {
	timing string
	rating int
	err    error
}

type sessionCompletedMsg struct {
	out sessiondto.CompleteOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Help        key.Binding
	Palette     key.Binding
	Quit        key.Binding
	Enter       key.Binding
	Dashboard   key.Binding
	Maintenance key.Binding
	SkipPost    key.Binding
	Back        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:     key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start / continue")),
		Dashboard:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "progress")),
		Maintenance: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "maintenance protocol")),
		SkipPost:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip post test")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Dashboard, k.Back},
		{k.Maintenance, k.SkipPost},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the stage machine for one
// morning session, the global help overlay, and the command palette. All
// business logic is delegated to port interfaces; rendering to sub-views.
type Model struct {
	ownerID  string
	deviceID string
	now      func() time.Time

	session  sessionPort
	protocol protocolPort
	billing  billingPort

	homeView      homeview.Model
	reactionView  reactionview.Model
	energyView    energyview.Model
	playerView    playerview.Model
	resultsView   resultsview.Model
	dashboardView dashboardview.Model
	reactionOpts  []reactionview.Option

	stage       stage
	start       sessiondto.StartOutput
	sessionID   string
	mode        string
	maintenance bool
	energyPre   int
	energyPost  int
	plan        string
	dayIndex    int
	programDays int

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(ownerID, deviceID string, session sessionPort, protocol protocolPort, billing billingPort) Model {
	return Model{
		ownerID:       ownerID,
		deviceID:      deviceID,
		now:           time.Now,
		session:       session,
		protocol:      protocol,
		billing:       billing,
		homeView:      homeview.New(protocol),
		dashboardView: dashboardview.New(dashboardPortBridge{p: session, ownerID: ownerID}),
		stage:         stageHome,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.homeView.Init(),
		m.loadActiveCmd(),
		m.loadProgressCmd(),
		m.loadEntitlementCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case activeLoadedMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, apperrors.ErrNoActiveSession) {
				m.status = "active session check: " + msg.err.Error()
			}
			return m, nil
		}
		return m.resume(msg.active)

	case progressLoadedMsg:
		if msg.err != nil {
			m.status = "progress: " + msg.err.Error()
			return m, nil
		}
		m.dayIndex = msg.dashboard.DayIndex
		m.programDays = msg.dashboard.ProgramDays
		return m, m.homeView.SetProgress(msg.dashboard.DayIndex, msg.dashboard.RecentDeltas)

	case entitlementLoadedMsg:
		m.plan = msg.entitlement.Plan
		return m, nil

	case sessionStartedMsg:
		switch {
		case errors.Is(msg.err, apperrors.ErrUpgradeRequired):
			m.mode = msg.mode
			m.stage = stagePaywall
			m.status = "free sessions used up"
			return m, nil
		case msg.err != nil:
			m.status = "session start failed: " + msg.err.Error()
			return m, nil
		}
		m.start = msg.out
		m.sessionID = msg.out.SessionID
		m.mode = msg.mode
		m.maintenance = msg.out.Protocol.Maintenance
		m.plan = msg.out.Plan
		m.dayIndex = msg.out.DayIndex
		m.programDays = msg.out.ProgramDays
		m.energyPre, m.energyPost = 0, 0
		m.status = "session started: " + msg.out.Protocol.Name
		return m.enterTest("pre")

	case reactionview.DoneMsg:
		if len(msg.Reactions) == 0 {
			m.status = "no reactions recorded, try again"
			return m.enterTest(msg.Timing)
		}
		m.status = fmt.Sprintf("scoring %d reactions…", len(msg.Reactions))
		return m, m.recordTestCmd(msg.Timing, msg.Reactions)

	case testRecordedMsg:
		if msg.err != nil {
			m.status = msg.timing + " test failed: " + msg.err.Error()
			return m.enterTest(msg.timing)
		}
		m.status = fmt.Sprintf("%s score %d (median %dms)", msg.timing, msg.out.Score, msg.out.MedianMS)
		return m.enterEnergy(msg.timing)

	case energyview.RatedMsg:
		return m, m.recordEnergyCmd(msg.Timing, msg.Rating)

	case energyRecordedMsg:
		if msg.err != nil {
			m.status = "energy: " + msg.err.Error()
			return m, nil
		}
		if msg.timing == "pre" {
			m.energyPre = msg.rating
			m.stage = stagePlayer
			m.playerView = playerview.New(m.start.Protocol)
			m.playerView, _ = m.playerView.Update(m.subViewSize())
			return m, m.playerView.Init()
		}
		m.energyPost = msg.rating
		return m, m.completeCmd()

	case playerview.FinishedMsg:
		if msg.Skipped > 0 {
			m.status = fmt.Sprintf("protocol finished (%d skipped)", msg.Skipped)
		} else {
			m.status = "protocol finished"
		}
		return m.enterTest("post")

	case sessionCompletedMsg:
		if msg.err != nil {
			m.status = "complete failed: " + msg.err.Error()
			return m, nil
		}
		m.sessionID = ""
		m.stage = stageResults
		m.resultsView = resultsview.New(resultsview.Summary{
			Complete:    msg.out,
			Maintenance: m.maintenance,
			EnergyPre:   m.energyPre,
			EnergyPost:  m.energyPost,
		})
		m.resultsView, _ = m.resultsView.Update(m.subViewSize())
		m.status = "session complete"
		return m, m.loadProgressCmd()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		}

		if model, cmd, handled := m.stageKey(msg); handled {
			return model, cmd
		}
	}

	return m.updateStage(msg)
}

// stageKey handles keys that move between stages.
func (m Model) stageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch m.stage {
	case stageHome:
		switch {
		case key.Matches(msg, m.keys.Enter):
			return m, m.startSessionCmd(m.homeView.SelectedContext(), false), true
		case key.Matches(msg, m.keys.Dashboard):
			model, cmd := m.enterDashboard()
			return model, cmd, true
		}
	case stagePaywall:
		switch {
		case key.Matches(msg, m.keys.Maintenance), key.Matches(msg, m.keys.Enter):
			return m, m.startSessionCmd(m.mode, true), true
		case key.Matches(msg, m.keys.Back):
			m.stage = stageHome
			return m, nil, true
		}
	case stagePostTest:
		if !m.reactionView.Running() && !m.reactionView.Done() && key.Matches(msg, m.keys.SkipPost) {
			m.status = "post test skipped"
			return m, m.completeCmd(), true
		}
	case stageResults:
		switch {
		case key.Matches(msg, m.keys.Enter):
			m.stage = stageHome
			return m, nil, true
		case key.Matches(msg, m.keys.Dashboard):
			model, cmd := m.enterDashboard()
			return model, cmd, true
		}
	case stageDashboard:
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Enter) {
			m.stage = stageHome
			return m, nil, true
		}
	}
	return m, nil, false
}

// updateStage propagates a message to the active stage's sub-view.
func (m Model) updateStage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.stage {
	case stageHome:
		m.homeView, cmd = m.homeView.Update(msg)
	case stagePreTest, stagePostTest:
		m.reactionView, cmd = m.reactionView.Update(msg)
	case stagePreEnergy, stagePostEnergy:
		m.energyView, cmd = m.energyView.Update(msg)
	case stagePlayer:
		m.playerView, cmd = m.playerView.Update(msg)
	case stageResults:
		m.resultsView, cmd = m.resultsView.Update(msg)
	case stageDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	default:
		// Home keeps its preview spinner and async loads running while
		// the paywall is shown.
		if _, ok := msg.(tea.KeyMsg); !ok {
			m.homeView, cmd = m.homeView.Update(msg)
		}
	}
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView(contentH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) activeView(height int) string {
	switch m.stage {
	case stageHome:
		return m.homeView.View()
	case stagePaywall:
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, m.renderPaywall())
	case stagePreTest, stagePostTest:
		view := m.reactionView.View()
		if m.stage == stagePostTest && !m.reactionView.Running() && !m.reactionView.Done() {
			view += "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, theme.Muted.Render("s: skip post test"))
		}
		return view
	case stagePreEnergy, stagePostEnergy:
		return m.energyView.View()
	case stagePlayer:
		return m.playerView.View()
	case stageResults:
		return m.resultsView.View()
	case stageDashboard:
		return m.dashboardView.View()
	}
	return ""
}

func (m Model) renderHeader() string {
	day := ""
	if m.programDays > 0 {
		day = fmt.Sprintf("Day %d of %d", min(m.dayIndex+1, m.programDays), m.programDays)
	}
	bar := theme.Hot.Render("dawn") + "  " + theme.Title.Render(stageLabels[m.stage])
	if day != "" {
		bar += theme.Muted.Render("  │  " + day)
	}
	return lipgloss.NewStyle().Background(theme.Dusk).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.sessionID != "" {
		label := m.start.Protocol.Name
		if label == "" {
			label = "session " + shortID(m.sessionID)
		}
		left = theme.Hot.Render("● "+label) + "  " + left
	}
	right := theme.Muted.Render("plan: " + orDash(m.plan) + "  ?:help  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Dusk).Width(m.width).Render(bar)
}

func (m Model) renderPaywall() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Your free trial has ended") + "\n\n")
	sb.WriteString("You've completed the free days of the protocol.\n")
	sb.WriteString("Subscribe to keep full sessions and track all 14 days,\n")
	sb.WriteString("or continue today with the short maintenance protocol.\n\n")
	sb.WriteString(theme.Hot.Render("m: continue with maintenance") + "   " + theme.Muted.Render("esc: back"))
	return theme.PaneActive.Render(sb.String())
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "start":
		if m.sessionID != "" {
			m.status = "a session is already running"
			return m, nil
		}
		mode := m.homeView.SelectedContext()
		if len(parts) >= 2 {
			mode = parts[1]
		}
		return m, m.startSessionCmd(mode, false)

	case "maintenance":
		if m.sessionID != "" {
			m.status = "a session is already running"
			return m, nil
		}
		mode := m.mode
		if mode == "" {
			mode = m.homeView.SelectedContext()
		}
		return m, m.startSessionCmd(mode, true)

	case "dashboard":
		return m.enterDashboard()

	case "skip-post-test":
		if m.sessionID == "" {
			m.status = "no active session"
			return m, nil
		}
		m.status = "post test skipped"
		return m, m.completeCmd()

	case "home":
		if m.sessionID != "" {
			m.status = "finish the running session first"
			return m, nil
		}
		m.stage = stageHome
		return m, nil

	case "quit":
		return m, tea.Quit

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── stage transitions ───────────────────────────────────────────────────────

func (m Model) enterTest(timing string) (tea.Model, tea.Cmd) {
	m.stage = stagePreTest
	if timing == "post" {
		m.stage = stagePostTest
	}
	m.reactionView = reactionview.New(timing, m.reactionOpts...)
	m.reactionView, _ = m.reactionView.Update(m.subViewSize())
	return m, nil
}

func (m Model) enterEnergy(timing string) (tea.Model, tea.Cmd) {
	m.stage = stagePreEnergy
	if timing == "post" {
		m.stage = stagePostEnergy
	}
	m.energyView = energyview.New(timing)
	m.energyView, _ = m.energyView.Update(m.subViewSize())
	return m, nil
}

func (m Model) enterDashboard() (tea.Model, tea.Cmd) {
	m.stage = stageDashboard
	cmd := m.dashboardView.Reload()
	m.dashboardView, _ = m.dashboardView.Update(m.subViewSize())
	return m, cmd
}

// resume picks up a session left open by an earlier run. The protocol is
// not recoverable from the stored session, so resumption jumps past the
// player once the pre test is done.
func (m Model) resume(active sessiondto.SessionOutput) (tea.Model, tea.Cmd) {
	m.sessionID = active.SessionID
	m.mode = active.Context
	m.maintenance = active.Maintenance
	m.dayIndex = active.DayIndex
	m.status = "session recovered: " + active.ProtocolID
	if active.EnergyPre != nil {
		m.energyPre = *active.EnergyPre
	}
	switch {
	case active.PreScore == nil:
		return m.enterTest("pre")
	case active.EnergyPre == nil:
		return m.enterEnergy("pre")
	case active.PostScore == nil:
		return m.enterTest("post")
	default:
		return m.enterEnergy("post")
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.width, Height: max(m.height-4, 1)}
}

func (m *Model) propagateSize() {
	sz := m.subViewSize()
	m.homeView, _ = m.homeView.Update(sz)
	m.reactionView, _ = m.reactionView.Update(sz)
	m.energyView, _ = m.energyView.Update(sz)
	m.playerView, _ = m.playerView.Update(sz)
	m.resultsView, _ = m.resultsView.Update(sz)
	m.dashboardView, _ = m.dashboardView.Update(sz)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		active, err := m.session.GetActive(context.Background(), m.ownerID)
		return activeLoadedMsg{active: active, err: err}
	}
}

func (m Model) loadProgressCmd() tea.Cmd {
	return func() tea.Msg {
		d, err := m.session.Dashboard(context.Background(), m.ownerID)
		return progressLoadedMsg{dashboard: d, err: err}
	}
}

func (m Model) loadEntitlementCmd() tea.Cmd {
	if m.billing == nil {
		return nil
	}
	return func() tea.Msg {
		return entitlementLoadedMsg{entitlement: m.billing.Show(context.Background(), m.ownerID)}
	}
}

func (m Model) startSessionCmd(mode string, acceptMaintenance bool) tea.Cmd {
	wake := m.now()
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), m.ownerID, m.deviceID, mode, &wake, acceptMaintenance)
		return sessionStartedMsg{out: out, mode: mode, err: err}
	}
}

func (m Model) recordTestCmd(timing string, reactions []sessiondto.ReactionInput) tea.Cmd {
	sessionID := m.sessionID
	return func() tea.Msg {
		out, err := m.session.RecordReactions(context.Background(), m.ownerID, sessionID, timing, reactions)
		return testRecordedMsg{timing: timing, out: out, err: err}
	}
}

func (m Model) recordEnergyCmd(timing string, rating int) tea.Cmd {
	sessionID := m.sessionID
	return func() tea.Msg {
		_, err := m.session.RecordEnergy(context.Background(), m.ownerID, sessionID, timing, rating)
		return energyRecordedMsg{timing: timing, rating: rating, err: err}
	}
}

func (m Model) completeCmd() tea.Cmd {
	sessionID := m.sessionID
	return func() tea.Msg {
		out, err := m.session.Complete(context.Background(), m.ownerID, sessionID)
		return sessionCompletedMsg{out: out, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type dashboardPortBridge struct {
	p       sessionPort
	ownerID string
}

func (b dashboardPortBridge) Dashboard(ctx context.Context) (sessiondto.DashboardOutput, error) {
	return b.p.Dashboard(ctx, b.ownerID)
}
