package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/sim"
)

const (
	canvasCols      = 48
	canvasRows      = 16
	historyCapacity = 600
	maxPerTick      = 256
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveModel integrates a trajectory while drawing it. Every tick pulls up to
// perTick samples; the trajectory is never rewound.
type LiveModel struct {
	ctx      context.Context
	tr       *sim.Trajectory
	title    string
	perTick  int
	running  bool
	showHelp bool
	history  []dynamo.Sample
	canvas   *Canvas
	err      error
}

func NewLiveModel(ctx context.Context, tr *sim.Trajectory, title string) LiveModel {
	return LiveModel{
		ctx:     ctx,
		tr:      tr,
		title:   title,
		perTick: 1,
		running: true,
		history: make([]dynamo.Sample, 0, historyCapacity),
		canvas:  NewCanvas(canvasCols, canvasRows),
	}
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.perTick = min(m.perTick*2, maxPerTick)
		case "-", "_":
			m.perTick = max(m.perTick/2, 1)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.tr.Done() {
			m.advance()
		}
		if m.tr.Done() {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) advance() {
	for range m.perTick {
		sample, ok := m.tr.Next(m.ctx)
		if !ok {
			m.err = m.tr.Err()
			return
		}
		m.history = append(m.history, sample)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
	}
}

// Err reports why the trajectory stopped early, if it did.
func (m LiveModel) Err() error { return m.err }

// Samples returns the retained tail of the trajectory.
func (m LiveModel) Samples() []dynamo.Sample { return m.history }

func (m LiveModel) status() string {
	switch {
	case m.err != nil:
		return StatusPaused.Render("STOPPED: " + m.err.Error())
	case m.tr.Done():
		return StatusDone.Render("DONE")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render(fmt.Sprintf("RUNNING x%d", m.perTick))
}

func (m LiveModel) drawPhase() string {
	m.canvas.Clear()

	xs := make([]float64, len(m.history))
	ys := make([]float64, len(m.history))
	imax := 0.0
	for k, sample := range m.history {
		xs[k], ys[k] = sample.State.S, sample.State.I
		imax = max(imax, sample.State.I)
	}
	m.canvas.Phase(xs, ys, imax*1.1)

	return lipgloss.NewStyle().Foreground(CurrentTheme.Infectious).Render(m.canvas.String()) +
		KeyHint.Render(fmt.Sprintf("s → (0..1)   i ↑ (0..%.3g)", imax*1.1))
}

func (m LiveModel) View() string {
	plan := m.tr.Plan()

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(m.title) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(StatePanel(m.tr.Time(), m.tr.State()) + "\n\n")
	s.WriteString(ProgressBar(m.tr.Time()/plan.MaxTime, 30) +
		KeyHint.Render(fmt.Sprintf(" %d steps", m.tr.StepsTaken())) + "\n\n")

	infectious := make([]float64, len(m.history))
	for k, sample := range m.history {
		infectious[k] = sample.State.I
	}
	s.WriteString(MetricLabel.Render("i") + SparklineChart(infectious, 24, CurrentTheme.Infectious) + "\n")

	if m.tr.Done() {
		s.WriteString("\n" + MetricsPanel(m.tr.Result(nil).Metrics) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause +/-:Speed T:Theme ?:Help Q:Quit"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.drawPhase()), statsStyle.Render(s.String()))
	if m.showHelp {
		help := Panel.Render(strings.Join([]string{
			"Space  pause or resume integration",
			"+ / -  double or halve samples per frame",
			"T      cycle themes (" + strings.Join(ThemeNames(), ", ") + ")",
			"?      toggle this help",
			"Q      quit",
		}, "\n"))
		return help + "\n" + view
	}
	return view
}

// RunLive runs the live view until the user quits. It returns the error that
// stopped the trajectory, if any.
func RunLive(ctx context.Context, tr *sim.Trajectory, title string) error {
	final, err := tea.NewProgram(NewLiveModel(ctx, tr, title), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if lm, ok := final.(LiveModel); ok {
		return lm.Err()
	}
	return nil
}
