package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sirsim/internal/dynamo"
)

var (
	Panel         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(0, 2)
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("#444466"))
	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	StatusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	StatusDone    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	MetricLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Width(20)
	MetricValue   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)
	KeyHint       = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)
)

// ProgressBar renders fraction in [0, 1] as a bar of the given width.
func ProgressBar(fraction float64, width int) string {
	filled := int(clamp01(fraction) * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(bar)
}

// SparklineChart renders values as a single row of block glyphs, keeping
// every n-th value so the row fits in width.
func SparklineChart(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	glyphs := []rune("▁▂▃▄▅▆▇█")

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	stride := max(len(values)/width, 1)

	var b strings.Builder
	for i := 0; i < width && i*stride < len(values); i++ {
		idx := int((values[i*stride] - lo) / span * float64(len(glyphs)-1))
		b.WriteRune(glyphs[min(max(idx, 0), len(glyphs)-1)])
	}
	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// StatePanel shows one state, each compartment in its theme color.
func StatePanel(t float64, x dynamo.State) string {
	row := func(label string, v float64, color lipgloss.Color) string {
		return MetricLabel.Render(label) +
			lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%.6f", v))
	}
	return strings.Join([]string{
		MetricLabel.Render("t") + MetricValue.Render(fmt.Sprintf("%.3f", t)),
		row("susceptible", x.S, CurrentTheme.Susceptible),
		row("infectious", x.I, CurrentTheme.Infectious),
		row("recovered", x.R, CurrentTheme.Recovered),
		MetricLabel.Render("s+i+r") + MetricValue.Render(fmt.Sprintf("%.9f", x.Sum())),
	}, "\n")
}

// MetricsPanel lists metrics sorted by name.
func MetricsPanel(metrics map[string]float64) string {
	if len(metrics) == 0 {
		return KeyHint.Render("(no metrics)")
	}

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = MetricLabel.Render(name) + MetricValue.Render(fmt.Sprintf("%.6g", metrics[name]))
	}
	return strings.Join(lines, "\n")
}

// Summary boxes a titled state and metrics panel for printing after a run.
func Summary(title string, res *dynamo.Result) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(title),
		StatePanel(res.Final.Time, res.Final.State),
		"",
		MetricsPanel(res.Metrics),
		"",
		KeyHint.Render(fmt.Sprintf("%d steps, %d samples", res.StepsTaken, len(res.Samples))),
	)
	return Panel.Render(body)
}
