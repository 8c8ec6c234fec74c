package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/esqet/internal/metrics"
)

var (
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Accent      lipgloss.Style
	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style
	StatusOK    lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusError lipgloss.Style
	Panel       lipgloss.Style
)

func init() {
	applyTheme(CurrentTheme)
}

func applyTheme(t Theme) {
	Title = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	Accent = lipgloss.NewStyle().Foreground(t.Accent)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Label)
	MetricValue = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	StatusOK = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	StatusWarn = lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
	StatusError = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
}

func Metric(label string, value string) string {
	return MetricLabel.Render(label+":") + " " + MetricValue.Render(value)
}

// SnapshotLine is the per-snapshot console report.
func SnapshotLine(s metrics.Stats, steps int) string {
	return fmt.Sprintf("%s %s  %s  %s",
		Subtle.Render(fmt.Sprintf("step %5d/%d", s.Step, steps)),
		Metric("min", fmt.Sprintf("%.4e", s.Min)),
		Metric("max", fmt.Sprintf("%.4e", s.Max)),
		Metric("mean", fmt.Sprintf("%.4e", s.Mean)))
}

// ProbeReport is the final report of the multiplier and source term at one point.
func ProbeReport(index int, x, coherence, source float64) string {
	return fmt.Sprintf("%s\n  %s\n  %s",
		Title.Render(fmt.Sprintf("probe i=%d (x=%.4f), last step", index, x)),
		Metric("coherence multiplier", fmt.Sprintf("%.4f", coherence)),
		Metric("source term", fmt.Sprintf("%.4e", source)))
}
