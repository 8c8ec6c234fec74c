package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/metrics"
	"github.com/san-kum/esqet/internal/viz"
)

type mode int

const (
	modeProfile mode = iota
	modeHeatmap
	modeTrend
)

// Browser steps through the snapshots of one run.
type Browser struct {
	title   string
	x       []float64
	history dynamo.History
	cursor  int
	mode    mode

	width  int
	height int
}

func NewBrowser(title string, x []float64, history dynamo.History) Browser {
	return Browser{
		title:   title,
		x:       x,
		history: history,
		width:   80,
		height:  24,
	}
}

func (m Browser) Init() tea.Cmd { return nil }

func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n":
			if m.cursor < len(m.history)-1 {
				m.cursor++
			}
		case "left", "h", "p":
			if m.cursor > 0 {
				m.cursor--
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			if len(m.history) > 0 {
				m.cursor = len(m.history) - 1
			}
		case "tab", "v":
			m.mode = (m.mode + 1) % 3
		}
	}
	return m, nil
}

// Cursor is the index of the snapshot on screen.
func (m Browser) Cursor() int { return m.cursor }

func (m Browser) View() string {
	var sb strings.Builder
	sb.WriteString(viz.Title.Render(m.title))
	sb.WriteString("\n\n")

	if len(m.history) == 0 {
		sb.WriteString(viz.Subtle.Render("no snapshots recorded"))
		sb.WriteString("\n")
		return sb.String()
	}

	snap := m.history[m.cursor]
	st := metrics.Summarize(snap)
	header := viz.MetricValue.Render(fmt.Sprintf("snapshot %d/%d", m.cursor+1, len(m.history))) +
		viz.Subtle.Render(fmt.Sprintf("  step %d  t=%.4e", snap.Step, snap.Time)) + "\n" +
		fmt.Sprintf("%s  %s  %s",
			viz.Metric("min", fmt.Sprintf("%.4e", st.Min)),
			viz.Metric("max", fmt.Sprintf("%.4e", st.Max)),
			viz.Metric("mean", fmt.Sprintf("%.4e", st.Mean)))
	sb.WriteString(viz.Panel.Render(header))
	sb.WriteString("\n\n")

	plotW := m.width - 12
	if plotW < 20 {
		plotW = 20
	}
	plotH := m.height - 12
	if plotH < 5 {
		plotH = 5
	}

	switch m.mode {
	case modeProfile:
		sb.WriteString(viz.Profile(m.x, snap, plotW, plotH, "field vs position"))
	case modeHeatmap:
		sb.WriteString(viz.Heatmap(m.x, m.history[:m.cursor+1], plotW))
	case modeTrend:
		sb.WriteString(viz.Trend(m.history[:m.cursor+1], plotW, plotH))
	}

	sb.WriteString("\n\n")
	sb.WriteString(viz.Accent.Render("←/→") + viz.Subtle.Render(" step  ") +
		viz.Accent.Render("tab") + viz.Subtle.Render(" view  ") +
		viz.Accent.Render("q") + viz.Subtle.Render(" quit"))
	sb.WriteString("\n")
	return sb.String()
}

func Run(title string, x []float64, history dynamo.History) error {
	p := tea.NewProgram(NewBrowser(title, x, history))
	_, err := p.Run()
	return err
}
