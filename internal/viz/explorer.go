package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/numkit/internal/optim"
)

const (
	explorerMinWidth = 20
	plotRows         = 8
)

// Explorer is a Bubble Tea model that replays a 1D minimum search one
// bracket at a time. The first bracket fixes the plotted range.
type Explorer struct {
	title    string
	f        func(float64) float64
	brackets []optim.Bracket
	cursor   int
	width    int
	quitting bool
}

// NewExplorer returns an explorer over the recorded brackets. f may be nil,
// in which case no curve is drawn.
func NewExplorer(title string, f func(float64) float64, brackets []optim.Bracket) Explorer {
	return Explorer{
		title:    title,
		f:        f,
		brackets: brackets,
		width:    DefaultPlotWidth,
	}
}

// Cursor is the index of the bracket currently shown.
func (m Explorer) Cursor() int { return m.cursor }

// Current returns the bracket currently shown.
func (m Explorer) Current() (optim.Bracket, bool) {
	if len(m.brackets) == 0 {
		return optim.Bracket{}, false
	}
	return m.brackets[m.cursor], true
}

func (m Explorer) Init() tea.Cmd {
	return nil
}

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l", " ":
			if m.cursor < len(m.brackets)-1 {
				m.cursor++
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = max(len(m.brackets)-1, 0)
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-4, explorerMinWidth)
	}
	return m, nil
}

func (m Explorer) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title) + "\n\n")

	cur, ok := m.Current()
	if !ok {
		b.WriteString(Subtle.Render("no brackets recorded") + "\n")
		b.WriteString(KeyHint.Render("q quit") + "\n")
		return b.String()
	}
	full := m.brackets[0]

	if m.f != nil {
		c := NewCanvas(m.width, plotRows)
		c.PlotFunc(m.f, full.Lo, full.Hi)
		b.WriteString(c.String())
	}
	b.WriteString(NumberLine(full.Lo, full.Hi, cur.Lo, cur.Hi, m.width) + "\n\n")

	b.WriteString(KeyValue("iteration", fmt.Sprintf("%d/%d", m.cursor+1, len(m.brackets))) + "  ")
	b.WriteString(KeyValue("axis", fmt.Sprint(cur.Axis)) + "  ")
	b.WriteString(KeyValue("evaluations", fmt.Sprint(cur.Evaluations)) + "\n")
	b.WriteString(KeyValue("bracket", fmt.Sprintf("[%.6g, %.6g]", cur.Lo, cur.Hi)) + "  ")
	b.WriteString(KeyValue("width", fmt.Sprintf("%.3g", cur.Width())) + "\n")

	widths := make([]float64, m.cursor+1)
	for i := range widths {
		widths[i] = m.brackets[i].Width()
	}
	b.WriteString(MetricLabel.Render("width ") + SparklineChart(widths, min(len(widths), m.width)) + "\n\n")

	b.WriteString(KeyHint.Render("←/→ step  g/G first/last  q quit") + "\n")
	return b.String()
}

// NumberLine draws [lo, hi] as a ruler of the given width with the
// sub-interval [a, b] highlighted.
func NumberLine(lo, hi, a, b float64, width int) string {
	width = max(width, 3)
	c := &Canvas{Width: width}
	from := c.Column(a, lo, hi)
	to := c.Column(b, lo, hi)

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == from || i == to:
			sb.WriteString(BracketStyle.Render("┃"))
		case i > from && i < to:
			sb.WriteString(BracketStyle.Render("━"))
		case i == 0:
			sb.WriteString("├")
		case i == width-1:
			sb.WriteString("┤")
		default:
			sb.WriteString("─")
		}
	}
	return sb.String()
}

// RunExplorer runs the explorer on the terminal until the user quits.
func RunExplorer(m Explorer) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
