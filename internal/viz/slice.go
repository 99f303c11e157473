// Package viz renders hub-height field slices in the terminal.
package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// density ramp from low to high values
const ramp = " .:-=+*#%@"

// SliceViewer pages between the predictor and corrected slice of one
// solve. Rows are y, columns are x.
type SliceViewer struct {
	title         string
	before, after [][]float64
	showCorrected bool
	width, height int
}

func NewSliceViewer(title string, before, after [][]float64) SliceViewer {
	return SliceViewer{
		title:  title,
		before: before,
		after:  after,
		width:  80,
		height: 24,
	}
}

func (m SliceViewer) Init() tea.Cmd {
	return nil
}

func (m SliceViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", " ":
			m.showCorrected = !m.showCorrected
		}
	}
	return m, nil
}

func (m SliceViewer) View() string {
	data := m.before
	label := "predictor"
	if m.showCorrected {
		data = m.after
		label = "corrected"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("showing: ") + valueStyle.Render(label))
	b.WriteString("\n\n")
	b.WriteString(renderHeatmap(data, m.width-4, m.height-7))
	b.WriteString(helpStyle.Render("tab: toggle predictor/corrected • q: quit"))
	return b.String()
}

func renderHeatmap(data [][]float64, maxW, maxH int) string {
	if len(data) == 0 || len(data[0]) == 0 {
		return "(no data)\n"
	}
	rows, cols := len(data), len(data[0])

	lo, hi := data[0][0], data[0][0]
	for _, row := range data {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	if maxW < 8 {
		maxW = 8
	}
	if maxH < 4 {
		maxH = 4
	}

	var b strings.Builder
	// walk rows top-down so +y points up
	for sy := maxH - 1; sy >= 0; sy-- {
		j := sy * rows / maxH
		for sx := 0; sx < maxW; sx++ {
			i := sx * cols / maxW
			v := (data[j][i] - lo) / span
			idx := int(v * float64(len(ramp)-1))
			b.WriteByte(ramp[idx])
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("min %.3f  max %.3f\n", lo, hi))
	return b.String()
}

// Run starts the viewer and blocks until the user quits.
func Run(m SliceViewer) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
