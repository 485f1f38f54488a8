package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/repograph/pkg/analysis"
	pkgio "github.com/matzehuels/repograph/pkg/io"
)

// List styles
var (
	listSelectedStyle  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	listTabStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	listInactiveStyle  = lipgloss.NewStyle().Foreground(colorGray)
	listDimStyle       = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listViolationStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// ReportModel - Interactive report browser
// =============================================================================

type reportTab int

const (
	tabViolations reportTab = iota
	tabCycles
)

// ReportModel is the bubbletea model for browsing the violations and
// cycles of a run report.
type ReportModel struct {
	Report *pkgio.Report
	Tab    reportTab
	Cursor int
	Offset int
	Height int
}

// NewReportModel creates a report browser starting on the violations tab.
func NewReportModel(r *pkgio.Report) ReportModel {
	return ReportModel{Report: r, Height: 15}
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "left", "right", "h", "l":
			if m.Tab == tabViolations {
				m.Tab = tabCycles
			} else {
				m.Tab = tabViolations
			}
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.len()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := m.len(); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ReportModel) len() int {
	if m.Tab == tabCycles {
		return len(m.Report.Cycles)
	}
	return len(m.Report.Violations)
}

func (m ReportModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Run " + m.Report.RunID))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(formatRelativeTime(m.Report.CreatedAt, time.Now())))
	b.WriteString("\n")

	violations := fmt.Sprintf("Violations (%d)", len(m.Report.Violations))
	cycles := fmt.Sprintf("Cycles (%d)", len(m.Report.Cycles))
	if m.Tab == tabViolations {
		b.WriteString(listTabStyle.Render(violations) + "  " + listInactiveStyle.Render(cycles))
	} else {
		b.WriteString(listInactiveStyle.Render(violations) + "  " + listTabStyle.Render(cycles))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab switch  q quit"))
	b.WriteString("\n\n")

	if m.len() == 0 {
		b.WriteString(listDimStyle.Render("  nothing to show"))
		return b.String()
	}

	end := min(m.Offset+m.Height, m.len())
	var headers []string
	var rows [][]string
	if m.Tab == tabCycles {
		headers = cycleHeaders
		rows = cycleRows(m.Report.Cycles[m.Offset:end], m.Offset)
	} else {
		headers = violationHeaders
		rows = violationRows(m.Report.Violations[m.Offset:end])
	}
	b.WriteString(renderTable(headers, rows, m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.len())))
	if m.Tab == tabCycles && m.Report.CyclesTruncated {
		b.WriteString(StyleWarning.Render("  search stopped early"))
	}

	return b.String()
}

// =============================================================================
// Tables
// =============================================================================

var (
	violationHeaders = []string{"Source", "I", "Destination", "I"}
	cycleHeaders     = []string{"#", "Length", "Cycle"}

	// instabilityCols marks the violation columns holding instability values.
	instabilityCols = map[int]bool{1: true, 3: true}
)

func violationRows(vs []analysis.Violation) [][]string {
	rows := make([][]string, len(vs))
	for i, v := range vs {
		rows[i] = []string{
			v.Source,
			analysis.FormatInstability(v.SourceInst),
			v.Destination,
			analysis.FormatInstability(v.DestInst),
		}
	}
	return rows
}

func cycleRows(cs []analysis.Cycle, offset int) [][]string {
	rows := make([][]string, len(cs))
	for i, c := range cs {
		rows[i] = []string{strconv.Itoa(offset + i + 1), strconv.Itoa(c.Len()), c.String()}
	}
	return rows
}

// renderTable draws rows with the row at index current highlighted; pass
// -1 for no highlight.
func renderTable(headers []string, rows [][]string, current int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return listHeaderStyle
			case row == current:
				return listSelectedStyle
			case instabilityCols[col] && len(headers) == len(violationHeaders):
				return listViolationStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
