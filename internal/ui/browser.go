package ui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
)

const browserHeight = 12

// browserModel is the Bubble Tea model for browsing priority sub-districts.
type browserModel struct {
	table    table.Model
	rows     []PriorityRow
	title    string
	detail    bool
	quitting  bool
	cancelled bool
}

// NewBrowser creates a browser over rows, in the order given.
func NewBrowser(title string, rows []PriorityRow) *browserModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Kecamatan", Width: 20},
		{Title: "Kab/Kota", Width: 20},
		{Title: "Tahun", Width: 6},
		{Title: "Skor", Width: 7},
		{Title: "Sektor", Width: 16},
	}

	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row{
			strconv.Itoa(r.Rank),
			r.SubDistrict,
			r.District,
			strconv.Itoa(r.Year),
			fmt.Sprintf("%.2f", r.Score),
			r.DominantSector,
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(browserHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Foreground(ColorSecondary)
	s.Selected = s.Selected.
		Foreground(ColorText).
		Background(ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	return &browserModel{table: t, rows: rows, title: title}
}

// Init initializes the model
func (m *browserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m, m.handleKey(msg.String())
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *browserModel) handleKey(k string) tea.Cmd {
	switch k {
	case "ctrl+c":
		m.cancelled = true
		m.quitting = true
		return tea.Quit
	case "esc", "q":
		m.quitting = true
		return tea.Quit
	case "enter", "d":
		m.detail = !m.detail
	case "up", "k":
		m.table.MoveUp(1)
	case "down", "j":
		m.table.MoveDown(1)
	case "home", "g":
		m.table.GotoTop()
	case "end", "G":
		m.table.GotoBottom()
	}
	return nil
}

// View renders the model
func (m *browserModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m *browserModel) render() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(1, 0).Render(m.title))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(Dim.Render("Tidak ada kecamatan untuk ditampilkan."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(Box.Render(m.table.View()))
		b.WriteString("\n")
		if m.detail {
			b.WriteString(renderDetail(m.rows[m.selected()]))
			b.WriteString("\n")
		}
	}

	b.WriteString(lipgloss.NewStyle().Foreground(ColorTextDim).Render("↑/↓: navigate · enter: detail · q: quit"))
	return b.String()
}

func (m *browserModel) selected() int {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rows) {
		return 0
	}
	return c
}

func renderDetail(r PriorityRow) string {
	var sb strings.Builder
	sb.WriteString(Highlight.Render(fmt.Sprintf("%s, %s (%d)", r.SubDistrict, r.District, r.Year)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Skor", renderScore(r.Score)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Kemiskinan", fmt.Sprintf("%.1f", r.Poverty)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Pengangguran", fmt.Sprintf("%.1f", r.Unemployment)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Kepadatan", fmt.Sprintf("%.1f", r.Density)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Kesiapan", fmt.Sprintf("%.1f", r.Readiness)))
	return Box.Render(sb.String())
}

// RunBrowser runs the interactive priority browser. It returns
// apperr.ErrCancelled when the user leaves with ctrl+c.
func RunBrowser(title string, rows []PriorityRow) error {
	m, err := tea.NewProgram(NewBrowser(title, rows)).Run()
	if err != nil {
		return err
	}
	if b, ok := m.(*browserModel); ok && b.cancelled {
		return apperr.ErrCancelled
	}
	return nil
}
