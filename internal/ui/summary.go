package ui

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// SummaryUI renders the dashboard view model in the terminal.
type SummaryUI struct {
	writer io.Writer
	quiet  bool
}

// NewSummaryUI creates a summary renderer. A quiet renderer prints nothing.
func NewSummaryUI(w io.Writer, quiet bool) *SummaryUI {
	return &SummaryUI{writer: w, quiet: quiet}
}

// PrintReport renders the boxed summary.
func (s *SummaryUI) PrintReport(r SummaryReport) {
	if s.quiet {
		return
	}

	var out strings.Builder
	out.WriteString(Success.Bold(true).Render("Dashboard UMKM Jawa Barat"))
	out.WriteString("\n")
	out.WriteString(Dim.Render(fmt.Sprintf("%s · tahun %d · %s", r.Source, r.SelectedYear, r.Scope)))
	out.WriteString("\n\n")

	out.WriteString(renderKPI(r.KPI))
	out.WriteString("\n\n")

	if r.YoY.Available {
		out.WriteString(renderYoY(r.YoY))
		out.WriteString("\n\n")
	}

	out.WriteString(SectionHeader.Render("Prioritas Kecamatan"))
	out.WriteString("\n")
	if len(r.Top) == 0 {
		out.WriteString(Dim.Render("Tidak ada kecamatan untuk filter ini."))
	} else {
		out.WriteString(PriorityTable(r.Top))
	}
	out.WriteString("\n\n")

	if len(r.Insights) > 0 {
		out.WriteString(SectionHeader.Render("Insight"))
		out.WriteString("\n")
		for _, line := range r.Insights {
			out.WriteString(GetBullet() + " " + line + "\n")
		}
		out.WriteString("\n")
	}

	out.WriteString(SectionHeader.Render("Rekomendasi"))
	out.WriteString("\n")
	out.WriteString(Highlight.Render(r.Choice))
	out.WriteString("\n")
	out.WriteString(r.Reason)
	if len(r.FocusAreas) > 0 {
		out.WriteString("\n")
		out.WriteString(FormatKeyValue("Wilayah fokus", strings.Join(r.FocusAreas, "; ")))
	}
	if r.Decision.Selected != "" {
		out.WriteString("\n")
		out.WriteString(FormatKeyValue("Kebijakan", fmt.Sprintf("%s (%.2f, %s, confidence %s)",
			Bold.Render(r.Decision.Selected), r.Decision.Score, r.Decision.Method, r.Decision.Confidence)))
		out.WriteString("\n")
		out.WriteString(Dim.Render(r.Decision.KeyInsight))
	}

	if len(r.Roles) > 0 {
		out.WriteString("\n\n")
		out.WriteString(renderRoles(r.Roles))
	}

	fmt.Fprintln(s.writer, SuccessBox.Render(out.String()))
}

// PrintPlain writes machine-readable lines without styling.
func (s *SummaryUI) PrintPlain(r SummaryReport) {
	k := r.KPI
	fmt.Fprintf(s.writer, "Scope: %s | Year: %d | Rows: %d | UMKM: %d | Workforce: %d\n",
		r.Scope, r.SelectedYear, k.Rows, k.TotalBusinesses, k.TotalWorkforce)
	fmt.Fprintf(s.writer, "Formal: %.1f%% | Digital: %.1f%% | Financing: %.1f%% | Revenue: %.2f\n",
		k.AvgFormalPct, k.AvgDigitalPct, k.AvgFinancingPct, k.TotalRevenue)
	if r.YoY.Available {
		fmt.Fprintf(s.writer, "YoY %d->%d | UMKM: %+.1f%% | Digital: %+.1f%%\n",
			r.YoY.PreviousYear, r.YoY.CurrentYear, r.YoY.BusinessGrowth, r.YoY.DigitalGrowth)
	}
	for _, p := range r.Top {
		fmt.Fprintf(s.writer, "Priority %d: %s, %s | Score: %.2f\n", p.Rank, p.SubDistrict, p.District, p.Score)
	}
	fmt.Fprintf(s.writer, "Recommendation: %s\n", r.Choice)
	if r.Decision.Selected != "" {
		fmt.Fprintf(s.writer, "Policy: %s | Score: %.2f | Confidence: %s\n", r.Decision.Selected, r.Decision.Score, r.Decision.Confidence)
	}
}

func renderKPI(k KPIView) string {
	var sb strings.Builder
	sb.WriteString(SectionHeader.Render("Ringkasan"))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Total UMKM", Bold.Render(FormatThousands(k.TotalBusinesses))))
	sb.WriteString("   ")
	sb.WriteString(FormatKeyValue("Tenaga kerja", FormatThousands(k.TotalWorkforce)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Formal", fmt.Sprintf("%.1f%%", k.AvgFormalPct)))
	sb.WriteString("   ")
	sb.WriteString(FormatKeyValue("Digital", fmt.Sprintf("%.1f%%", k.AvgDigitalPct)))
	sb.WriteString("   ")
	sb.WriteString(FormatKeyValue("Akses pembiayaan", fmt.Sprintf("%.1f%%", k.AvgFinancingPct)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Omzet tahunan", fmt.Sprintf("Rp %.1f M", k.TotalRevenue)))
	sb.WriteString("   ")
	sb.WriteString(FormatKeyValue("Rata-rata omzet bulanan", fmt.Sprintf("Rp %.1f jt", k.AvgMonthlyRevenue)))
	sb.WriteString("\n")
	sb.WriteString(Dim.Render(fmt.Sprintf("(%d baris data)", k.Rows)))
	return sb.String()
}

func renderYoY(y YoYView) string {
	var sb strings.Builder
	sb.WriteString(SectionHeader.Render(fmt.Sprintf("Perubahan %d → %d", y.PreviousYear, y.CurrentYear)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("UMKM", growth(y.BusinessGrowth)))
	sb.WriteString("   ")
	sb.WriteString(FormatKeyValue("Formal", growth(y.FormalGrowth)))
	sb.WriteString("   ")
	sb.WriteString(FormatKeyValue("Digital", growth(y.DigitalGrowth)))
	sb.WriteString("   ")
	sb.WriteString(FormatKeyValue("Omzet", growth(y.RevenueGrowth)))
	return sb.String()
}

func growth(v float64) string {
	s := fmt.Sprintf("%+.1f%%", v)
	switch {
	case v > 0:
		return Success.Render("▲ " + s)
	case v < 0:
		return Error.Render("▼ " + s)
	default:
		return Dim.Render(s)
	}
}

// PriorityTable renders ranked sub-districts as a bordered table.
func PriorityTable(rows []PriorityRow) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers("#", "Kecamatan", "Kab/Kota", "Tahun", "Sektor", "Skor").
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Foreground(ColorSecondary).Bold(true)
			case col == 5:
				return base.Foreground(scoreColor(rows[row].Score)).Align(lipgloss.Right)
			default:
				return base
			}
		})
	for _, r := range rows {
		t.Row(strconv.Itoa(r.Rank), r.SubDistrict, r.District, strconv.Itoa(r.Year), r.DominantSector, fmt.Sprintf("%.2f", r.Score))
	}
	return t.String()
}

func renderRoles(cards []RoleCard) string {
	var sb strings.Builder
	sb.WriteString(SectionHeader.Render("KPI per Peran"))
	current := ""
	for _, c := range cards {
		if c.Role != current {
			current = c.Role
			sb.WriteString("\n")
			sb.WriteString(Primary.Render(c.Role))
		}
		sb.WriteString("\n  ")
		sb.WriteString(FormatKeyValue(c.Label, c.Display))
	}
	return sb.String()
}

// scoreColor grades a 0-100 score.
func scoreColor(score float64) color.Color {
	switch {
	case score >= 60:
		return ColorError
	case score >= 40:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// FormatThousands groups digits with dots.
func FormatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
