package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// AggregateUI renders aggregation tables.
type AggregateUI struct {
	writer io.Writer
	quiet  bool
}

// NewAggregateUI creates an aggregation renderer.
func NewAggregateUI(w io.Writer, quiet bool) *AggregateUI {
	return &AggregateUI{writer: w, quiet: quiet}
}

// PrintReport renders the groups of r as a table.
func (a *AggregateUI) PrintReport(r AggregateReport) {
	if a.quiet {
		return
	}
	if len(r.Groups) == 0 {
		fmt.Fprintln(a.writer, GetWarnMark()+" "+Dim.Render("Tidak ada data untuk filter ini."))
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers(strings.ToUpper(r.Dimension), "Tahun", "Kec.", "UMKM", "Tenaga Kerja", "Kepadatan", "Formal %", "Digital %", "Omzet (M)", "Sektor Dominan").
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Foreground(ColorSecondary).Bold(true)
			}
			if col >= 1 && col <= 8 {
				return base.Align(lipgloss.Right)
			}
			return base
		})
	for _, g := range r.Groups {
		t.Row(
			g.Label,
			strconv.Itoa(g.Year),
			strconv.Itoa(g.SubDistricts),
			FormatThousands(g.TotalBusinesses),
			FormatThousands(g.TotalWorkforce),
			fmt.Sprintf("%.1f", g.AvgDensity),
			fmt.Sprintf("%.1f", g.AvgFormalPct),
			fmt.Sprintf("%.1f", g.AvgDigitalPct),
			fmt.Sprintf("%.1f", g.TotalRevenue),
			g.DominantSector,
		)
	}

	fmt.Fprintln(a.writer, SectionHeader.Render(fmt.Sprintf("Agregasi per %s (%d kelompok)", r.Dimension, len(r.Groups))))
	fmt.Fprintln(a.writer, t.String())
}

// PrintPlain writes one tab-separated line per group.
func (a *AggregateUI) PrintPlain(r AggregateReport) {
	for _, g := range r.Groups {
		fmt.Fprintf(a.writer, "%s\t%d\t%d\t%d\t%.2f\t%.2f\t%s\n",
			g.Label, g.Year, g.SubDistricts, g.TotalBusinesses, g.AvgFormalPct, g.AvgDigitalPct, g.DominantSector)
	}
}
