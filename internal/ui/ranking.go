package ui

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
)

const rankingBarWidth = 30

// RankingUI renders scored lists with a bar per entry.
type RankingUI struct {
	writer io.Writer
	quiet  bool
}

// NewRankingUI creates a ranking renderer.
func NewRankingUI(w io.Writer, quiet bool) *RankingUI {
	return &RankingUI{writer: w, quiet: quiet}
}

// PrintReport renders r boxed, highest score first as given.
func (u *RankingUI) PrintReport(r RankingReport) {
	if u.quiet {
		return
	}

	var sb strings.Builder
	sb.WriteString(Success.Bold(true).Render(r.Title))
	if r.Method != "" {
		sb.WriteString("\n")
		sb.WriteString(Dim.Render(r.Method))
	}
	sb.WriteString("\n")

	if len(r.Entries) == 0 {
		sb.WriteString("\n")
		sb.WriteString(Dim.Render("Tidak ada entri."))
	}
	for _, e := range r.Entries {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s %s", Primary.Render(fmt.Sprintf("#%d", e.Rank)), Highlight.Render(e.Label)))
		sb.WriteString("\n")
		sb.WriteString(FormatKeyValue("Skor", renderBar(e.Score, rankingBarWidth)+" "+renderScore(e.Score)))
		if e.Detail != "" {
			sb.WriteString("\n")
			sb.WriteString(Dim.Render(e.Detail))
		}
		for _, n := range e.Notes {
			sb.WriteString("\n  ")
			sb.WriteString(GetBullet() + " " + Dim.Render(n))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintln(u.writer, SuccessBox.Render(strings.TrimRight(sb.String(), "\n")))
}

// PrintPlain writes one line per entry.
func (u *RankingUI) PrintPlain(r RankingReport) {
	for _, e := range r.Entries {
		fmt.Fprintf(u.writer, "%d\t%s\t%.2f\n", e.Rank, e.Label, e.Score)
	}
}

// renderBar draws score (0-100) as a bar of the given width. Out-of-range
// scores are clamped.
func renderBar(score float64, width int) string {
	filled := int(clampScore(score) / 100 * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(scoreColor(score)).Render(bar)
}

func renderScore(score float64) string {
	return lipgloss.NewStyle().Foreground(scoreColor(score)).Render(fmt.Sprintf("%.2f", score))
}

func clampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	default:
		return s
	}
}
