package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/lelesmart/internal/expert"
)

const (
	certaintyLabel = "Tingkat Kepastian"
	barWidth       = 24
)

// Card titles, as shown on the assessment form.
const (
	SeedCardTitle  = "Kondisi Bibit"
	PondCardTitle  = "Kondisi Kolam"
	FinalCardTitle = "Rekomendasi Akhir"
)

// FormatCF renders a certainty factor as a percentage with one decimal.
func FormatCF(cf float64) string {
	return fmt.Sprintf("%.1f%%", cf*100)
}

// CFColor picks the band color for a certainty factor: at least 0.8 is
// success, 0.6 info, 0.4 warning, anything lower error.
func CFColor(cf float64) lipgloss.Color {
	switch {
	case cf >= 0.8:
		return SuccessColor
	case cf >= 0.6:
		return InfoColor
	case cf >= 0.4:
		return WarningColor
	default:
		return ErrorColor
	}
}

// RenderConfidenceBar draws a fixed-width bar filled in proportion to cf.
func RenderConfidenceBar(cf float64) string {
	cf = math.Max(0, math.Min(1, cf))
	filled := int(math.Round(cf * barWidth))
	bar := lipgloss.NewStyle().Foreground(CFColor(cf)).Render(strings.Repeat("█", filled))
	return bar + SubtleStyle.Render(strings.Repeat("░", barWidth-filled))
}

// RenderResultCard renders one stage result: the title, the label in the
// band color and the certainty line.
func RenderResultCard(title, label string, cf float64) string {
	color := CFColor(cf)
	body := lipgloss.JoinVertical(lipgloss.Left,
		BoldStyle.Render(title),
		"",
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(label),
		SubtleStyle.Render(certaintyLabel+": "+FormatCF(cf)),
		RenderConfidenceBar(cf),
	)
	return CardStyle.BorderForeground(color).Render(body)
}

// RenderOutcome renders the seed and pond cards side by side above the final
// recommendation. With explain set, the rule fired by each stage is listed.
func RenderOutcome(o expert.Outcome, explain bool) string {
	stages := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderResultCard(SeedCardTitle, o.Seed.Status.Label(), o.Seed.Confidence),
		" ",
		RenderResultCard(PondCardTitle, o.Pond.Status.Label(), o.Pond.Confidence),
	)
	parts := []string{
		stages,
		RenderResultCard(FinalCardTitle, o.Final.Status.Label(), o.Final.Confidence),
	}

	if explain {
		parts = append(parts, renderTrace(o.Trace))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderTrace(trace []string) string {
	stages := []string{"seed", "pond", "final"}
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render("Rules fired"))
	for i, name := range trace {
		stage := "stage"
		if i < len(stages) {
			stage = stages[i]
		}
		if name == expert.FallbackRule {
			name = WarningStyle.Render(name + " (fallback)")
		}
		fmt.Fprintf(&b, "\n  %-6s %s", stage, name)
	}
	return b.String()
}
