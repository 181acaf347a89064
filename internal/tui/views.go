package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/lelesmart/internal/cli"
)

// View implements tea.Model.
func (f Form) View() string {
	if f.done || f.aborted {
		return ""
	}

	var body string
	if f.reviewing() {
		body = f.renderReview()
	} else {
		body = f.renderStep(f.steps[f.current])
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		f.theme.Title.Render(cli.FishIcon+" Analisis Lele"),
		f.renderProgress(),
		f.theme.Box.Render(body),
		f.help.View(f.keymap),
	)
}

func (f Form) renderProgress() string {
	if f.reviewing() {
		return f.theme.Subtitle.Render("Ringkasan")
	}
	return f.theme.Subtitle.Render(fmt.Sprintf("%s · langkah %d dari %d",
		f.steps[f.current].section, f.current+1, len(f.steps)))
}

func (f Form) renderStep(s step) string {
	var b strings.Builder
	b.WriteString(f.theme.Normal.Bold(true).Render(s.title))
	b.WriteString("\n\n")

	if s.isText() {
		b.WriteString(f.temperature.View())
		if f.err != "" {
			b.WriteString("\n\n" + f.theme.Error.Render(f.err))
		}
		return b.String()
	}

	for i, c := range s.choices {
		line := fmt.Sprintf("  %s %s", c.label, f.theme.Muted.Render("("+c.hint+")"))
		if i == s.cursor {
			line = f.theme.Selected.Render("› "+c.label) + " " + f.theme.Muted.Render("("+c.hint+")")
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f Form) renderReview() string {
	in := f.input
	rows := [][2]string{
		{"Bentuk Kepala", fmt.Sprintf("%s (%s)", in.Seed.HeadShape.Label(), cli.FormatCF(in.Seed.CFHeadShape))},
		{"Kelincahan", fmt.Sprintf("%s (%s)", in.Seed.Agility.Label(), cli.FormatCF(in.Seed.CFAgility))},
		{"Warna Kulit", fmt.Sprintf("%s (%s)", in.Seed.SkinColor.Label(), cli.FormatCF(in.Seed.CFSkinColor))},
		{"Cacat Fisik", fmt.Sprintf("%s (%s)", in.Seed.Defect.Label(), cli.FormatCF(in.Seed.CFDefect))},
		{"pH Air", in.Pond.WaterPH.Label()},
		{"Suhu Air", fmt.Sprintf("%g °C", in.Pond.Temperature)},
		{"Jenis Pakan", in.Feed.Label()},
	}

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-14s %s\n", r[0], r[1])
	}
	b.WriteString("\n")
	b.WriteString(cli.RenderOutcome(f.preview(), false))
	b.WriteString("\n\n")
	b.WriteString(f.theme.Muted.Render("enter untuk menyimpan · esc untuk mengubah"))
	return b.String()
}
