package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/hadiths/pkg/app/styles"
	"github.com/kerbaras/hadiths/pkg/data"
)

// RenderHadith lays out one hadith wrapped to width. Absent headings and Arabic text
// produce no lines at all.
func RenderHadith(h data.Hadith, translationLabel string, width int) string {
	if width < 10 {
		width = 10
	}
	wrap := lipgloss.NewStyle().Width(width)

	title := styles.TitleStyle.Render(fmt.Sprintf("Hadith %s", h.HadithNumber))
	if grade := h.StatusLabel(); grade != "" {
		title += " " + styles.GradeStyle.Render(grade)
	}
	parts := []string{title}

	if heading, ok := data.Optional(h.HeadingEnglish); ok {
		parts = append(parts, styles.HeadingStyle.Width(width).Render(strings.TrimSpace(heading)))
	}
	if heading, ok := data.Optional(h.HeadingArabic); ok {
		parts = append(parts, styles.ArabicStyle.Width(width).Bold(true).Render(strings.TrimSpace(heading)))
	}
	if arabic, ok := data.Optional(h.HadithArabic); ok {
		parts = append(parts, "", styles.ArabicStyle.Width(width).Render(strings.TrimSpace(arabic)))
	}
	if narrator := strings.TrimSpace(h.EnglishNarrator); narrator != "" {
		parts = append(parts, "", styles.NarratorStyle.Width(width).Render(narrator))
	}
	if english := strings.TrimSpace(h.HadithEnglish); english != "" {
		parts = append(parts,
			"",
			styles.LabelStyle.Render(translationLabel),
			wrap.Render(styles.TextStyle.Render(english)),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// RenderPage renders every hadith of a page separated by a rule.
func RenderPage(page *data.HadithPage, translationLabel string, width int) string {
	if page == nil || len(page.Data) == 0 {
		return ""
	}
	rule := styles.MutedStyle.Render(strings.Repeat("─", max(width, 1)))

	blocks := make([]string, 0, len(page.Data))
	for _, h := range page.Data {
		blocks = append(blocks, RenderHadith(h, translationLabel, width))
	}
	return strings.Join(blocks, "\n\n"+rule+"\n\n")
}
