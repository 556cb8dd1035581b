package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kerbaras/hadiths/pkg/app/styles"
	"github.com/kerbaras/hadiths/pkg/services"
)

// ProgressTracker keeps the latest progress event of every chapter export.
type ProgressTracker struct {
	exports map[string]*services.ExportProgress
	width   int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		exports: make(map[string]*services.ExportProgress),
		width:   width,
	}
}

func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
}

func (p *ProgressTracker) Update(progress services.ExportProgress) {
	key := progress.BookSlug + ":" + progress.ChapterNumber
	prog := progress
	p.exports[key] = &prog
}

func (p *ProgressTracker) Clear() {
	p.exports = make(map[string]*services.ExportProgress)
}

// HasActive reports whether any export is still fetching or writing.
func (p *ProgressTracker) HasActive() bool {
	for _, e := range p.exports {
		if e.Status == "fetching" || e.Status == "writing" {
			return true
		}
	}
	return false
}

// View renders one line per export, ordered by book and chapter.
func (p *ProgressTracker) View() string {
	if len(p.exports) == 0 {
		return ""
	}

	keys := make([]string, 0, len(p.exports))
	for k := range p.exports {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, p.line(p.exports[k]))
	}
	return strings.Join(lines, "\n")
}

func (p *ProgressTracker) line(e *services.ExportProgress) string {
	name := fmt.Sprintf("%s ch. %s", e.BookSlug, e.ChapterNumber)
	style := styles.StatusStyle(e.Status)

	switch e.Status {
	case "complete":
		return style.Render(fmt.Sprintf("Exported %s to %s", name, e.Path))
	case "error":
		return style.Render(fmt.Sprintf("Export of %s failed: %s", name, e.Error))
	}

	text := fmt.Sprintf("%s %s", e.Status, name)
	if e.TotalPages > 0 {
		text = fmt.Sprintf("%s (%d/%d pages)", text, e.CurrentPage, e.TotalPages)
		barWidth := p.width - len(text) - 1
		if barWidth > 30 {
			barWidth = 30
		}
		if barWidth > 0 {
			return renderProgressBar(e.CurrentPage, e.TotalPages, barWidth) + " " + style.Render(text)
		}
	}
	return style.Render(text)
}

func renderProgressBar(current, total, width int) string {
	if total == 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// SimpleProgress renders a bare progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
