package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/hadiths/pkg/app/styles"
)

type ListItem struct {
	Key    string
	Title  string
	Detail string
}

// SelectList is a single-line-per-item list that scrolls to keep the cursor visible.
type SelectList struct {
	Items         []ListItem
	SelectedIndex int
	Width         int
	Height        int
	Focused       bool
	// Empty is shown when there are no items.
	Empty string

	offset int
}

func NewSelectList(empty string) *SelectList {
	return &SelectList{
		Items:         []ListItem{},
		SelectedIndex: 0,
		Width:         30,
		Height:        10,
		Empty:         empty,
	}
}

func (l *SelectList) SetItems(items []ListItem) {
	l.Items = items
	if l.SelectedIndex >= len(items) && len(items) > 0 {
		l.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		l.SelectedIndex = 0
	}
	l.offset = 0
	l.scroll()
}

// Mark moves the cursor to the item with the given key, if present.
func (l *SelectList) Mark(key string) {
	for i, item := range l.Items {
		if item.Key == key {
			l.SelectedIndex = i
			l.scroll()
			return
		}
	}
}

func (l *SelectList) Next() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex++
	if l.SelectedIndex >= len(l.Items) {
		l.SelectedIndex = 0
	}
	l.scroll()
}

func (l *SelectList) Prev() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex--
	if l.SelectedIndex < 0 {
		l.SelectedIndex = len(l.Items) - 1
	}
	l.scroll()
}

func (l *SelectList) Selected() *ListItem {
	if len(l.Items) == 0 || l.SelectedIndex >= len(l.Items) {
		return nil
	}
	return &l.Items[l.SelectedIndex]
}

func (l *SelectList) scroll() {
	if l.Height < 1 {
		return
	}
	if l.SelectedIndex < l.offset {
		l.offset = l.SelectedIndex
	}
	if l.SelectedIndex >= l.offset+l.Height {
		l.offset = l.SelectedIndex - l.Height + 1
	}
}

func (l *SelectList) View() string {
	if len(l.Items) == 0 {
		return lipgloss.NewStyle().Width(l.Width).Render(styles.MutedStyle.Render(l.Empty))
	}

	end := l.offset + l.Height
	if end > len(l.Items) || l.Height < 1 {
		end = len(l.Items)
	}

	rows := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		rows = append(rows, l.row(i))
	}
	return strings.Join(rows, "\n")
}

func (l *SelectList) row(i int) string {
	item := l.Items[i]
	title := Truncate(item.Title, l.Width-2)

	if i == l.SelectedIndex {
		style := styles.SelectedBlurredStyle
		if l.Focused {
			style = styles.SelectedStyle
		}
		return style.Render("> " + title)
	}

	row := styles.TextStyle.Render("  " + title)
	if room := l.Width - 3 - lipgloss.Width(title); item.Detail != "" && room > 0 {
		row += " " + styles.MutedStyle.Render(Truncate(item.Detail, room))
	}
	return row
}

// Truncate shortens s to at most width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
