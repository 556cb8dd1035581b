package screens

import (
	"fmt"
	"strings"

	"github.com/kerbaras/hadiths/pkg/app/components"
	"github.com/kerbaras/hadiths/pkg/app/styles"
	"github.com/kerbaras/hadiths/pkg/data"
	"github.com/kerbaras/hadiths/pkg/services"
)

func bookItems(books []data.Book) []components.ListItem {
	items := make([]components.ListItem, len(books))
	for i, b := range books {
		items[i] = components.ListItem{
			Key:    b.BookSlug,
			Title:  b.BookName,
			Detail: fmt.Sprintf("%d", b.HadithCount()),
		}
	}
	return items
}

func chapterItems(chapters []data.Chapter) []components.ListItem {
	items := make([]components.ListItem, len(chapters))
	for i, c := range chapters {
		items[i] = components.ListItem{
			Key:   c.ChapterNumber,
			Title: fmt.Sprintf("%s. %s", c.ChapterNumber, c.Title()),
		}
	}
	return items
}

func selectionMark(st services.State) string {
	var b strings.Builder
	if st.Book != nil {
		b.WriteString(st.Book.BookSlug)
	}
	b.WriteString("/")
	if st.Chapter != nil {
		b.WriteString(st.Chapter.ChapterNumber)
	}
	return b.String()
}

func readerHeader(st services.State) string {
	switch {
	case st.Book == nil:
		return "No book selected"
	case st.Chapter == nil:
		return st.Book.BookName
	}

	header := fmt.Sprintf("Chapter %s", st.Chapter.ChapterNumber)
	if title := st.Chapter.Title(); title != "" {
		header += ": " + title
	}
	if st.Hadiths != nil && st.Hadiths.LastPage > 0 {
		header += fmt.Sprintf(" · page %d of %d · %d hadiths", st.Page, st.Hadiths.LastPage, st.Hadiths.Total)
	} else {
		header += fmt.Sprintf(" · page %d", st.Page)
	}
	return header
}

func readerContent(st services.State, translationLabel string, width int) string {
	switch {
	case st.Book == nil:
		return styles.MutedStyle.Render("Select a book to browse its chapters.")
	case st.Chapter == nil:
		return styles.MutedStyle.Render(fmt.Sprintf("Select a chapter of %s.", st.Book.BookName))
	case st.Hadiths == nil:
		return ""
	case len(st.Hadiths.Data) == 0:
		return styles.MutedStyle.Render("No hadiths on this page.")
	}
	return components.RenderPage(st.Hadiths, translationLabel, width)
}
