package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kerbaras/hadiths/pkg/app"
	"github.com/kerbaras/hadiths/pkg/app/components"
	"github.com/kerbaras/hadiths/pkg/services"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters [book-slug]",
	Short: "List the chapters of a book",
	Long:  "Display the chapters of a book, as listed by 'hadiths books', in a table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := setup()
		defer log.Sync()

		c := services.NewBrowseController(app.NewSource(cfg, log), log)
		defer c.Close()
		openBook(c, args[0])

		st := c.State()
		var (
			purple = lipgloss.Color("99")

			headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
			cellStyle   = lipgloss.NewStyle().Padding(0, 1)
			arabicStyle = cellStyle.Align(lipgloss.Right)
		)

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(purple)).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col == 2:
					return arabicStyle
				default:
					return cellStyle
				}
			}).
			Headers("#", "English", "Arabic")

		for _, ch := range st.Chapters {
			t.Row(ch.ChapterNumber, components.Truncate(ch.Title(), 58), components.Truncate(ch.ChapterArabic, 40))
		}

		fmt.Printf("%s (%d chapters)\n", st.Book.BookName, len(st.Chapters))
		fmt.Println(t)
	},
}

// openBook loads the catalog and the chapters of slug, exiting on any error.
func openBook(c *services.BrowseController, slug string) {
	c.Drain(c.Start()...)
	if msg := c.State().Error; msg != "" {
		cobra.CheckErr(errors.New(msg))
	}

	fetches, ok := c.SelectBookBySlug(slug)
	if !ok {
		cobra.CheckErr(fmt.Errorf("unknown book %q (see 'hadiths books')", slug))
	}
	c.Drain(fetches...)
	if msg := c.State().Error; msg != "" {
		cobra.CheckErr(errors.New(msg))
	}
}
