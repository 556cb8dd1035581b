package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kerbaras/hadiths/pkg/app"
	"github.com/kerbaras/hadiths/pkg/app/components"
	"github.com/kerbaras/hadiths/pkg/data"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List the available books",
	Long:  "Display every book that has hadiths to browse in a formatted table",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := setup()
		defer log.Sync()

		source := app.NewSource(cfg, log)
		all, err := source.GetBooks(context.Background())
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to fetch books: %w", err))
		}

		books := data.AvailableBooks(all)
		if len(books) == 0 {
			fmt.Println("No books available.")
			return
		}

		columns := []table.Column{
			{Title: "Slug", Width: 24},
			{Title: "Name", Width: 32},
			{Title: "Writer", Width: 28},
			{Title: "Chapters", Width: 10},
			{Title: "Hadiths", Width: 10},
		}

		rows := []table.Row{}
		for _, b := range books {
			rows = append(rows, table.Row{
				b.BookSlug,
				components.Truncate(b.BookName, 32),
				components.Truncate(b.WriterName, 28),
				fmt.Sprintf("%d", b.ChapterCount()),
				fmt.Sprintf("%d", b.HadithCount()),
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Cell
		t.SetStyles(s)

		fmt.Printf("\nBooks (%d of %d available)\n\n", len(books), len(all))
		fmt.Println(t.View())
	},
}
