package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerbaras/hadiths/pkg/app"
	"github.com/kerbaras/hadiths/pkg/app/components"
	"github.com/kerbaras/hadiths/pkg/app/styles"
	"github.com/kerbaras/hadiths/pkg/services"
)

var readCmd = &cobra.Command{
	Use:   "read [book-slug] [chapter-number]",
	Short: "Print one page of a chapter's hadiths",
	Long:  "Fetch a single page of hadiths from a chapter and print it",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		page, _ := cmd.Flags().GetInt("page")
		width, _ := cmd.Flags().GetInt("width")

		cfg, log := setup()
		defer log.Sync()

		c := services.NewBrowseController(app.NewSource(cfg, log), log)
		defer c.Close()
		openBook(c, args[0])

		fetches, ok := c.SelectChapterByNumber(args[1])
		if !ok {
			cobra.CheckErr(fmt.Errorf("unknown chapter %q in %s", args[1], args[0]))
		}
		// A later page supersedes the first-page fetch before it runs.
		if page != 1 {
			if next := c.ChangePage(page); next != nil {
				fetches = next
			} else {
				cobra.CheckErr(fmt.Errorf("invalid page %d", page))
			}
		}
		c.Drain(fetches...)

		st := c.State()
		if st.Error != "" {
			cobra.CheckErr(errors.New(st.Error))
		}
		if st.Hadiths == nil {
			return
		}
		if c.PastLastPage() {
			cobra.CheckErr(fmt.Errorf("page %d is past the last page (%d) of chapter %s", page, st.Hadiths.LastPage, args[1]))
		}

		fmt.Println(styles.TitleStyle.Render(fmt.Sprintf("%s · Chapter %s: %s", st.Book.BookName, st.Chapter.ChapterNumber, st.Chapter.Title())))
		fmt.Println(styles.MutedStyle.Render(fmt.Sprintf("Page %d of %d (%d hadiths)", st.Page, st.Hadiths.LastPage, st.Hadiths.Total)))
		fmt.Println()
		fmt.Println(components.RenderPage(st.Hadiths, cfg.TranslationLabel, width))
	},
}

func init() {
	readCmd.Flags().IntP("page", "p", 1, "Page number")
	readCmd.Flags().IntP("width", "w", 80, "Wrap width")
}
