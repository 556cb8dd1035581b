package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/kerbaras/hadiths/pkg/app"
	"github.com/kerbaras/hadiths/pkg/services"
)

var exportCmd = &cobra.Command{
	Use:   "export [book-slug] [chapter-number]",
	Short: "Export a chapter to EPUB",
	Long:  "Fetch every page of a chapter and compile the hadiths into a single EPUB file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		cfg, log := setup()
		defer log.Sync()
		if output != "" {
			cfg.ExportDir = output
		}

		source := app.NewSource(cfg, log)
		c := services.NewBrowseController(source, log)
		defer c.Close()
		openBook(c, args[0])

		if _, ok := c.SelectChapterByNumber(args[1]); !ok {
			cobra.CheckErr(fmt.Errorf("unknown chapter %q in %s", args[1], args[0]))
		}
		st := c.State()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		exporter := app.NewExporter(cfg, source, log)

		// Listen for progress
		go func() {
			for progress := range exporter.GetProgressChannel() {
				if progress.Status == "fetching" && progress.TotalPages > 0 {
					fmt.Printf("  Page %d/%d\n", progress.CurrentPage, progress.TotalPages)
				}
			}
		}()

		fmt.Printf("Exporting %s chapter %s...\n", st.Book.BookName, st.Chapter.ChapterNumber)
		path, err := exporter.ExportChapter(ctx, st.Book, st.Chapter)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("export failed: %w", err))
		}

		fmt.Printf("EPUB created: %s\n", path)
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output directory (defaults to export_dir)")
}
