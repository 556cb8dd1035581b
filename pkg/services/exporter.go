package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kerbaras/hadiths/pkg/data"
	"github.com/kerbaras/hadiths/pkg/integrations"
	"github.com/kerbaras/hadiths/pkg/sources"
)

const maxExportPages = 1000

// ExportProgress represents the progress of a chapter export
type ExportProgress struct {
	BookSlug      string
	ChapterNumber string
	CurrentPage   int
	TotalPages    int
	Status        string // "fetching", "writing", "complete", "error"
	Path          string
	Error         error
}

// Exporter fetches every page of a chapter and writes it out as an EPub.
type Exporter struct {
	source       sources.Source
	builder      integrations.Builder
	logger       *zap.Logger
	concurrency  int
	progressChan chan ExportProgress
}

func NewExporter(source sources.Source, builder integrations.Builder, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		source:       source,
		builder:      builder,
		logger:       logger,
		concurrency:  3,
		progressChan: make(chan ExportProgress, 100),
	}
}

// GetProgressChannel returns the channel for receiving export progress updates
func (e *Exporter) GetProgressChannel() <-chan ExportProgress {
	return e.progressChan
}

// FetchChapter returns all pages of a chapter in page order. Page 1 is fetched first to
// learn the last page; the rest are fetched concurrently.
func (e *Exporter) FetchChapter(ctx context.Context, bookSlug, chapterNumber string) ([]*data.HadithPage, error) {
	fetch := func(ctx context.Context, page int) (*data.HadithPage, error) {
		p, err := e.source.GetHadiths(ctx, sources.HadithQuery{
			BookSlug:      bookSlug,
			ChapterNumber: chapterNumber,
			Page:          page,
		})
		if errors.Is(err, sources.ErrMalformedPage) && p != nil {
			e.logger.Warn("skipping malformed page",
				zap.String("book", bookSlug),
				zap.String("chapter", chapterNumber),
				zap.Int("page", page),
			)
			return p, nil
		}
		return p, err
	}

	first, err := fetch(ctx, 1)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, fmt.Errorf("no hadiths returned for chapter %s", chapterNumber)
	}

	total, err := pageCount(first)
	if err != nil {
		return nil, err
	}
	pages := make([]*data.HadithPage, total)
	pages[0] = first
	e.sendProgress(ExportProgress{
		BookSlug:      bookSlug,
		ChapterNumber: chapterNumber,
		CurrentPage:   1,
		TotalPages:    total,
		Status:        "fetching",
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := 2; i <= total; i++ {
		g.Go(func() error {
			p, err := fetch(gctx, i)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			pages[i-1] = p
			e.sendProgress(ExportProgress{
				BookSlug:      bookSlug,
				ChapterNumber: chapterNumber,
				CurrentPage:   i,
				TotalPages:    total,
				Status:        "fetching",
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// ExportChapter fetches a whole chapter and writes it as an EPub, returning the file path.
func (e *Exporter) ExportChapter(ctx context.Context, book *data.Book, chapter *data.Chapter) (string, error) {
	if book == nil || chapter == nil {
		return "", fmt.Errorf("book and chapter are required")
	}

	progress := ExportProgress{BookSlug: book.BookSlug, ChapterNumber: chapter.ChapterNumber}

	pages, err := e.FetchChapter(ctx, book.BookSlug, chapter.ChapterNumber)
	if err != nil {
		progress.Status, progress.Error = "error", err
		e.sendProgress(progress)
		return "", fmt.Errorf("failed to fetch chapter %s: %w", chapter.ChapterNumber, err)
	}
	progress.TotalPages = len(pages)
	progress.CurrentPage = len(pages)

	progress.Status = "writing"
	e.sendProgress(progress)

	path, err := e.builder.CreateEPub(book, chapter, pages)
	if err != nil {
		progress.Status, progress.Error = "error", err
		e.sendProgress(progress)
		return "", err
	}

	e.logger.Info("chapter exported",
		zap.String("book", book.BookSlug),
		zap.String("chapter", chapter.ChapterNumber),
		zap.Int("pages", len(pages)),
		zap.String("path", path),
	)
	progress.Status, progress.Path = "complete", path
	e.sendProgress(progress)
	return path, nil
}

// pageCount is the number of pages to fetch, bounded by what Total and PerPage imply
// and by maxExportPages.
func pageCount(first *data.HadithPage) (int, error) {
	total := first.LastPage
	if first.PerPage > 0 && first.Total > 0 {
		if implied := (first.Total + first.PerPage - 1) / first.PerPage; implied < total {
			total = implied
		}
	}
	if total < 1 {
		total = 1
	}
	if total > maxExportPages {
		return 0, fmt.Errorf("chapter reports %d pages, more than the %d an export allows", total, maxExportPages)
	}
	return total, nil
}

// sendProgress sends a progress update (non-blocking)
func (e *Exporter) sendProgress(progress ExportProgress) {
	select {
	case e.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}
