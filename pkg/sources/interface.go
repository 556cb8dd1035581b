package sources

import (
	"context"

	"github.com/kerbaras/hadiths/pkg/data"
)

// HadithQuery selects one page of a chapter's hadiths.
type HadithQuery struct {
	BookSlug      string
	ChapterNumber string
	Page          int
}

type Source interface {
	GetBooks(ctx context.Context) ([]data.Book, error)
	GetChapters(ctx context.Context, bookSlug string) ([]data.Chapter, error)
	// GetHadiths may return a non-nil empty page together with ErrMalformedPage.
	GetHadiths(ctx context.Context, q HadithQuery) (*data.HadithPage, error)
}
