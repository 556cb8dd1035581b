package integrations

import "github.com/kerbaras/hadiths/pkg/data"

// Builder compiles the fetched pages of one chapter into a file and returns its path.
type Builder interface {
	CreateEPub(book *data.Book, chapter *data.Chapter, pages []*data.HadithPage) (string, error)
}
