package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kerbaras/hadiths/pkg/data"
	"github.com/kerbaras/hadiths/pkg/sources"
)

// Loader identifies one of the three dependent fetchers.
type Loader int

const (
	BooksLoader Loader = iota
	ChaptersLoader
	HadithsLoader
	loaderCount
)

func (l Loader) String() string {
	switch l {
	case BooksLoader:
		return "books"
	case ChaptersLoader:
		return "chapters"
	case HadithsLoader:
		return "hadiths"
	default:
		return fmt.Sprintf("loader(%d)", int(l))
	}
}

const (
	msgBooksFailed    = "Failed to fetch books."
	msgChaptersFailed = "Failed to fetch chapters."
	msgNoHadiths      = "No hadiths found for this chapter."
)

// Fetch is one loader run. Key is the loader's dependency tuple at the time it was issued;
// a result is only published while Seq and Key still match the loader's current run.
type Fetch struct {
	Loader        Loader
	Seq           uint64
	Key           string
	BookSlug      string
	BookName      string
	ChapterNumber string
	Page          int

	ctx context.Context
}

// Result is the settled outcome of a Fetch.
type Result struct {
	Fetch    Fetch
	Books    []data.Book
	Chapters []data.Chapter
	Page     *data.HadithPage
	Err      error
}

// State is the published view of the browser.
type State struct {
	Books        []data.Book
	BooksLoading bool

	Book            *data.Book
	Chapters        []data.Chapter
	ChaptersLoading bool

	Chapter        *data.Chapter
	Page           int
	Hadiths        *data.HadithPage
	HadithsLoading bool

	// Error is the latest error message; a new one replaces the old.
	Error string
	// NavOpen is the visibility of the book navigation sidebar.
	NavOpen bool
}

// BrowseController owns the book → chapter → page selection state and sequences the
// fetches each selection needs. Transitions and Apply must be called from a single
// goroutine; Execute is safe to run concurrently.
type BrowseController struct {
	source sources.Source
	logger *zap.Logger

	state   State
	started bool
	seq     uint64
	current [loaderCount]Fetch
	cancel  [loaderCount]context.CancelFunc
}

func NewBrowseController(source sources.Source, logger *zap.Logger) *BrowseController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowseController{
		source: source,
		logger: logger,
		state: State{
			Books:    []data.Book{},
			Chapters: []data.Chapter{},
			Page:     1,
			NavOpen:  true,
		},
	}
}

// State returns a snapshot of the published state.
func (c *BrowseController) State() State {
	return c.state
}

// Start activates the book list loader. Only the first call issues a request.
func (c *BrowseController) Start() []Fetch {
	if c.started {
		return nil
	}
	c.started = true
	return []Fetch{c.issue(Fetch{Loader: BooksLoader, Key: "catalog"})}
}

// SelectBook moves to BookSelected, or back to NoBookSelected when b is nil.
func (c *BrowseController) SelectBook(b *data.Book) []Fetch {
	c.state.Chapter = nil
	c.state.Page = 1
	c.state.Hadiths = nil
	c.state.Chapters = []data.Chapter{}
	c.invalidate(HadithsLoader)

	if b == nil {
		c.state.Book = nil
		c.state.NavOpen = true
		c.invalidate(ChaptersLoader)
		return nil
	}

	book := *b
	c.state.Book = &book
	c.state.NavOpen = false
	return []Fetch{c.issue(Fetch{
		Loader:   ChaptersLoader,
		Key:      book.BookSlug,
		BookSlug: book.BookSlug,
		BookName: book.BookName,
	})}
}

// SelectBookBySlug selects a book from the published catalog.
func (c *BrowseController) SelectBookBySlug(slug string) ([]Fetch, bool) {
	for i := range c.state.Books {
		if c.state.Books[i].BookSlug == slug {
			return c.SelectBook(&c.state.Books[i]), true
		}
	}
	return nil, false
}

// SelectChapter moves to ChapterSelected at page 1 and forces a reload.
func (c *BrowseController) SelectChapter(ch *data.Chapter) []Fetch {
	if c.state.Book == nil || ch == nil {
		return nil
	}
	chapter := *ch
	c.state.Chapter = &chapter
	c.state.Page = 1
	c.state.Hadiths = nil
	return c.loadHadiths()
}

// SelectChapterByNumber selects a chapter from the published chapter list.
func (c *BrowseController) SelectChapterByNumber(number string) ([]Fetch, bool) {
	for i := range c.state.Chapters {
		if c.state.Chapters[i].ChapterNumber == number {
			return c.SelectChapter(&c.state.Chapters[i]), true
		}
	}
	return nil, false
}

// ChangePage accepts p only when p >= 1 and, once a page envelope is known, p <= its last page.
// Rejected or unchanged pages leave the state untouched.
func (c *BrowseController) ChangePage(p int) []Fetch {
	if !c.CanChangePage(p) || p == c.state.Page {
		return nil
	}
	c.state.Page = p
	return c.loadHadiths()
}

// CanChangePage reports whether ChangePage(p) would be accepted. An envelope without a
// positive last page does not bound paging.
func (c *BrowseController) CanChangePage(p int) bool {
	if p < 1 {
		return false
	}
	if c.state.Hadiths != nil && c.state.Hadiths.LastPage >= 1 && p > c.state.Hadiths.LastPage {
		return false
	}
	return true
}

// PastLastPage reports whether the current page lies beyond the last page of the published
// envelope. It only holds when the page was requested before any envelope bounded it.
func (c *BrowseController) PastLastPage() bool {
	h := c.state.Hadiths
	return h != nil && h.LastPage >= 1 && c.state.Page > h.LastPage
}

func (c *BrowseController) NextPage() []Fetch {
	return c.ChangePage(c.state.Page + 1)
}

func (c *BrowseController) PrevPage() []Fetch {
	return c.ChangePage(c.state.Page - 1)
}

func (c *BrowseController) ToggleNav() {
	c.state.NavOpen = !c.state.NavOpen
}

// Refresh re-runs the deepest loader the current selection depends on.
func (c *BrowseController) Refresh() []Fetch {
	switch {
	case c.state.Chapter != nil:
		return c.loadHadiths()
	case c.state.Book != nil:
		book := *c.state.Book
		return c.SelectBook(&book)
	default:
		c.started = false
		return c.Start()
	}
}

// Execute performs the request behind f. It only reads f and the source.
func (c *BrowseController) Execute(f Fetch) Result {
	ctx := f.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	r := Result{Fetch: f}
	switch f.Loader {
	case BooksLoader:
		r.Books, r.Err = c.source.GetBooks(ctx)
	case ChaptersLoader:
		r.Chapters, r.Err = c.source.GetChapters(ctx, f.BookSlug)
	case HadithsLoader:
		r.Page, r.Err = c.source.GetHadiths(ctx, sources.HadithQuery{
			BookSlug:      f.BookSlug,
			ChapterNumber: f.ChapterNumber,
			Page:          f.Page,
		})
	default:
		r.Err = fmt.Errorf("unknown loader %d", f.Loader)
	}
	return r
}

// Apply publishes r if it belongs to its loader's current run and reports whether it did.
func (c *BrowseController) Apply(r Result) bool {
	l := r.Fetch.Loader
	if l < 0 || l >= loaderCount {
		return false
	}
	cur := c.current[l]
	if cur.Seq == 0 || cur.Seq != r.Fetch.Seq || cur.Key != r.Fetch.Key {
		c.logger.Debug("discarding stale result",
			zap.Stringer("loader", l),
			zap.String("key", r.Fetch.Key),
			zap.Uint64("seq", r.Fetch.Seq),
		)
		return false
	}
	c.invalidate(l)

	switch l {
	case BooksLoader:
		c.applyBooks(r)
	case ChaptersLoader:
		c.applyChapters(r)
	case HadithsLoader:
		c.applyHadiths(r)
	}
	return true
}

// Drain executes and applies fetches in order on the calling goroutine.
func (c *BrowseController) Drain(fetches ...Fetch) {
	for _, f := range fetches {
		c.Apply(c.Execute(f))
	}
}

// Close cancels every in-flight fetch.
func (c *BrowseController) Close() {
	for l := Loader(0); l < loaderCount; l++ {
		c.invalidate(l)
	}
}

func (c *BrowseController) applyBooks(r Result) {
	if r.Err != nil {
		c.state.Books = []data.Book{}
		c.fail(BooksLoader, r.Err, withDefault(sources.Message(r.Err), msgBooksFailed))
		return
	}
	c.state.Books = data.AvailableBooks(r.Books)
	c.logger.Info("catalog loaded",
		zap.Int("books", len(r.Books)),
		zap.Int("available", len(c.state.Books)),
	)
}

func (c *BrowseController) applyChapters(r Result) {
	switch {
	case sources.IsNotFound(r.Err), r.Err == nil && len(r.Chapters) == 0:
		c.state.Chapters = []data.Chapter{}
		c.fail(ChaptersLoader, r.Err, fmt.Sprintf("No chapters found for %s.", r.Fetch.BookName))
	case r.Err != nil:
		c.state.Chapters = []data.Chapter{}
		c.fail(ChaptersLoader, r.Err, msgChaptersFailed)
	default:
		c.state.Chapters = r.Chapters
	}
}

func (c *BrowseController) applyHadiths(r Result) {
	switch {
	case errors.Is(r.Err, sources.ErrMalformedPage) && r.Page != nil:
		page := *r.Page
		page.Data = []data.Hadith{}
		c.state.Hadiths = &page
		c.fail(HadithsLoader, r.Err, msgNoHadiths)
	case r.Err != nil:
		c.state.Hadiths = nil
		generic := fmt.Sprintf("Failed to fetch hadiths for chapter %s.", r.Fetch.ChapterNumber)
		c.fail(HadithsLoader, r.Err, withDefault(sources.Message(r.Err), generic))
	case r.Page == nil:
		c.state.Hadiths = nil
	default:
		c.state.Hadiths = r.Page
	}
}

func (c *BrowseController) fail(l Loader, err error, msg string) {
	c.state.Error = msg
	c.logger.Warn("loader failed",
		zap.Stringer("loader", l),
		zap.String("message", msg),
		zap.Error(err),
	)
}

// loadHadiths is the hadith loader's trigger: a no-op without both a book and a chapter.
func (c *BrowseController) loadHadiths() []Fetch {
	if c.state.Book == nil || c.state.Chapter == nil {
		c.invalidate(HadithsLoader)
		c.state.Hadiths = nil
		return nil
	}
	f := Fetch{
		Loader:        HadithsLoader,
		BookSlug:      c.state.Book.BookSlug,
		BookName:      c.state.Book.BookName,
		ChapterNumber: c.state.Chapter.ChapterNumber,
		Page:          c.state.Page,
	}
	f.Key = fmt.Sprintf("%s/%s/%d", f.BookSlug, f.ChapterNumber, f.Page)
	return []Fetch{c.issue(f)}
}

// issue makes f the loader's current run, cancelling whatever it superseded.
func (c *BrowseController) issue(f Fetch) Fetch {
	c.invalidate(f.Loader)

	c.seq++
	f.Seq = c.seq
	ctx, cancel := context.WithCancel(context.Background())
	f.ctx = ctx

	c.current[f.Loader] = f
	c.cancel[f.Loader] = cancel
	c.setLoading(f.Loader, true)
	c.state.Error = ""

	c.logger.Debug("fetch issued",
		zap.Stringer("loader", f.Loader),
		zap.String("key", f.Key),
		zap.Uint64("seq", f.Seq),
	)
	return f
}

// invalidate drops the loader's current run so its result is discarded.
func (c *BrowseController) invalidate(l Loader) {
	c.finish(l)
	c.setLoading(l, false)
}

func (c *BrowseController) setLoading(l Loader, loading bool) {
	switch l {
	case BooksLoader:
		c.state.BooksLoading = loading
	case ChaptersLoader:
		c.state.ChaptersLoading = loading
	case HadithsLoader:
		c.state.HadithsLoading = loading
	}
}

func (c *BrowseController) finish(l Loader) {
	if cancel := c.cancel[l]; cancel != nil {
		cancel()
	}
	c.cancel[l] = nil
	c.current[l] = Fetch{}
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
