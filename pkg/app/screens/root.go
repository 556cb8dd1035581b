package screens

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kerbaras/hadiths/pkg/app/components"
	"github.com/kerbaras/hadiths/pkg/app/styles"
	"github.com/kerbaras/hadiths/pkg/services"
)

type pane int

const (
	booksPane pane = iota
	chaptersPane
	readerPane
)

const (
	booksWidth    = 28
	chaptersWidth = 32
)

// RootScreen lays out the book sidebar, the chapter list and the hadith reader, and
// routes every selection through the browse controller.
type RootScreen struct {
	controller       *services.BrowseController
	exporter         *services.Exporter
	logger           *zap.Logger
	translationLabel string

	focus    pane
	books    *components.SelectList
	chapters *components.SelectList
	reader   viewport.Model
	content  string
	marked   string
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	progress *components.ProgressTracker

	exporting bool
	ctx       context.Context
	cancel    context.CancelFunc

	width  int
	height int
}

func NewRootScreen(controller *services.BrowseController, exporter *services.Exporter, logger *zap.Logger, translationLabel string) *RootScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.StatusBusy

	return &RootScreen{
		controller:       controller,
		exporter:         exporter,
		logger:           logger,
		translationLabel: translationLabel,
		focus:            booksPane,
		books:            components.NewSelectList("No books available"),
		chapters:         components.NewSelectList("No chapters"),
		reader:           viewport.New(0, 0),
		spinner:          s,
		help:             help.New(),
		keys:             newKeyMap(),
		progress:         components.NewProgressTracker(80),
		ctx:              ctx,
		cancel:           cancel,
	}
}

func (r *RootScreen) Init() tea.Cmd {
	r.sync()
	return tea.Batch(
		r.spinner.Tick,
		r.run(r.controller.Start()),
		r.listenForProgress,
	)
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.resize()
		return r, nil

	case tea.KeyMsg:
		return r, r.handleKey(msg)

	case fetchResultMsg:
		if r.controller.Apply(msg.result) {
			r.sync()
		}
		return r, nil

	case services.ExportProgress:
		r.progress.Update(msg)
		r.resize()
		return r, r.listenForProgress

	case exportDoneMsg:
		r.exporting = false
		if msg.err != nil {
			r.logger.Warn("export failed", zap.Error(msg.err))
		}
		r.progress.Update(msg.progress)
		r.resize()
		return r, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		r.reader, cmd = r.reader.Update(msg)
		return r, cmd
	}

	return r, nil
}

func (r *RootScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, r.keys.Quit):
		r.shutdown()
		return tea.Quit

	case key.Matches(msg, r.keys.Help):
		r.help.ShowAll = !r.help.ShowAll
		r.resize()

	case key.Matches(msg, r.keys.Focus):
		r.cycleFocus()

	case key.Matches(msg, r.keys.Sidebar):
		r.controller.ToggleNav()
		if !r.controller.State().NavOpen && r.focus == booksPane {
			r.setFocus(chaptersPane)
		}
		r.resize()

	case key.Matches(msg, r.keys.Back):
		cmd := r.run(r.controller.SelectBook(nil))
		r.setFocus(booksPane)
		r.sync()
		r.resize()
		return cmd

	case key.Matches(msg, r.keys.Refresh):
		cmd := r.run(r.controller.Refresh())
		r.sync()
		return cmd

	case key.Matches(msg, r.keys.NextPage):
		return r.turn(r.controller.NextPage())

	case key.Matches(msg, r.keys.PrevPage):
		return r.turn(r.controller.PrevPage())

	case key.Matches(msg, r.keys.Export):
		return r.export()

	case key.Matches(msg, r.keys.Select):
		return r.selectFocused()

	case key.Matches(msg, r.keys.Up) && r.focus != readerPane:
		r.focusedList().Prev()

	case key.Matches(msg, r.keys.Down) && r.focus != readerPane:
		r.focusedList().Next()

	default:
		if r.focus == readerPane {
			var cmd tea.Cmd
			r.reader, cmd = r.reader.Update(msg)
			return cmd
		}
	}
	return nil
}

func (r *RootScreen) selectFocused() tea.Cmd {
	switch r.focus {
	case booksPane:
		item := r.books.Selected()
		if item == nil {
			return nil
		}
		fetches, ok := r.controller.SelectBookBySlug(item.Key)
		if !ok {
			return nil
		}
		r.setFocus(chaptersPane)
		r.sync()
		r.resize()
		return r.run(fetches)

	case chaptersPane:
		item := r.chapters.Selected()
		if item == nil {
			return nil
		}
		fetches, ok := r.controller.SelectChapterByNumber(item.Key)
		if !ok {
			return nil
		}
		r.setFocus(readerPane)
		r.sync()
		return r.run(fetches)
	}
	return nil
}

func (r *RootScreen) turn(fetches []services.Fetch) tea.Cmd {
	if len(fetches) == 0 {
		return nil
	}
	r.sync()
	return r.run(fetches)
}

func (r *RootScreen) export() tea.Cmd {
	st := r.controller.State()
	if r.exporter == nil || r.exporting || st.Book == nil || st.Chapter == nil {
		return nil
	}
	r.exporting = true
	book, chapter := *st.Book, *st.Chapter
	ctx := r.ctx

	return func() tea.Msg {
		path, err := r.exporter.ExportChapter(ctx, &book, &chapter)
		progress := services.ExportProgress{
			BookSlug:      book.BookSlug,
			ChapterNumber: chapter.ChapterNumber,
			Status:        "complete",
			Path:          path,
		}
		if err != nil {
			progress.Status, progress.Error = "error", err
		}
		return exportDoneMsg{progress: progress, err: err}
	}
}

func (r *RootScreen) shutdown() {
	r.controller.Close()
	r.cancel()
}

func (r *RootScreen) cycleFocus() {
	next := (r.focus + 1) % 3
	if next == booksPane && !r.controller.State().NavOpen {
		next = chaptersPane
	}
	r.setFocus(next)
}

func (r *RootScreen) setFocus(p pane) {
	r.focus = p
	r.books.Focused = p == booksPane
	r.chapters.Focused = p == chaptersPane
}

func (r *RootScreen) focusedList() *components.SelectList {
	if r.focus == booksPane {
		return r.books
	}
	return r.chapters
}

// sync copies the controller's published state into the panes.
func (r *RootScreen) sync() {
	st := r.controller.State()

	r.books.SetItems(bookItems(st.Books))
	r.chapters.SetItems(chapterItems(st.Chapters))

	// Move the cursors only when the selection itself changed.
	if mark := selectionMark(st); mark != r.marked {
		r.marked = mark
		if st.Book != nil {
			r.books.Mark(st.Book.BookSlug)
		}
		if st.Chapter != nil {
			r.chapters.Mark(st.Chapter.ChapterNumber)
		}
	}
	r.books.Focused = r.focus == booksPane
	r.chapters.Focused = r.focus == chaptersPane

	content := readerContent(st, r.translationLabel, r.reader.Width)
	if content != r.content {
		r.content = content
		r.reader.SetContent(content)
		r.reader.GotoTop()
	}
}

func (r *RootScreen) resize() {
	if r.width == 0 {
		return
	}
	r.progress.SetWidth(r.width)

	body := r.bodyHeight()
	r.books.Width = booksWidth
	r.books.Height = max(body-1, 1)
	r.chapters.Width = chaptersWidth
	r.chapters.Height = max(body-1, 1)

	r.reader.Width = r.readerWidth()
	r.reader.Height = max(body-2, 1)
	r.content = ""
	r.sync()
}

func (r *RootScreen) readerWidth() int {
	// Each pane adds a border and one column of padding on either side.
	w := r.width - (chaptersWidth + 4) - 4
	if r.controller.State().NavOpen {
		w -= booksWidth + 4
	}
	return max(w, 10)
}

func (r *RootScreen) bodyHeight() int {
	// header + pane borders + footer
	return max(r.height-1-2-lipgloss.Height(r.footer()), 3)
}

func (r *RootScreen) View() string {
	if r.width == 0 {
		return "Loading..."
	}
	st := r.controller.State()
	body := r.bodyHeight()

	header := styles.HeaderStyle.Width(r.width).Render("Hadiths")

	var columns []string
	if st.NavOpen {
		columns = append(columns, r.pane(booksPane, booksWidth, body, r.booksView(st)))
	}
	columns = append(columns,
		r.pane(chaptersPane, chaptersWidth, body, r.chaptersView(st)),
		r.pane(readerPane, r.readerWidth(), body, r.readerView(st)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		r.footer(),
	)
}

func (r *RootScreen) pane(p pane, width, height int, content string) string {
	style := styles.PaneStyle
	if r.focus == p {
		style = styles.FocusedPaneStyle
	}
	return style.Width(width + 2).Height(height).MaxHeight(height + 2).Render(content)
}

func (r *RootScreen) booksView(st services.State) string {
	title := styles.TitleStyle.Render("Books")
	if st.BooksLoading {
		return title + "\n" + r.spinner.View() + " Loading books..."
	}
	return title + "\n" + r.books.View()
}

func (r *RootScreen) chaptersView(st services.State) string {
	title := styles.TitleStyle.Render("Chapters")
	switch {
	case st.Book == nil:
		return title + "\n" + styles.MutedStyle.Render("Select a book")
	case st.ChaptersLoading:
		return title + "\n" + r.spinner.View() + " Loading chapters..."
	}
	title = styles.TitleStyle.Render(components.Truncate(st.Book.BookName, chaptersWidth))
	return title + "\n" + r.chapters.View()
}

func (r *RootScreen) readerView(st services.State) string {
	header := styles.SubtitleStyle.Render(readerHeader(st))
	if st.HadithsLoading {
		return header + "\n\n" + r.spinner.View() + " Loading hadiths..."
	}
	return header + "\n\n" + r.reader.View()
}

func (r *RootScreen) footer() string {
	st := r.controller.State()

	var status string
	switch {
	case st.Error != "":
		status = styles.StatusError.Render(st.Error)
	case st.BooksLoading || st.ChaptersLoading || st.HadithsLoading:
		status = r.spinner.View() + styles.StatusBusy.Render(" Loading...")
	default:
		status = styles.MutedStyle.Render(fmt.Sprintf("%d books", len(st.Books)))
	}

	parts := []string{status}
	if p := r.progress.View(); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, styles.HelpStyle.Render(r.help.View(r.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Messages
type fetchResultMsg struct {
	result services.Result
}

type exportDoneMsg struct {
	progress services.ExportProgress
	err      error
}

// Commands

// run turns controller fetches into commands; each executes off the update loop and
// reports back through fetchResultMsg.
func (r *RootScreen) run(fetches []services.Fetch) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(fetches))
	for _, f := range fetches {
		cmds = append(cmds, func() tea.Msg {
			return fetchResultMsg{result: r.controller.Execute(f)}
		})
	}
	return tea.Batch(cmds...)
}

func (r *RootScreen) listenForProgress() tea.Msg {
	if r.exporter == nil {
		return nil
	}
	return <-r.exporter.GetProgressChannel()
}
