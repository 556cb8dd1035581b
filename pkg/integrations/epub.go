package integrations

import (
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/hadiths/pkg/data"
)

const stylesheet = `
body { font-family: serif; line-height: 1.5; }
.hadith { margin-bottom: 2em; }
.narrator { font-style: italic; }
.arabic { direction: rtl; text-align: right; font-size: 1.3em; }
.urdu { direction: rtl; text-align: right; }
.label { font-weight: bold; margin-top: 0.8em; }
.status { color: #555; font-size: 0.9em; }
`

type EPubBuilder struct {
	outputDir string
	// TranslationLabel heads the English body text.
	TranslationLabel string
}

func NewEPubBuilder(outputDir string) *EPubBuilder {
	return &EPubBuilder{outputDir: outputDir, TranslationLabel: "Translation"}
}

// CreateEPub compiles the given pages of one chapter into a single EPub file.
func (p *EPubBuilder) CreateEPub(book *data.Book, chapter *data.Chapter, pages []*data.HadithPage) (string, error) {
	if book == nil || chapter == nil {
		return "", fmt.Errorf("book and chapter are required")
	}

	var hadiths []data.Hadith
	for _, page := range pages {
		if page != nil {
			hadiths = append(hadiths, page.Data...)
		}
	}
	if len(hadiths) == 0 {
		return "", fmt.Errorf("no hadiths to compile")
	}

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	title := fmt.Sprintf("%s - %s", book.BookName, chapterTitle(chapter))
	e, err := epub.NewEpub(title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor(book.WriterName)
	e.SetLang("en")
	e.SetDescription(fmt.Sprintf("%d hadiths from chapter %s of %s", len(hadiths), chapter.ChapterNumber, book.BookName))

	css := "data:text/css;base64," + base64.StdEncoding.EncodeToString([]byte(stylesheet))
	cssPath, err := e.AddCSS(css, "hadiths.css")
	if err != nil {
		return "", fmt.Errorf("failed to add stylesheet: %w", err)
	}

	for _, h := range hadiths {
		body := p.renderHadith(h)
		if _, err := e.AddSection(body, fmt.Sprintf("Hadith %s", h.HadithNumber), "", cssPath); err != nil {
			return "", fmt.Errorf("failed to add hadith %s: %w", h.HadithNumber, err)
		}
	}

	name := sanitizeFilename(fmt.Sprintf("%s - %s", book.BookSlug, chapter.ChapterNumber))
	outputPath := filepath.Join(p.outputDir, name+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}

	return outputPath, nil
}

// renderHadith builds the XHTML body of one hadith, omitting absent optional regions.
func (p *EPubBuilder) renderHadith(h data.Hadith) string {
	var b strings.Builder
	b.WriteString(`<div class="hadith">`)
	fmt.Fprintf(&b, "<h2>Hadith %s</h2>\n", html.EscapeString(h.HadithNumber))

	if heading, ok := data.Optional(h.HeadingEnglish); ok {
		fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(heading))
	}
	if heading, ok := data.Optional(h.HeadingArabic); ok {
		fmt.Fprintf(&b, `<h3 class="arabic">%s</h3>`+"\n", html.EscapeString(heading))
	}
	if h.EnglishNarrator != "" {
		fmt.Fprintf(&b, `<p class="narrator">%s</p>`+"\n", html.EscapeString(h.EnglishNarrator))
	}
	if arabic, ok := data.Optional(h.HadithArabic); ok {
		fmt.Fprintf(&b, `<p class="arabic">%s</p>`+"\n", html.EscapeString(arabic))
	}
	if h.HadithEnglish != "" {
		fmt.Fprintf(&b, `<p class="label">%s</p>`+"\n", html.EscapeString(p.TranslationLabel))
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(h.HadithEnglish))
	}
	if h.HadithUrdu != "" {
		fmt.Fprintf(&b, `<p class="urdu">%s</p>`+"\n", html.EscapeString(h.HadithUrdu))
	}
	if h.Status != "" {
		fmt.Fprintf(&b, `<p class="status">%s</p>`+"\n", html.EscapeString(h.StatusLabel()))
	}
	b.WriteString("</div>")
	return b.String()
}

func chapterTitle(c *data.Chapter) string {
	if t := c.Title(); t != "" {
		return fmt.Sprintf("Chapter %s: %s", c.ChapterNumber, t)
	}
	return fmt.Sprintf("Chapter %s", c.ChapterNumber)
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
