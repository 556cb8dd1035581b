package data

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Book struct {
	ID            int     `json:"id"`
	BookName      string  `json:"bookName"`
	WriterName    string  `json:"writerName"`
	AboutWriter   *string `json:"aboutWriter"`
	WriterDeath   *string `json:"writerDeath"`
	BookSlug      string  `json:"bookSlug"`
	HadithsCount  string  `json:"hadiths_count"`
	ChaptersCount string  `json:"chapters_count"`
}

// HadithCount parses the text-encoded hadith count. Anything unparsable counts as zero.
func (b *Book) HadithCount() int {
	return parseCount(b.HadithsCount)
}

func (b *Book) ChapterCount() int {
	return parseCount(b.ChaptersCount)
}

// Available reports whether the book has any hadiths to browse.
func (b *Book) Available() bool {
	return b.HadithCount() > 0
}

// AvailableBooks keeps the books with a positive hadith count, preserving order.
func AvailableBooks(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if b.Available() {
			out = append(out, b)
		}
	}
	return out
}

type Chapter struct {
	ID             int    `json:"id"`
	ChapterNumber  string `json:"chapterNumber"`
	ChapterEnglish string `json:"chapterEnglish"`
	ChapterUrdu    string `json:"chapterUrdu"`
	ChapterArabic  string `json:"chapterArabic"`
	BookSlug       string `json:"bookSlug"`
}

// Title returns the best available display title.
func (c *Chapter) Title() string {
	switch {
	case c.ChapterEnglish != "":
		return c.ChapterEnglish
	case c.ChapterArabic != "":
		return c.ChapterArabic
	default:
		return c.ChapterUrdu
	}
}

// BookSummary is the copy of the owning book embedded in every hadith.
type BookSummary struct {
	ID         int    `json:"id"`
	BookName   string `json:"bookName"`
	WriterName string `json:"writerName"`
	BookSlug   string `json:"bookSlug"`
}

// ChapterSummary is the copy of the owning chapter embedded in every hadith.
type ChapterSummary struct {
	ID             int    `json:"id"`
	ChapterNumber  string `json:"chapterNumber"`
	ChapterEnglish string `json:"chapterEnglish"`
	ChapterUrdu    string `json:"chapterUrdu"`
	ChapterArabic  string `json:"chapterArabic"`
	BookSlug       string `json:"bookSlug"`
}

type Hadith struct {
	ID              int     `json:"id"`
	HadithNumber    string  `json:"hadithNumber"`
	EnglishNarrator string  `json:"englishNarrator"`
	UrduNarrator    *string `json:"urduNarrator"`
	HadithEnglish   string  `json:"hadithEnglish"`
	HadithUrdu      string  `json:"hadithUrdu"`
	HadithArabic    *string `json:"hadithArabic"`
	HeadingEnglish  *string `json:"headingEnglish"`
	HeadingUrdu     *string `json:"headingUrdu"`
	HeadingArabic   *string `json:"headingArabic"`
	ChapterID       string  `json:"chapterId"`
	BookSlug        string  `json:"bookSlug"`
	Volume          *string `json:"volume"`
	Status          string  `json:"status"`

	Book    BookSummary    `json:"book"`
	Chapter ChapterSummary `json:"chapter"`
}

// StatusLabel is the grading tag in display case, e.g. "sahih" -> "Sahih".
func (h *Hadith) StatusLabel() string {
	return cases.Title(language.English).String(strings.TrimSpace(h.Status))
}

// HadithPage is one page of the paginated hadith listing.
type HadithPage struct {
	CurrentPage int      `json:"current_page"`
	LastPage    int      `json:"last_page"`
	Total       int      `json:"total"`
	PerPage     int      `json:"per_page"`
	Data        []Hadith `json:"data"`
}

// Optional dereferences an optional text field, treating blank text as absent.
func Optional(s *string) (string, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", false
	}
	return *s, true
}

// parseCount reads the leading integer of s, ignoring thousands separators:
// "7,276" is 7276 and "50 hadiths" is 50. Text without leading digits is 0.
func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
