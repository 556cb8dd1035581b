package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/kerbaras/hadiths/pkg/data"
	"github.com/kerbaras/hadiths/pkg/utils"
)

type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type hadithPage struct {
	CurrentPage int             `json:"current_page"`
	LastPage    int             `json:"last_page"`
	Total       int             `json:"total"`
	PerPage     int             `json:"per_page"`
	Data        json.RawMessage `json:"data"`
}

// toHadithPage converts the wire envelope, reporting false when data is not a list.
// Entries that fail to decode are dropped and returned as skipped.
func (p *hadithPage) toHadithPage() (page *data.HadithPage, skipped []error, ok bool) {
	page = &data.HadithPage{
		CurrentPage: p.CurrentPage,
		LastPage:    p.LastPage,
		Total:       p.Total,
		PerPage:     p.PerPage,
		Data:        []data.Hadith{},
	}

	raw := bytes.TrimSpace(p.Data)
	if len(raw) == 0 || raw[0] != '[' {
		return page, nil, false
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return page, nil, false
	}
	for i, entry := range entries {
		var h data.Hadith
		if err := json.Unmarshal(entry, &h); err != nil {
			skipped = append(skipped, fmt.Errorf("hadith %d: %w", i, err))
			continue
		}
		page.Data = append(page.Data, h)
	}
	return page, skipped, true
}

// HadithAPI is a Source backed by the hadithapi.com REST API.
type HadithAPI struct {
	api      *utils.API
	pageSize int
}

func NewHadithAPI(api *utils.API, pageSize int) *HadithAPI {
	if pageSize <= 0 {
		pageSize = 25
	}
	return &HadithAPI{api: api, pageSize: pageSize}
}

func (h *HadithAPI) PageSize() int {
	return h.pageSize
}

func (h *HadithAPI) GetBooks(ctx context.Context) ([]data.Book, error) {
	var resp struct {
		envelope
		Books []data.Book `json:"books"`
	}
	err := h.api.Get(ctx, "/books", nil, &resp)
	if err := check(err, resp.envelope); err != nil {
		return nil, fmt.Errorf("failed to get books: %w", err)
	}
	return resp.Books, nil
}

func (h *HadithAPI) GetChapters(ctx context.Context, bookSlug string) ([]data.Chapter, error) {
	var resp struct {
		envelope
		Chapters []data.Chapter `json:"chapters"`
	}
	path := fmt.Sprintf("/%s/chapters", url.PathEscape(bookSlug))
	err := h.api.Get(ctx, path, nil, &resp)
	if err := check(err, resp.envelope); err != nil {
		return nil, fmt.Errorf("failed to get chapters of %s: %w", bookSlug, err)
	}
	return resp.Chapters, nil
}

func (h *HadithAPI) GetHadiths(ctx context.Context, q HadithQuery) (*data.HadithPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("book", q.BookSlug)
	params.Set("chapter", q.ChapterNumber)
	params.Set("paginate", strconv.Itoa(h.pageSize))
	params.Set("page", strconv.Itoa(page))

	var resp struct {
		envelope
		Hadiths *hadithPage `json:"hadiths"`
	}
	err := h.api.Get(ctx, "/hadiths", params, &resp)
	if err := check(err, resp.envelope); err != nil {
		return nil, fmt.Errorf("failed to get hadiths of %s chapter %s: %w", q.BookSlug, q.ChapterNumber, err)
	}

	if resp.Hadiths == nil {
		return nil, fmt.Errorf("failed to get hadiths of %s chapter %s: %w", q.BookSlug, q.ChapterNumber, ErrMissingPage)
	}
	out, skipped, ok := resp.Hadiths.toHadithPage()
	if !ok {
		return out, ErrMalformedPage
	}
	for _, err := range skipped {
		h.api.Logger().Warn("skipping undecodable hadith",
			zap.String("book", q.BookSlug),
			zap.String("chapter", q.ChapterNumber),
			zap.Int("page", page),
			zap.Error(err),
		)
	}
	return out, nil
}

// check folds transport, HTTP and body status into one error.
func check(err error, env envelope) error {
	var httpErr *utils.HTTPError
	if err != nil && !errors.As(err, &httpErr) {
		return err
	}
	if httpErr != nil || env.Status != http.StatusOK {
		status := env.Status
		if status == 0 && httpErr != nil {
			status = httpErr.StatusCode
		}
		return &APIError{Status: status, Message: env.Message}
	}
	return nil
}
