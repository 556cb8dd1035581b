package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"sync"
	"testing"

	"github.com/kerbaras/hadiths/pkg/sources"
	"github.com/kerbaras/hadiths/pkg/utils"
)

// E2E tests against an httptest server speaking the hadith API's wire format.

type fakeAPI struct {
	mu             sync.Mutex
	hadithRequests []url.Values

	// pagesWithoutBody are answered with a bare success envelope.
	pagesWithoutBody map[string]bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("apiKey") != "e2e-key" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":401,"message":"Unauthorized."}`))
		return
	}

	switch r.URL.Path {
	case "/books":
		w.Write([]byte(`{"status":200,"message":"Books has been found.","books":[
			{"id":1,"bookName":"Musnad Ahmad","writerName":"Imam Ahmad","bookSlug":"musnad-ahmad","hadiths_count":"0","chapters_count":"0"},
			{"id":2,"bookName":"Sahih Bukhari","writerName":"Imam Bukhari","bookSlug":"sahih-bukhari","hadiths_count":"50","chapters_count":"2"}
		]}`))
	case "/sahih-bukhari/chapters":
		w.Write([]byte(`{"status":200,"message":"Chapters has been found.","chapters":[
			{"id":1,"chapterNumber":"1","chapterEnglish":"Revelation","bookSlug":"sahih-bukhari"},
			{"id":2,"chapterNumber":"2","chapterEnglish":"Belief","bookSlug":"sahih-bukhari"}
		]}`))
	case "/hadiths":
		q := r.URL.Query()
		f.mu.Lock()
		f.hadithRequests = append(f.hadithRequests, q)
		bare := f.pagesWithoutBody[q.Get("page")]
		f.mu.Unlock()
		if bare {
			w.Write([]byte(`{"status":200,"message":"ok"}`))
			return
		}
		fmt.Fprintf(w, `{"status":200,"message":"Hadiths has been found.","hadiths":{
			"current_page":%s,"last_page":3,"total":60,"per_page":25,
			"data":[{"id":1,"hadithNumber":"1","englishNarrator":"Narrated Abu Huraira:","hadithEnglish":"...","status":"Sahih"}]
		}}`, q.Get("page"))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":404,"message":"Not found."}`))
	}
}

func (f *fakeAPI) requests() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.hadithRequests...)
}

func newE2EController(t *testing.T) (*BrowseController, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	source := sources.NewHadithAPI(utils.NewAPI(server.URL, "e2e-key"), 25)
	c := NewBrowseController(source, nil)
	t.Cleanup(c.Close)
	return c, api
}

// openChapter drives c to the given chapter of sahih-bukhari without fetching its hadiths.
func openChapter(t *testing.T, c *BrowseController, number string) []Fetch {
	t.Helper()
	c.Drain(c.Start()...)
	fetches, ok := c.SelectBookBySlug("sahih-bukhari")
	if !ok {
		t.Fatal("sahih-bukhari not in catalog")
	}
	c.Drain(fetches...)
	fetches, ok = c.SelectChapterByNumber(number)
	if !ok {
		t.Fatalf("chapter %s not found", number)
	}
	return fetches
}

func TestE2E_CatalogHidesEmptyBooks(t *testing.T) {
	c, _ := newE2EController(t)
	c.Drain(c.Start()...)

	state := c.State()
	if len(state.Books) != 1 {
		t.Fatalf("Expected 1 available book, got %d", len(state.Books))
	}
	if state.Books[0].BookSlug != "sahih-bukhari" {
		t.Errorf("Expected sahih-bukhari, got %s", state.Books[0].BookSlug)
	}
	if state.Error != "" {
		t.Errorf("Unexpected error %q", state.Error)
	}
}

func TestE2E_BrowseToSecondPage(t *testing.T) {
	c, api := newE2EController(t)

	// Moving to page 2 before the first page settles supersedes the page-1
	// request, so only page 2 goes out.
	selectFetches := openChapter(t, c, "1")
	if len(c.State().Chapters) != 2 {
		t.Fatalf("Expected 2 chapters, got %d", len(c.State().Chapters))
	}
	pageFetches := c.ChangePage(2)
	if len(selectFetches) != 1 || len(pageFetches) != 1 {
		t.Fatalf("Expected one fetch each, got %d and %d", len(selectFetches), len(pageFetches))
	}
	c.Drain(pageFetches...)

	requests := api.requests()
	if len(requests) != 1 {
		t.Fatalf("Expected 1 hadith request, got %d", len(requests))
	}
	want := map[string]string{"book": "sahih-bukhari", "chapter": "1", "page": "2", "paginate": "25"}
	for k, v := range want {
		if got := requests[0].Get(k); got != v {
			t.Errorf("Query %s = %q, want %q", k, got, v)
		}
	}

	state := c.State()
	if state.Hadiths == nil {
		t.Fatal("Expected a published page")
	}
	if state.Hadiths.LastPage != 3 || state.Page != 2 {
		t.Errorf("Expected page 2 of 3, got page %d of %d", state.Page, state.Hadiths.LastPage)
	}

	before := c.State()
	if c.ChangePage(5) != nil {
		t.Error("Expected page 5 to be rejected")
	}
	if !reflect.DeepEqual(before, c.State()) {
		t.Error("Rejected page change altered state")
	}
	if len(api.requests()) != 1 {
		t.Errorf("Expected no further requests, got %d", len(api.requests()))
	}
}

func TestE2E_PagePastLastPage(t *testing.T) {
	c, api := newE2EController(t)
	openChapter(t, c, "1")

	c.Drain(c.ChangePage(10)...)

	if got := api.requests(); len(got) != 1 || got[0].Get("page") != "10" {
		t.Fatalf("Expected a single request for page 10, got %v", got)
	}
	if !c.PastLastPage() {
		t.Errorf("Expected page 10 of 3 to be past the last page")
	}
	c.Drain(c.ChangePage(3)...)
	if c.PastLastPage() {
		t.Errorf("Page 3 of 3 reported past the last page")
	}
}

func TestE2E_UnknownBookChapters(t *testing.T) {
	c, _ := newE2EController(t)
	c.Drain(c.Start()...)

	fetches := c.SelectBook(&bukhari)
	fetches[0].BookSlug = "missing"
	c.Drain(fetches...)

	state := c.State()
	if len(state.Chapters) != 0 {
		t.Errorf("Expected no chapters, got %d", len(state.Chapters))
	}
	if state.Error != "No chapters found for Sahih Bukhari." {
		t.Errorf("Unexpected error %q", state.Error)
	}
	if state.ChaptersLoading {
		t.Error("Chapters still loading")
	}
}

func TestE2E_PageWithoutHadithsObject(t *testing.T) {
	c, api := newE2EController(t)
	api.mu.Lock()
	api.pagesWithoutBody = map[string]bool{"2": true}
	api.mu.Unlock()

	c.Drain(openChapter(t, c, "1")...)
	if h := c.State().Hadiths; h == nil || h.LastPage != 3 {
		t.Fatalf("Expected page 1 of 3, got %+v", h)
	}

	c.Drain(c.NextPage()...)
	state := c.State()
	if state.Page != 2 {
		t.Errorf("Expected page 2, got %d", state.Page)
	}
	if state.Hadiths != nil {
		t.Errorf("Expected no page published, got %+v", state.Hadiths)
	}
	if state.Error != "Failed to fetch hadiths for chapter 1." {
		t.Errorf("Unexpected error %q", state.Error)
	}

	back := c.PrevPage()
	if len(back) != 1 {
		t.Fatalf("Expected paging back to stay possible, got %d fetches", len(back))
	}
	c.Drain(back...)
	state = c.State()
	if state.Page != 1 || state.Hadiths == nil || state.Hadiths.LastPage != 3 {
		t.Errorf("Expected page 1 of 3 after paging back, got page %d %+v", state.Page, state.Hadiths)
	}
	if state.Error != "" {
		t.Errorf("Expected error cleared, got %q", state.Error)
	}
}
