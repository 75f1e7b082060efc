/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: server_test.go
Description: Tests for the QueryCollect web server. Drives every route through
httptest and inspects rendered pages with goquery.
*/

package server_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/detective-solutions/QueryCollect/pkg/corpus"
	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	"github.com/detective-solutions/QueryCollect/pkg/logging"
	"github.com/detective-solutions/QueryCollect/pkg/operations"
	"github.com/detective-solutions/QueryCollect/pkg/server"
	"github.com/detective-solutions/QueryCollect/pkg/store"
	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server  *server.Server
	store   *store.Store
	console *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gs, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "guesses.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { gs.Close() })

	f := &fixture{store: gs, console: &bytes.Buffer{}}
	f.server = newServer(t, gs, f.console)
	return f
}

func newServer(t *testing.T, gs server.GuessStore, console *bytes.Buffer) *server.Server {
	t.Helper()
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:   logging.LogLevelDebug,
		Format:  logging.LogFormatCustom,
		Console: console,
	})
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	gen := dataset.NewGenerator(dataset.NewNamer(nil), dataset.NewSynthesizer(nil, corpus.Default()))
	registry := operations.NewRegistry(gen, nil)
	return server.New(registry, gs, logger, rand.New(rand.NewSource(1)))
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// TestIndexPage tests the rendered quiz page
func TestIndexPage(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 20; i++ {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/?streak=4", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		doc, err := goquery.NewDocumentFromReader(rec.Body)
		require.NoError(t, err)

		assert.Equal(t, "4", doc.Find("#streak").Text())
		assert.Equal(t, 1, doc.Find("table.input").Length())
		assert.Equal(t, 1, doc.Find("table.output").Length())
		assert.Positive(t, doc.Find("table.input th").Length())

		qt, ok := doc.Find(`#guess input[name="query_type"]`).Attr("value")
		require.True(t, ok)
		id, err := strconv.Atoi(qt)
		require.NoError(t, err)
		assert.True(t, operations.Operation(id).Valid())

		maxLen, _ := doc.Find("textarea").Attr("maxlength")
		assert.Equal(t, "400", maxLen)

		doc.Find("td.missing").Each(func(_ int, s *goquery.Selection) {
			assert.Equal(t, "NaN", s.Text())
		})
	}

	assert.Contains(t, f.console.String(), "[GEN] Round generated")
	assert.Contains(t, f.console.String(), "[HTTP] Request served")
}

// TestIndexStreakFallback tests that invalid streaks render as 0
func TestIndexStreakFallback(t *testing.T) {
	f := newFixture(t)
	for _, raw := range []string{"", "abc", "-3", "1e9x"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/?streak="+url.QueryEscape(raw), nil))
		require.Equal(t, http.StatusOK, rec.Code)
		doc, err := goquery.NewDocumentFromReader(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, "0", doc.Find("#streak").Text(), "streak %q", raw)
	}
}

// TestAddQuery tests guess recording and the streak redirect
func TestAddQuery(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postForm("/add_query", url.Values{
		"query_type":  {"6"},
		"query_input": {"SELECT * FROM t ORDER BY score"},
		"streak":      {"2"},
	}))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?streak=3", rec.Header().Get("Location"))

	guesses, err := f.store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, guesses, 1)
	assert.Equal(t, 6, guesses[0].QueryType)
	assert.Equal(t, "SELECT * FROM t ORDER BY score", guesses[0].FreeTextQuery)
	assert.Contains(t, f.console.String(), "[GUESS] Guess recorded")
}

// TestAddQueryBestEffort tests that rejected guesses still advance the streak
func TestAddQueryBestEffort(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postForm("/add_query", url.Values{
		"query_type":  {"abc"},
		"query_input": {"whatever"},
		"streak":      {"oops"},
	}))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?streak=1", rec.Header().Get("Location"))

	n, err := f.store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, f.console.String(), "Failed to record guess")
}

type failingStore struct{}

func (failingStore) Save(context.Context, int, string) (*store.Guess, error) {
	return nil, errors.New("database is down")
}

func (failingStore) List(context.Context, int) ([]store.Guess, error) {
	return nil, errors.New("database is down")
}

// TestAddQueryStoreDown tests redirects while the store fails
func TestAddQueryStoreDown(t *testing.T) {
	console := &bytes.Buffer{}
	srv := newServer(t, failingStore{}, console)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, postForm("/add_query", url.Values{"query_type": {"1"}, "streak": {"5"}}))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?streak=6", rec.Header().Get("Location"))
	assert.Contains(t, console.String(), "database is down")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guesses", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// TestSkip tests both skip methods
func TestSkip(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postForm("/skip", url.Values{"streak-break": {"0"}}))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?streak=0", rec.Header().Get("Location"))

	rec = f.do(httptest.NewRequest(http.MethodGet, "/skip", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?streak=0", rec.Header().Get("Location"))
}

// TestAPIOperations tests the operation listing
func TestAPIOperations(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/operations", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []operations.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, operations.Count)
	assert.Equal(t, "row_filter", entries[0].Name)
	assert.Equal(t, "calculate_column", entries[11].Name)
}

// TestAPITask tests task generation by id, by name and at random
func TestAPITask(t *testing.T) {
	f := newFixture(t)

	type task struct {
		ID     int              `json:"id"`
		Name   string           `json:"name"`
		Input  []map[string]any `json:"input"`
		Output []map[string]any `json:"output"`
	}

	for _, query := range []string{"?operation=5", "?operation=group_data"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/task"+query, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var got task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 5, got.ID)
		assert.Equal(t, "group_data", got.Name)
		assert.NotEmpty(t, got.Input)
		assert.NotEmpty(t, got.Output)
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/task", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, bad := range []string{"99", "-1", "pivot"} {
		rec = f.do(httptest.NewRequest(http.MethodGet, "/api/task?operation="+bad, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

// TestAPIGuesses tests creating and listing guesses over JSON
func TestAPIGuesses(t *testing.T) {
	f := newFixture(t)

	for i, text := range []string{"drop the last column", "fill nulls with zero"} {
		req := httptest.NewRequest(http.MethodPost, "/api/guesses",
			strings.NewReader(`{"query_type": `+strconv.Itoa(7+i)+`, "free_text_query": "`+text+`"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := f.do(req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var g store.Guess
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
		assert.Equal(t, text, g.FreeTextQuery)
		assert.NotEmpty(t, g.ID)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/guesses", strings.NewReader(`{"query_type": 12}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, f.do(req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/guesses", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, f.do(req).Code)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/guesses?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []store.Guess
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/guesses?limit=abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

// TestNewPanics tests required collaborators
func TestNewPanics(t *testing.T) {
	assert.Panics(t, func() { server.New(nil, failingStore{}, nil, nil) })
}

// TestAPIStats tests usage metrics collected across requests
func TestAPIStats(t *testing.T) {
	f := newFixture(t)

	f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	f.do(httptest.NewRequest(http.MethodGet, "/api/task?operation=sort_data", nil))
	f.do(httptest.NewRequest(http.MethodGet, "/api/task?operation=99", nil))
	f.do(postForm("/add_query", url.Values{"query_type": {"2"}, "query_input": {"rename"}}))
	f.do(postForm("/add_query", url.Values{"query_type": {"x"}}))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalRounds     int64                     `json:"total_rounds"`
		Operations      map[string]map[string]any `json:"operations"`
		GuessesRecorded int64                     `json:"guesses_recorded"`
		GuessesFailed   int64                     `json:"guesses_failed"`
		Requests        int64                     `json:"requests"`
		ClientErrors    int64                     `json:"client_errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalRounds)
	assert.Contains(t, stats.Operations, "sort_data")
	assert.Equal(t, int64(1), stats.GuessesRecorded)
	assert.Equal(t, int64(1), stats.GuessesFailed)
	assert.Equal(t, int64(5), stats.Requests)
	assert.Equal(t, int64(1), stats.ClientErrors)

	assert.Equal(t, int64(6), f.server.Metrics().GetGlobalMetrics().Requests)
}

// TestRecoveredPanicIsCounted tests that a panicking handler still shows up in the metrics and the log
func TestRecoveredPanicIsCounted(t *testing.T) {
	f := newFixture(t)
	e, ok := f.server.Handler().(*echo.Echo)
	require.True(t, ok)
	e.GET("/explode", func(echo.Context) error { panic("operations: schema needs a string column") })

	rec := f.do(httptest.NewRequest(http.MethodGet, "/explode", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	m := f.server.Metrics().GetGlobalMetrics()
	assert.Equal(t, int64(1), m.Requests)
	assert.Equal(t, int64(1), m.ServerErrors)
	assert.Contains(t, f.console.String(), "/explode")
}
