package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/platform/database"
	"bookstore/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := book.NewSQLiteRepo(db, 5*time.Second)
	handler := book.NewHTTPHandler(book.NewService(repo), zerolog.Nop())
	router := NewRouter(handler, repo, zerolog.Nop(), Options{
		ServiceName:  "book-api-test",
		MaxBodyBytes: 1 << 20,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestRouter_Welcome(t *testing.T) {
	srv := newTestServer(t)

	resp, data := call(t, srv, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, welcomeMessage, body["message"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestRouter_HealthAndReady(t *testing.T) {
	srv := newTestServer(t)

	resp, data := call(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(data))

	resp, data = call(t, srv, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", string(data))
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func TestRouter_ReadyWhenStoreDown(t *testing.T) {
	handler := book.NewHTTPHandler(book.NewService(nil), zerolog.Nop())
	router := NewRouter(handler, failingPinger{}, zerolog.Nop(), Options{MaxBodyBytes: 1024})

	w := testutil.Serve(router, testutil.NewRequest(http.MethodGet, "/readyz", nil))

	testutil.AssertResponseCode(t, w.Code, http.StatusServiceUnavailable)
}

func TestRouter_BookLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Create
	resp, data := call(t, srv, http.MethodPost, "/books/", map[string]any{
		"title":          "A",
		"author":         "B",
		"genre":          "Fiction",
		"published_year": 2001,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var created book.Book
	require.NoError(t, json.Unmarshal(data, &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "A", created.Title)
	assert.Equal(t, "B", created.Author)

	path := "/books/" + strconv.FormatInt(created.ID, 10)

	// Read one
	resp, data = call(t, srv, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got book.Book
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, created, got)

	// Update replaces every field
	resp, data = call(t, srv, http.MethodPut, path, map[string]any{"title": "C", "author": "D"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var updated book.Book
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, book.Book{ID: created.ID, Title: "C", Author: "D"}, updated)

	resp, data = call(t, srv, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, updated, got)

	// Delete returns the record as it was
	resp, data = call(t, srv, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted book.Book
	require.NoError(t, json.Unmarshal(data, &deleted))
	assert.Equal(t, updated, deleted)

	resp, _ = call(t, srv, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, srv, http.MethodPut, path, map[string]any{"title": "E", "author": "F"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, srv, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_EmptyTitleRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	resp, data := call(t, srv, http.MethodPost, "/books/", map[string]any{"title": "", "author": "B"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var created book.Book
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, "", created.Title)
	assert.Equal(t, "B", created.Author)

	resp, data = call(t, srv, http.MethodGet, "/books/"+strconv.FormatInt(created.ID, 10), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got book.Book
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, created, got)
}

func TestRouter_RejectsTrailingData(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/books/", bytes.NewBufferString(`{"title":"A","author":"B"} garbage`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	_, data := call(t, srv, http.MethodGet, "/books/", nil)
	assert.JSONEq(t, `[]`, string(data))
}

func TestRouter_ListInCreationOrder(t *testing.T) {
	srv := newTestServer(t)

	resp, data := call(t, srv, http.MethodGet, "/books/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(data))

	var want []book.Book
	for _, title := range []string{"R1", "R2", "R3"} {
		resp, data := call(t, srv, http.MethodPost, "/books/", map[string]any{"title": title, "author": "x"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var b book.Book
		require.NoError(t, json.Unmarshal(data, &b))
		want = append(want, b)
	}

	for _, path := range []string{"/books/", "/books"} {
		resp, data := call(t, srv, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got []book.Book
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, want, got, path)
	}
}

func TestRouter_ReadUnknownID(t *testing.T) {
	srv := newTestServer(t)

	resp, data := call(t, srv, http.MethodGet, "/books/999999", nil)

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "Book not found", body["detail"])
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := call(t, srv, http.MethodGet, "/authors/", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, srv, http.MethodPatch, "/books/1", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouter_BodyTooLarge(t *testing.T) {
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	defer db.Close()

	repo := book.NewSQLiteRepo(db, time.Second)
	handler := book.NewHTTPHandler(book.NewService(repo), zerolog.Nop())
	router := NewRouter(handler, repo, zerolog.Nop(), Options{MaxBodyBytes: 16})

	body := `{"title":"a long enough title","author":"b"}`
	w := testutil.Serve(router, testutil.NewRequest(http.MethodPost, "/books/", body))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
