package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_draft_studio/generator"
	"product_draft_studio/registry"
	"product_draft_studio/store"
	"product_draft_studio/studio"
)

type testServer struct {
	t   *testing.T
	srv *Server
}

func setupTestServer(t *testing.T, opts ...studio.Option) *testServer {
	t.Helper()
	b, err := store.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	regs := registry.New(b)
	require.NoError(t, regs.Init(context.Background()))
	srv, err := New(studio.New(regs, opts...),
		WithClock(func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)
	return &testServer{t: t, srv: srv}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	var req *http.Request
	if rd != nil {
		req = httptest.NewRequest(method, path, rd)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

// envelope decodes the response into data, returning the raw envelope.
func envelope[T any](t *testing.T, rec *httptest.ResponseRecorder) (T, Envelope) {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *ErrorBody      `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), rec.Body.String())
	var data T
	if len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, &data))
	}
	return data, Envelope{Success: raw.Success, Error: raw.Error}
}

func TestHealth_AssignsRequestID(t *testing.T) {
	ts := setupTestServer(t)
	rec := ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestGenerateFavoriteAndStats(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodPost, "/api/drafts", `{"mock":true,"mainImages":["https://img/1.png"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res, env := envelope[studio.GenerateResult](t, rec)
	assert.True(t, env.Success)
	require.Len(t, res.Drafts, 3)
	assert.Equal(t, 3, res.Stats.TotalProducts)

	id := res.Drafts[0].ID
	rec = ts.do(http.MethodGet, "/api/drafts/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view, _ := envelope[studio.DraftView](t, rec)
	assert.Equal(t, id, view.Draft.ID)

	rec = ts.do(http.MethodPost, "/api/drafts/"+id+"/favorite", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	tpl, _ := envelope[registry.Template](t, rec)
	assert.Equal(t, res.Drafts[0].Title, tpl.Content.Title)

	rec = ts.do(http.MethodGet, "/api/stats", "")
	stats, _ := envelope[registry.Stats](t, rec)
	assert.Equal(t, registry.Stats{TotalProducts: 3, TotalDrafts: 6, TotalTemplates: 1}, stats)
}

func TestGenerate_ValidationError(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodPost, "/api/drafts", `{"products":[{"name":""}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, env := envelope[any](t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", string(env.Error.Code))

	rec = ts.do(http.MethodPost, "/api/drafts", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.do(http.MethodPost, "/api/drafts", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFavorite_UnknownDraft(t *testing.T) {
	ts := setupTestServer(t)
	rec := ts.do(http.MethodPost, "/api/drafts/draft-missing/favorite", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRewrite(t *testing.T) {
	agent, err := generator.NewAgent(generator.MockLLM{}, nil)
	require.NoError(t, err)
	ts := setupTestServer(t, studio.WithAgent(agent))

	rec := ts.do(http.MethodPost, "/api/drafts/sample", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	res, _ := envelope[studio.GenerateResult](t, rec)
	id := res.Drafts[0].ID

	rec = ts.do(http.MethodPost, "/api/drafts/"+id+"/rewrite", `{"comment":"更有活力"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view, _ := envelope[studio.DraftView](t, rec)
	assert.NotEqual(t, id, view.Draft.ID)
	assert.Len(t, view.History, 1)
}

func TestRewrite_NotConfigured(t *testing.T) {
	ts := setupTestServer(t)
	rec := ts.do(http.MethodPost, "/api/drafts/sample", "")
	res, _ := envelope[studio.GenerateResult](t, rec)

	rec = ts.do(http.MethodPost, "/api/drafts/"+res.Drafts[0].ID+"/rewrite", `{"comment":"x"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExportDraft(t *testing.T) {
	ts := setupTestServer(t)
	rec := ts.do(http.MethodPost, "/api/drafts", `{"products":[{"name":"保温杯","brand":"暖暖"}]}`)
	res, _ := envelope[studio.GenerateResult](t, rec)
	id := res.Drafts[0].ID

	rec = ts.do(http.MethodGet, "/api/drafts/"+id+"/export?format=html", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), id+".html")
	assert.Contains(t, rec.Body.String(), "<h1>暖暖 保温杯</h1>")

	rec = ts.do(http.MethodGet, "/api/drafts/"+id+"/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplatesExportImportDelete(t *testing.T) {
	ts := setupTestServer(t)
	rec := ts.do(http.MethodPost, "/api/drafts", `{"mock":true}`)
	res, _ := envelope[studio.GenerateResult](t, rec)
	for _, d := range res.Drafts {
		require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/drafts/"+d.ID+"/favorite", "").Code)
	}

	rec = ts.do(http.MethodGet, "/api/templates?q=鞋靴&type=all", "")
	list, _ := envelope[[]registry.Template](t, rec)
	require.Len(t, list, 1)

	rec = ts.do(http.MethodGet, "/api/templates/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "templates-2026-10-17.json")
	exported := rec.Body.String()

	rec = ts.do(http.MethodPost, "/api/templates/import", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	imported, _ := envelope[map[string]int](t, rec)
	assert.Equal(t, 3, imported["imported"])

	rec = ts.do(http.MethodPost, "/api/templates/import", `[{"id":"x","type":"nope"}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/templates/"+list[0].ID, "")
	del, _ := envelope[removal](t, rec)
	assert.True(t, del.Removed)

	rec = ts.do(http.MethodDelete, "/api/templates/tpl-missing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	del, _ = envelope[removal](t, rec)
	assert.False(t, del.Removed)
}

func TestTasksLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodPost, "/api/tasks", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	task, _ := envelope[registry.Task](t, rec)
	assert.Equal(t, registry.StatusPending, task.Status)

	rec = ts.do(http.MethodPost, "/api/tasks/"+task.ID+"/start", "")
	started, _ := envelope[registry.Task](t, rec)
	assert.Equal(t, registry.StatusProcessing, started.Status)

	rec = ts.do(http.MethodPost, "/api/tasks/"+task.ID+"/start", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPatch, "/api/tasks/"+task.ID, `{"productCount":5}`)
	edited, _ := envelope[registry.Task](t, rec)
	assert.Equal(t, 5, edited.ProductCount)

	rec = ts.do(http.MethodPost, "/api/tasks/task-missing/pause", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/tasks?status=processing", "")
	list, _ := envelope[[]registry.Task](t, rec)
	assert.Len(t, list, 1)

	rec = ts.do(http.MethodGet, "/api/tasks?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/tasks/"+task.ID, "")
	del, _ := envelope[removal](t, rec)
	assert.True(t, del.Removed)
}

func TestSettings(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodPut, "/api/settings", `{"sloganStyle":"emotional"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got, _ := envelope[registry.Settings](t, rec)
	assert.Equal(t, registry.SloganEmotional, got.SloganStyle)
	assert.Equal(t, "chiikawa", got.Theme)

	rec = ts.do(http.MethodPut, "/api/settings", `{"defaultSloganCount":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, env := envelope[any](t, rec)
	require.NotNil(t, env.Error)
	assert.NotNil(t, env.Error.Details)

	rec = ts.do(http.MethodPost, "/api/settings/reset", "")
	got, _ = envelope[registry.Settings](t, rec)
	assert.Equal(t, registry.DefaultSettings(), got)

	rec = ts.do(http.MethodGet, "/api/settings", "")
	got, _ = envelope[registry.Settings](t, rec)
	assert.Equal(t, registry.DefaultSettings(), got)
}

func TestLibrary(t *testing.T) {
	ts := setupTestServer(t)
	ts.do(http.MethodPost, "/api/drafts", `{"mock":true,"saveToLibrary":false}`)
	rec := ts.do(http.MethodGet, "/api/library", "")
	items, _ := envelope[[]registry.LibraryItem](t, rec)
	assert.Empty(t, items)

	ts.do(http.MethodPost, "/api/drafts", `{"products":[{"name":"a"}]}`)
	rec = ts.do(http.MethodGet, "/api/library", "")
	items, _ = envelope[[]registry.LibraryItem](t, rec)
	assert.Len(t, items, 1)
}

func TestCORSPreflight(t *testing.T) {
	ts := setupTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/stats", bytes.NewReader(nil))
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
