package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestHandlers() (*Handlers, *Controller) {
	res := newFakeResolver()
	res.add("英雄", movie(79, "英雄"))
	controller := NewController(res, &fakeValidator{}, zerolog.Nop())
	return NewHandlers(controller), controller
}

func TestHandlers_StartSearch(t *testing.T) {
	handlers, controller := setupTestHandlers()

	e := echo.New()
	body := strings.NewReader(`{"query": "英雄"}`)
	req := httptest.NewRequest(http.MethodPost, "/search", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handlers.StartSearch(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.True(t, snap.HasSearched)

	// The search settles asynchronously.
	require.Eventually(t, func() bool {
		s := controller.State()
		return !s.IsLoading && len(s.Movies) == 1
	}, 2*time.Second, 2*time.Millisecond)
}

func TestHandlers_StartSearch_EmptyQuery(t *testing.T) {
	handlers, _ := setupTestHandlers()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query": "  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handlers.StartSearch(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestHandlers_GetState(t *testing.T) {
	handlers, controller := setupTestHandlers()
	controller.Search("英雄")
	require.Eventually(t, func() bool {
		return !controller.State().IsLoading
	}, 2*time.Second, 2*time.Millisecond)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search/state", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handlers.GetState(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Movies, 1)
	assert.Equal(t, "英雄", snap.Movies[0].Title)
}

func TestHandlers_Reset(t *testing.T) {
	handlers, controller := setupTestHandlers()
	controller.Search("英雄")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search/reset", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handlers.ResetSearch(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	snap := controller.State()
	assert.Empty(t, snap.Movies)
	assert.False(t, snap.HasSearched)
}

func TestHandlers_ValidateKey(t *testing.T) {
	handlers, _ := setupTestHandlers()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search/validate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handlers.ValidateKey(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["apiKeyValid"])
}
