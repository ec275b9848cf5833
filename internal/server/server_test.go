package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/models"
	"tasklist/internal/notify"
	"tasklist/internal/storage/memory"
	"tasklist/internal/tasks"
)

func newTestServer(t *testing.T, staticDir string) *Server {
	t.Helper()
	store := tasks.New(memory.New(), notify.New(time.Minute), nil,
		tasks.WithClock(func() time.Time { return time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC) }))
	t.Cleanup(func() { _ = store.Close() })
	return New(store, nil, staticDir)
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

type taskResponse struct {
	Task models.Task `json:"task"`
}

type listResponse struct {
	Tasks     []models.Task `json:"tasks"`
	Completed int           `json:"completed"`
}

func createTask(t *testing.T, srv *Server, d models.Draft) models.Task {
	t.Helper()
	rr := do(t, srv, http.MethodPost, "/api/tasks", d)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[taskResponse](t, rr).Task
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "")
	rr := do(t, srv, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestCreateAndSortScenario(t *testing.T) {
	srv := newTestServer(t, "")

	a := createTask(t, srv, models.Draft{Title: "A", DueDate: "01-01-2030"})
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.Done)
	createTask(t, srv, models.Draft{Title: "B", DueDate: "01-01-2020"})

	rr := do(t, srv, http.MethodPut, "/api/preferences", map[string]string{"sort": "asc"})
	require.Equal(t, http.StatusOK, rr.Code)

	list := decode[listResponse](t, do(t, srv, http.MethodGet, "/api/tasks", nil))
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, "B", list.Tasks[0].Title)
	assert.Equal(t, "A", list.Tasks[1].Title)

	do(t, srv, http.MethodPut, "/api/preferences", map[string]string{"sort": "descending"})
	list = decode[listResponse](t, do(t, srv, http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, "A", list.Tasks[0].Title)
	assert.Equal(t, "B", list.Tasks[1].Title)
}

func TestCreateBlankIsRejected(t *testing.T) {
	srv := newTestServer(t, "")

	rr := do(t, srv, http.MethodPost, "/api/tasks", models.Draft{Title: "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	list := decode[listResponse](t, do(t, srv, http.MethodGet, "/api/tasks", nil))
	assert.Empty(t, list.Tasks)
}

func TestCreateFromBufferedDraft(t *testing.T) {
	srv := newTestServer(t, "")

	rr := do(t, srv, http.MethodPut, "/api/draft", models.Draft{Title: "typed", DueDate: "20-10-2026"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodPost, "/api/tasks", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "typed", decode[taskResponse](t, rr).Task.Title)

	draft := decode[struct {
		Draft models.Draft `json:"draft"`
	}](t, do(t, srv, http.MethodGet, "/api/draft", nil))
	assert.Equal(t, models.Draft{DueDate: "14-10-2026"}, draft.Draft)
}

func TestToggleAndCompletedCount(t *testing.T) {
	srv := newTestServer(t, "")
	a := createTask(t, srv, models.Draft{Title: "A"})

	rr := do(t, srv, http.MethodPost, "/api/tasks/"+a.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[taskResponse](t, rr).Task.Done)

	list := decode[listResponse](t, do(t, srv, http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, 1, list.Completed)

	note := decode[map[string]string](t, do(t, srv, http.MethodGet, "/api/notification", nil))
	assert.Equal(t, models.NotifyStatusUpdated, note["notification"])

	do(t, srv, http.MethodPut, "/api/preferences", map[string]string{"filter": "pending"})
	list = decode[listResponse](t, do(t, srv, http.MethodGet, "/api/tasks", nil))
	assert.Empty(t, list.Tasks)
	assert.Equal(t, 1, list.Completed)
}

func TestEditFlow(t *testing.T) {
	srv := newTestServer(t, "")
	a := createTask(t, srv, models.Draft{Title: "A", Status: "todo"})

	rr := do(t, srv, http.MethodPut, "/api/edit", models.Draft{Title: "nothing to edit"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, srv, http.MethodPost, "/api/tasks/"+a.ID+"/edit", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	begin := decode[struct {
		Draft     models.Draft `json:"draft"`
		EditingID string       `json:"editing_id"`
	}](t, rr)
	assert.Equal(t, a.ID, begin.EditingID)
	assert.Equal(t, "A", begin.Draft.Title)

	rr = do(t, srv, http.MethodPut, "/api/edit", models.Draft{Title: "A!", Status: "doing"})
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[taskResponse](t, rr).Task
	assert.Equal(t, a.ID, updated.ID)
	assert.Equal(t, "doing", updated.Status)

	rr = do(t, srv, http.MethodGet, "/api/tasks/"+a.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "A!", decode[taskResponse](t, rr).Task.Title)

	do(t, srv, http.MethodPost, "/api/tasks/"+a.ID+"/edit", nil)
	rr = do(t, srv, http.MethodDelete, "/api/edit", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	snap := decode[tasks.Snapshot](t, do(t, srv, http.MethodGet, "/api/state", nil))
	assert.Empty(t, snap.EditingID)
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t, "")
	a := createTask(t, srv, models.Draft{Title: "A"})

	rr := do(t, srv, http.MethodDelete, "/api/tasks/"+a.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodDelete, "/api/tasks/"+a.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, srv, http.MethodPost, "/api/tasks/"+a.ID+"/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	snap := decode[tasks.Snapshot](t, do(t, srv, http.MethodGet, "/api/state", nil))
	assert.Equal(t, 0, snap.Total)
	assert.Equal(t, models.NotifyDeleted, snap.Notification)
}

func TestPreferencesValidation(t *testing.T) {
	srv := newTestServer(t, "")

	rr := do(t, srv, http.MethodPut, "/api/preferences", map[string]string{"sort": "asc", "filter": "archived"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Neither value was applied.
	prefs := decode[struct {
		Preferences models.Preferences `json:"preferences"`
	}](t, do(t, srv, http.MethodGet, "/api/preferences", nil))
	assert.Equal(t, models.DefaultPreferences(), prefs.Preferences)

	rr = do(t, srv, http.MethodPut, "/api/preferences", map[string]string{"filter": "completed"})
	require.Equal(t, http.StatusOK, rr.Code)
	prefs = decode[struct {
		Preferences models.Preferences `json:"preferences"`
	}](t, rr)
	assert.Equal(t, models.Preferences{Sort: models.SortDescending, Filter: models.FilterCompleted}, prefs.Preferences)
}

func TestMalformedJSON(t *testing.T) {
	srv := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>tasks</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	srv := newTestServer(t, dir)

	rr := do(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tasks")

	rr = do(t, srv, http.MethodGet, "/some/client/route", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tasks")

	rr = do(t, srv, http.MethodGet, "/assets/app.js", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"endpoint not found"}`, rr.Body.String())
}

func TestAPIOnlyMode(t *testing.T) {
	srv := newTestServer(t, "")
	rr := do(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
