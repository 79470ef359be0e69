package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"scaff-planner/internal/planner/ids"
	"scaff-planner/internal/planner/models"
	"scaff-planner/internal/planner/repository"
	"scaff-planner/internal/planner/service"
)

var testConfig = fiber.TestConfig{Timeout: 10 * time.Second}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))

	sessions := service.NewSessionManager(service.Options{
		Settings: models.DefaultEaveSettings(),
		IDs:      ids.NewSequence(),
		Clock:    ids.FixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/health/live", LivenessProbe)
	app.Get("/health/ready", ReadinessProbe(repo))
	app.Get("/docs", SwaggerUI("/docs/openapi.yaml"))
	app.Get("/docs/openapi.yaml", OpenAPISpec)
	NewPlannerHandler(sessions, repo).Register(app.Group("/api/v1"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, testConfig)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/api/v1/sessions", map[string]string{"name": "House A"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode(t, resp)["id"].(string)
}

func drawWall(t *testing.T, app *fiber.App, id string, from, to models.Point) map[string]any {
	t.Helper()
	base := "/api/v1/sessions/" + id + "/pointer/"
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPost, base+"down", from).StatusCode)
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPost, base+"move", to).StatusCode)
	resp := do(t, app, http.MethodPost, base+"up", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode(t, resp)
}

func drawSquare(t *testing.T, app *fiber.App, id string) {
	t.Helper()
	corners := []models.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}, {X: 0, Y: 0}}
	for i := 1; i < len(corners); i++ {
		out := drawWall(t, app, id, corners[i-1], corners[i])
		require.Equal(t, true, out["committed"])
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	assert.Equal(t, "alive", decode(t, do(t, app, http.MethodGet, "/health/live", nil))["status"])
	assert.Equal(t, "ready", decode(t, do(t, app, http.MethodGet, "/health/ready", nil))["status"])
}

func TestDocs(t *testing.T) {
	t.Parallel()
	app := newApp(t)

	resp := do(t, app, http.MethodGet, "/docs/openapi.yaml", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "openapi: 3.0.3")
	assert.Contains(t, string(data), "/sessions/{id}/pointer/down")

	resp = do(t, app, http.MethodGet, "/docs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "url: '/docs/openapi.yaml'")
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("db down") }

func TestReadinessUnavailable(t *testing.T) {
	t.Parallel()
	app := fiber.New()
	app.Get("/ready", ReadinessProbe(failingPinger{}))
	resp := do(t, app, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unavailable", decode(t, resp)["status"])
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)

	resp := do(t, app, http.MethodGet, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "House A", body["name"])
	assert.Equal(t, "idle", body["mode"])
	assert.Empty(t, body["walls"])

	resp = do(t, app, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decode(t, resp)["error"], "session not found")

	resp = do(t, app, http.MethodPost, "/api/v1/sessions", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestPointerDrawsWall(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)
	base := "/api/v1/sessions/" + id + "/pointer/"

	resp := do(t, app, http.MethodPost, base+"down", models.Point{X: 1, Y: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	snap := body["snap"].(map[string]any)
	assert.Equal(t, map[string]any{"x": 0.0, "y": 0.0}, snap["point"])
	assert.Equal(t, "dragging", body["session"].(map[string]any)["mode"])

	resp = do(t, app, http.MethodPost, base+"move", models.Point{X: 98, Y: 4})
	drag := decode(t, resp)["session"].(map[string]any)["drag"].(map[string]any)
	assert.Equal(t, 2000.0, drag["lengthMm"])

	body = decode(t, do(t, app, http.MethodPost, base+"up", nil))
	assert.Equal(t, true, body["committed"])
	wall := body["wall"].(map[string]any)
	assert.Equal(t, "wall-1", wall["id"])
	assert.Equal(t, 2000.0, wall["lengthMm"])
	assert.Equal(t, "horizontal", wall["orientation"])
	session := body["session"].(map[string]any)
	assert.Len(t, session["eaves"], 1)
	assert.Equal(t, true, session["canUndo"])

	body = decode(t, do(t, app, http.MethodPost, base+"up", nil))
	assert.Equal(t, false, body["committed"])
}

func TestShortDragNotCommitted(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)
	body := drawWall(t, app, id, models.Point{X: 0, Y: 0}, models.Point{X: 3, Y: 0})
	assert.Equal(t, false, body["committed"])
	assert.Empty(t, body["session"].(map[string]any)["walls"])
}

func TestBadBodies(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)

	resp := do(t, app, http.MethodPost, "/api/v1/sessions/"+id+"/pointer/down", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid json", decode(t, resp)["error"])

	resp = do(t, app, http.MethodPost, "/api/v1/sessions/"+id+"/pointer/down", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "empty body", decode(t, resp)["error"])
}

func TestSnapModes(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)

	resp := do(t, app, http.MethodPut, "/api/v1/sessions/"+id+"/snap", models.SnapModes{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := drawWall(t, app, id, models.Point{X: 1, Y: 2}, models.Point{X: 98, Y: 40})
	wall := body["wall"].(map[string]any)
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0}, wall["start"])
	assert.Equal(t, "diagonal", wall["orientation"])
}

func TestEditWallLength(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)
	drawWall(t, app, id, models.Point{X: 0, Y: 0}, models.Point{X: 100, Y: 0})
	path := "/api/v1/sessions/" + id + "/walls/wall-1/length"

	resp := do(t, app, http.MethodPut, path, map[string]string{"length": "1000"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	wall := decode(t, resp)["wall"].(map[string]any)
	assert.Equal(t, 1000.0, wall["lengthMm"])
	assert.Equal(t, 1000.0, wall["userLength"])
	assert.Equal(t, map[string]any{"x": 50.0, "y": 0.0}, wall["end"])

	resp = do(t, app, http.MethodPut, path, map[string]int{"length": 1500})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1500.0, decode(t, resp)["wall"].(map[string]any)["lengthMm"])

	resp = do(t, app, http.MethodPut, path, map[string]string{"length": "abc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode(t, resp)["error"], "length must be a positive whole number")

	resp = do(t, app, http.MethodPut, "/api/v1/sessions/"+id+"/walls/nope/length", map[string]string{"length": "1000"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/api/v1/sessions/"+id+"/walls/wall-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Empty(t, body["walls"])
	assert.Empty(t, body["eaves"])
}

func TestEaveRoutes(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)
	drawSquare(t, app, id)
	base := "/api/v1/sessions/" + id

	body := decode(t, do(t, app, http.MethodPost, base+"/eaves/generate", nil))
	assert.Equal(t, true, body["generated"])
	eaves := body["session"].(map[string]any)["eaves"].([]any)
	require.Len(t, eaves, 4)
	eaveID := eaves[0].(map[string]any)["id"].(string)

	points := decode(t, do(t, app, http.MethodGet, base+"/intersections", nil))["points"]
	assert.Len(t, points, 4)

	resp := do(t, app, http.MethodPut, base+"/eaves/"+eaveID+"/distance", map[string]float64{"distance": 300})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 300.0, decode(t, resp)["eave"].(map[string]any)["distance"])

	resp = do(t, app, http.MethodPut, base+"/eaves/"+eaveID+"/distance", map[string]float64{"distance": -5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = do(t, app, http.MethodPut, base+"/eaves/"+eaveID+"/distance", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodPost, base+"/eaves/"+eaveID+"/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decode(t, resp)["eave"].(map[string]any)["isVisible"])

	resp = do(t, app, http.MethodDelete, base+"/eaves/"+eaveID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode(t, resp)["eaves"], 3)
	resp = do(t, app, http.MethodDelete, base+"/eaves/"+eaveID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, base+"/eaves", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode(t, resp)["eaves"])

	summary := decode(t, do(t, app, http.MethodGet, base+"/summary", nil))
	assert.Equal(t, 4.0, summary["wallCount"])
	assert.Equal(t, 8000.0, summary["totalLengthMm"])
	assert.Equal(t, 0.0, summary["eaveCount"])
}

func TestSettingsUndoClear(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)
	base := "/api/v1/sessions/" + id

	resp := do(t, app, http.MethodPatch, base+"/settings", map[string]any{"opacity": 2})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodPatch, base+"/settings", map[string]any{"autoGenerate": false, "strokeStyle": "dotted"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	settings := decode(t, resp)["settings"].(map[string]any)
	assert.Equal(t, false, settings["autoGenerate"])
	assert.Equal(t, "dotted", settings["strokeStyle"])

	body := drawWall(t, app, id, models.Point{X: 0, Y: 0}, models.Point{X: 100, Y: 0})
	assert.Empty(t, body["session"].(map[string]any)["eaves"])

	body = decode(t, do(t, app, http.MethodPost, base+"/eaves/generate", nil))
	assert.Equal(t, false, body["generated"])

	drawWall(t, app, id, models.Point{X: 100, Y: 0}, models.Point{X: 100, Y: 100})
	body = decode(t, do(t, app, http.MethodPost, base+"/clear", nil))
	assert.Empty(t, body["walls"])

	body = decode(t, do(t, app, http.MethodPost, base+"/undo", nil))
	assert.Equal(t, true, body["undone"])
	assert.Len(t, body["session"].(map[string]any)["walls"], 2)
}

func TestImportSVG(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "plan.svg")
	require.NoError(t, err)
	_, err = part.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0 H100 V100 H0 Z"/><line x1="0" y1="0" x2="2" y2="0"/></svg>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, testConfig)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, 4.0, body["imported"])
	assert.Equal(t, 0.0, body["skipped"], "the stub line welds into the corner")
	assert.Len(t, body["session"].(map[string]any)["eaves"], 4)

	resp = do(t, app, http.MethodPost, "/api/v1/sessions/"+id+"/import", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExports(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)
	drawSquare(t, app, id)
	base := "/api/v1/sessions/" + id

	read := func(path string) (*http.Response, []byte) {
		resp := do(t, app, http.MethodGet, base+path, nil)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		return resp, data
	}

	resp, data := read("/render.svg")
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, 4, strings.Count(string(data), "<polygon "))

	resp, data = read("/preview.png")
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	_, err := png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)

	resp, data = read("/export.geojson")
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(data), `"FeatureCollection"`)

	resp, data = read("/export.xlsx")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	rows, err := f.GetRows("Walls")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	f.Close()

	resp, data = read("/report.html")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(data), "House A")
}

func TestProjects(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	id := createSession(t, app)
	drawSquare(t, app, id)

	resp := do(t, app, http.MethodPost, "/api/v1/sessions/"+id+"/save", map[string]string{"name": "Final"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	saved := decode(t, resp)
	projectID := saved["id"].(string)
	assert.Equal(t, "Final", saved["name"])
	assert.Equal(t, 4.0, saved["wallCount"])

	resp = do(t, app, http.MethodPost, "/api/v1/sessions/"+id+"/save", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, projectID, decode(t, resp)["id"], "second save overwrites")

	list := decode(t, do(t, app, http.MethodGet, "/api/v1/projects", nil))["projects"].([]any)
	require.Len(t, list, 1)

	resp = do(t, app, http.MethodGet, "/api/v1/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode(t, resp)["walls"], 4)

	resp = do(t, app, http.MethodPost, "/api/v1/projects/"+projectID+"/open", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	opened := decode(t, resp)
	assert.NotEqual(t, id, opened["id"])
	assert.Equal(t, projectID, opened["projectId"])
	assert.Equal(t, "Final", opened["name"])
	assert.Len(t, opened["walls"], 4)
	assert.Len(t, opened["eaves"], 4)
	assert.Equal(t, false, opened["canUndo"])

	resp = do(t, app, http.MethodDelete, "/api/v1/projects/"+projectID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, app, http.MethodGet, "/api/v1/projects/"+projectID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = do(t, app, http.MethodPost, "/api/v1/projects/"+projectID+"/open", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = do(t, app, http.MethodDelete, "/api/v1/projects/"+projectID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
