package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio/internal/domain"
	"portfolio/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu    sync.Mutex
	state domain.GenerationState
	reqs  []domain.ExportRequest
}

func (f *fakeController) Activate(req domain.ExportRequest) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == domain.StateInFlight {
		return false
	}
	f.state = domain.StateInFlight
	f.reqs = append(f.reqs, req)
	return true
}

func (f *fakeController) State() domain.GenerationState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

type dirLocator struct{ dir string }

func (l dirLocator) Locate(name string) (domain.Artifact, error) {
	name = filepath.Base(name)
	fi, err := os.Stat(filepath.Join(l.dir, name))
	if err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Name: name, Path: filepath.Join(l.dir, name), Size: fi.Size()}, nil
}

func newTestApp(t *testing.T, d Deps) (*fiber.App, *fakeController) {
	t.Helper()
	ctrl := &fakeController{}
	if d.Controller == nil {
		d.Controller = ctrl
	}
	if d.TargetElementID == "" {
		d.TargetElementID = "resume-content"
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	d.Log = log

	app := fiber.New()
	NewHandler(d).Register(app)
	return app, ctrl
}

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&m))
	return m
}

func TestStartExport_SingleFlight(t *testing.T) {
	app, ctrl := newTestApp(t, Deps{})

	req := httptest.NewRequest("POST", "/api/resume/export", strings.NewReader(`{"filename":"jane.pdf"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Equal(t, true, body["accepted"])
	assert.Equal(t, "in_flight", body["state"])

	// no body: default filename, and dropped while in flight
	resp, err = app.Test(httptest.NewRequest("POST", "/api/resume/export", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, false, decode(t, resp.Body)["accepted"])

	require.Len(t, ctrl.reqs, 1)
	assert.Equal(t, domain.ExportRequest{TargetElementID: "resume-content", Filename: "jane.pdf"}, ctrl.reqs[0])
}

func TestStartExport_DefaultFilenameAndBadPayload(t *testing.T) {
	app, ctrl := newTestApp(t, Deps{DefaultFilename: "cv.pdf"})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/resume/export", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	require.Len(t, ctrl.reqs, 1)
	assert.Equal(t, "cv.pdf", ctrl.reqs[0].Filename)

	req := httptest.NewRequest("POST", "/api/resume/export", strings.NewReader(`{"filename":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportStatus(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resume.pdf"), []byte("%PDF-1.4"), 0o644))
	done := time.Now()
	last := &domain.ExportRecord{
		ID:           uuid.New(),
		Filename:     "resume.pdf",
		Status:       domain.StatusSucceeded,
		ArtifactPath: filepath.Join(dir, "resume.pdf"),
		StartedAt:    done.Add(-time.Second),
		FinishedAt:   &done,
	}
	app, _ := newTestApp(t, Deps{
		Busy:      func() bool { return false },
		Last:      func() *domain.ExportRecord { return last },
		Artifacts: dirLocator{dir},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/resume/export", nil))
	require.NoError(t, err)
	body := decode(t, resp.Body)
	assert.Equal(t, "idle", body["state"])
	assert.Equal(t, false, body["busy"])
	assert.Equal(t, "/downloads/resume.pdf", body["download"])
	assert.Equal(t, "succeeded", body["last"].(map[string]any)["status"])
}

func TestDownload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resume.pdf"), []byte("%PDF-1.4 test"), 0o644))
	app, _ := newTestApp(t, Deps{Artifacts: dirLocator{dir}})

	resp, err := app.Test(httptest.NewRequest("GET", "/downloads/resume.pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "resume.pdf")
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-1.4 test", string(b))

	resp, err = app.Test(httptest.NewRequest("GET", "/downloads/missing.pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNotifications(t *testing.T) {
	app, _ := newTestApp(t, Deps{Notifications: func() []domain.Notification {
		return []domain.Notification{{Title: "Error", Description: "Render failed", Severity: domain.SeverityDestructive}}
	}})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/notifications", nil))
	require.NoError(t, err)
	list := decode(t, resp.Body)["notifications"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "Render failed", list[0].(map[string]any)["description"])
}

type stubHistory struct{ err error }

func (s stubHistory) Recent(_ context.Context, _ int) ([]domain.ExportRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.ExportRecord{{Filename: "a.pdf", Status: domain.StatusFailed, ErrorKind: "render_failure"}}, nil
}

func TestExportHistory(t *testing.T) {
	app, _ := newTestApp(t, Deps{History: stubHistory{}})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/resume/exports?limit=5", nil))
	require.NoError(t, err)
	assert.Len(t, decode(t, resp.Body)["exports"], 1)

	app, _ = newTestApp(t, Deps{History: stubHistory{err: errors.New("db down")}})
	resp, err = app.Test(httptest.NewRequest("GET", "/api/resume/exports", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	app, _ = newTestApp(t, Deps{})
	resp, err = app.Test(httptest.NewRequest("GET", "/api/resume/exports", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestResumePage(t *testing.T) {
	page, err := model.NewPage("../../../templates")
	require.NoError(t, err)
	r, err := model.LoadResume("../../../content/resume.json", "")
	require.NoError(t, err)

	busy := false
	app, _ := newTestApp(t, Deps{Page: page, Resume: r, Busy: func() bool { return busy }})

	resp, err := app.Test(httptest.NewRequest("GET", "/resume", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), `id="resume-content"`)
	assert.NotContains(t, string(b), " disabled>")

	busy = true
	resp, err = app.Test(httptest.NewRequest("GET", "/resume", nil))
	require.NoError(t, err)
	b, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(b), " disabled>")

	app, _ = newTestApp(t, Deps{})
	resp, err = app.Test(httptest.NewRequest("GET", "/resume", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
