package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"portfolio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu      sync.Mutex
	saved   []domain.ExportRecord
	failing bool
}

func (m *memRepo) Save(_ context.Context, rec *domain.ExportRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, *rec)
	if m.failing {
		return errors.New("db down")
	}
	return nil
}

type staticLocator struct{ artifact domain.Artifact }

func (s staticLocator) Locate(string) (domain.Artifact, error) { return s.artifact, nil }

func TestRecordingEngine_Success(t *testing.T) {
	repo := &memRepo{}
	loc := staticLocator{domain.Artifact{Name: "resume.pdf", Path: "out/resume.pdf", Size: 1234}}
	r := NewRecordingEngine(engineFunc(func(context.Context, domain.ExportRequest) error { return nil }), repo, loc, quietLogger())

	require.NoError(t, r.Export(context.Background(), resumeReq))

	require.Len(t, repo.saved, 2)
	assert.Equal(t, domain.StatusInFlight, repo.saved[0].Status)
	assert.Equal(t, domain.StatusSucceeded, repo.saved[1].Status)
	assert.Equal(t, repo.saved[0].ID, repo.saved[1].ID)
	assert.Equal(t, "out/resume.pdf", repo.saved[1].ArtifactPath)
	assert.EqualValues(t, 1234, repo.saved[1].ArtifactSize)
	require.NotNil(t, repo.saved[1].FinishedAt)

	last := r.Last()
	require.NotNil(t, last)
	assert.Equal(t, domain.StatusSucceeded, last.Status)
}

func TestRecordingEngine_FailureAndRepoErrors(t *testing.T) {
	repo := &memRepo{failing: true}
	want := domain.NewElementNotFound("missing")
	r := NewRecordingEngine(engineFunc(func(context.Context, domain.ExportRequest) error { return want }), repo, nil, quietLogger())

	err := r.Export(context.Background(), domain.ExportRequest{TargetElementID: "missing", Filename: "a.pdf"})
	assert.Same(t, want, err)

	last := r.Last()
	require.NotNil(t, last)
	assert.Equal(t, domain.StatusFailed, last.Status)
	assert.Equal(t, "element_not_found", last.ErrorKind)
	assert.Equal(t, "Element with ID missing not found", last.ErrorMessage)
}

func TestRecordingEngine_NoRepo(t *testing.T) {
	r := NewRecordingEngine(engineFunc(func(context.Context, domain.ExportRequest) error { return nil }), nil, nil, quietLogger())
	assert.Nil(t, r.Last())
	require.NoError(t, r.Export(context.Background(), resumeReq))
	assert.Equal(t, domain.StatusSucceeded, r.Last().Status)
}

type collectSink struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (c *collectSink) Notify(n domain.Notification) {
	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()
}

func TestNotifyingHooks(t *testing.T) {
	sink := &collectSink{}
	var busy []bool
	h := NotifyingHooks(sink, func(b bool) { busy = append(busy, b) })

	h.OnBusyChange(true)
	h.OnSuccess(resumeReq)
	h.OnError(resumeReq, errors.New("PDF generation failed"))
	h.OnError(resumeReq, nil)

	assert.Equal(t, []bool{true}, busy)
	require.Len(t, sink.items, 3)
	assert.Equal(t, "PDF Generated", sink.items[0].Title)
	assert.Contains(t, sink.items[0].Description, "resume.pdf")
	assert.Equal(t, domain.SeverityInfo, sink.items[0].Severity)
	assert.Equal(t, "Error", sink.items[1].Title)
	assert.Equal(t, "PDF generation failed", sink.items[1].Description)
	assert.Equal(t, domain.SeverityDestructive, sink.items[1].Severity)
	assert.Equal(t, domain.UnknownFailureMessage, sink.items[2].Description)
}
