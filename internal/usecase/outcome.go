package usecase

import (
	"context"
	"sync"
	"time"

	"portfolio/internal/domain"

	"github.com/sirupsen/logrus"
)

// ArtifactLocator finds an already delivered artifact by filename.
type ArtifactLocator interface {
	Locate(filename string) (domain.Artifact, error)
}

// RecordingEngine decorates an Engine with export records. Records are
// persisted best-effort; a repository failure never fails the export.
type RecordingEngine struct {
	next      Engine
	repo      ExportsRepo
	artifacts ArtifactLocator
	log       logrus.FieldLogger

	mu   sync.Mutex
	last *domain.ExportRecord
}

func NewRecordingEngine(next Engine, repo ExportsRepo, artifacts ArtifactLocator, log logrus.FieldLogger) *RecordingEngine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RecordingEngine{next: next, repo: repo, artifacts: artifacts, log: log}
}

func (r *RecordingEngine) Export(ctx context.Context, req domain.ExportRequest) error {
	rec := domain.NewExportRecord(req)
	r.save(ctx, rec)

	err := r.next.Export(ctx, req)

	now := time.Now()
	rec.FinishedAt = &now
	if err != nil {
		rec.Status = domain.StatusFailed
		rec.ErrorKind = domain.KindOf(err)
		rec.ErrorMessage = err.Error()
	} else {
		rec.Status = domain.StatusSucceeded
		if r.artifacts != nil {
			if a, lerr := r.artifacts.Locate(req.Filename); lerr == nil {
				rec.ArtifactPath = a.Path
				rec.ArtifactSize = a.Size
			}
		}
	}
	r.save(context.WithoutCancel(ctx), rec)
	return err
}

func (r *RecordingEngine) save(ctx context.Context, rec *domain.ExportRecord) {
	cp := *rec
	r.mu.Lock()
	r.last = &cp
	r.mu.Unlock()

	if r.repo == nil {
		return
	}
	if err := r.repo.Save(ctx, &cp); err != nil {
		r.log.WithError(err).WithField("export_id", rec.ID.String()).Warn("failed to save export record")
	}
}

// Last returns a copy of the most recent record, or nil.
func (r *RecordingEngine) Last() *domain.ExportRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	cp := *r.last
	return &cp
}

// NotifyingHooks turns controller outcomes into user notifications and
// forwards the busy flag to the trigger.
func NotifyingHooks(sink NotificationSink, onBusy func(bool)) ControllerHooks {
	return ControllerHooks{
		OnBusyChange: onBusy,
		OnSuccess: func(req domain.ExportRequest) {
			sink.Notify(SuccessNotification(req))
		},
		OnError: func(_ domain.ExportRequest, err error) {
			sink.Notify(ErrorNotification(err))
		},
	}
}

func SuccessNotification(req domain.ExportRequest) domain.Notification {
	return domain.Notification{
		Title:       "PDF Generated",
		Description: "Your resume has been downloaded as " + req.Filename,
		Severity:    domain.SeverityInfo,
		CreatedAt:   time.Now(),
	}
}

func ErrorNotification(err error) domain.Notification {
	msg := domain.UnknownFailureMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return domain.Notification{
		Title:       "Error",
		Description: msg,
		Severity:    domain.SeverityDestructive,
		CreatedAt:   time.Now(),
	}
}
