package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	// ExportModeClass marks the target element while it is being captured so
	// the stylesheet can switch to print styling.
	ExportModeClass = "pdf-export-mode"

	DefaultSettleDelay = 500 * time.Millisecond
)

// Exporter renders a DOM subtree to a document and leaves the DOM as it
// found it. It holds no per-call state and may be shared.
type Exporter struct {
	doc      Document
	provider RendererProvider
	opts     domain.ExportOptions
	settle   time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	log      logrus.FieldLogger
}

type ExporterOption func(*Exporter)

func WithSettleDelay(d time.Duration) ExporterOption {
	return func(e *Exporter) { e.settle = d }
}

func WithExportOptions(o domain.ExportOptions) ExporterOption {
	return func(e *Exporter) { e.opts = o }
}

func WithLogger(l logrus.FieldLogger) ExporterOption {
	return func(e *Exporter) { e.log = l }
}

func NewExporter(doc Document, provider RendererProvider, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		doc:      doc,
		provider: provider,
		opts:     domain.DefaultExportOptions(),
		settle:   DefaultSettleDelay,
		sleep:    sleepCtx,
		log:      logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Export renders req.TargetElementID into req.Filename.
func (e *Exporter) Export(ctx context.Context, req domain.ExportRequest) (err error) {
	log := e.log.WithFields(logrus.Fields{"element": req.TargetElementID, "filename": req.Filename})

	ok, err := e.doc.HasElement(ctx, req.TargetElementID)
	if err != nil {
		return fmt.Errorf("resolve element %s: %w", req.TargetElementID, err)
	}
	if !ok {
		err = domain.NewElementNotFound(req.TargetElementID)
		log.WithError(err).Error("export target missing")
		return err
	}

	// Capture happens before any mutation, so a failure here has nothing to
	// roll back.
	snapshot, err := e.capture(ctx, req.TargetElementID)
	if err != nil {
		return domain.NewRenderFailure(fmt.Errorf("capture styles: %w", err))
	}

	// From here on every exit path goes through rollback.
	defer func() {
		rerr := e.restore(context.WithoutCancel(ctx), req.TargetElementID, snapshot)
		if rerr == nil {
			return
		}
		if err != nil {
			log.WithError(rerr).Error("rollback after failed export incomplete")
			return
		}
		err = fmt.Errorf("restore %s: %w", req.TargetElementID, rerr)
	}()

	if err = e.applyOverrides(ctx, req.TargetElementID, snapshot.Header().Present); err != nil {
		return domain.NewRenderFailure(fmt.Errorf("apply print styles: %w", err))
	}

	factory, lerr := e.provider.Load(ctx)
	if lerr != nil || factory == nil {
		err = domain.NewRendererUnavailable(lerr)
		log.WithError(err).Error("renderer unavailable")
		return err
	}

	if err = e.sleep(ctx, e.settle); err != nil {
		return domain.NewRenderFailure(err)
	}

	builder := factory()
	if builder == nil {
		return domain.NewRendererUnavailable(nil)
	}
	if serr := builder.From(req.TargetElementID).Set(e.opts).Save(ctx, req.Filename); serr != nil {
		err = domain.NewRenderFailure(serr)
		log.WithError(err).Error("render failed")
		return err
	}

	log.Info("export rendered")
	return nil
}

func (e *Exporter) capture(ctx context.Context, id string) (domain.StyleSnapshot, error) {
	styles, err := e.doc.CaptureStyles(ctx, id, domain.SnapshotProperties)
	if err != nil {
		return domain.StyleSnapshot{}, err
	}
	display, present, err := e.doc.HeaderDisplay(ctx)
	if err != nil {
		return domain.StyleSnapshot{}, err
	}
	return domain.NewStyleSnapshot(styles, domain.HeaderState{Present: present, Display: display}), nil
}

func (e *Exporter) applyOverrides(ctx context.Context, id string, header bool) error {
	if err := e.doc.ApplyStyles(ctx, id, domain.PrintOverrides); err != nil {
		return err
	}
	if header {
		if err := e.doc.SetHeaderDisplay(ctx, "none"); err != nil {
			return err
		}
	}
	return e.doc.AddClass(ctx, id, ExportModeClass)
}

// restore puts back everything applyOverrides changed. Every step runs even
// if an earlier one fails. Without a snapshot the overrides are cleared to
// empty values instead.
func (e *Exporter) restore(ctx context.Context, id string, s domain.StyleSnapshot) error {
	if s.IsZero() {
		s = domain.EmptyStyleSnapshot()
	}
	var errs []error
	if err := e.doc.ApplyStyles(ctx, id, s.Styles()); err != nil {
		errs = append(errs, fmt.Errorf("styles: %w", err))
	}
	if h := s.Header(); h.Present {
		if err := e.doc.SetHeaderDisplay(ctx, h.Display); err != nil {
			errs = append(errs, fmt.Errorf("header: %w", err))
		}
	}
	if err := e.doc.RemoveClass(ctx, id, ExportModeClass); err != nil {
		errs = append(errs, fmt.Errorf("class: %w", err))
	}
	return errors.Join(errs...)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
