package usecase

import (
	"context"

	"portfolio/internal/domain"
)

// Document is the live page the export runs against. Implementations
// address elements by id; the header is whatever element the page uses as
// its site chrome.
type Document interface {
	HasElement(ctx context.Context, id string) (bool, error)
	CaptureStyles(ctx context.Context, id string, props []string) (map[string]string, error)
	ApplyStyles(ctx context.Context, id string, styles map[string]string) error
	// HeaderDisplay returns the header's inline display value and whether a
	// header exists at all.
	HeaderDisplay(ctx context.Context) (string, bool, error)
	SetHeaderDisplay(ctx context.Context, display string) error
	AddClass(ctx context.Context, id, class string) error
	RemoveClass(ctx context.Context, id, class string) error
	HasClass(ctx context.Context, id, class string) (bool, error)
}

// RenderBuilder is the builder-style entry point of the rendering library.
type RenderBuilder interface {
	From(elementID string) RenderBuilder
	Set(opts domain.ExportOptions) RenderBuilder
	Save(ctx context.Context, filename string) error
}

// RendererFactory starts a new render.
type RendererFactory func() RenderBuilder

// RendererProvider acquires the rendering library on demand.
type RendererProvider interface {
	Load(ctx context.Context) (RendererFactory, error)
}

// ArtifactSink receives the finished document.
type ArtifactSink interface {
	Deliver(ctx context.Context, filename string, data []byte) (domain.Artifact, error)
}

// NotificationSink shows notifications to the user.
type NotificationSink interface {
	Notify(n domain.Notification)
}

type ExportsRepo interface {
	Save(ctx context.Context, rec *domain.ExportRecord) error
}

// Engine is what the controller drives.
type Engine interface {
	Export(ctx context.Context, req domain.ExportRequest) error
}
