package http

import (
	"context"
	"net/url"
	"time"

	"portfolio/internal/domain"
	"portfolio/internal/model"
	"portfolio/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ExportController is the part of the generation controller the HTTP
// surface drives.
type ExportController interface {
	Activate(req domain.ExportRequest) bool
	State() domain.GenerationState
}

type History interface {
	Recent(ctx context.Context, limit int) ([]domain.ExportRecord, error)
}

// Deps are the collaborators of Handler. Busy reports the UI busy flag;
// Last returns the latest export record or nil.
type Deps struct {
	Controller    ExportController
	Busy          func() bool
	Last          func() *domain.ExportRecord
	History       History
	Notifications func() []domain.Notification
	Artifacts     usecase.ArtifactLocator
	Page          *model.Page
	Resume        *model.Resume
	Log           logrus.FieldLogger

	TargetElementID string
	DefaultFilename string
}

type Handler struct {
	d Deps
}

func NewHandler(d Deps) *Handler {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.DefaultFilename == "" {
		d.DefaultFilename = "resume.pdf"
	}
	if d.Busy == nil && d.Controller != nil {
		c := d.Controller
		d.Busy = func() bool { return c.State() == domain.StateInFlight }
	}
	return &Handler{d: d}
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/resume", h.ResumePage)
	app.Post("/api/resume/export", h.StartExport)
	app.Get("/api/resume/export", h.ExportStatus)
	app.Get("/api/resume/exports", h.ExportHistory)
	app.Get("/api/notifications", h.Notifications)
	app.Get("/downloads/:name", h.Download)
}

func (h *Handler) busy() bool {
	return h.d.Busy != nil && h.d.Busy()
}

func (h *Handler) ResumePage(c *fiber.Ctx) error {
	if h.d.Page == nil || h.d.Resume == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "resume page not configured"})
	}
	c.Type("html", "utf-8")
	err := h.d.Page.Render(c, h.d.Resume, model.PageOptions{
		TargetElementID: h.d.TargetElementID,
		Filename:        h.d.DefaultFilename,
		Busy:            h.busy(),
	})
	if err != nil {
		h.d.Log.WithError(err).Error("render resume page")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "render failed"})
	}
	return nil
}

type exportReq struct {
	Filename string `json:"filename,omitempty"`
}

func (h *Handler) StartExport(c *fiber.Ctx) error {
	var req exportReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
	}
	if req.Filename == "" {
		req.Filename = h.d.DefaultFilename
	}

	accepted := h.d.Controller.Activate(domain.ExportRequest{
		TargetElementID: h.d.TargetElementID,
		Filename:        req.Filename,
	})
	if !accepted {
		h.d.Log.WithField("filename", req.Filename).Debug("export already in flight, activation dropped")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"accepted": accepted,
		"state":    h.d.Controller.State().String(),
	})
}

func (h *Handler) ExportStatus(c *fiber.Ctx) error {
	resp := fiber.Map{
		"state": h.d.Controller.State().String(),
		"busy":  h.busy(),
	}
	if h.d.Last != nil {
		if last := h.d.Last(); last != nil {
			resp["last"] = last
			if last.Status == domain.StatusSucceeded && h.d.Artifacts != nil {
				if a, err := h.d.Artifacts.Locate(last.Filename); err == nil {
					resp["download"] = "/downloads/" + url.PathEscape(a.Name)
				}
			}
		}
	}
	return c.JSON(resp)
}

func (h *Handler) ExportHistory(c *fiber.Ctx) error {
	if h.d.History == nil {
		return c.JSON(fiber.Map{"exports": []domain.ExportRecord{}})
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()
	recs, err := h.d.History.Recent(ctx, c.QueryInt("limit", 20))
	if err != nil {
		h.d.Log.WithError(err).Warn("list exports")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "history unavailable"})
	}
	if recs == nil {
		recs = []domain.ExportRecord{}
	}
	return c.JSON(fiber.Map{"exports": recs})
}

func (h *Handler) Notifications(c *fiber.Ctx) error {
	list := []domain.Notification{}
	if h.d.Notifications != nil {
		list = append(list, h.d.Notifications()...)
	}
	return c.JSON(fiber.Map{"notifications": list})
}

func (h *Handler) Download(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid name"})
	}
	if h.d.Artifacts == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	a, err := h.d.Artifacts.Locate(name)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.Download(a.Path, a.Name)
}
