package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"scaff-planner/internal/planner/editor"
	"scaff-planner/internal/planner/eaves"
	"scaff-planner/internal/planner/mapper"
	"scaff-planner/internal/planner/models"
	"scaff-planner/internal/planner/repository"
	"scaff-planner/internal/planner/service"
	"scaff-planner/internal/planner/walls"
)

// ============================================================
// Planner Handler
// ============================================================

// ProjectStore is the persistence the handler needs; *repository.Repository
// satisfies it.
type ProjectStore interface {
	Save(ctx context.Context, p models.Project) error
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]models.ProjectInfo, error)
	Delete(ctx context.Context, id string) error
}

const storeTimeout = 5 * time.Second

type PlannerHandler struct {
	sessions *service.SessionManager
	projects ProjectStore
	renderer *mapper.Renderer
	preview  mapper.Previewer
}

func NewPlannerHandler(sessions *service.SessionManager, projects ProjectStore) *PlannerHandler {
	return &PlannerHandler{
		sessions: sessions,
		projects: projects,
		renderer: mapper.NewRenderer(),
	}
}

// Register mounts every planner route on r (normally the /api/v1 group).
func (h *PlannerHandler) Register(r fiber.Router) {
	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/:id", h.GetSession)
	r.Delete("/sessions/:id", h.DeleteSession)

	r.Post("/sessions/:id/pointer/down", h.PointerDown)
	r.Post("/sessions/:id/pointer/move", h.PointerMove)
	r.Post("/sessions/:id/pointer/up", h.PointerUp)
	r.Put("/sessions/:id/snap", h.SetSnapModes)

	r.Put("/sessions/:id/walls/:wallId/length", h.EditWallLength)
	r.Delete("/sessions/:id/walls/:wallId", h.DeleteWall)
	r.Post("/sessions/:id/import", h.ImportSVG)

	r.Post("/sessions/:id/eaves/generate", h.GenerateEaves)
	r.Delete("/sessions/:id/eaves", h.ResetEaves)
	r.Put("/sessions/:id/eaves/:eaveId/distance", h.UpdateEaveDistance)
	r.Post("/sessions/:id/eaves/:eaveId/toggle", h.ToggleEave)
	r.Delete("/sessions/:id/eaves/:eaveId", h.DeleteEave)

	r.Patch("/sessions/:id/settings", h.UpdateSettings)
	r.Post("/sessions/:id/undo", h.Undo)
	r.Post("/sessions/:id/clear", h.Clear)
	r.Get("/sessions/:id/summary", h.Summary)
	r.Get("/sessions/:id/intersections", h.Intersections)

	r.Get("/sessions/:id/render.svg", h.RenderSVG)
	r.Get("/sessions/:id/preview.png", h.PreviewPNG)
	r.Get("/sessions/:id/export.geojson", h.ExportGeoJSON)
	r.Get("/sessions/:id/export.xlsx", h.ExportXLSX)
	r.Get("/sessions/:id/report.html", h.Report)

	r.Post("/sessions/:id/save", h.SaveProject)
	r.Get("/projects", h.ListProjects)
	r.Get("/projects/:id", h.GetProject)
	r.Post("/projects/:id/open", h.OpenProject)
	r.Delete("/projects/:id", h.DeleteProject)
}

// ============================================================
// Payloads
// ============================================================

type wallPayload struct {
	models.Wall
	LengthMm    int                `json:"lengthMm"`
	Orientation models.Orientation `json:"orientation"`
}

type dragPayload struct {
	Start    models.Point `json:"start"`
	End      models.Point `json:"end"`
	LengthMm int          `json:"lengthMm"`
}

type sessionPayload struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	ProjectID string              `json:"projectId,omitempty"`
	Mode      editor.Mode         `json:"mode"`
	Walls     []wallPayload       `json:"walls"`
	Eaves     []models.Eave       `json:"eaves"`
	Settings  models.EaveSettings `json:"settings"`
	Snap      models.SnapState    `json:"snap"`
	Drag      *dragPayload        `json:"drag,omitempty"`
	Summary   models.Summary      `json:"summary"`
	CanUndo   bool                `json:"canUndo"`
}

func mapWall(w models.Wall) wallPayload {
	return wallPayload{Wall: w, LengthMm: walls.LengthMm(w), Orientation: walls.Classify(w)}
}

func mapSession(s *service.Session, e *editor.Editor) sessionPayload {
	list := e.Walls()
	payload := sessionPayload{
		ID:        s.ID,
		Name:      s.Name,
		ProjectID: s.ProjectID,
		Mode:      e.Mode(),
		Walls:     make([]wallPayload, 0, len(list)),
		Eaves:     eaves.Live(e.Eaves(), list),
		Settings:  e.Settings(),
		Snap:      e.SnapState(),
		Summary:   e.Summary(),
		CanUndo:   e.CanUndo(),
	}
	for _, w := range list {
		payload.Walls = append(payload.Walls, mapWall(w))
	}
	if start, end, ok := e.Drag(); ok {
		payload.Drag = &dragPayload{Start: start, End: end, LengthMm: e.DragLengthMm()}
	}
	return payload
}

func drawingOf(s *service.Session, e *editor.Editor) mapper.Drawing {
	return mapper.NewDrawing(s.Name, e.Walls(), e.Eaves(), e.Settings())
}

// ============================================================
// Helpers
// ============================================================

func decodeBody(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty body")
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	return nil
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, editor.ErrUnknownWall),
		errors.Is(err, editor.ErrUnknownEave),
		errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, editor.ErrInvalidLength),
		errors.Is(err, editor.ErrInvalidDistance),
		errors.Is(err, editor.ErrInvalidSettings):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Errorf("[PLANNER] %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}

	msg := err.Error()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg = fe.Message
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// ErrorHandler renders errors that escape handlers as JSON, matching the
// bodies the handlers write themselves.
func ErrorHandler(c fiber.Ctx, err error) error {
	return fail(c, err)
}

// with runs fn under the session lock and writes any error it returns.
func (h *PlannerHandler) with(c fiber.Ctx, fn func(s *service.Session, e *editor.Editor) error) error {
	if err := h.sessions.With(c.Params("id"), fn); err != nil {
		return fail(c, err)
	}
	return nil
}

func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
