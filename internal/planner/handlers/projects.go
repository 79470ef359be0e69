package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"

	"scaff-planner/internal/planner/editor"
	"scaff-planner/internal/planner/models"
	"scaff-planner/internal/planner/service"
)

// ============================================================
// Projects
// ============================================================

type saveRequest struct {
	Name string `json:"name"`
}

// SaveProject stores the session's drawing. The first save assigns a
// project id; later saves of the same session overwrite that project.
func (h *PlannerHandler) SaveProject(c fiber.Ctx) error {
	var req saveRequest
	if len(c.Body()) > 0 {
		if err := decodeBody(c, &req); err != nil {
			return fail(c, err)
		}
	}

	var project models.Project
	err := h.sessions.With(c.Params("id"), func(s *service.Session, e *editor.Editor) error {
		if name := strings.TrimSpace(req.Name); name != "" {
			s.Name = name
		}
		if s.ProjectID == "" {
			s.ProjectID = uuid.NewString()
		}
		project = e.Project(s.ProjectID, s.Name, h.sessions.Now())
		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := storeContext()
	defer cancel()
	if err := h.projects.Save(ctx, project); err != nil {
		return fail(c, err)
	}
	log.Infof("[STORE] project %s saved (%d walls)", project.ID, len(project.Walls))

	return c.Status(fiber.StatusCreated).JSON(models.ProjectInfo{
		ID:        project.ID,
		Name:      project.Name,
		WallCount: len(project.Walls),
		UpdatedAt: project.UpdatedAt,
	})
}

func (h *PlannerHandler) ListProjects(c fiber.Ctx) error {
	ctx, cancel := storeContext()
	defer cancel()

	list, err := h.projects.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"projects": list})
}

func (h *PlannerHandler) GetProject(c fiber.Ctx) error {
	ctx, cancel := storeContext()
	defer cancel()

	p, err := h.projects.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

// OpenProject loads a stored project into a new session.
func (h *PlannerHandler) OpenProject(c fiber.Ctx) error {
	ctx, cancel := storeContext()
	defer cancel()

	p, err := h.projects.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	s := h.sessions.Create(p.Name)
	var payload sessionPayload
	err = h.sessions.With(s.ID, func(s *service.Session, e *editor.Editor) error {
		if err := e.Load(*p); err != nil {
			return err
		}
		s.ProjectID = p.ID
		payload = mapSession(s, e)
		return nil
	})
	if err != nil {
		h.sessions.Delete(s.ID)
		return fail(c, err)
	}

	log.Infof("[PLANNER] project %s opened in session %s", p.ID, s.ID)
	return c.Status(fiber.StatusCreated).JSON(payload)
}

func (h *PlannerHandler) DeleteProject(c fiber.Ctx) error {
	ctx, cancel := storeContext()
	defer cancel()

	if err := h.projects.Delete(ctx, c.Params("id")); err != nil {
		return fail(c, err)
	}
	log.Infof("[STORE] project %s deleted", c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
