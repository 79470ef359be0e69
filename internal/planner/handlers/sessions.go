package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"scaff-planner/internal/planner/editor"
	"scaff-planner/internal/planner/models"
	"scaff-planner/internal/planner/service"
)

// ============================================================
// Sessions
// ============================================================

type createSessionRequest struct {
	Name string `json:"name"`
}

// CreateSession opens an empty drawing. The body is optional.
func (h *PlannerHandler) CreateSession(c fiber.Ctx) error {
	var req createSessionRequest
	if len(c.Body()) > 0 {
		if err := decodeBody(c, &req); err != nil {
			return fail(c, err)
		}
	}

	s := h.sessions.Create(req.Name)
	log.Infof("[PLANNER] session %s created", s.ID)

	var payload sessionPayload
	if err := h.sessions.With(s.ID, func(s *service.Session, e *editor.Editor) error {
		payload = mapSession(s, e)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payload)
}

func (h *PlannerHandler) GetSession(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		return c.JSON(mapSession(s, e))
	})
}

func (h *PlannerHandler) DeleteSession(c fiber.Ctx) error {
	id := c.Params("id")
	if !h.sessions.Delete(id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	log.Infof("[PLANNER] session %s closed", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================
// Pointer events
// ============================================================

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p pointRequest) point() models.Point {
	return models.Point{X: p.X, Y: p.Y}
}

func (h *PlannerHandler) PointerDown(c fiber.Ctx) error {
	var req pointRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, err)
	}

	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		res := e.Down(req.point())
		return c.JSON(fiber.Map{"snap": res, "session": mapSession(s, e)})
	})
}

func (h *PlannerHandler) PointerMove(c fiber.Ctx) error {
	var req pointRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, err)
	}

	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		res := e.Move(req.point())
		return c.JSON(fiber.Map{"snap": res, "session": mapSession(s, e)})
	})
}

// PointerUp commits the pending wall. committed is false for a drag that
// was too short or when no drag was in progress.
func (h *PlannerHandler) PointerUp(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		w, ok := e.Up()
		resp := fiber.Map{"committed": ok, "session": mapSession(s, e)}
		if ok {
			resp["wall"] = mapWall(w)
		}
		return c.JSON(resp)
	})
}

func (h *PlannerHandler) SetSnapModes(c fiber.Ctx) error {
	var modes models.SnapModes
	if err := decodeBody(c, &modes); err != nil {
		return fail(c, err)
	}

	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		e.SetSnapModes(modes)
		return c.JSON(mapSession(s, e))
	})
}
