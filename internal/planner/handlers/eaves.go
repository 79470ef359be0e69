package handlers

import (
	"github.com/gofiber/fiber/v3"

	"scaff-planner/internal/planner/editor"
	"scaff-planner/internal/planner/models"
	"scaff-planner/internal/planner/service"
)

// ============================================================
// Eaves
// ============================================================

// GenerateEaves regenerates one eave per wall. With auto generation off the
// drawing is left alone and generated is false.
func (h *PlannerHandler) GenerateEaves(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		generated := e.GenerateAllEaves()
		return c.JSON(fiber.Map{
			"generated": generated != nil,
			"session":   mapSession(s, e),
		})
	})
}

func (h *PlannerHandler) ResetEaves(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		e.ResetEaves()
		return c.JSON(mapSession(s, e))
	})
}

type distanceRequest struct {
	Distance *float64 `json:"distance"`
}

func (h *PlannerHandler) UpdateEaveDistance(c fiber.Ctx) error {
	var req distanceRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, err)
	}
	if req.Distance == nil {
		return fail(c, fiber.NewError(fiber.StatusBadRequest, "distance required"))
	}

	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		ev, err := e.UpdateEaveDistance(c.Params("eaveId"), *req.Distance)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"eave": ev, "session": mapSession(s, e)})
	})
}

func (h *PlannerHandler) ToggleEave(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		ev, err := e.ToggleEave(c.Params("eaveId"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"eave": ev, "session": mapSession(s, e)})
	})
}

func (h *PlannerHandler) DeleteEave(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		if err := e.DeleteEave(c.Params("eaveId")); err != nil {
			return err
		}
		return c.JSON(mapSession(s, e))
	})
}

func (h *PlannerHandler) Intersections(c fiber.Ctx) error {
	return h.with(c, func(_ *service.Session, e *editor.Editor) error {
		points := e.Intersections()
		if points == nil {
			points = []models.Point{}
		}
		return c.JSON(fiber.Map{"points": points})
	})
}

// ============================================================
// Settings, history, summary
// ============================================================

func (h *PlannerHandler) UpdateSettings(c fiber.Ctx) error {
	var patch editor.SettingsPatch
	if err := decodeBody(c, &patch); err != nil {
		return fail(c, err)
	}

	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		if _, err := e.UpdateSettings(patch); err != nil {
			return err
		}
		return c.JSON(mapSession(s, e))
	})
}

func (h *PlannerHandler) Undo(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		undone := e.Undo()
		return c.JSON(fiber.Map{"undone": undone, "session": mapSession(s, e)})
	})
}

func (h *PlannerHandler) Clear(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		e.Clear()
		return c.JSON(mapSession(s, e))
	})
}

func (h *PlannerHandler) Summary(c fiber.Ctx) error {
	return h.with(c, func(_ *service.Session, e *editor.Editor) error {
		return c.JSON(e.Summary())
	})
}
