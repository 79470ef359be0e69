package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"scaff-planner/internal/planner/editor"
	"scaff-planner/internal/planner/parser"
	"scaff-planner/internal/planner/service"
)

// ============================================================
// Walls
// ============================================================

// lengthRequest takes the typed length either as a string, the way a text
// field submits it, or as a bare number.
type lengthRequest struct {
	Length json.RawMessage `json:"length"`
}

func (r lengthRequest) text() string {
	var s string
	if err := json.Unmarshal(r.Length, &s); err == nil {
		return s
	}
	return string(r.Length)
}

func (h *PlannerHandler) EditWallLength(c fiber.Ctx) error {
	var req lengthRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, err)
	}

	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		w, err := e.EditLength(c.Params("wallId"), req.text())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"wall": mapWall(w), "session": mapSession(s, e)})
	})
}

func (h *PlannerHandler) DeleteWall(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		if err := e.DeleteWall(c.Params("wallId")); err != nil {
			return err
		}
		return c.JSON(mapSession(s, e))
	})
}

// ImportSVG adds the walls of an uploaded SVG outline (multipart field
// "file") to the drawing.
func (h *PlannerHandler) ImportSVG(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file required in multipart/form-data"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	segments, err := parser.ParseSVG(bytes.NewReader(data))
	if err != nil {
		log.Warnf("[PLANNER] import %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	segments = parser.Tidy(segments)

	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		added := e.ImportWalls(segments)
		log.Infof("[PLANNER] session %s imported %d of %d segments from %s", s.ID, len(added), len(segments), fileHeader.Filename)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"imported": len(added),
			"skipped":  len(segments) - len(added),
			"session":  mapSession(s, e),
		})
	})
}
