package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"scaff-planner/internal/planner/editor"
	"scaff-planner/internal/planner/mapper"
	"scaff-planner/internal/planner/service"
)

// ============================================================
// Exports
// ============================================================

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *PlannerHandler) RenderSVG(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		svg, err := h.renderer.Render(drawingOf(s, e))
		if err != nil {
			return err
		}
		c.Set("Content-Type", "image/svg+xml")
		return c.SendString(svg)
	})
}

func (h *PlannerHandler) PreviewPNG(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		data, err := h.preview.PNG(drawingOf(s, e))
		if err != nil {
			return err
		}
		c.Set("Content-Type", "image/png")
		return c.Send(data)
	})
}

func (h *PlannerHandler) ExportGeoJSON(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		data, err := mapper.GeoJSON(drawingOf(s, e))
		if err != nil {
			return err
		}
		c.Set("Content-Type", "application/geo+json")
		return c.Send(data)
	})
}

func (h *PlannerHandler) ExportXLSX(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		data, err := mapper.Workbook(drawingOf(s, e), e.Summary())
		if err != nil {
			return err
		}
		c.Set("Content-Type", xlsxContentType)
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, exportName(s)))
		return c.Send(data)
	})
}

func (h *PlannerHandler) Report(c fiber.Ctx) error {
	return h.with(c, func(s *service.Session, e *editor.Editor) error {
		data, err := mapper.Report(drawingOf(s, e))
		if err != nil {
			return err
		}
		c.Set("Content-Type", "text/html; charset=utf-8")
		return c.Send(data)
	})
}

func exportName(s *service.Session) string {
	if s.ProjectID != "" {
		return s.ProjectID
	}
	return s.ID
}
