package editor

import (
	"time"

	"scaff-planner/internal/planner/eaves"
	"scaff-planner/internal/planner/models"
)

// Project captures the drawing for storage. Orphaned eaves are dropped.
func (e *Editor) Project(id, name string, now time.Time) models.Project {
	list := e.walls.List()
	return models.Project{
		ID:        id,
		Name:      name,
		Walls:     list,
		Eaves:     eaves.Live(e.eaves, list),
		Settings:  e.settings,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Load replaces the drawing with a stored project and forgets undo history.
func (e *Editor) Load(p models.Project) error {
	if err := ValidateSettings(p.Settings); err != nil {
		return err
	}
	e.walls.Replace(p.Walls)
	e.eaves = eaves.Live(p.Eaves, p.Walls)
	e.settings = p.Settings
	e.history = newHistory(e.history.limit)
	e.mode = Idle
	return nil
}
