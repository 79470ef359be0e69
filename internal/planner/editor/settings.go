package editor

import (
	"fmt"
	"strconv"
	"strings"

	"scaff-planner/internal/planner/models"
)

// ParseLength reads a typed wall length in whole millimetres.
func ParseLength(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q: %w", text, ErrInvalidLength)
	}
	return n, nil
}

// SettingsPatch carries the fields a settings form changed; nil fields are
// left as they are.
type SettingsPatch struct {
	DefaultDistance *float64            `json:"defaultDistance,omitempty"`
	AutoGenerate    *bool               `json:"autoGenerate,omitempty"`
	Color           *string             `json:"color,omitempty"`
	Opacity         *float64            `json:"opacity,omitempty"`
	StrokeStyle     *models.StrokeStyle `json:"strokeStyle,omitempty"`
	ShowDimensions  *bool               `json:"showDimensions,omitempty"`
}

// Apply returns s with the patch applied, or ErrInvalidSettings when the
// result would be unusable.
func (p SettingsPatch) Apply(s models.EaveSettings) (models.EaveSettings, error) {
	if p.DefaultDistance != nil {
		s.DefaultDistance = *p.DefaultDistance
	}
	if p.AutoGenerate != nil {
		s.AutoGenerate = *p.AutoGenerate
	}
	if p.Color != nil {
		s.Color = strings.TrimSpace(*p.Color)
	}
	if p.Opacity != nil {
		s.Opacity = *p.Opacity
	}
	if p.StrokeStyle != nil {
		s.StrokeStyle = *p.StrokeStyle
	}
	if p.ShowDimensions != nil {
		s.ShowDimensions = *p.ShowDimensions
	}

	if err := ValidateSettings(s); err != nil {
		return models.EaveSettings{}, err
	}
	return s, nil
}

func ValidateSettings(s models.EaveSettings) error {
	switch {
	case s.DefaultDistance < 0:
		return fmt.Errorf("%w: default distance %v is negative", ErrInvalidSettings, s.DefaultDistance)
	case s.Opacity < 0 || s.Opacity > 1:
		return fmt.Errorf("%w: opacity %v outside [0,1]", ErrInvalidSettings, s.Opacity)
	case s.Color == "":
		return fmt.Errorf("%w: empty color", ErrInvalidSettings)
	case !s.StrokeStyle.Valid():
		return fmt.Errorf("%w: stroke style %q", ErrInvalidSettings, s.StrokeStyle)
	}
	return nil
}

// UpdateSettings applies a patch. Existing eaves keep their distance and
// colour; the new values apply to eaves generated afterwards.
func (e *Editor) UpdateSettings(p SettingsPatch) (models.EaveSettings, error) {
	s, err := p.Apply(e.settings)
	if err != nil {
		return e.settings, err
	}
	e.settings = s
	return s, nil
}

func (e *Editor) Settings() models.EaveSettings {
	return e.settings
}
