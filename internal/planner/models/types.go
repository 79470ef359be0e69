package models

import "time"

// ============================================================
// Geometry primitives
// ============================================================

// Point is a position in drawing-surface pixels (origin top-left, y down).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ============================================================
// Walls
// ============================================================

type Wall struct {
	ID        string  `json:"id"`
	Start     Point   `json:"start"`
	End       Point   `json:"end"`
	Thickness float64 `json:"thickness"` // mm
	Height    float64 `json:"height"`    // mm
	// UserLength, when set, is the authoritative length in millimetres.
	UserLength *int `json:"userLength,omitempty"`
}

type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
	Diagonal   Orientation = "diagonal"
)

// ============================================================
// Eaves
// ============================================================

// Eave is the roof overhang polygon derived from a wall:
// [start, end, farEnd, farStart].
type Eave struct {
	ID        string    `json:"id"`
	WallID    string    `json:"wallId"`
	Points    [4]Point  `json:"points"`
	Distance  float64   `json:"distance"` // mm
	Color     string    `json:"color"`
	Opacity   float64   `json:"opacity"`
	IsVisible bool      `json:"isVisible"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type StrokeStyle string

const (
	StrokeSolid  StrokeStyle = "solid"
	StrokeDashed StrokeStyle = "dashed"
	StrokeDotted StrokeStyle = "dotted"
)

func (s StrokeStyle) Valid() bool {
	switch s {
	case StrokeSolid, StrokeDashed, StrokeDotted:
		return true
	}
	return false
}

type EaveSettings struct {
	DefaultDistance float64     `json:"defaultDistance"` // mm
	AutoGenerate    bool        `json:"autoGenerate"`
	Color           string      `json:"color"`
	Opacity         float64     `json:"opacity"`
	StrokeStyle     StrokeStyle `json:"strokeStyle"`
	ShowDimensions  bool        `json:"showDimensions"`
}

// DefaultEaveSettings mirrors the editor's factory settings.
func DefaultEaveSettings() EaveSettings {
	return EaveSettings{
		DefaultDistance: 600,
		AutoGenerate:    true,
		Color:           "#94a3b8",
		Opacity:         0.6,
		StrokeStyle:     StrokeDashed,
		ShowDimensions:  true,
	}
}

// ============================================================
// Snapping
// ============================================================

type SnapModes struct {
	Grid     bool `json:"grid"`
	Axis     bool `json:"axis"`
	Endpoint bool `json:"endpoint"`
}

func AllSnapModes() SnapModes {
	return SnapModes{Grid: true, Axis: true, Endpoint: true}
}

// SnapState is recomputed on every pointer move and never stored.
type SnapState struct {
	Pointer         Point     `json:"pointer"`
	NearestEndpoint *Point    `json:"nearestEndpoint,omitempty"`
	Modes           SnapModes `json:"modes"`
}

// ============================================================
// Building data
// ============================================================

type Summary struct {
	WallCount     int     `json:"wallCount"`
	EndpointCount int     `json:"endpointCount"`
	TotalLengthMm int     `json:"totalLengthMm"`
	EaveCount     int     `json:"eaveCount"`
	EaveAreaM2    float64 `json:"eaveAreaM2"`
}

// Project is the serialisable building handed to project storage.
type Project struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Walls     []Wall       `json:"walls"`
	Eaves     []Eave       `json:"eaves"`
	Settings  EaveSettings `json:"settings"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type ProjectInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	WallCount int       `json:"wallCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}
