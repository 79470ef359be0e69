package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"scaff-planner/internal/planner/models"
)

// ============================================================
// Path Parser
// ============================================================

var commandRe = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath turns the straight-line subset of SVG path data (M, L, H, V, Z in
// absolute and relative form) into a point list. Extra coordinate pairs after
// M or L are implicit line-tos. Z appends the subpath's first point.
func ParsePath(d string) ([]models.Point, error) {
	subpaths, err := ParseSubpaths(d)
	if err != nil {
		return nil, err
	}

	var points []models.Point
	for _, sp := range subpaths {
		points = append(points, sp...)
	}
	return points, nil
}

// ParseSubpaths is ParsePath split at every M, so callers do not join the
// end of one subpath to the start of the next.
func ParseSubpaths(d string) ([][]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var subpaths [][]models.Point
	var points []models.Point
	var cur, subpathStart models.Point

	for _, match := range commandRe.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords, err := parseCoords(match[2])
		if err != nil {
			return nil, err
		}
		relative := strings.ToLower(cmd) == cmd

		switch strings.ToUpper(cmd) {
		case "M", "L":
			if len(coords) < 2 || len(coords)%2 != 0 {
				return nil, fmt.Errorf("%s needs coordinate pairs, got %d numbers", cmd, len(coords))
			}
			for i := 0; i+1 < len(coords); i += 2 {
				next := models.Point{X: coords[i], Y: coords[i+1]}
				if relative {
					next = models.Point{X: cur.X + next.X, Y: cur.Y + next.Y}
				}
				cur = next
				if i == 0 && strings.ToUpper(cmd) == "M" {
					if len(points) > 0 {
						subpaths = append(subpaths, points)
					}
					points = nil
					subpathStart = cur
				}
				points = append(points, cur)
			}

		case "H":
			if len(coords) == 0 {
				return nil, fmt.Errorf("%s needs a coordinate", cmd)
			}
			for _, x := range coords {
				if relative {
					cur.X += x
				} else {
					cur.X = x
				}
				points = append(points, cur)
			}

		case "V":
			if len(coords) == 0 {
				return nil, fmt.Errorf("%s needs a coordinate", cmd)
			}
			for _, y := range coords {
				if relative {
					cur.Y += y
				} else {
					cur.Y = y
				}
				points = append(points, cur)
			}

		case "Z":
			if len(points) > 0 {
				cur = subpathStart
				points = append(points, cur)
			}
		}
	}
	if len(points) > 0 {
		subpaths = append(subpaths, points)
	}

	if len(subpaths) == 0 {
		return nil, fmt.Errorf("no straight-line commands in %q", d)
	}
	return subpaths, nil
}

func parseCoords(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q", part)
		}
		coords = append(coords, val)
	}
	return coords, nil
}
