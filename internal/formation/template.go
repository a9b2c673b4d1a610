// Package formation implements shape-parameterized group layouts:
// templates describe slot offsets, instances bind units to slots at a
// world position and heading.
package formation

import (
	"errors"
	"fmt"
	gomath "math"
	"math/rand"

	"github.com/warhelm/navcore/pkg/math"
)

// Shape selects the layout rule a template generates with.
type Shape int

// Supported formation shapes.
const (
	ShapeLine Shape = iota
	ShapeColumn
	ShapeWedge
	ShapeCircle
	ShapeScattered
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeLine:
		return "line"
	case ShapeColumn:
		return "column"
	case ShapeWedge:
		return "wedge"
	case ShapeCircle:
		return "circle"
	case ShapeScattered:
		return "scattered"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseShape parses a shape name.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "line":
		return ShapeLine, nil
	case "column":
		return ShapeColumn, nil
	case "wedge":
		return ShapeWedge, nil
	case "circle":
		return ShapeCircle, nil
	case "scattered":
		return ShapeScattered, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
}

// Template construction errors.
var (
	ErrUnknownShape = errors.New("unknown formation shape")
	ErrBadSpacing   = errors.New("formation spacing must be positive")
	ErrBadMaxUnits  = errors.New("formation max units must be positive")
)

// PositionEntry is one relative slot layout position. Entries are
// immutable once generated.
type PositionEntry struct {
	// Offset is relative to the formation center, heading 0.
	Offset math.Vec2
	// Angle is the slot facing relative to the formation heading.
	Angle float64
	// Priority orders slot fill preference; lower fills first.
	Priority int
}

// Template is a named, shape-typed slot layout generated once and
// shared by every instance of that type.
type Template struct {
	Name     string
	Shape    Shape
	Spacing  float64
	MaxUnits int
	Entries  []PositionEntry
}

// NewTemplate creates a template and generates its position entries.
// Non-positive spacing or max units indicate a configuration bug and
// fail at construction.
func NewTemplate(name string, shape Shape, spacing float64, maxUnits int) (*Template, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadSpacing, spacing)
	}
	if maxUnits <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadMaxUnits, maxUnits)
	}

	t := &Template{
		Name:     name,
		Shape:    shape,
		Spacing:  spacing,
		MaxUnits: maxUnits,
	}
	if err := t.generatePositions(); err != nil {
		return nil, err
	}
	return t, nil
}

// generatePositions fills Entries, one per unit up to MaxUnits. The
// layout is a pure function of (shape, spacing, maxUnits); scattered
// layouts use a seeded generator so every lockstep peer produces the
// identical arrangement.
func (t *Template) generatePositions() error {
	n := t.MaxUnits
	entries := make([]PositionEntry, 0, n)

	switch t.Shape {
	case ShapeLine:
		// Centered row, symmetric about x=0.
		halfWidth := float64(n-1) * t.Spacing / 2
		for i := 0; i < n; i++ {
			entries = append(entries, PositionEntry{
				Offset:   math.Vec2{X: -halfWidth + float64(i)*t.Spacing},
				Priority: i,
			})
		}

	case ShapeColumn:
		// Single file receding behind the lead slot.
		for i := 0; i < n; i++ {
			entries = append(entries, PositionEntry{
				Offset:   math.Vec2{Y: -float64(i) * t.Spacing},
				Priority: i,
			})
		}

	case ShapeWedge:
		// Leader at the point; followers alternate left/right, one row
		// back per pair.
		for i := 0; i < n; i++ {
			if i == 0 {
				entries = append(entries, PositionEntry{Priority: 0})
				continue
			}
			row := (i + 1) / 2
			side := 1.0
			if i%2 == 1 {
				side = -1.0
			}
			entries = append(entries, PositionEntry{
				Offset: math.Vec2{
					X: side * float64(row) * t.Spacing,
					Y: -float64(row) * t.Spacing,
				},
				Priority: i,
			})
		}

	case ShapeCircle:
		// Radius chosen so neighbor arc length is roughly one spacing.
		radius := t.Spacing * float64(n) / (2 * gomath.Pi)
		if radius < t.Spacing/2 {
			radius = t.Spacing / 2
		}
		for i := 0; i < n; i++ {
			angle := 2 * gomath.Pi * float64(i) / float64(n)
			sin, cos := gomath.Sincos(angle)
			entries = append(entries, PositionEntry{
				Offset:   math.Vec2{X: radius * cos, Y: radius * sin},
				Angle:    math.NormalizeAngle(angle), // face outward
				Priority: i,
			})
		}

	case ShapeScattered:
		radius := t.Spacing * gomath.Sqrt(float64(n))
		rng := rand.New(rand.NewSource(t.seed()))
		for i := 0; i < n; i++ {
			// sqrt keeps the density uniform over the disc.
			r := radius * gomath.Sqrt(rng.Float64())
			theta := 2 * gomath.Pi * rng.Float64()
			sin, cos := gomath.Sincos(theta)
			entries = append(entries, PositionEntry{
				Offset:   math.Vec2{X: r * cos, Y: r * sin},
				Priority: i,
			})
		}

	default:
		return fmt.Errorf("%w: %d", ErrUnknownShape, int(t.Shape))
	}

	t.Entries = entries
	return nil
}

// seed derives a deterministic generator seed from the template
// parameters. Identical parameters must yield identical layouts on
// every peer.
func (t *Template) seed() int64 {
	return int64(t.Shape)<<40 ^ int64(t.MaxUnits)<<20 ^ int64(t.Spacing*1024)
}
