package formation

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/warhelm/navcore/pkg/math"
)

func TestNewTemplate_InvalidParams(t *testing.T) {
	if _, err := NewTemplate("bad", ShapeLine, 0, 5); !errors.Is(err, ErrBadSpacing) {
		t.Errorf("zero spacing error = %v, want %v", err, ErrBadSpacing)
	}
	if _, err := NewTemplate("bad", ShapeLine, -1, 5); !errors.Is(err, ErrBadSpacing) {
		t.Errorf("negative spacing error = %v, want %v", err, ErrBadSpacing)
	}
	if _, err := NewTemplate("bad", ShapeLine, 2, 0); !errors.Is(err, ErrBadMaxUnits) {
		t.Errorf("zero max units error = %v, want %v", err, ErrBadMaxUnits)
	}
}

func TestTemplate_SlotCountPerShape(t *testing.T) {
	shapes := []Shape{ShapeLine, ShapeColumn, ShapeWedge, ShapeCircle, ShapeScattered}
	for _, shape := range shapes {
		t.Run(shape.String(), func(t *testing.T) {
			tmpl, err := NewTemplate("test", shape, 2.0, 9)
			if err != nil {
				t.Fatalf("NewTemplate: %v", err)
			}
			if len(tmpl.Entries) != 9 {
				t.Errorf("entry count = %d, want 9", len(tmpl.Entries))
			}
		})
	}
}

func TestTemplate_LineSymmetry(t *testing.T) {
	for _, n := range []int{2, 5, 8} {
		tmpl, err := NewTemplate("line", ShapeLine, 2.0, n)
		if err != nil {
			t.Fatalf("NewTemplate: %v", err)
		}
		for i := 0; i < n; i++ {
			a := tmpl.Entries[i].Offset
			b := tmpl.Entries[n-1-i].Offset
			if gomath.Abs(a.X+b.X) > 1e-9 {
				t.Errorf("n=%d: entries %d and %d not symmetric: %v vs %v", n, i, n-1-i, a, b)
			}
			if a.Y != 0 {
				t.Errorf("n=%d: line entry %d has nonzero y: %v", n, i, a)
			}
		}
	}
}

func TestTemplate_ColumnSingleFile(t *testing.T) {
	tmpl, err := NewTemplate("column", ShapeColumn, 1.5, 6)
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	for i, e := range tmpl.Entries {
		if e.Offset.X != 0 {
			t.Errorf("entry %d has nonzero x: %v", i, e.Offset)
		}
		want := -float64(i) * 1.5
		if gomath.Abs(e.Offset.Y-want) > 1e-9 {
			t.Errorf("entry %d y = %v, want %v", i, e.Offset.Y, want)
		}
	}
}

func TestTemplate_WedgeLeaderAndPairs(t *testing.T) {
	tmpl, err := NewTemplate("wedge", ShapeWedge, 2.0, 7)
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}

	if tmpl.Entries[0].Offset != (math.Vec2{}) {
		t.Errorf("leader not at origin: %v", tmpl.Entries[0].Offset)
	}

	// Pairs share a row and mirror across the centerline.
	for i := 1; i+1 < len(tmpl.Entries); i += 2 {
		left, right := tmpl.Entries[i].Offset, tmpl.Entries[i+1].Offset
		if left.Y != right.Y {
			t.Errorf("pair %d/%d rows differ: %v vs %v", i, i+1, left, right)
		}
		if gomath.Abs(left.X+right.X) > 1e-9 {
			t.Errorf("pair %d/%d not mirrored: %v vs %v", i, i+1, left, right)
		}
		if left.Y >= 0 {
			t.Errorf("entry %d should sit behind the leader: %v", i, left)
		}
	}
}

func TestTemplate_CircleSpacing(t *testing.T) {
	const n = 10
	const spacing = 2.0
	tmpl, err := NewTemplate("circle", ShapeCircle, spacing, n)
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}

	// All entries on one ring.
	radius := tmpl.Entries[0].Offset.Length()
	for i, e := range tmpl.Entries {
		if gomath.Abs(e.Offset.Length()-radius) > 1e-9 {
			t.Errorf("entry %d radius %v, want %v", i, e.Offset.Length(), radius)
		}
	}

	// Neighbor arc length approximates the spacing.
	arc := 2 * gomath.Pi * radius / n
	if gomath.Abs(arc-spacing) > spacing*0.01 {
		t.Errorf("neighbor arc length %v, want ~%v", arc, spacing)
	}
}

func TestTemplate_ScatteredDeterministic(t *testing.T) {
	a, err := NewTemplate("scatter-a", ShapeScattered, 2.5, 16)
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	b, err := NewTemplate("scatter-b", ShapeScattered, 2.5, 16)
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}

	// Lockstep peers regenerate templates independently; identical
	// parameters must yield identical offsets.
	for i := range a.Entries {
		if a.Entries[i].Offset != b.Entries[i].Offset {
			t.Fatalf("entry %d differs: %v vs %v", i, a.Entries[i].Offset, b.Entries[i].Offset)
		}
	}

	// And all offsets stay inside the scatter radius.
	radius := 2.5 * gomath.Sqrt(16)
	for i, e := range a.Entries {
		if e.Offset.Length() > radius+1e-9 {
			t.Errorf("entry %d outside radius: %v", i, e.Offset)
		}
	}
}

func TestParseShape(t *testing.T) {
	for _, shape := range []Shape{ShapeLine, ShapeColumn, ShapeWedge, ShapeCircle, ShapeScattered} {
		got, err := ParseShape(shape.String())
		if err != nil {
			t.Errorf("ParseShape(%q) error: %v", shape.String(), err)
		}
		if got != shape {
			t.Errorf("ParseShape(%q) = %v, want %v", shape.String(), got, shape)
		}
	}

	if _, err := ParseShape("blob"); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("ParseShape(blob) error = %v, want %v", err, ErrUnknownShape)
	}
}
