// Package mapfile loads battle map descriptions: grid dimensions plus
// blocked and cost-weighted regions, from which a navigation grid is
// built.
package mapfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warhelm/navcore/internal/nav"
)

// Map file errors.
var (
	ErrBadRegion = errors.New("map region outside sane bounds")
)

// Rect is a cell-aligned region. Regions may extend past the grid edge;
// the out-of-bounds cells are simply skipped, matching the grid's
// permissive mutator policy.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// CostRegion is a region with a movement cost multiplier.
type CostRegion struct {
	Rect `yaml:",inline"`
	Cost float64 `yaml:"cost"`
}

// File is a parsed map description.
type File struct {
	Name     string       `yaml:"name"`
	Width    int          `yaml:"width"`
	Height   int          `yaml:"height"`
	CellSize float64      `yaml:"cell_size"`
	Blocked  []Rect       `yaml:"blocked"`
	Costs    []CostRegion `yaml:"costs"`
}

// Load reads and parses a map file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing map %s: %w", path, err)
	}
	if f.CellSize == 0 {
		f.CellSize = 1.0
	}
	return &f, nil
}

// BuildGrid constructs a navigation grid from the map description.
func (f *File) BuildGrid() (*nav.Grid, error) {
	grid, err := nav.NewGrid(f.Width, f.Height, f.CellSize)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", f.Name, err)
	}

	for _, r := range f.Blocked {
		if r.W < 0 || r.H < 0 {
			return nil, fmt.Errorf("%w: blocked %+v", ErrBadRegion, r)
		}
		forEachCell(r, func(x, y int) {
			grid.SetWalkable(x, y, false)
		})
	}

	for _, c := range f.Costs {
		if c.W < 0 || c.H < 0 || c.Cost < 0 {
			return nil, fmt.Errorf("%w: cost %+v", ErrBadRegion, c)
		}
		forEachCell(c.Rect, func(x, y int) {
			grid.SetCost(x, y, c.Cost)
		})
	}

	return grid, nil
}

func forEachCell(r Rect, fn func(x, y int)) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			fn(x, y)
		}
	}
}
