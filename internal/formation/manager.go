package formation

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/warhelm/navcore/internal/logger"
	"github.com/warhelm/navcore/pkg/math"
)

// Manager errors.
var (
	ErrUnknownTemplate   = errors.New("unknown formation template")
	ErrDuplicateTemplate = errors.New("formation template already registered")
)

// Default template names registered by NewManager.
const (
	TemplateLine      = "LINE"
	TemplateTightLine = "TIGHT_LINE"
	TemplateColumn    = "COLUMN"
	TemplateWedge     = "WEDGE"
	TemplateCircle    = "CIRCLE"
	TemplateScattered = "SCATTERED"
)

// Manager owns the template table and the live formation instances.
// The template table is immutable after initialization; instances live
// for one group order each and are swept by CleanupEmpty. Instance ids
// increase monotonically and are never reused.
type Manager struct {
	templates map[string]*Template
	instances map[uint64]*Instance
	nextID    uint64
}

// NewManager creates a manager with the default template table built
// from the given spacing and unit capacity.
func NewManager(spacing float64, maxUnits int) (*Manager, error) {
	m := &Manager{
		templates: make(map[string]*Template),
		instances: make(map[uint64]*Instance),
		nextID:    1,
	}
	if err := m.initializeDefaults(spacing, maxUnits); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) initializeDefaults(spacing float64, maxUnits int) error {
	defaults := []struct {
		name    string
		shape   Shape
		spacing float64
		units   int
	}{
		{TemplateLine, ShapeLine, spacing, maxUnits},
		{TemplateTightLine, ShapeLine, spacing / 2, maxUnits},
		{TemplateColumn, ShapeColumn, spacing, maxUnits},
		{TemplateWedge, ShapeWedge, spacing, maxUnits},
		{TemplateCircle, ShapeCircle, spacing, maxUnits},
		{TemplateScattered, ShapeScattered, spacing, maxUnits},
	}

	for _, d := range defaults {
		tmpl, err := NewTemplate(d.name, d.shape, d.spacing, d.units)
		if err != nil {
			return fmt.Errorf("template %s: %w", d.name, err)
		}
		m.templates[d.name] = tmpl
	}
	return nil
}

// RegisterTemplate adds a custom template to the table. Registration
// must happen before instances are created from it; re-registering a
// name is an error.
func (m *Manager) RegisterTemplate(tmpl *Template) error {
	if _, exists := m.templates[tmpl.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTemplate, tmpl.Name)
	}
	m.templates[tmpl.Name] = tmpl
	return nil
}

// Template looks up a template by name.
func (m *Manager) Template(name string) (*Template, bool) {
	tmpl, ok := m.templates[name]
	return tmpl, ok
}

// Create instantiates the named template at a world center and heading
// and returns the new instance id.
func (m *Manager) Create(templateName string, center math.Vec2, heading float64) (uint64, error) {
	tmpl, ok := m.templates[templateName]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateName)
	}

	id := m.nextID
	m.nextID++
	m.instances[id] = newInstance(id, tmpl, center, heading)

	logger.Debug("formation created",
		zap.Uint64("id", id),
		zap.String("template", templateName),
		zap.Int("slots", len(tmpl.Entries)))

	return id, nil
}

// CreateShape instantiates the default template for a shape.
func (m *Manager) CreateShape(shape Shape, center math.Vec2, heading float64) (uint64, error) {
	name, ok := defaultTemplateName(shape)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}
	return m.Create(name, center, heading)
}

func defaultTemplateName(shape Shape) (string, bool) {
	switch shape {
	case ShapeLine:
		return TemplateLine, true
	case ShapeColumn:
		return TemplateColumn, true
	case ShapeWedge:
		return TemplateWedge, true
	case ShapeCircle:
		return TemplateCircle, true
	case ShapeScattered:
		return TemplateScattered, true
	default:
		return "", false
	}
}

// Get returns the live instance with the given id.
func (m *Manager) Get(id uint64) (*Instance, bool) {
	inst, ok := m.instances[id]
	return inst, ok
}

// Remove destroys an instance regardless of its unit count.
func (m *Manager) Remove(id uint64) {
	delete(m.instances, id)
}

// InstanceCount returns the number of live instances.
func (m *Manager) InstanceCount() int {
	return len(m.instances)
}

// CleanupEmpty sweeps instances with no assigned units and returns how
// many were removed. The owning simulation calls this periodically; it
// is deliberately not triggered by RemoveUnit so a briefly emptied
// formation survives until the next sweep.
func (m *Manager) CleanupEmpty() int {
	var empty []uint64
	for id, inst := range m.instances {
		if inst.UnitCount() == 0 {
			empty = append(empty, id)
		}
	}
	// Map iteration order is random; sweep in id order so peers log and
	// mutate identically.
	sort.Slice(empty, func(i, j int) bool { return empty[i] < empty[j] })

	for _, id := range empty {
		delete(m.instances, id)
		logger.Debug("formation swept", zap.Uint64("id", id))
	}
	return len(empty)
}
