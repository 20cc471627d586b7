package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/broadphase/internal/core/broadphase"
	"github.com/zeusync/broadphase/internal/core/models"
	"github.com/zeusync/broadphase/internal/core/spatial"
	"github.com/zeusync/broadphase/internal/core/systems/physics"
)

const (
	DefaultDT    = 1.0 / 60
	DefaultSteps = 60
)

var (
	ErrUnknownTreeKind = errors.New("config: unknown tree kind")
	ErrUnknownShape    = errors.New("config: unknown body shape")
	ErrInvalidVector   = errors.New("config: vectors need 2 or 3 components")
	ErrUnknownFormat   = errors.New("config: unsupported file extension")
)

// Scene describes one world in JSON or YAML.
type Scene struct {
	Name     string    `json:"name" yaml:"name"`
	DT       float64   `json:"dt,omitempty" yaml:"dt,omitempty"`
	Steps    int       `json:"steps,omitempty" yaml:"steps,omitempty"`
	Tree     Tree      `json:"tree" yaml:"tree"`
	Physics  Physics   `json:"physics" yaml:"physics"`
	Surfaces []Surface `json:"surfaces,omitempty" yaml:"surfaces,omitempty"`
	Bodies   []Body    `json:"bodies" yaml:"bodies"`
}

type Tree struct {
	Kind string `json:"kind" yaml:"kind"`
	// Dim is only read for kdtree and aabbtree; zero infers it from the bodies.
	Dim          int       `json:"dim,omitempty" yaml:"dim,omitempty"`
	Center       []float64 `json:"center,omitempty" yaml:"center,omitempty"`
	HalfSize     []float64 `json:"half_size" yaml:"half_size"`
	LeafCapacity int       `json:"leaf_capacity,omitempty" yaml:"leaf_capacity,omitempty"`
	MaxDepth     int       `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
}

type Physics struct {
	Gravity     []float64 `json:"gravity,omitempty" yaml:"gravity,omitempty"`
	Friction    *float64  `json:"friction,omitempty" yaml:"friction,omitempty"`
	Restitution *float64  `json:"restitution,omitempty" yaml:"restitution,omitempty"`
}

type Surface struct {
	Normal []float64 `json:"normal" yaml:"normal"`
	Offset float64   `json:"offset,omitempty" yaml:"offset,omitempty"`
}

type Body struct {
	ID       uint64    `json:"id" yaml:"id"`
	Shape    string    `json:"shape" yaml:"shape"`
	Position []float64 `json:"position" yaml:"position"`
	Velocity []float64 `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	Radius   float64   `json:"radius,omitempty" yaml:"radius,omitempty"`
	HalfSize []float64 `json:"half_size,omitempty" yaml:"half_size,omitempty"`
	Mass     float64   `json:"mass,omitempty" yaml:"mass,omitempty"`
	Static   bool      `json:"static,omitempty" yaml:"static,omitempty"`
}

// LoadJSON loads a scene from a JSON reader.
func LoadJSON(r io.Reader) (*Scene, error) {
	var s Scene
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("config: decode json: %w", err)
	}
	return s.finish()
}

// LoadYAML loads a scene from a YAML reader.
func LoadYAML(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	return s.finish()
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Scene, error) {
	var load func(io.Reader) (*Scene, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		load = LoadYAML
	case ".json":
		load = LoadJSON
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	s, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

func (s *Scene) finish() (*Scene, error) {
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyDefaults fills unset timing and tree tuning values.
func (s *Scene) ApplyDefaults() {
	if s.DT <= 0 {
		s.DT = DefaultDT
	}
	if s.Steps <= 0 {
		s.Steps = DefaultSteps
	}
	if s.Tree.LeafCapacity == 0 {
		s.Tree.LeafCapacity = spatial.DefaultLeafCapacity
	}
	if s.Tree.MaxDepth == 0 {
		s.Tree.MaxDepth = spatial.DefaultMaxDepth
	}
}

// Validate reports every structural problem in the scene. Tuning values such
// as capacity, depth or negative extents are left to the tree to clamp.
func (s *Scene) Validate() error {
	var errs []error
	if _, err := s.Kind(); err != nil {
		errs = append(errs, err)
	}
	if s.Tree.Dim != 0 && s.Tree.Dim != 2 && s.Tree.Dim != 3 {
		errs = append(errs, fmt.Errorf("config: tree dim %d: must be 2 or 3", s.Tree.Dim))
	}
	for name, v := range map[string][]float64{
		"tree.center":     s.Tree.Center,
		"tree.half_size":  s.Tree.HalfSize,
		"physics.gravity": s.Physics.Gravity,
	} {
		if _, err := vec(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	for i, sf := range s.Surfaces {
		if _, err := vec(sf.Normal); err != nil {
			errs = append(errs, fmt.Errorf("surfaces[%d].normal: %w", i, err))
		}
	}

	seen := make(map[uint64]struct{}, len(s.Bodies))
	for _, b := range s.Bodies {
		if _, ok := seen[b.ID]; ok {
			errs = append(errs, fmt.Errorf("body %d: %w", b.ID, broadphase.ErrDuplicateBody))
		}
		seen[b.ID] = struct{}{}
		if _, err := b.build(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Kind resolves the configured tree kind.
func (s *Scene) Kind() (spatial.Kind, error) {
	k, ok := spatial.ParseKind(s.Tree.Kind)
	if !ok {
		return spatial.KindUnknown, fmt.Errorf("%w: %q", ErrUnknownTreeKind, s.Tree.Kind)
	}
	return k, nil
}

// Dim returns the dimensionality of the tree. Grid kinds imply it; otherwise
// the configured value is used, or 3 when any body is a sphere.
func (s *Scene) Dim() spatial.Dim {
	switch k, _ := s.Kind(); k {
	case spatial.KindQuadtree:
		return spatial.Dim2
	case spatial.KindOctree:
		return spatial.Dim3
	}
	switch s.Tree.Dim {
	case 2:
		return spatial.Dim2
	case 3:
		return spatial.Dim3
	}
	for _, b := range s.Bodies {
		if shape, ok := parseShape(b.Shape); ok && !shape.Planar() {
			return spatial.Dim3
		}
	}
	return spatial.Dim2
}

// Region returns the root region of the tree.
func (s *Scene) Region() spatial.Region {
	c, _ := vec(s.Tree.Center)
	h, _ := vec(s.Tree.HalfSize)
	return spatial.NewRegion(c, h)
}

// NewTree builds an empty tree of the configured kind.
func (s *Scene) NewTree() (spatial.Tree, error) {
	k, err := s.Kind()
	if err != nil {
		return nil, err
	}
	return spatial.New(k, s.Dim(), s.Region(),
		spatial.WithLeafCapacity(s.Tree.LeafCapacity),
		spatial.WithMaxDepth(s.Tree.MaxDepth),
	), nil
}

// Params returns the physics constants, falling back to defaults for unset keys.
func (s *Scene) Params() physics.Params {
	p := physics.DefaultParams()
	if s.Physics.Gravity != nil {
		p.Gravity, _ = vec(s.Physics.Gravity)
	}
	if s.Physics.Friction != nil {
		p.Friction = *s.Physics.Friction
	}
	if s.Physics.Restitution != nil {
		p.Restitution = *s.Physics.Restitution
	}
	return p
}

// Populate adds the scene's bodies and surfaces to w.
func (s *Scene) Populate(w *broadphase.World) error {
	for _, cfg := range s.Bodies {
		b, err := cfg.build()
		if err != nil {
			return err
		}
		if err = w.AddBody(b); err != nil {
			return err
		}
	}
	for _, sf := range s.Surfaces {
		n, err := vec(sf.Normal)
		if err != nil {
			return err
		}
		w.AddSurface(physics.Plane{Normal: n, Offset: sf.Offset})
	}
	return nil
}

func (b Body) build() (*physics.Body, error) {
	shape, ok := parseShape(b.Shape)
	if !ok {
		return nil, fmt.Errorf("body %d: %w: %q", b.ID, ErrUnknownShape, b.Shape)
	}
	pos, err := vec(b.Position)
	if err != nil {
		return nil, fmt.Errorf("body %d position: %w", b.ID, err)
	}
	vel, err := vec(b.Velocity)
	if err != nil {
		return nil, fmt.Errorf("body %d velocity: %w", b.ID, err)
	}
	half, err := vec(b.HalfSize)
	if err != nil {
		return nil, fmt.Errorf("body %d half_size: %w", b.ID, err)
	}

	body, err := physics.NewBody(models.EntityID(b.ID), shape, pos, b.Mass, b.Static)
	if err != nil {
		return nil, err
	}
	body.Velocity = vel
	body.Radius = b.Radius
	body.Half = half
	if shape.Planar() {
		body.Velocity[2] = 0
		body.Half[2] = 0
	}
	return body, nil
}

func parseShape(s string) (physics.Shape, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "circle":
		return physics.ShapeCircle, true
	case "rect", "rectangle", "box":
		return physics.ShapeRect, true
	case "sphere":
		return physics.ShapeSphere, true
	default:
		return 0, false
	}
}

func vec(v []float64) (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl64.Vec3{}, nil
	case 2:
		return mgl64.Vec3{v[0], v[1], 0}, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	default:
		return mgl64.Vec3{}, fmt.Errorf("%w: got %d", ErrInvalidVector, len(v))
	}
}
