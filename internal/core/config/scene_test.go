package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/broadphase/internal/core/broadphase"
	"github.com/zeusync/broadphase/internal/core/spatial"
	"github.com/zeusync/broadphase/internal/core/systems/physics"
)

func TestLoadYAMLFile(t *testing.T) {
	s, err := LoadFile(filepath.Join("testdata", "marbles.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "marbles", s.Name)
	assert.Equal(t, 0.02, s.DT)
	assert.Equal(t, 100, s.Steps)
	assert.Equal(t, spatial.Dim3, s.Dim())

	tree, err := s.NewTree()
	require.NoError(t, err)
	assert.Equal(t, spatial.KindOctree, tree.Kind())
	assert.Equal(t, mgl64.Vec3{20, 20, 20}, tree.Bounds().Half)

	p := s.Params()
	assert.Equal(t, 0.99, p.Friction)
	assert.Equal(t, 0.6, p.Restitution)

	w := broadphase.NewWorld(tree, broadphase.WithParams(p))
	require.NoError(t, s.Populate(w))
	require.Len(t, w.Bodies(), 3)
	b, ok := w.Body(2)
	require.True(t, ok)
	assert.Equal(t, 2.0, b.Mass)
	assert.Equal(t, mgl64.Vec3{0, -1, 0}, b.Velocity)
}

func TestLoadJSONFileAppliesDefaults(t *testing.T) {
	s, err := LoadFile(filepath.Join("testdata", "platform.json"))
	require.NoError(t, err)

	assert.Equal(t, "platform", s.Name, "name falls back to the file name")
	assert.Equal(t, DefaultDT, s.DT)
	assert.Equal(t, DefaultSteps, s.Steps)
	assert.Equal(t, spatial.DefaultMaxDepth, s.Tree.MaxDepth)
	assert.Equal(t, spatial.Dim2, s.Dim())

	p := s.Params()
	assert.Equal(t, mgl64.Vec3{0, -10, 0}, p.Gravity)
	assert.Equal(t, physics.DefaultFriction, p.Friction)
	assert.Equal(t, physics.DefaultRestitution, p.Restitution)

	tree, err := s.NewTree()
	require.NoError(t, err)
	assert.Equal(t, spatial.KindAABB, tree.Kind())

	w := broadphase.NewWorld(tree, broadphase.WithParams(p))
	require.NoError(t, s.Populate(w))
	floor, ok := w.Body(2)
	require.True(t, ok)
	assert.True(t, floor.Static)
	assert.Equal(t, mgl64.Vec3{10, 1, 0}, floor.Half)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	const doc = `
tree:
  kind: hextree
  half_size: [1, 2, 3, 4]
bodies:
  - {id: 1, shape: blob, position: [0, 0]}
  - {id: 2, shape: circle, position: [0, 0], mass: 0}
  - {id: 2, shape: circle, position: [1, 0], mass: 1}
`
	_, err := LoadYAML(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTreeKind)
	assert.ErrorIs(t, err, ErrInvalidVector)
	assert.ErrorIs(t, err, ErrUnknownShape)
	assert.ErrorIs(t, err, physics.ErrInvalidMass)
	assert.ErrorIs(t, err, broadphase.ErrDuplicateBody)
}

func TestTuningValuesAreNotRejected(t *testing.T) {
	const doc = `{"tree": {"kind": "kd", "dim": 2, "half_size": [-5, 5], "leaf_capacity": -3, "max_depth": -1},
	"bodies": [{"id": 1, "shape": "circle", "position": [0, 0], "radius": 1, "mass": 1}]}`
	s, err := LoadJSON(strings.NewReader(doc))
	require.NoError(t, err)

	tree, err := s.NewTree()
	require.NoError(t, err)
	assert.Equal(t, spatial.KindKD, tree.Kind())
	assert.Zero(t, tree.Bounds().Half.X(), "negative extents are clamped by the tree")
}

func TestUnknownFieldsAndFormats(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("tree: {kind: quadtree, half_size: [1, 1]}\ncolour: red\n"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join("testdata", "scene.toml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadFile(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}
