package broadphase

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/broadphase/internal/core/events/bus"
	"github.com/zeusync/broadphase/internal/core/models"
	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/internal/core/observability/metrics"
	"github.com/zeusync/broadphase/internal/core/spatial"
	"github.com/zeusync/broadphase/internal/core/systems/physics"
)

var (
	ErrDuplicateBody = errors.New("broadphase: body already registered")
	ErrUnknownBody   = errors.New("broadphase: unknown body")
)

// World owns a set of bodies and one spatial tree, and advances them with
// Step. It is not safe for concurrent use.
type World struct {
	name     string
	tree     spatial.Tree
	params   physics.Params
	bodies   map[models.EntityID]*physics.Body
	order    []models.EntityID
	surfaces []physics.Plane

	bus     bus.EventBus
	log     log.Log
	metrics *metrics.Collector

	frame   uint64
	elapsed float64
	last    StepStats
}

// Option configures a World.
type Option func(*World)

func WithName(name string) Option {
	return func(w *World) { w.name = name }
}

func WithParams(p physics.Params) Option {
	return func(w *World) { w.params = p }
}

func WithBus(b bus.EventBus) Option {
	return func(w *World) { w.bus = b }
}

func WithLogger(l log.Log) Option {
	return func(w *World) { w.log = l }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(w *World) { w.metrics = m }
}

// NewWorld creates a world indexing its bodies with tree.
func NewWorld(tree spatial.Tree, opts ...Option) *World {
	w := &World{
		name:   "world",
		tree:   tree,
		params: physics.DefaultParams(),
		bodies: make(map[models.EntityID]*physics.Body),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.bus == nil {
		w.bus = bus.New()
	}
	if w.log == nil {
		w.log = log.Nop()
	}
	if w.metrics == nil {
		w.metrics = metrics.New(w.name, tree.Kind())
	}

	if p := w.params.Normalized(); p != w.params {
		w.log.Warn("physics parameters clamped",
			log.Float64("friction", p.Friction),
			log.Float64("restitution", p.Restitution),
		)
		w.params = p
	}
	w.log = w.log.With(log.String("world", w.name), log.Stringer("tree", tree.Kind()))
	return w
}

func (w *World) Name() string           { return w.name }
func (w *World) Tree() spatial.Tree     { return w.tree }
func (w *World) Params() physics.Params { return w.params }
func (w *World) Bus() bus.EventBus      { return w.bus }

// FrameCount returns the number of completed steps.
func (w *World) FrameCount() uint64 { return w.frame }

// TotalTime returns the simulated time advanced so far.
func (w *World) TotalTime() time.Duration {
	return time.Duration(w.elapsed * float64(time.Second))
}

// LastStep returns the statistics of the most recent step.
func (w *World) LastStep() StepStats { return w.last }

// AddBody registers a body. Its ID must be unique within the world.
func (w *World) AddBody(b *physics.Body) error {
	if b == nil {
		return errors.New("broadphase: nil body")
	}
	if _, ok := w.bodies[b.ID]; ok {
		return fmt.Errorf("body %d: %w", b.ID, ErrDuplicateBody)
	}
	if !b.Static && !(b.Mass > 0) {
		return fmt.Errorf("body %d: %w", b.ID, physics.ErrInvalidMass)
	}
	if b.Shape == physics.ShapeSphere && w.tree.Dim() == spatial.Dim2 {
		w.log.Warn("spatial body indexed by a planar tree", log.Uint64("body", uint64(b.ID)))
	}
	w.bodies[b.ID] = b
	w.order = append(w.order, b.ID)
	return nil
}

// RemoveBody unregisters a body. The tree forgets it on the next step.
func (w *World) RemoveBody(id models.EntityID) error {
	if _, ok := w.bodies[id]; !ok {
		return fmt.Errorf("body %d: %w", id, ErrUnknownBody)
	}
	delete(w.bodies, id)
	w.order = slices.DeleteFunc(w.order, func(cur models.EntityID) bool { return cur == id })
	return nil
}

// Body returns a registered body.
func (w *World) Body(id models.EntityID) (*physics.Body, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

// Bodies returns the registered bodies in registration order.
func (w *World) Bodies() []*physics.Body {
	out := make([]*physics.Body, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.bodies[id])
	}
	return out
}

// AddSurface adds an infinite static plane tested against every dynamic body.
func (w *World) AddSurface(p physics.Plane) {
	w.surfaces = append(w.surfaces, p)
}

// OnContact subscribes fn to the contacts published by Step.
func (w *World) OnContact(fn func(bus.ContactEvent) error) (bus.Subscription, error) {
	return w.bus.Subscribe(bus.EventContact, func(e bus.Event) error {
		c, ok := e.Data().(bus.ContactEvent)
		if !ok {
			return nil
		}
		return fn(c)
	})
}

// Rebuild snapshots every body into the tree without advancing time.
func (w *World) Rebuild() spatial.Statistics {
	records := make([]models.Record, 0, len(w.order))
	for _, id := range w.order {
		records = append(records, w.bodies[id].Record())
	}
	w.tree.BuildFrom(records)

	stats := w.tree.Stats()
	if stats.Rejected > 0 {
		w.log.Warn("bodies outside the tree region were not indexed", log.Int("rejected", stats.Rejected))
	}
	w.metrics.ObserveTree(stats)
	return stats
}

// QueryRadius returns the ids of bodies whose position lies within r of center,
// as seen by the last rebuild.
func (w *World) QueryRadius(center mgl64.Vec3, r float64) []models.EntityID {
	if r < 0 {
		return nil
	}
	rr := r * r
	var out []models.EntityID
	for _, rec := range w.tree.Query(center, mgl64.Vec3{r, r, r}) {
		if w.distanceSq(rec.Position, center) <= rr {
			out = append(out, rec.ID)
		}
	}
	return out
}

// QueryBounds returns the broad-phase candidates overlapping the region.
func (w *World) QueryBounds(center, halfSize mgl64.Vec3) []models.Record {
	return w.tree.Query(center, halfSize)
}

// DebugNodes returns the tree's node regions for wireframe rendering. The
// slice must not be kept past the next step.
func (w *World) DebugNodes() []spatial.NodeInfo {
	return w.tree.Nodes()
}

func (w *World) distanceSq(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	if w.tree.Dim() == spatial.Dim2 {
		d[2] = 0
	}
	return d.Dot(d)
}

// partition returns how far candidate queries must reach beyond a body's own
// extent, and the static bodies too wide to be found that way.
//
// Records are keyed by their position, so a query widened by the largest
// dynamic half extent finds every dynamic body and every static body no wider
// than that. Wider static bodies (floors, walls) are tested directly against
// each dynamic body instead of widening every query.
func (w *World) partition() (reach mgl64.Vec3, wide []*physics.Body) {
	for _, id := range w.order {
		b := w.bodies[id]
		if b.Static {
			continue
		}
		e := b.Extent()
		for i := range reach {
			reach[i] = math.Max(reach[i], e[i])
		}
	}
	for _, id := range w.order {
		b := w.bodies[id]
		if !b.Static {
			continue
		}
		e := b.Extent()
		for i := range reach {
			if e[i] > reach[i] {
				wide = append(wide, b)
				break
			}
		}
	}
	return reach, wide
}

func (w *World) bounds(b *physics.Body) spatial.Region {
	return spatial.NewRegion(b.Position, b.Extent())
}
