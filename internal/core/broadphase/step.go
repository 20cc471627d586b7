package broadphase

import (
	"time"

	"github.com/zeusync/broadphase/internal/core/events/bus"
	"github.com/zeusync/broadphase/internal/core/models"
	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/internal/core/spatial"
	"github.com/zeusync/broadphase/internal/core/systems/physics"
)

// StepStats summarizes one call to Step.
type StepStats struct {
	Step       uint64
	Bodies     int
	Candidates int
	Contacts   int
	Tree       spatial.Statistics
	// Fingerprint digests the ids reachable through a full-region query.
	Fingerprint uint64
	Took        time.Duration
}

type pair struct{ lo, hi models.EntityID }

func pairOf(a, b models.EntityID) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// Step advances the world by dt: integrate every dynamic body, rebuild the
// tree, query candidates for each dynamic body, run the narrow phase and apply
// responses, then clear forces. Contacts are published on the world's bus;
// joined handler errors are returned after the step has fully completed.
func (w *World) Step(dt float64) (StepStats, error) {
	start := time.Now()
	w.frame++
	if dt > 0 {
		w.elapsed += dt
	}

	for _, id := range w.order {
		physics.Integrate(w.bodies[id], dt, w.params)
	}

	stats := StepStats{Step: w.frame, Bodies: len(w.order)}
	stats.Tree = w.Rebuild()

	var events []bus.Event
	reach, wide := w.partition()
	direct := make(map[models.EntityID]struct{}, len(wide))
	for _, b := range wide {
		direct[b.ID] = struct{}{}
	}
	seen := make(map[pair]struct{})

	test := func(a, b *physics.Body) {
		stats.Candidates++
		c, hit := physics.Collide(a, b)
		if !hit {
			return
		}
		physics.ResolvePair(a, b, c, w.params.Restitution)
		events = append(events, w.contact(a.ID, b.ID, 0, c))
	}

	for _, id := range w.order {
		a := w.bodies[id]
		if a.Static {
			continue
		}
		for _, rec := range w.tree.Query(a.Position, a.Extent().Add(reach)) {
			if rec.ID == a.ID {
				continue
			}
			if _, ok := direct[rec.ID]; ok {
				continue
			}
			key := pairOf(a.ID, rec.ID)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			if b, ok := w.bodies[rec.ID]; ok {
				test(a, b)
			}
		}

		for _, b := range wide {
			if w.bounds(a).Intersects(w.bounds(b), w.tree.Dim()) {
				test(a, b)
			}
		}

		for i, pl := range w.surfaces {
			c, hit := physics.CollidePlane(a, pl)
			if !hit {
				continue
			}
			physics.Resolve(a, c.Normal, c.Depth, w.params.Restitution)
			events = append(events, w.contact(a.ID, 0, i+1, c))
		}
	}
	stats.Contacts = len(events)

	for _, id := range w.order {
		w.bodies[id].ClearForces()
	}

	stats.Fingerprint = spatial.Fingerprint(w.tree.QueryRegion(w.tree.Bounds()))
	stats.Took = time.Since(start)
	w.last = stats
	w.metrics.ObserveStep(start, stats.Candidates, stats.Contacts)

	w.log.Debug("step",
		log.Uint64("step", stats.Step),
		log.Int("bodies", stats.Bodies),
		log.Int("candidates", stats.Candidates),
		log.Int("contacts", stats.Contacts),
		log.Int("nodes", stats.Tree.Nodes),
		log.Int("depth", stats.Tree.MaxDepth),
		log.Duration("took", stats.Took),
	)

	if len(events) == 0 {
		return stats, nil
	}
	return stats, w.bus.PublishBatch(events...)
}

func (w *World) contact(a, b models.EntityID, surface int, c physics.Contact) bus.Event {
	return bus.ContactEvent{
		A:       a,
		B:       b,
		Surface: surface,
		Normal:  c.Normal,
		Depth:   c.Depth,
		Step:    w.frame,
		World:   w.name,
		At:      time.Now(),
	}
}
