package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zeusync/broadphase/internal/core/spatial"
)

const (
	worldLabel = "world"
	kindLabel  = "tree_kind"
)

// Collector records per-step broad-phase statistics on its own registry, so
// several worlds in one process never collide on metric names.
type Collector struct {
	registry *prometheus.Registry
	labels   prometheus.Labels

	stepLatency *prometheus.HistogramVec
	steps       *prometheus.CounterVec
	candidates  *prometheus.CounterVec
	contacts    *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	nodes       *prometheus.GaugeVec
	leaves      *prometheus.GaugeVec
	depth       *prometheus.GaugeVec
	entities    *prometheus.GaugeVec
}

// New creates a collector for one world and tree kind.
func New(world string, kind spatial.Kind) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	names := []string{worldLabel, kindLabel}

	return &Collector{
		registry: reg,
		labels:   prometheus.Labels{worldLabel: world, kindLabel: kind.String()},

		stepLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "broadphase_step_seconds",
			Help:    "The time to run one world step.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, names),
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "broadphase_steps_total",
			Help: "The number of completed world steps.",
		}, names),
		candidates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "broadphase_candidates_total",
			Help: "Candidate pairs returned by tree queries.",
		}, names),
		contacts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "broadphase_contacts_total",
			Help: "Contacts confirmed by the narrow phase.",
		}, names),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "broadphase_rejected_total",
			Help: "Records left out of the tree because they were outside the root region.",
		}, names),
		nodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "broadphase_tree_nodes",
			Help: "Nodes in the tree after the last rebuild.",
		}, names),
		leaves: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "broadphase_tree_leaves",
			Help: "Leaves in the tree after the last rebuild.",
		}, names),
		depth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "broadphase_tree_depth",
			Help: "Deepest node depth after the last rebuild.",
		}, names),
		entities: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "broadphase_tree_entities",
			Help: "Records held by the tree after the last rebuild.",
		}, names),
	}
}

// Registry exposes the collector's registry for scraping or testing.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveTree records the shape of the tree after a rebuild.
func (c *Collector) ObserveTree(s spatial.Statistics) {
	c.nodes.With(c.labels).Set(float64(s.Nodes))
	c.leaves.With(c.labels).Set(float64(s.Leaves))
	c.depth.With(c.labels).Set(float64(s.MaxDepth))
	c.entities.With(c.labels).Set(float64(s.Entities))
	if s.Rejected > 0 {
		c.rejected.With(c.labels).Add(float64(s.Rejected))
	}
}

// ObserveStep records one finished step that started at start.
func (c *Collector) ObserveStep(start time.Time, candidates, contacts int) {
	c.stepLatency.With(c.labels).Observe(time.Since(start).Seconds())
	c.steps.With(c.labels).Inc()
	c.candidates.With(c.labels).Add(float64(candidates))
	c.contacts.With(c.labels).Add(float64(contacts))
}
