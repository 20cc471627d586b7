package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/broadphase/internal/core/broadphase"
	"github.com/zeusync/broadphase/internal/core/config"
	"github.com/zeusync/broadphase/internal/core/events/bus"
	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/internal/core/observability/metrics"
	"github.com/zeusync/broadphase/internal/core/spatial"
)

// WorldSet wires a scene into a world with its own tree, bus and metrics.
var WorldSet = wire.NewSet(
	ProvideTree,
	ProvideBus,
	ProvideMetrics,
	ProvideWorld,
)

func ProvideTree(scene *config.Scene) (spatial.Tree, error) {
	tree, err := scene.NewTree()
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", scene.Name, err)
	}
	return tree, nil
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideMetrics(scene *config.Scene, tree spatial.Tree) *metrics.Collector {
	return metrics.New(scene.Name, tree.Kind())
}

func ProvideWorld(
	scene *config.Scene,
	tree spatial.Tree,
	logger log.Log,
	events bus.EventBus,
	collector *metrics.Collector,
) (*broadphase.World, error) {
	w := broadphase.NewWorld(tree,
		broadphase.WithName(scene.Name),
		broadphase.WithParams(scene.Params()),
		broadphase.WithLogger(logger),
		broadphase.WithBus(events),
		broadphase.WithMetrics(collector),
	)
	if err := scene.Populate(w); err != nil {
		return nil, fmt.Errorf("scene %s: %w", scene.Name, err)
	}
	logger.Debug("world ready",
		log.String("scene", scene.Name),
		log.Int("bodies", len(w.Bodies())),
		log.Stringer("tree", tree.Kind()),
	)
	return w, nil
}
