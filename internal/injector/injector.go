//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/broadphase/internal/core/broadphase"
	"github.com/zeusync/broadphase/internal/core/config"
	"github.com/zeusync/broadphase/internal/core/observability/log"
)

// InitializeWorld builds a populated world for one scene.
func InitializeWorld(scene *config.Scene, logger log.Log) (*broadphase.World, error) {
	wire.Build(WorldSet)
	return nil, nil
}
