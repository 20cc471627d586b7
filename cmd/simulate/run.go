package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/zeusync/broadphase/internal/core/broadphase"
	"github.com/zeusync/broadphase/internal/core/config"
	"github.com/zeusync/broadphase/internal/core/events/bus"
	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/internal/injector"
	"github.com/zeusync/broadphase/pkg/concurrent"
)

// summary is the outcome of one simulated scene.
type summary struct {
	Scene    string
	Steps    int
	Contacts int
	Last     broadphase.StepStats
}

func newLogger(cctx *cli.Context) (log.Log, error) {
	level, err := log.ParseLevel(cctx.String("log-level"))
	if err != nil {
		return nil, err
	}
	return log.New(level).With(log.String("run", uuid.NewString())), nil
}

func runScenes(cctx *cli.Context) error {
	logger, err := newLogger(cctx)
	if err != nil {
		return err
	}

	paths := cctx.StringSlice("config")
	results, err := concurrent.ParallelMap(cctx.Context, paths, cctx.Int("parallel"),
		func(ctx context.Context, path string) (summary, error) {
			return simulate(ctx, path, cctx.Int("steps"), logger)
		},
	)
	if err != nil {
		logger.Error("simulation failed", log.Error(err))
		return err
	}

	for _, r := range results {
		logger.Info("scene finished",
			log.String("scene", r.Scene),
			log.Int("steps", r.Steps),
			log.Int("contacts", r.Contacts),
			log.Int("bodies", r.Last.Bodies),
			log.Int("nodes", r.Last.Tree.Nodes),
			log.Int("leaves", r.Last.Tree.Leaves),
			log.Int("depth", r.Last.Tree.MaxDepth),
			log.Uint64("fingerprint", r.Last.Fingerprint),
		)
	}
	return nil
}

// simulate loads one scene and steps it until done or ctx is cancelled.
func simulate(ctx context.Context, path string, steps int, logger log.Log) (summary, error) {
	scene, err := config.LoadFile(path)
	if err != nil {
		return summary{}, err
	}
	if steps <= 0 {
		steps = scene.Steps
	}

	w, err := injector.InitializeWorld(scene, logger.With(log.String("scene", scene.Name)))
	if err != nil {
		return summary{}, err
	}

	out := summary{Scene: scene.Name}
	sub, err := w.OnContact(func(bus.ContactEvent) error {
		out.Contacts++
		return nil
	})
	if err != nil {
		return summary{}, err
	}
	defer func() { _ = sub.Cancel() }()

	for i := 0; i < steps; i++ {
		if err = ctx.Err(); err != nil {
			return out, err
		}
		if out.Last, err = w.Step(scene.DT); err != nil {
			return out, fmt.Errorf("scene %s step %d: %w", scene.Name, out.Last.Step, err)
		}
		out.Steps++
	}
	return out, nil
}

func dumpNodes(cctx *cli.Context) error {
	scene, err := config.LoadFile(cctx.String("config"))
	if err != nil {
		return err
	}
	w, err := injector.InitializeWorld(scene, log.Nop())
	if err != nil {
		return err
	}
	if _, err = w.Step(scene.DT); err != nil {
		return err
	}
	return writeNodes(cctx.App.Writer, w)
}

func writeNodes(out io.Writer, w *broadphase.World) error {
	for _, n := range w.DebugNodes() {
		kind := "node"
		if n.Leaf {
			kind = "leaf"
		}
		c, h := n.Region.Center, n.Region.Half
		_, err := fmt.Fprintf(out, "%*s%s depth=%d count=%d center=(%.3f, %.3f, %.3f) half=(%.3f, %.3f, %.3f)\n",
			2*n.Depth, "", kind, n.Depth, n.Count, c[0], c[1], c[2], h[0], h[1], h[2])
		if err != nil {
			return err
		}
	}
	return nil
}
