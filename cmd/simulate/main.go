package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &cli.App{
		Name:  "simulate",
		Usage: "run broad-phase scenes headless and report tree statistics",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "debug, info, warn, error or silent",
			Value:   "info",
			EnvVars: []string{"SIMULATE_LOG_LEVEL"},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "run",
			Usage:  "step every scene and log the final statistics",
			Action: runScenes,
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:     "config",
					Aliases:  []string{"c"},
					Usage:    "scene file (.yaml, .yml or .json); repeat for several scenes",
					Required: true,
				},
				&cli.IntFlag{
					Name:  "steps",
					Usage: "override the scene's step count",
				},
				&cli.IntFlag{
					Name:  "parallel",
					Usage: "scenes simulated at the same time (0 = all)",
				},
			},
		},
		{
			Name:   "nodes",
			Usage:  "print the tree's node list after one step",
			Action: dumpNodes,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "config",
					Aliases:  []string{"c"},
					Usage:    "scene file",
					Required: true,
				},
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}
