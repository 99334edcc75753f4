package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/alanbriolat/media-archiver/organize"
	"github.com/alanbriolat/media-archiver/similarity"
	"github.com/alanbriolat/media-archiver/storage"
)

func organizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "organize",
		Usage:     "move similarly named files into folders",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "threshold",
				Value: similarity.DefaultThreshold,
				Usage: "minimum similarity `SCORE` (0-1) for two files to share a folder",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "only show what would be moved",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one DIR", 2)
			}
			threshold := c.Float64("threshold")
			if threshold <= 0 || threshold > 1 {
				return cli.Exit("threshold must be in (0, 1]", 2)
			}
			store, err := storage.NewLocal(c.Args().First())
			if err != nil {
				return err
			}
			names, err := store.List()
			if err != nil {
				return err
			}
			moves := organize.Plan(names, threshold)
			if c.Bool("dry-run") {
				for _, m := range moves {
					for _, name := range m.Files {
						fmt.Printf("%v -> %v\n", name, filepath.Join(m.Folder, name))
					}
				}
				return nil
			}
			n, err := organize.Apply(store, moves)
			zap.S().Infof("moved %d files into %d folders", n, len(moves))
			return err
		},
	}
}
