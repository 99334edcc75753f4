package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/alanbriolat/media-archiver/download"
	"github.com/alanbriolat/media-archiver/input"
	"github.com/alanbriolat/media-archiver/internal/session"
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dest",
			Aliases: []string{"d"},
			Usage:   "save downloads into `DIR`",
		},
		&cli.PathFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "load settings from YAML `FILE`",
			EnvVars: []string{"MEDIA_ARCHIVER_CONFIG"},
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "run `N` downloads at once",
		},
		&cli.Float64Flag{
			Name:  "rps",
			Usage: "start at most `N` downloads per second (0 for no limit)",
		},
		&cli.StringFlag{
			Name:  "failures",
			Usage: "record failed URLs in `FILE` (relative to the destination)",
		},
	}
}

// loadConfig builds the session config from the config file, then any flags given explicitly.
func loadConfig(c *cli.Context) (session.Config, error) {
	config := session.DefaultConfig()
	if path := c.Path("config"); path != "" {
		var err error
		if config, err = session.LoadConfig(path); err != nil {
			return config, err
		}
	}
	if c.IsSet("dest") {
		config.Dest = c.String("dest")
	}
	if c.IsSet("concurrency") {
		config.Download.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("rps") {
		config.Download.RequestsPerSecond = c.Float64("rps")
	}
	if c.IsSet("failures") {
		config.FailureLog = c.String("failures")
	}
	if overrides, err := session.Overrides(config); err == nil {
		for _, o := range overrides {
			zap.S().Debugf("config: %v", o)
		}
	}
	return config, nil
}

func fetchCommand(ctx context.Context) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "download everything in a post listing (\"-\" for stdin)",
		ArgsUsage: "LISTING",
		Flags:     runFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one LISTING", 2)
			}
			config, err := loadConfig(c)
			if err != nil {
				return err
			}
			var posts []input.Post
			if path := c.Args().First(); path == "-" {
				posts, err = input.Parse(os.Stdin)
			} else {
				posts, err = input.ParseFile(path)
			}
			if err != nil {
				return err
			}
			return archive(ctx, config, posts)
		},
	}
}

func retryCommand(ctx context.Context) *cli.Command {
	return &cli.Command{
		Name:      "retry",
		Usage:     "retry the URLs recorded in a failure log",
		ArgsUsage: "FAILURE_LOG",
		Flags:     runFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one FAILURE_LOG", 2)
			}
			config, err := loadConfig(c)
			if err != nil {
				return err
			}
			urls, err := download.ReadFailureLog(c.Args().First())
			if err != nil {
				return err
			}
			return archive(ctx, config, input.FromURLs(urls))
		},
	}
}

func archive(ctx context.Context, config session.Config, posts []input.Post) error {
	log := zap.S()
	var bar *progressbar.ProgressBar
	ses, err := session.New(ctx, config, session.WithOutcomeCallback(func(out download.Outcome) {
		if bar != nil {
			_ = bar.Add(1)
		}
	}))
	if err != nil {
		return err
	}

	plan := ses.Plan(posts)
	if plan.Len() == 0 {
		log.Info("nothing to download")
		return nil
	}
	bar = progressbar.Default(int64(plan.Len()), "archiving")
	report, err := ses.RunPlan(plan)
	_ = bar.Finish()
	if err != nil {
		return err
	}

	failed := len(report.Outcomes) - len(report.Saved())
	log.Infof("saved %d of %d items into %v", len(report.Saved()), len(report.Outcomes), ses.Store().Dir())
	if failed > 0 {
		for _, out := range report.Outcomes {
			if !out.Success() {
				log.Warnf("%v: %v", out.ReplayURL(), out.Error())
			}
		}
		if path := ses.FailureLogPath(); path != "" {
			return fmt.Errorf("%d items failed; retry with: media-archiver retry %v", failed, path)
		}
		return fmt.Errorf("%d items failed", failed)
	}
	return nil
}
