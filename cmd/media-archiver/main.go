package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alanbriolat/media-archiver/async"
	_ "github.com/alanbriolat/media-archiver/providers"
)

func main() {
	os.Exit(run())
}

// run does the work of main, returning the exit code so deferred cleanup happens before exiting.
func run() int {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger, err := config.Build()
	if err != nil {
		log.Printf("can't initialize zap logger: %v", err)
		return 1
	}
	defer logger.Sync()
	zap.RedirectStdLog(logger)
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{
		Name:  "media-archiver",
		Usage: "archive the images, GIFs and videos linked from a list of posts",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug output",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				config.Level.SetLevel(zapcore.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			fetchCommand(ctx),
			retryCommand(ctx),
			classifyCommand(),
			organizeCommand(),
		},
		HideHelpCommand: true,
		// Errors are reported by run, never by exiting from inside the app
		ExitErrHandler: func(*cli.Context, error) {},
	}

	result := async.Run(func() error { return app.Run(os.Args) })

	select {
	case err = <-result:
	case <-ctx.Done():
		// Stop scheduling new downloads, but let in-flight ones finish
		logger.Warn("interrupted, waiting for in-flight downloads")
		stop()
		err = <-result
	}
	if err != nil {
		logger.Error(err.Error())
	}
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
