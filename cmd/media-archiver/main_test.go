package main

import (
	"errors"
	"fmt"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v2"
)

func TestExitCode(t *testing.T) {
	assert := assert_.New(t)
	assert.Equal(0, exitCode(nil))
	assert.Equal(1, exitCode(errors.New("3 items failed")))
	assert.Equal(2, exitCode(cli.Exit("expected exactly one LISTING", 2)))
	assert.Equal(2, exitCode(fmt.Errorf("fetch: %w", cli.Exit("bad usage", 2))))
}

func TestApp_UsageErrorDoesNotExit(t *testing.T) {
	assert := assert_.New(t)
	app := &cli.App{
		Name:           "media-archiver",
		Commands:       []*cli.Command{classifyCommand()},
		ExitErrHandler: func(*cli.Context, error) {},
	}
	// Reaching the assertions at all means the app returned instead of calling os.Exit
	err := app.Run([]string{"media-archiver", "classify"})
	assert.Error(err)
	assert.Equal(2, exitCode(err))
}
