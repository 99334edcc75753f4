package async

import (
	"errors"
	"testing"
	"time"

	assert_ "github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	assert := assert_.New(t)
	assert.Equal(123, <-Run(func() int { return 123 }))

	errStop := errors.New("stop")
	assert.ErrorIs(<-Run(func() error { return errStop }), errStop)
}

func TestRun_AbandonedResult(t *testing.T) {
	done := make(chan struct{})
	_ = Run(func() string {
		defer close(done)
		return "nobody is listening"
	})
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("function blocked sending its result")
	}
}
