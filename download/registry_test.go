package download

import (
	"sync"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestFilenameRegistry(t *testing.T) {
	assert := assert_.New(t)
	r := NewFilenameRegistry("a.jpg")

	assert.Equal("a_1.jpg", r.Reserve("a.jpg"))
	assert.Equal("a_2.jpg", r.Reserve("a.jpg"))
	assert.Equal("b.jpg", r.Reserve("b.jpg"))
	assert.Equal("noext_1", func() string { r.Reserve("noext"); return r.Reserve("noext") }())
	assert.Equal(6, r.Len())

	assert.True(r.Release("a_1.jpg"))
	assert.False(r.Release("a_1.jpg"))
	assert.Equal("a_1.jpg", r.Reserve("a.jpg"))
}

func TestFilenameRegistry_Concurrent(t *testing.T) {
	assert := assert_.New(t)
	r := NewFilenameRegistry()

	const n = 50
	names := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			names[i] = r.Reserve("same.mp4")
		}(i)
	}
	wg.Wait()

	unique := make(map[string]bool)
	for _, name := range names {
		unique[name] = true
	}
	assert.Len(unique, n)
	assert.True(unique["same.mp4"])
	assert.True(unique["same_49.mp4"])
}
