package organize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/alanbriolat/media-archiver/similarity"
	"github.com/alanbriolat/media-archiver/storage"
)

func TestPlan(t *testing.T) {
	assert := assert_.New(t)
	names := []string{
		"Sunset_pics_alice.jpg",
		"cat_video_compilation.mp4",
		"Sunset_pics_bob.jpg",
		"Beach_earthporn_carol.jpg",
		"Beach_earthporn_dave.jpg",
	}
	moves := Plan(names, 0.6)
	assert.Equal([]Move{
		{Folder: "pics", Files: []string{"Sunset_pics_alice.jpg", "Sunset_pics_bob.jpg"}},
		{Folder: "earthporn", Files: []string{"Beach_earthporn_carol.jpg", "Beach_earthporn_dave.jpg"}},
	}, moves)

	assert.Empty(Plan([]string{"one.jpg", "two.jpg"}, similarity.DefaultThreshold))
}

func TestPlan_DistinctFolders(t *testing.T) {
	assert := assert_.New(t)
	names := []string{
		"cats_pics_alice.jpg",
		"cats_pics_alice.png",
		"dogs_pics_bob.jpg",
		"dogs_pics_bob.png",
	}
	moves := Plan(names, similarity.DefaultThreshold)
	if assert.Len(moves, 2) {
		assert.Equal("pics", moves[0].Folder)
		assert.Equal("pics_2", moves[1].Folder)
	}
}

func TestApply(t *testing.T) {
	assert := assert_.New(t)
	store, _ := storage.NewLocal(t.TempDir())
	for _, name := range []string{"Sunset_pics_alice.jpg", "Sunset_pics_bob.jpg", "alone.txt"} {
		_, _ = store.Save(name, strings.NewReader(name))
	}
	// Something already in the target folder under one of the names
	_ = os.MkdirAll(store.Path("pics"), 0755)
	_ = os.WriteFile(filepath.Join(store.Path("pics"), "Sunset_pics_bob.jpg"), []byte("older"), 0644)

	names, _ := store.List()
	moves := Plan(names, 0.6)
	n, err := Apply(store, moves)
	assert.NoError(err)
	assert.Equal(2, n)

	assert.True(store.Exists(filepath.Join("pics", "Sunset_pics_alice.jpg")))
	assert.True(store.Exists(filepath.Join("pics", "Sunset_pics_bob_1.jpg")))
	assert.True(store.Exists("alone.txt"))
	data, _ := os.ReadFile(filepath.Join(store.Path("pics"), "Sunset_pics_bob.jpg"))
	assert.Equal("older", string(data))
}

func TestApply_MissingFile(t *testing.T) {
	assert := assert_.New(t)
	store, _ := storage.NewLocal(t.TempDir())
	n, err := Apply(store, []Move{{Folder: "f", Files: []string{"ghost.jpg"}}})
	assert.Zero(n)
	assert.Error(err)
}
