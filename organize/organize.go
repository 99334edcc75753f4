// Package organize sorts a flat directory of downloads into folders of similarly named files.
package organize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/alanbriolat/media-archiver/download"
	"github.com/alanbriolat/media-archiver/generic"
	"github.com/alanbriolat/media-archiver/similarity"
	"github.com/alanbriolat/media-archiver/storage"
	"github.com/alanbriolat/media-archiver/util"
)

// A Move sends Files (names in the storage directory) into Folder.
type Move struct {
	Folder string
	Files  []string
}

// Plan groups names by similarity and picks a distinct folder name for each group. Names that aren't similar to
// anything stay where they are.
func Plan(names []string, threshold float64) []Move {
	var moves []Move
	folders := generic.NewSet[string]()
	for i, group := range similarity.GroupBySimilarity(names, threshold) {
		base := util.SanitizeFilename(similarity.GenerateGroupName(group))
		if base == "" {
			base = fmt.Sprintf("group_%d", i+1)
		}
		folder := base
		for n := 2; !folders.Add(folder); n++ {
			folder = fmt.Sprintf("%s_%d", base, n)
		}
		moves = append(moves, Move{Folder: folder, Files: group})
	}
	return moves
}

// Apply carries out moves within store. A file whose name is already taken in its folder gets a numbered suffix
// instead of replacing anything. Every move is attempted; the returned error aggregates the failures.
func Apply(store *storage.Local, moves []Move) (int, error) {
	log := zap.S().Named("organize")
	var result error
	moved := 0
	for _, m := range moves {
		registry := download.NewFilenameRegistry(existing(store.Path(m.Folder))...)
		for _, name := range m.Files {
			target := registry.Reserve(name)
			if err := store.Move(name, filepath.Join(m.Folder, target)); err != nil {
				registry.Release(target)
				result = multierror.Append(result, fmt.Errorf("%v: %w", name, err))
				continue
			}
			log.Debugw("moved", "file", name, "folder", m.Folder, "as", target)
			moved++
		}
	}
	return moved, result
}

func existing(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}
