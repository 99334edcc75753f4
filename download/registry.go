package download

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alanbriolat/media-archiver/generic"
	"github.com/alanbriolat/media-archiver/internal/sync_"
)

// FilenameRegistry tracks every name allocated in one output directory during a run, so that no two items are ever
// written to the same file.
type FilenameRegistry struct {
	names *sync_.Mutexed[generic.Set[string]]
}

// NewFilenameRegistry creates a registry that already considers existing taken.
func NewFilenameRegistry(existing ...string) *FilenameRegistry {
	return &FilenameRegistry{names: sync_.NewMutexed(generic.NewSet(existing...))}
}

// Reserve allocates name, or if it's taken the first free "stem_N.ext" for N = 1, 2, ...; the allocated name is
// returned.
func (r *FilenameRegistry) Reserve(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	var reserved string
	_ = r.names.Locked(func(names *generic.Set[string]) error {
		reserved = name
		for i := 1; !(*names).Add(reserved); i++ {
			reserved = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		return nil
	})
	return reserved
}

// Release gives up a reserved name, e.g. after a failed write.
func (r *FilenameRegistry) Release(name string) bool {
	var released bool
	_ = r.names.Locked(func(names *generic.Set[string]) error {
		released = (*names).Remove(name)
		return nil
	})
	return released
}

func (r *FilenameRegistry) Contains(name string) bool {
	var found bool
	_ = r.names.Locked(func(names *generic.Set[string]) error {
		found = (*names).Contains(name)
		return nil
	})
	return found
}

func (r *FilenameRegistry) Len() int {
	var n int
	_ = r.names.Locked(func(names *generic.Set[string]) error {
		n = (*names).Count()
		return nil
	})
	return n
}
