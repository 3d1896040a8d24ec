// Package walker enumerates the files of an asset tree.
package walker

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/savaki/static-publisher/internal/errors"
)

// Walk returns the slash separated path of every non-directory entry under
// the root of fsys, relative to that root. Entries are stat-ed, so a
// symlink is reported as whatever it points at. Order follows fs.ReadDir.
//
// Any error listing or stat-ing a path aborts the walk; no partial result
// is returned.
//
// Directories nested deeper than MaxDepth abort the walk, which also stops
// a symlink that points back at one of its parents.
func Walk(fsys fs.FS) ([]string, error) {
	return walk(fsys, ".", 0)
}

// MaxDepth is the deepest directory level Walk descends into.
const MaxDepth = 64

func walk(fsys fs.FS, dir string, depth int) ([]string, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: %s: deeper than %d levels", errors.ErrWalk, dir, MaxDepth)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", errors.ErrWalk, dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := path.Join(dir, entry.Name())

		info, err := fs.Stat(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %w", errors.ErrWalk, name, err)
		}

		if !info.IsDir() {
			files = append(files, name)
			continue
		}

		children, err := walk(fsys, name, depth+1)
		if err != nil {
			return nil, err
		}
		files = append(files, children...)
	}

	return files, nil
}
