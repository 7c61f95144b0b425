package trip

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

// FindTrips walks root inside fsys and returns every directory that contains
// a DetailsFile, sorted by path.
func FindTrips(fsys fs.FS, root string) ([]string, error) {
	if fsys == nil {
		return nil, errors.New("trip: fs is nil")
	}
	if root == "" {
		root = "."
	}

	var folders []string
	err := fs.WalkDir(fsys, root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if p != root && len(entry.Name()) > 1 && entry.Name()[0] == '.' {
				return fs.SkipDir
			}
			return nil
		}
		if entry.Name() == DetailsFile {
			folders = append(folders, path.Dir(p))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("trip: find trips under %s: %w", root, err)
	}

	sort.Strings(folders)
	return folders, nil
}
