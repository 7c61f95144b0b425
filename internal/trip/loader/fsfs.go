package loader

import (
	"context"
	"errors"
	"io/fs"
	"path"

	"github.com/goliatone/go-proposal/pkg/trip"
)

// loadFromFS reads name from files. A directory name resolves to the trip
// folder's details document.
func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" || name == "." {
		return nil, errors.New("trip loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("trip loader: fs is nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	info, err := fs.Stat(files, name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		name = path.Join(name, trip.DetailsFile)
	}
	return fs.ReadFile(files, name)
}
