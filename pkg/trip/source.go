package trip

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// DetailsFile is the document every trip folder carries.
const DetailsFile = "trip-details.json"

// SourceKind enumerates the loader modalities. A folder source is a trip
// folder on disk holding a DetailsFile; an fs source names a document or a
// trip folder inside the loader's fs.FS.
type SourceKind string

const (
	SourceKindFolder SourceKind = "folder"
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
)

// Source identifies where a trip document lives.
type Source interface {
	Kind() SourceKind
	Location() string
}

// Ref is the Source returned by the constructors in this package.
type Ref struct {
	kind     SourceKind
	location string
}

var _ Source = Ref{}

func (r Ref) Kind() SourceKind { return r.kind }
func (r Ref) Location() string { return r.location }

// SourceFromFolder returns a Source for the trip folder dir. Loaders read
// its DetailsFile.
func SourceFromFolder(dir string) Source {
	return Ref{kind: SourceKindFolder, location: filepath.Clean(dir)}
}

// SourceFromFile returns a Source for a details document stored under any
// name.
func SourceFromFile(p string) Source {
	return Ref{kind: SourceKindFile, location: filepath.Clean(p)}
}

// SourceFromFS returns a Source for name inside the loader's fs.FS. name may
// be the document itself or a trip folder.
func SourceFromFS(name string) Source {
	return Ref{kind: SourceKindFS, location: path.Clean(strings.TrimPrefix(name, "/"))}
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("trip: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("trip: invalid URL %q: %v", raw, err))
	}
	return Ref{kind: SourceKindURL, location: raw}
}

// DocumentPath is the file a loader reads for a disk source: the DetailsFile
// of a folder, or the file itself.
func DocumentPath(src Source) string {
	if src == nil {
		return ""
	}
	if src.Kind() == SourceKindFolder {
		return filepath.Join(src.Location(), DetailsFile)
	}
	return src.Location()
}

// Folder returns the trip folder a disk source belongs to, where generated
// pages are written by default. URL and fs sources have none.
func Folder(src Source) string {
	if src == nil {
		return ""
	}
	switch src.Kind() {
	case SourceKindFolder:
		return src.Location()
	case SourceKindFile:
		return filepath.Dir(src.Location())
	default:
		return ""
	}
}
