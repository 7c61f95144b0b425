package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-proposal/pkg/trip"
)

// Loader implements trip.Loader by delegating to folder/file, fs.FS, or
// HTTP strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ trip.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options trip.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src trip.Source) (trip.Document, error) {
	if src == nil {
		return trip.Document{}, errors.New("trip loader: source is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case trip.SourceKindFolder, trip.SourceKindFile:
		data, err = loadFile(ctx, trip.DocumentPath(src))
	case trip.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case trip.SourceKindURL:
		if !l.allowHTTP {
			return trip.Document{}, errors.New("trip loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = fmt.Errorf("trip loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return trip.Document{}, fmt.Errorf("trip loader: load %s: %w", src.Location(), err)
	}

	return trip.NewDocument(src, data)
}
