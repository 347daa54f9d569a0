package processor

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"resumeparser/internal/errors"
	"resumeparser/internal/extract"
	"resumeparser/internal/types"
)

// JobSpecFetcher resolves an uploaded job specification reference.
type JobSpecFetcher interface {
	Fetch(ctx context.Context, location string) (types.FileInput, error)
}

// LocalFetcher reads job specifications from local paths and file:// URLs.
type LocalFetcher struct {
	Loader *extract.Loader
}

// NewLocalFetcher returns a LocalFetcher over loader.
func NewLocalFetcher(loader *extract.Loader) *LocalFetcher {
	return &LocalFetcher{Loader: loader}
}

// Fetch implements JobSpecFetcher.
func (f *LocalFetcher) Fetch(ctx context.Context, location string) (types.FileInput, error) {
	if err := ctx.Err(); err != nil {
		return types.FileInput{}, err
	}
	path, err := localPath(location)
	if err != nil {
		return types.FileInput{}, err
	}
	loader := f.Loader
	if loader == nil {
		loader = extract.NewLoader(0, nil)
	}
	return loader.FromPath(path)
}

func localPath(location string) (string, error) {
	location = strings.TrimSpace(location)
	if !strings.Contains(location, "://") {
		return location, nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidJobContext,
			fmt.Sprintf("Invalid job specification location: %s", location), err)
	}
	if u.Scheme != "file" {
		return "", errors.NewValidationError(errors.ErrCodeInvalidJobContext,
			fmt.Sprintf("Unsupported job specification scheme: %s", u.Scheme), nil)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", errors.NewValidationError(errors.ErrCodeInvalidJobContext,
			fmt.Sprintf("Remote file URLs are not supported: %s", location), nil)
	}
	return u.Path, nil
}
