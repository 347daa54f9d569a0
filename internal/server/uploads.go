package server

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"github.com/google/uuid"
)

const uploadScheme = "upload://"

// UploadStore holds job specifications uploaded with a tailor request for
// the lifetime of that request. It is the pipeline's JobSpecFetcher when
// serving, so clients cannot make the server read arbitrary paths.
type UploadStore struct {
	mu    sync.Mutex
	files map[string]types.FileInput
}

// NewUploadStore returns an empty store.
func NewUploadStore() *UploadStore {
	return &UploadStore{files: make(map[string]types.FileInput)}
}

// Stage stores input and returns its reference and a release func.
func (u *UploadStore) Stage(input types.FileInput) (string, func()) {
	ref := uploadScheme + uuid.NewString()

	u.mu.Lock()
	u.files[ref] = input
	u.mu.Unlock()

	return ref, func() {
		u.mu.Lock()
		delete(u.files, ref)
		u.mu.Unlock()
	}
}

// Fetch implements processor.JobSpecFetcher.
func (u *UploadStore) Fetch(ctx context.Context, location string) (types.FileInput, error) {
	if err := ctx.Err(); err != nil {
		return types.FileInput{}, err
	}
	if !strings.HasPrefix(location, uploadScheme) {
		return types.FileInput{}, errors.NewValidationError(errors.ErrCodeInvalidJobContext,
			"Job specification files must be uploaded with the request", nil)
	}

	u.mu.Lock()
	input, ok := u.files[location]
	u.mu.Unlock()
	if !ok {
		return types.FileInput{}, errors.NewValidationError(errors.ErrCodeInvalidJobContext,
			fmt.Sprintf("Unknown job specification upload: %s", location), nil)
	}
	return input, nil
}

// Len reports how many uploads are staged.
func (u *UploadStore) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.files)
}
