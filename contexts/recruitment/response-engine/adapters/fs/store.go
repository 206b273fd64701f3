package fs

import (
	"context"
	"os"
	"path/filepath"

	domainerrors "crewcall/contexts/recruitment/response-engine/domain/errors"
	"crewcall/contexts/recruitment/response-engine/ports"

	"github.com/google/uuid"
)

// Store keeps attachment payloads on the local filesystem under a single
// directory, one file per upload, named by a generated storage id so user
// provided names never touch the disk.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) StoreAttachment(_ context.Context, upload ports.AttachmentUpload) (string, error) {
	storageName := uuid.NewString() + filepath.Ext(upload.OriginalName)
	path := filepath.Join(s.dir, storageName)
	if err := os.WriteFile(path, upload.Data, 0o644); err != nil {
		return "", domainerrors.ErrAttachmentStoreFailed
	}
	return storageName, nil
}
