package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/goto/tidewatch/core/mirror"
	"github.com/goto/tidewatch/internal/errors"
)

const EntitySnapshotStore = "snapshotStore"

// Store persists a single snapshot as an indented JSON file. Validity is
// derived from the file's modification time, not from the embedded
// timestamp field, so external tampering with file metadata changes
// validity. Writers racing on Save are serialized by the rename, there
// is no application level lock.
type Store struct {
	fs   afero.Fs
	path string
	ttl  time.Duration
}

func NewStore(fs afero.Fs, path string, ttl time.Duration) *Store {
	return &Store{
		fs:   fs,
		path: path,
		ttl:  ttl,
	}
}

// IsValid reports whether a persisted snapshot exists and has not aged
// past the TTL. It deliberately does not load the payload, callers
// decide the policy for stale data.
func (s *Store) IsValid() bool {
	info, err := s.fs.Stat(s.path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < s.ttl
}

// Load returns the persisted snapshot, or nil when none exists. Validity
// is not checked here.
func (s *Store) Load() (*mirror.Snapshot, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewError(errors.ErrIOFailure, EntitySnapshotStore, "unable to read snapshot file: "+err.Error())
	}

	var snapshot mirror.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, errors.NewError(errors.ErrIOFailure, EntitySnapshotStore, "unable to parse snapshot file: "+err.Error())
	}
	return &snapshot, nil
}

// Save overwrites the store atomically via write-to-temp-then-rename, a
// reader never observes a partially written snapshot.
func (s *Store) Save(snapshot *mirror.Snapshot) error {
	if snapshot == nil {
		return errors.InvalidArgument(EntitySnapshotStore, "snapshot is nil")
	}

	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.InternalError(EntitySnapshotStore, "unable to serialize snapshot", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.NewError(errors.ErrIOFailure, EntitySnapshotStore, "unable to create snapshot directory: "+err.Error())
		}
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, raw, 0o644); err != nil {
		return errors.NewError(errors.ErrIOFailure, EntitySnapshotStore, "unable to write snapshot file: "+err.Error())
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		return errors.NewError(errors.ErrIOFailure, EntitySnapshotStore, "unable to replace snapshot file: "+err.Error())
	}
	return nil
}

// Invalidate deletes the persisted snapshot, a missing file is already
// the desired state.
func (s *Store) Invalidate() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.NewError(errors.ErrIOFailure, EntitySnapshotStore, "unable to delete snapshot file: "+err.Error())
	}
	return nil
}
