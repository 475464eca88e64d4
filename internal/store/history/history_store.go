package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/goto/tidewatch/core/mirror"
	"github.com/goto/tidewatch/internal/errors"
)

const (
	EntityHistoryStore = "historyStore"

	DefaultMaxEntries = 1000
)

// Store persists the bounded history log as a single JSON file holding
// entries oldest-first. Append is load-modify-store-back, O(n) per call
// by design, callers appending many entries at once should use the
// variadic form. The pattern is not safe under concurrent writers, a
// multi-worker deployment needs an external mutual exclusion mechanism
// in front of it.
type Store struct {
	fs         afero.Fs
	path       string
	maxEntries int
}

func NewStore(fs afero.Fs, path string, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		fs:         fs,
		path:       path,
		maxEntries: maxEntries,
	}
}

// Append adds entries to the log and evicts the oldest ones once the
// retention cap is exceeded. The cap is enforced on every append, never
// on read.
func (s *Store) Append(entries ...*mirror.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	log, err := s.load()
	if err != nil {
		return err
	}

	log = append(log, entries...)
	if len(log) > s.maxEntries {
		log = log[len(log)-s.maxEntries:]
	}
	return s.persist(log)
}

// QueryAll returns the most recent limit entries, oldest first. A non
// positive limit returns the whole log.
func (s *Store) QueryAll(limit int) ([]*mirror.HistoryEntry, error) {
	log, err := s.load()
	if err != nil {
		return nil, err
	}
	return tail(log, limit), nil
}

// QueryByJob returns the most recent limit entries of the job identified
// by name or id, oldest of the matched subset first.
func (s *Store) QueryByJob(jobNameOrID string, limit int) ([]*mirror.HistoryEntry, error) {
	log, err := s.load()
	if err != nil {
		return nil, err
	}

	var matched []*mirror.HistoryEntry
	for _, entry := range log {
		if entry.Matches(jobNameOrID) {
			matched = append(matched, entry)
		}
	}
	return tail(matched, limit), nil
}

func tail(entries []*mirror.HistoryEntry, limit int) []*mirror.HistoryEntry {
	if limit > 0 && len(entries) > limit {
		return entries[len(entries)-limit:]
	}
	return entries
}

// load treats a missing file as an empty log, first use is not an error.
func (s *Store) load() ([]*mirror.HistoryEntry, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewError(errors.ErrIOFailure, EntityHistoryStore, "unable to read history file: "+err.Error())
	}

	var entries []*mirror.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.NewError(errors.ErrIOFailure, EntityHistoryStore, "unable to parse history file: "+err.Error())
	}
	return entries, nil
}

func (s *Store) persist(entries []*mirror.HistoryEntry) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.InternalError(EntityHistoryStore, "unable to serialize history", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.NewError(errors.ErrIOFailure, EntityHistoryStore, "unable to create history directory: "+err.Error())
		}
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, raw, 0o644); err != nil {
		return errors.NewError(errors.ErrIOFailure, EntityHistoryStore, "unable to write history file: "+err.Error())
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		return errors.NewError(errors.ErrIOFailure, EntityHistoryStore, "unable to replace history file: "+err.Error())
	}
	return nil
}
