// Package freshness tracks which source fingerprints each generated
// artifact was derived from and scores artifacts by how long their
// dependencies have been out of date.
package freshness

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"docsync/internal/errors"
	"docsync/internal/model"
)

const storeVersion = 1

// Fingerprint is the change-detection identity of one source file.
type Fingerprint struct {
	Hash    string    `yaml:"hash"`
	ModTime time.Time `yaml:"modTime"`
}

// ArtifactRecord remembers what an emitted artifact was built from, with
// the fingerprint of each source captured at generation time. LastMatched
// is the last time every source fingerprint still matched the tree;
// staleness age is measured from it, not from the artifact file, since
// regeneration may lag detection.
type ArtifactRecord struct {
	Sources     map[string]Fingerprint `yaml:"sources"`
	Generated   time.Time              `yaml:"generated"`
	LastMatched time.Time              `yaml:"lastMatched"`
}

// Store is the persisted fingerprint state. It is loaded once before
// parsing and written once after scoring; nothing mutates it mid-run.
type Store struct {
	Version      int                       `yaml:"version"`
	Fingerprints map[string]Fingerprint    `yaml:"fingerprints"`
	Artifacts    map[string]ArtifactRecord `yaml:"artifacts"`
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Version:      storeVersion,
		Fingerprints: map[string]Fingerprint{},
		Artifacts:    map[string]ArtifactRecord{},
	}
}

// Load reads the store from path. A missing file yields an empty store; an
// unreadable or unparseable file is a fatal StoreCorrupt error.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(), nil
		}
		return nil, errors.New(errors.StoreCorrupt, "reading fingerprint store "+path, err)
	}
	store := NewStore()
	if err := yaml.Unmarshal(data, store); err != nil {
		return nil, errors.New(errors.StoreCorrupt, "parsing fingerprint store "+path, err)
	}
	if store.Fingerprints == nil {
		store.Fingerprints = map[string]Fingerprint{}
	}
	if store.Artifacts == nil {
		store.Artifacts = map[string]ArtifactRecord{}
	}
	return store, nil
}

// Save writes the store to path via a temp file rename.
func (s *Store) Save(path string) error {
	s.Version = storeVersion
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.New(errors.Internal, "encoding fingerprint store", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(errors.ArtifactWrite, "creating store directory "+dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".fingerprints-*.yaml")
	if err != nil {
		return errors.New(errors.ArtifactWrite, "creating temp store file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.New(errors.ArtifactWrite, "writing fingerprint store", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.New(errors.ArtifactWrite, "closing fingerprint store", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.New(errors.ArtifactWrite, "replacing fingerprint store "+path, err)
	}
	return nil
}

// CurrentFingerprints derives the fingerprint set for every unit in the
// model, including units with parse errors.
func CurrentFingerprints(m *model.ProjectModel) map[string]Fingerprint {
	out := make(map[string]Fingerprint, m.Len())
	m.Each(func(unit *model.SourceUnit) {
		out[unit.Path] = Fingerprint{Hash: unit.Hash, ModTime: unit.ModTime}
	})
	return out
}

// SetFingerprints replaces the stored fingerprints with the current run's,
// establishing the baseline for the next run.
func (s *Store) SetFingerprints(current map[string]Fingerprint) {
	s.Fingerprints = make(map[string]Fingerprint, len(current))
	for path, fp := range current {
		s.Fingerprints[path] = fp
	}
}

// RecordArtifact registers a freshly generated artifact, capturing the
// current fingerprint of each source it was derived from.
func (s *Store) RecordArtifact(artifact string, sources []string, current map[string]Fingerprint, now time.Time) {
	captured := make(map[string]Fingerprint, len(sources))
	for _, src := range sources {
		if fp, ok := current[src]; ok {
			captured[src] = fp
		} else {
			captured[src] = Fingerprint{}
		}
	}
	s.Artifacts[artifact] = ArtifactRecord{
		Sources:     captured,
		Generated:   now,
		LastMatched: now,
	}
}

// SourcePaths returns an artifact record's source paths in sorted order.
func (r ArtifactRecord) SourcePaths() []string {
	paths := make([]string, 0, len(r.Sources))
	for p := range r.Sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// MarkMatched advances an artifact's match time without regenerating it.
func (s *Store) MarkMatched(artifact string, now time.Time) {
	rec, ok := s.Artifacts[artifact]
	if !ok {
		return
	}
	rec.LastMatched = now
	s.Artifacts[artifact] = rec
}
