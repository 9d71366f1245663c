// Package artifact implements the filesystem artifact store shared by the
// pipeline stages.
//
// Every stage owns exactly one subdirectory under the output root and reads
// or writes fixed filenames inside it. The store is the only hand-off
// mechanism between stages; no stage keeps in-memory state from another.
package artifact

import (
	"encoding/gob"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Stage subdirectory names under the output root.
const (
	DirIngestion     = "data_ingestion"
	DirPreprocessing = "preprocessing"
	DirTraining      = "model_training"
	DirEvaluation    = "evaluation"
	DirDeployment    = "deployment"
)

// Store addresses artifacts by (stage directory, filename) under one root.
type Store struct {
	root string
}

// NewStore returns a store rooted at the configured output path. The root is
// not created until a stage writes into it.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the output root path.
func (s *Store) Root() string { return s.root }

// Path returns the absolute-ish path of an artifact without touching disk.
func (s *Store) Path(stageDir, name string) string {
	return filepath.Join(s.root, stageDir, name)
}

// StageDir ensures the stage's subdirectory exists and returns its path.
func (s *Store) StageDir(stageDir string) (string, error) {
	dir := filepath.Join(s.root, stageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create stage dir %s", dir)
	}
	return dir, nil
}

// Exists reports whether the named artifact is present.
func (s *Store) Exists(stageDir, name string) bool {
	_, err := os.Stat(s.Path(stageDir, name))
	return err == nil
}

// Missing returns the subset of names not present in stageDir, as full paths.
func (s *Store) Missing(stageDir string, names ...string) []string {
	var absent []string
	for _, n := range names {
		if !s.Exists(stageDir, n) {
			absent = append(absent, s.Path(stageDir, n))
		}
	}
	return absent
}

// WriteJSON marshals v with indentation and writes it as an artifact.
func (s *Store) WriteJSON(stageDir, name string, v any) (string, error) {
	dir, err := s.StageDir(stageDir)
	if err != nil {
		return "", err
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrapf(err, "marshal %s", name)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}

// ReadJSON unmarshals the named artifact into v.
func (s *Store) ReadJSON(stageDir, name string, v any) error {
	path := s.Path(stageDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

// WriteGob gob-encodes v as an opaque binary artifact.
func (s *Store) WriteGob(stageDir, name string, v any) (string, error) {
	dir, err := s.StageDir(stageDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		return "", errors.Wrapf(err, "encode %s", path)
	}
	return path, nil
}

// ReadGob decodes the named binary artifact into v.
func (s *Store) ReadGob(stageDir, name string, v any) error {
	path := s.Path(stageDir, name)
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

// Copy duplicates an existing artifact into another stage's directory.
func (s *Store) Copy(srcDir, srcName, dstDir, dstName string) (string, error) {
	src, err := os.Open(s.Path(srcDir, srcName))
	if err != nil {
		return "", errors.Wrapf(err, "open %s", s.Path(srcDir, srcName))
	}
	defer src.Close()
	dir, err := s.StageDir(dstDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, dstName)
	dst, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", path)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrapf(err, "copy to %s", path)
	}
	return path, nil
}
