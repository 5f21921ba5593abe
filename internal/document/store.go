package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Ext is the on-disk extension for stored documents.
const Ext = ".json"

// Store is an explicit handle to the directory documents live in.
// Every operation receives a Store; there is no process-wide default.
type Store struct {
	root   string
	locks  *KeyedMutex
	policy *bluemonday.Policy
}

func NewStore(root string) (*Store, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	return &Store{
		root:   absRoot,
		locks:  NewKeyedMutex(),
		policy: bluemonday.StrictPolicy(),
	}, nil
}

func (s *Store) Root() string {
	return s.root
}

// Path resolves a document name to its full path inside the store,
// appending the extension when missing.
func (s *Store) Path(name string) (string, error) {
	if !strings.HasSuffix(name, Ext) {
		name += Ext
	}
	target := filepath.Join(s.root, name)

	// Safety check: ensure target is within the store root.
	rel, err := filepath.Rel(s.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("unsafe path attempt: %s", name)
	}
	return target, nil
}

// Clean strips HTML from inbound text so stored content stays plain.
func (s *Store) Clean(text string) string {
	return s.policy.Sanitize(text)
}

func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads a document. The per-name mutex serializes access so two
// handlers working on the same document never interleave a read with
// a partially written save.
func (s *Store) Load(name string) (*Document, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(name)
	defer s.locks.Unlock(name)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("corrupt document %s: %w", name, err)
	}
	return &doc, nil
}

// Save writes a document atomically: temp file in the same directory,
// then rename over the target.
func (s *Store) Save(name string, doc *Document) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	doc.Updated = time.Now()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	s.locks.Lock(name)
	defer s.locks.Unlock(name)

	tmp, err := os.CreateTemp(s.root, ".quill-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	s.locks.Lock(name)
	defer s.locks.Unlock(name)

	return os.Remove(path)
}

// Info describes one stored document for listings.
type Info struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	var docs []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		docs = append(docs, Info{
			Name:     entry.Name(),
			Path:     filepath.Join(s.root, entry.Name()),
			Size:     fi.Size(),
			Modified: fi.ModTime().Format(time.RFC3339),
		})
	}
	return docs, nil
}
