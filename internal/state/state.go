// Package state persists the small run-to-run sync state document.
//
// The document is a single JSON file. Each writer owns one field and updates
// it with read-modify-write so keys written by other tooling survive.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// State is the decoded view of the fields the sync pipeline owns.
type State struct {
	RefreshToken string  `json:"refresh_token"`
	SeenIDs      []int64 `json:"seen_ids"`
}

// Store reads and writes the state document at a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the state document. A missing file yields a zero State.
func (s *Store) Load() (State, error) {
	doc, err := s.readDoc()
	if err != nil {
		return State{}, err
	}

	var st State
	if raw, ok := doc["refresh_token"]; ok {
		if err := json.Unmarshal(raw, &st.RefreshToken); err != nil {
			return State{}, fmt.Errorf("parsing refresh_token: %w", err)
		}
	}
	if raw, ok := doc["seen_ids"]; ok {
		if err := json.Unmarshal(raw, &st.SeenIDs); err != nil {
			return State{}, fmt.Errorf("parsing seen_ids: %w", err)
		}
	}
	return st, nil
}

// SetRefreshToken replaces the stored refresh token, preserving all other
// keys in the document.
func (s *Store) SetRefreshToken(token string) error {
	return s.setKey("refresh_token", token)
}

// SetSeenIDs replaces the stored activity id set with a sorted copy,
// preserving all other keys in the document.
func (s *Store) SetSeenIDs(ids []int64) error {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return s.setKey("seen_ids", sorted)
}

func (s *Store) setKey(key string, value any) error {
	doc, err := s.readDoc()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	doc[key] = raw

	return s.writeDoc(doc)
}

func (s *Store) readDoc() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}

func (s *Store) writeDoc(doc map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state file: %w", err)
	}

	// The document holds a refresh token, so keep it private.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}
