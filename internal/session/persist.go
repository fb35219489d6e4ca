package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/heyso/heyso-go/internal/types"
)

// Record is the durable session shape, one JSON document under a single key
// (the browser build keeps the same document in localStorage under "auth").
type Record struct {
	AccessToken string `json:"accessToken"`
	UserID      int64  `json:"userId,omitempty"`
	Email       string `json:"email,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	Role        string `json:"role,omitempty"`
}

func (r *Record) profileFields() types.Profile {
	return types.Profile{UserID: r.UserID, Email: r.Email, Nickname: r.Nickname, Role: r.Role}
}

func recordFor(token string, p types.Profile) Record {
	return Record{AccessToken: token, UserID: p.UserID, Email: p.Email, Nickname: p.Nickname, Role: p.Role}
}

// Persister abstracts durable session storage.
type Persister interface {
	Load() (*Record, error)
	Save(Record) error
	Clear() error
}

// FilePersister stores the record as a 0600 JSON file.
type FilePersister struct{ Path string }

// DefaultFilePersister places the auth file under the user config dir.
func DefaultFilePersister() (*FilePersister, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &FilePersister{Path: filepath.Join(dir, "heyso", "auth.json")}, nil
}

func (f *FilePersister) Load() (*Record, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (f *FilePersister) Save(rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, raw, 0o600)
}

func (f *FilePersister) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryPersister keeps the record in memory only; used by tests and by
// callers that opt out of durable storage.
type MemoryPersister struct{ rec *Record }

func (m *MemoryPersister) Load() (*Record, error) { return m.rec, nil }
func (m *MemoryPersister) Save(rec Record) error  { m.rec = &rec; return nil }
func (m *MemoryPersister) Clear() error           { m.rec = nil; return nil }
