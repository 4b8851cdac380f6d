package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MakhBeth/forfettAIro/internal/fiscale"
	"github.com/MakhBeth/forfettAIro/internal/model"
)

// FileStore keeps all collections in one JSON file. Writes go through
// a temp file and rename so a crash never leaves a half-written store.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the given file. The file is
// created lazily on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Config implements Store
func (s *FileStore) Config() (model.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return model.Config{}, err
	}
	for _, c := range data.Config {
		if c.ID == "main" {
			return c, nil
		}
	}
	return fiscale.DefaultConfig(), nil
}

// PutConfig implements Store
func (s *FileStore) PutConfig(config model.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(func(data *Data) {
		for i, c := range data.Config {
			if c.ID == config.ID {
				data.Config[i] = config
				return
			}
		}
		data.Config = append(data.Config, config)
	})
}

// Clienti implements Store
func (s *FileStore) Clienti() ([]model.Cliente, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.Clienti, nil
}

// AddClienti implements Store
func (s *FileStore) AddClienti(clienti []model.Cliente) error {
	if len(clienti) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(func(data *Data) {
		data.Clienti = append(data.Clienti, clienti...)
	})
}

// Fatture implements Store
func (s *FileStore) Fatture() ([]model.Fattura, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.Fatture, nil
}

// AddFatture implements Store
func (s *FileStore) AddFatture(fatture []model.Fattura) error {
	if len(fatture) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(func(data *Data) {
		data.Fatture = append(data.Fatture, fatture...)
	})
}

// WorkLogs implements Store
func (s *FileStore) WorkLogs() ([]model.WorkLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.WorkLogs, nil
}

// Export implements Store
func (s *FileStore) Export() (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Import implements Store
func (s *FileStore) Import(data Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(data)
}

func (s *FileStore) load() (Data, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Data{}, nil
	}
	if err != nil {
		return Data{}, fmt.Errorf("failed to read store file: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("corrupt store file %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileStore) update(mutate func(*Data)) error {
	data, err := s.load()
	if err != nil {
		return err
	}
	mutate(&data)
	return s.write(data)
}

func (s *FileStore) write(data Data) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".forfettairo-*")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
