package thirdparty

import (
	"context"
	"errors"
	"fmt"
	"os"
	gosync "sync"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ConfigStore persists the plugin configuration document.
type ConfigStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, document []byte) error
}

// FileConfigStore keeps the configuration document in a JSON file.
type FileConfigStore struct {
	Path string
}

func (s FileConfigStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %w", err)
	}
	return data, nil
}

func (s FileConfigStore) Save(ctx context.Context, document []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, document, 0o600); err != nil {
		return fmt.Errorf("failed to save config %w", err)
	}
	return nil
}

// IntegrationStore edits the integrations of a stored configuration document
// in place, leaving every other key of the document untouched.
//
// Writes are whole-entry read-modify-write cycles: the last writer wins.
type IntegrationStore struct {
	Store ConfigStore
	// NewID generates integration ids, uuid.NewString when nil.
	NewID func() string

	mu gosync.Mutex
}

func (s *IntegrationStore) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Config loads and validates the stored configuration.
func (s *IntegrationStore) Config(ctx context.Context) (Config, error) {
	doc, err := s.Store.Load(ctx)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(doc)
}

func (s *IntegrationStore) List(ctx context.Context) ([]IntegrationModel, error) {
	c, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	return c.Integrations, nil
}

func (s *IntegrationStore) Get(ctx context.Context, id string) (IntegrationModel, error) {
	c, err := s.Config(ctx)
	if err != nil {
		return IntegrationModel{}, err
	}
	return c.IntegrationByID(id)
}

// Create stores model under a new id and returns it.
func (s *IntegrationStore) Create(ctx context.Context, model IntegrationModel) (IntegrationModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	model.ID = s.newID()
	doc, err := s.Store.Load(ctx)
	if err != nil {
		return model, err
	}
	if !gjson.GetBytes(doc, "integrations").IsArray() {
		doc, err = sjson.SetRawBytes(doc, "integrations", []byte("[]"))
		if err != nil {
			return model, fmt.Errorf("failed to create integrations list %w", err)
		}
	}
	doc, err = sjson.SetBytes(doc, "integrations.-1", model)
	if err != nil {
		return model, fmt.Errorf("failed to create integration %w", err)
	}
	return model, s.save(ctx, doc)
}

// Update replaces the stored integration having model's id.
func (s *IntegrationStore) Update(ctx context.Context, model IntegrationModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, index, err := s.find(ctx, model.ID)
	if err != nil {
		return err
	}
	doc, err = sjson.SetBytes(doc, fmt.Sprintf("integrations.%d", index), model)
	if err != nil {
		return fmt.Errorf("failed to update integration %s %w", model.ID, err)
	}
	return s.save(ctx, doc)
}

func (s *IntegrationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, index, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	doc, err = sjson.DeleteBytes(doc, fmt.Sprintf("integrations.%d", index))
	if err != nil {
		return fmt.Errorf("failed to delete integration %s %w", id, err)
	}
	return s.save(ctx, doc)
}

// PublicConfig returns the stored document with every adminSettings removed.
func (s *IntegrationStore) PublicConfig(ctx context.Context) ([]byte, error) {
	doc, err := s.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	count := int(gjson.GetBytes(doc, "integrations.#").Int())
	for i := 0; i < count; i++ {
		doc, err = sjson.DeleteBytes(doc, fmt.Sprintf("integrations.%d.adminSettings", i))
		if err != nil {
			return nil, fmt.Errorf("failed to strip admin settings %w", err)
		}
	}
	return pretty.Pretty(doc), nil
}

func (s *IntegrationStore) find(ctx context.Context, id string) ([]byte, int, error) {
	doc, err := s.Store.Load(ctx)
	if err != nil {
		return nil, -1, err
	}
	index := -1
	i := 0
	gjson.GetBytes(doc, "integrations").ForEach(func(_, value gjson.Result) bool {
		if value.Get("id").String() == id {
			index = i
			return false
		}
		i++
		return true
	})
	if index < 0 {
		return nil, -1, IntegrationNotFoundError{ID: id}
	}
	return doc, index, nil
}

// save refuses documents that no longer parse as a valid configuration.
func (s *IntegrationStore) save(ctx context.Context, doc []byte) error {
	if !gjson.ValidBytes(doc) {
		return errors.New("invalid configuration document")
	}
	if err := ValidateConfigDocument(doc); err != nil {
		return fmt.Errorf("refusing to save configuration %w", err)
	}
	if _, err := ParseConfig(doc); err != nil {
		return fmt.Errorf("refusing to save configuration %w", err)
	}
	return s.Store.Save(ctx, pretty.Pretty(doc))
}
