package thirdparty

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/config"
)

const (
	DefaultMaxResults = 10
	MaxMaxResults     = 100
)

// Config is the plugin configuration document stored by the host.
type Config struct {
	BasePath     string             `yaml:"basePath" json:"basePath"`
	MaxResults   int                `yaml:"maxResults" json:"maxResults,omitempty"`
	Integrations []IntegrationModel `yaml:"integrations" json:"integrations"`
}

type ConfigUnmarshaler interface {
	Unmarshal(compev CompositeEnvVar, sources ...YAMLFile) (Config, error)
}

type CompositeEnvVar interface {
	LookupEnv(child string) (string, bool)
}

// JSONCompositeEnvVar reads variables from a JSON object stored in the
// Parent env var, e.g. LKDATA='{"COMPANY_HOUSE_API_KEY":"..."}'.
type JSONCompositeEnvVar struct {
	Parent string
}

func (c JSONCompositeEnvVar) LookupEnv(child string) (string, bool) {
	if c.Parent != "" {
		s := os.Getenv(c.Parent)
		if s != "" {
			m := make(map[string]string)
			err := json.Unmarshal([]byte(s), &m)
			if err == nil {
				v, exists := m[child]
				return v, exists
			}
		}
	}
	return "", false
}

// YAMLConfigUnmarshaler merges sources in order, later sources win. Since
// YAML is a superset of JSON the host's JSON document is read as is.
type YAMLConfigUnmarshaler struct{}

// Unmarshal reads and validates the configuration. When compev is not nil,
// ${VAR} references in admin settings are expanded from it; the rest of the
// document is never expanded, constant mappings may hold a literal "$date".
func (u YAMLConfigUnmarshaler) Unmarshal(compev CompositeEnvVar, sources ...YAMLFile) (Config, error) {
	var result Config
	options := []config.YAMLOption{config.Permissive()}
	for _, s := range sources {
		if s.Length > 0 {
			options = append(options, config.Source(s.Reader))
		}
	}
	yaml, err := config.NewYAML(options...)
	if err != nil {
		return result, fmt.Errorf("failed to read yaml config %w", err)
	}
	readError := func(key string, cause error) error {
		return fmt.Errorf("failed to read '%s' from yaml config %w", key, cause)
	}
	key := "basePath"
	if yaml.Get(key).HasValue() {
		err = yaml.Get(key).Populate(&result.BasePath)
		if err != nil {
			return result, readError(key, err)
		}
	}
	key = "maxResults"
	if yaml.Get(key).HasValue() {
		err = yaml.Get(key).Populate(&result.MaxResults)
		if err != nil {
			return result, readError(key, err)
		}
	}
	key = "integrations"
	if yaml.Get(key).HasValue() {
		err = yaml.Get(key).Populate(&result.Integrations)
		if err != nil {
			return result, readError(key, err)
		}
	}
	if compev != nil {
		if err = result.ExpandAdminSettings(compev); err != nil {
			return result, err
		}
	}
	if err = result.Validate(); err != nil {
		return result, err
	}
	return result, nil
}

// ParseConfig reads a single configuration document without expansion.
func ParseConfig(data []byte) (Config, error) {
	return YAMLConfigUnmarshaler{}.Unmarshal(nil, NewYAMLFile("config", data))
}

// Validate checks the document shape and fills in defaults.
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return errors.New("basePath must be a non-empty string")
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.MaxResults < 1 || c.MaxResults > MaxMaxResults {
		return fmt.Errorf("maxResults must be between 1 and %d", MaxMaxResults)
	}
	if c.Integrations == nil {
		c.Integrations = []IntegrationModel{}
	}
	seen := make(map[string]bool, len(c.Integrations))
	for _, integration := range c.Integrations {
		if integration.ID == "" {
			return errors.New("integration id must be defined")
		}
		if seen[integration.ID] {
			return fmt.Errorf("duplicate integration id %s", integration.ID)
		}
		seen[integration.ID] = true
	}
	return nil
}

// ExpandAdminSettings replaces ${VAR} and $VAR references in admin settings.
func (c *Config) ExpandAdminSettings(compev CompositeEnvVar) error {
	var errs []error
	for i := range c.Integrations {
		integration := &c.Integrations[i]
		for key, value := range integration.AdminSettings {
			expanded := os.Expand(value, func(name string) string {
				v, exists := compev.LookupEnv(name)
				if !exists {
					errs = append(errs, fmt.Errorf("admin setting %q of integration %s references undefined variable %s", key, integration.ID, name))
				}
				return v
			})
			integration.AdminSettings[key] = expanded
		}
	}
	return errors.Join(errs...)
}

// IntegrationByID returns the integration with the given id.
func (c Config) IntegrationByID(id string) (IntegrationModel, error) {
	for _, integration := range c.Integrations {
		if integration.ID == id {
			return integration, nil
		}
	}
	return IntegrationModel{}, IntegrationNotFoundError{ID: id}
}

// Public returns a copy of the configuration with every admin setting removed.
func (c Config) Public() Config {
	integrations := make([]IntegrationModel, len(c.Integrations))
	for i, integration := range c.Integrations {
		integrations[i] = integration.Public()
	}
	c.Integrations = integrations
	return c
}
