package thirdparty

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	gosync "sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/config.schema.json
var configSchemaJSON []byte

const configSchemaURL = "mem://schemas/config.schema.json"

var (
	configSchemaOnce gosync.Once
	configSchema     *jsonschema.Schema
	configSchemaErr  error
)

func loadConfigSchema() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(configSchemaURL, bytes.NewReader(configSchemaJSON)); err != nil {
		configSchemaErr = err
		return
	}
	configSchema, configSchemaErr = c.Compile(configSchemaURL)
}

// ValidateConfigDocument checks a JSON configuration document against the
// configuration JSON schema.
func ValidateConfigDocument(document []byte) error {
	configSchemaOnce.Do(loadConfigSchema)
	if configSchemaErr != nil {
		return fmt.Errorf("failed to compile config schema %w", configSchemaErr)
	}
	var v interface{}
	if err := json.Unmarshal(document, &v); err != nil {
		return fmt.Errorf("invalid config document %w", err)
	}
	if err := configSchema.Validate(v); err != nil {
		return fmt.Errorf("config document does not match schema %w", err)
	}
	return nil
}
