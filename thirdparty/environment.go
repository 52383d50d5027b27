package thirdparty

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// BasePathEnvKey is the key identifying which plugin instance a JSON env var
// holds secrets for.
const BasePathEnvKey = "PLUGIN_BASE_PATH"

// FindPluginEnvVar scans environment variables for a JSON value containing a
// BasePathEnvKey key matching basePath and returns the env var name, or ""
// when there is none. Returns an error if multiple env vars match.
func FindPluginEnvVar(basePath string) (string, error) {
	var matches []string
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name, value := parts[0], parts[1]

		var m map[string]string
		if err := json.Unmarshal([]byte(value), &m); err != nil {
			// most env vars are plain strings
			continue
		}
		if p, ok := m[BasePathEnvKey]; ok && p == basePath {
			matches = append(matches, name)
		}
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("found multiple env vars with %s %q: %s", BasePathEnvKey, basePath, strings.Join(matches, ", "))
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0], nil
}

// LoadConfigFromEnvironment reads the configuration from sources, then expands
// admin settings from the env var holding this plugin instance's secrets.
func LoadConfigFromEnvironment(sources ...YAMLFile) (Config, error) {
	u := YAMLConfigUnmarshaler{}
	result, err := u.Unmarshal(nil, sources...)
	if err != nil {
		return result, fmt.Errorf("failed to load config %w", err)
	}
	envVarName, err := FindPluginEnvVar(result.BasePath)
	if err != nil {
		return result, fmt.Errorf("failed to find plugin env var %w", err)
	}
	if err = result.ExpandAdminSettings(JSONCompositeEnvVar{Parent: envVarName}); err != nil {
		return result, fmt.Errorf("failed to expand admin settings %w", err)
	}
	return result, nil
}
