package thirdparty

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"go.uber.org/config"
)

//go:embed vendors/*.yaml
var embeddedVendors embed.FS

// YAMLFile is one YAML (or JSON) document read by the config layer.
type YAMLFile struct {
	Name   string
	Reader io.Reader
	Length int
}

func NewYAMLFile(name string, contents []byte) YAMLFile {
	return YAMLFile{Name: name, Reader: bytes.NewReader(contents), Length: len(contents)}
}

// ReadYAMLFile reads a document from disk.
func ReadYAMLFile(name string) (YAMLFile, error) {
	contents, err := os.ReadFile(name)
	if err != nil {
		return YAMLFile{}, fmt.Errorf("failed to read file %s %w", name, err)
	}
	return NewYAMLFile(name, contents), nil
}

type EmbeddedCatalog struct {
	Root  string
	Files EmbeddedFS
}

type EmbeddedFS interface {
	Open(name string) (fs.File, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
}

// DefaultCatalog is the vendor catalog shipped with the package.
func DefaultCatalog() EmbeddedCatalog {
	return EmbeddedCatalog{Root: "vendors", Files: embeddedVendors}
}

// VendorFiles returns every yaml file under Root, in name order.
func (ec EmbeddedCatalog) VendorFiles() ([]YAMLFile, error) {
	entries, err := ec.Files.ReadDir(ec.Root)
	if err != nil {
		return nil, err
	}
	var result []YAMLFile
	for _, entry := range entries {
		if entry.IsDir() || !(strings.HasSuffix(entry.Name(), ".yaml") || strings.HasSuffix(entry.Name(), ".yml")) {
			continue
		}
		name := path.Join(ec.Root, entry.Name())
		contents, err := ec.Files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		result = append(result, NewYAMLFile(name, contents))
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("failed to find vendor files in dir: %s", ec.Root)
	}
	return result, nil
}

// LoadVendor reads one vendor definition. Vendor files are not env expanded:
// vendor field keys may contain '$'.
func LoadVendor(file YAMLFile) (Vendor, error) {
	var result Vendor
	yaml, err := config.NewYAML(config.Source(file.Reader))
	if err != nil {
		return result, fmt.Errorf("failed to read vendor file %s %w", file.Name, err)
	}
	if err := yaml.Get(config.Root).Populate(&result); err != nil {
		return result, fmt.Errorf("failed to read vendor from %s %w", file.Name, err)
	}
	return result, nil
}

// LoadRegistry builds a Registry from every vendor file of the catalog.
func LoadRegistry(catalog EmbeddedCatalog) (*Registry, error) {
	files, err := catalog.VendorFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list vendor catalog %w", err)
	}
	vendors := make([]Vendor, 0, len(files))
	for _, f := range files {
		v, err := LoadVendor(f)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return NewRegistry(vendors...)
}
