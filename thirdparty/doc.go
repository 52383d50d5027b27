// Package thirdparty validates and evaluates the field mappings binding graph
// nodes to third-party data vendors, and runs the vendor searches they drive.
package thirdparty

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

type MappingDirection string

const (
	SearchQueryDirection MappingDirection = "search query"
	OutputNodeDirection  MappingDirection = "output node"
)

// MappingDocRow represents a single row in the mapping documentation.
type MappingDocRow struct {
	Direction   MappingDirection `yaml:"direction"`
	Target      string           `yaml:"target"`
	TargetLabel string           `yaml:"label"`
	Type        string           `yaml:"type"`
	Source      string           `yaml:"source"`
	Notes       string           `yaml:"notes,omitempty"`
	order       int
}

// MappingDocumentation describes every mapping of one integration.
type MappingDocumentation struct {
	IntegrationID string          `yaml:"integrationId"`
	Vendor        string          `yaml:"vendor"`
	Rows          []MappingDocRow `yaml:"rows"`
}

// GenerateMappingDocumentation lists search query rows, then output node rows,
// each sorted by target. Rows sharing a target keep their mapping order since
// string values are appended in that order.
func GenerateMappingDocumentation(integration VendorIntegration) MappingDocumentation {
	doc := MappingDocumentation{
		IntegrationID: integration.ID(),
		Vendor:        integration.Vendor.Name,
		Rows:          []MappingDocRow{},
	}
	vendor := integration.Vendor

	for i, m := range integration.Model.SearchQueryFieldMapping {
		row := MappingDocRow{Direction: SearchQueryDirection, Target: m.OutputKey(), order: i}
		var notes []string
		if field, exists := vendor.SearchQueryField(m.OutputKey()); exists {
			row.Type = field.Type.String()
			if field.Required {
				notes = append(notes, "Required")
			}
		} else {
			notes = append(notes, "Unknown vendor field")
		}
		row.Source, notes = describeSource(m, notes)
		row.Notes = strings.Join(notes, " | ")
		doc.Rows = append(doc.Rows, row)
	}

	for i, m := range integration.Model.OutputNodeFieldMapping {
		row := MappingDocRow{Direction: OutputNodeDirection, Target: m.OutputKey(), order: i}
		var notes []string
		switch mapping := m.(type) {
		case PropertyMapping:
			if field, exists := vendor.OutputField(mapping.InputPropertyKey); exists {
				row.Type = field.Type.String()
			} else {
				notes = append(notes, "Unknown vendor field")
			}
			notes = append(notes, transformNotes(vendor, mapping.InputPropertyKey)...)
		case ConstantMapping:
			row.Type = mapping.ValueType.String()
		}
		row.Source, notes = describeSource(m, notes)
		row.Notes = strings.Join(notes, " | ")
		doc.Rows = append(doc.Rows, row)
	}

	for i := range doc.Rows {
		doc.Rows[i].TargetLabel = fieldLabel(doc.Rows[i].Target)
	}

	sort.SliceStable(doc.Rows, func(i, j int) bool {
		if doc.Rows[i].Direction != doc.Rows[j].Direction {
			return doc.Rows[i].Direction == SearchQueryDirection
		}
		if doc.Rows[i].Target != doc.Rows[j].Target {
			return doc.Rows[i].Target < doc.Rows[j].Target
		}
		return doc.Rows[i].order < doc.Rows[j].order
	})

	return doc
}

func describeSource(m FieldMapping, notes []string) (string, []string) {
	switch mapping := m.(type) {
	case PropertyMapping:
		if mapping.InputPropertyKey == "" {
			return "(undefined)", notes
		}
		return mapping.InputPropertyKey, notes
	case ConstantMapping:
		notes = append(notes, "Constant")
		if s, ok := mapping.Value.Str(); ok && strings.Contains(s, DateToken) {
			notes = append(notes, fmt.Sprintf("%s is replaced with the current date", DateToken))
		}
		return mapping.Value.String(), notes
	default:
		return "", notes
	}
}

// transformNotes describes the vendor result transforms applied to field.
func transformNotes(vendor Vendor, field string) []string {
	var notes []string
	for _, transforms := range []map[string]string{vendor.SearchTransforms, vendor.DetailsTransforms} {
		keys := make([]string, 0, len(transforms))
		for k := range transforms {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			prefix, isPattern := strings.CutSuffix(key, "*")
			if key == field || (isPattern && strings.HasPrefix(field, prefix)) {
				note := formatTransformNote(transforms[key])
				if !slices.Contains(notes, note) {
					notes = append(notes, note)
				}
			}
		}
	}
	return notes
}

// formatTransformNote formats a transform into a human-readable note.
func formatTransformNote(transform string) string {
	_, modifier, found := strings.Cut(transform, "@")
	switch {
	case !found:
		return fmt.Sprintf("Read from %s", transform)
	case strings.HasPrefix(modifier, "relativeURL"):
		return "Relative links made absolute"
	case strings.HasPrefix(modifier, "countryCode"):
		return "Uses @countryCode transform"
	case strings.HasPrefix(modifier, "countryName"):
		return "Uses @countryName transform"
	case strings.HasPrefix(modifier, "prepend:"):
		return fmt.Sprintf("Prefixed with %q", strings.TrimPrefix(modifier, "prepend:"))
	default:
		return fmt.Sprintf("Transform: %s", transform)
	}
}

// fieldLabel turns a property or vendor field key into a readable label,
// e.g. "registered_office_address_country" -> "Registered office address country".
func fieldLabel(key string) string {
	label := strcase.ToDelimited(strings.Trim(key, "_$"), ' ')
	if label == "" {
		return key
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// FormatCSV formats the mapping documentation as CSV.
func (d MappingDocumentation) FormatCSV() (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{fmt.Sprintf("# Integration: %s (%s)", d.IntegrationID, d.Vendor)}); err != nil {
		return "", err
	}
	headers := []string{"Direction", "Target", "Label", "Type", "Source", "Mapping Notes"}
	if err := writer.Write(headers); err != nil {
		return "", err
	}
	for _, row := range d.Rows {
		record := []string{string(row.Direction), row.Target, row.TargetLabel, row.Type, row.Source, row.Notes}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// FormatYAML formats the mapping documentation as YAML.
func (d MappingDocumentation) FormatYAML() (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(d); err != nil {
		return "", fmt.Errorf("failed to encode mapping documentation %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
