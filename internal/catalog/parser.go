package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog file extension: %q", filepath.Ext(path))
	}
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a catalog document holding an array of products.
func (p *Parser) Parse(content []byte, format Format) ([]Product, error) {
	var products []Product
	switch format {
	case FormatJSON, "":
		if err := json.Unmarshal(content, &products); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &products); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", format)
	}

	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// ParseProduct decodes a single JSON product document.
func (p *Parser) ParseProduct(content []byte) (*Product, error) {
	var product Product
	if err := json.Unmarshal(content, &product); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}
	return &product, nil
}

func (p *Parser) ParseFromString(content string, format Format) ([]Product, error) {
	return p.Parse([]byte(content), format)
}
