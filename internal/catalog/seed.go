package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tbourn/go-keynexus/internal/domain"
)

//go:embed seed/games.json
var defaultSeed []byte

// DefaultSeed decodes the catalog shipped with the binary.
func DefaultSeed() ([]domain.Product, error) {
	return LoadSeed(bytes.NewReader(defaultSeed))
}

// LoadSeedFile decodes a catalog file. Files ending in .yaml or .yml are read
// as YAML with the same field names as the JSON form.
func LoadSeedFile(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAMLSeed(f)
	default:
		return LoadSeed(f)
	}
}

// loadYAMLSeed re-encodes the document as JSON so both formats share one
// strict decoder.
func loadYAMLSeed(r io.Reader) ([]domain.Product, error) {
	var doc []any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return LoadSeed(bytes.NewReader(raw))
}

// LoadSeed decodes a JSON array of products. Positions follow array order.
func LoadSeed(r io.Reader) ([]domain.Product, error) {
	var products []domain.Product
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range products {
		products[i].Position = i
	}
	return products, nil
}
