// internal/catalog/yaml.go
package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"mcp-dosage-safety/internal/models"
)

type seedFile struct {
	Supplements []RawRecord `yaml:"supplements"`
}

// LoadYAML reads a seed file of raw supplement records.
func LoadYAML(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog seed: %w", err)
	}
	defer f.Close()
	return ParseYAML(f)
}

func ParseYAML(r io.Reader) ([]RawRecord, error) {
	var seed seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode catalog seed: %w", err)
	}
	return seed.Supplements, nil
}

// NormalizeAll normalizes every raw record, failing on the first bad one.
func NormalizeAll(raws []RawRecord) ([]models.CatalogRecord, error) {
	out := make([]models.CatalogRecord, 0, len(raws))
	for i, raw := range raws {
		rec, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
