package vocabulary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnmappable reports a source token that resolves to no canonical member
// and no synonym. Callers decide whether that is fatal to the record.
var ErrUnmappable = errors.New("unmappable vocabulary token")

// Names of the enumerations the directory payload carries.
const (
	EnumGender             = "gender"
	EnumMaterialType       = "material_type"
	EnumStorageTemperature = "storage_temperature"
)

// Enum is one closed destination enumeration: its canonical members plus a
// synonym table collapsing directory spellings onto members.
type Enum struct {
	Members  []string          `yaml:"members" json:"members"`
	Synonyms map[string]string `yaml:"synonyms" json:"synonyms"`
}

type Catalog struct {
	Enums map[string]Enum `yaml:"enums" json:"enums"`
}

// Load reads a catalog from a YAML file. When no path is given, or the file
// cannot be read, parsed, or is empty, the compiled-in defaults are returned
// alongside the error so callers always hold a usable catalog.
func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return DefaultCatalog(), err
	}
	if len(cat.Enums) == 0 {
		return DefaultCatalog(), fmt.Errorf("vocabulary catalog empty")
	}
	return cat, nil
}

type UnmappableError struct {
	Enum  string
	Token string
}

func (e *UnmappableError) Error() string {
	return fmt.Sprintf("token %q has no mapping in enumeration %q", e.Token, e.Enum)
}

func (e *UnmappableError) Unwrap() error {
	return ErrUnmappable
}

// Normalize maps a free-form source token onto a canonical member of the
// named enumeration. Matching is case-insensitive; the synonym table is
// consulted before failing. A token known to neither yields an
// *UnmappableError wrapping ErrUnmappable.
func (c Catalog) Normalize(enum, token string) (string, error) {
	e, ok := c.Enums[enum]
	if !ok {
		return "", fmt.Errorf("unknown enumeration %q", enum)
	}

	key := strings.ToLower(strings.TrimSpace(token))
	for _, member := range e.Members {
		if strings.ToLower(member) == key {
			return member, nil
		}
	}
	if canonical, ok := e.Synonyms[key]; ok {
		return canonical, nil
	}
	return "", &UnmappableError{Enum: enum, Token: token}
}

// DefaultCatalog carries the directory vocabulary observed in the wild. The
// null-flavor codes NAV (not available) and NASK (not asked) both collapse
// onto UNKNOWN via the synonym table; membership is tested against the whole
// set, one token at a time.
func DefaultCatalog() Catalog {
	return Catalog{Enums: map[string]Enum{
		EnumGender: {
			Members: []string{"MALE", "FEMALE", "UNDIFFERENTIATED", "UNKNOWN"},
			Synonyms: map[string]string{
				"nav":  "UNKNOWN",
				"nask": "UNKNOWN",
			},
		},
		EnumMaterialType: {
			Members: []string{
				"BLOOD", "BUFFY_COAT", "CELL_LINES", "DNA", "FECES",
				"PATHOGEN", "PLASMA", "RNA", "SALIVA", "SERUM",
				"TISSUE_FROZEN", "TISSUE_PARAFFIN_EMBEDDED", "URINE", "OTHER",
			},
			Synonyms: map[string]string{
				"whole_blood":            "BLOOD",
				"peripheral_blood_cells": "BLOOD",
				"micro_rna":              "RNA",
				"cdna":                   "DNA",
				"tissue_ffpe":            "TISSUE_PARAFFIN_EMBEDDED",
				"nav":                    "OTHER",
			},
		},
		EnumStorageTemperature: {
			Members: []string{
				"TEMPERATURE_2_TO_10", "TEMPERATURE_MINUS_18_TO_MINUS_35",
				"TEMPERATURE_MINUS_60_TO_MINUS_85", "TEMPERATURE_LN",
				"TEMPERATURE_ROOM", "TEMPERATURE_OTHER",
			},
			Synonyms: map[string]string{
				"temperature2to10":    "TEMPERATURE_2_TO_10",
				"temperature-18to-35": "TEMPERATURE_MINUS_18_TO_MINUS_35",
				"temperature-60to-85": "TEMPERATURE_MINUS_60_TO_MINUS_85",
				"temperatureln":       "TEMPERATURE_LN",
				"temperatureroom":     "TEMPERATURE_ROOM",
				"temperatureother":    "TEMPERATURE_OTHER",
			},
		},
	}}
}
