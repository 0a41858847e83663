package services

import (
	"fmt"
	"os"
	"sort"

	"github.com/jinzhu/inflection"
	"gopkg.in/yaml.v3"
)

// KindDefinition describes one selectable reference entity kind.
type KindDefinition struct {
	Name   string   `yaml:"name" json:"name"`
	Label  string   `yaml:"label" json:"label"`
	Fields []string `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Collection is the plural collection path derived from Name,
	// e.g. "category" -> "categories". Not read from the seed file.
	Collection string `yaml:"-" json:"collection"`
}

// KindRegistry holds the reference entity kinds a deployment supports.
// Kinds are declared in a YAML seed file so new lookup collections can be
// added without a schema change.
type KindRegistry struct {
	kinds map[string]KindDefinition
}

// LoadKindRegistry reads kind definitions from the given YAML file.
func LoadKindRegistry(path string) (*KindRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read kind seed file: %w", err)
	}

	var seed struct {
		Kinds []KindDefinition `yaml:"kinds"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse kind seed file: %w", err)
	}
	if len(seed.Kinds) == 0 {
		return nil, fmt.Errorf("kind seed file %s declares no kinds", path)
	}

	registry := &KindRegistry{kinds: make(map[string]KindDefinition, len(seed.Kinds))}
	for _, kind := range seed.Kinds {
		if kind.Name == "" {
			return nil, fmt.Errorf("kind seed file %s contains a kind with no name", path)
		}
		kind.Collection = inflection.Plural(kind.Name)
		registry.kinds[kind.Name] = kind
	}

	return registry, nil
}

// IsRegistered reports whether the kind is declared in the seed file.
func (r *KindRegistry) IsRegistered(kind string) bool {
	_, ok := r.kinds[kind]
	return ok
}

// Kinds returns all registered kind definitions sorted by name.
func (r *KindRegistry) Kinds() []KindDefinition {
	kinds := make([]KindDefinition, 0, len(r.kinds))
	for _, kind := range r.kinds {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].Name < kinds[j].Name })
	return kinds
}
