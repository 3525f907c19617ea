package engine

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed quests.yaml
var builtinQuestsYAML []byte

// QuestTemplate is an immutable quest definition from the catalog.
type QuestTemplate struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Difficulty  int    `yaml:"difficulty"`
	XPReward    int    `yaml:"xp_reward"`
}

// Catalog holds the quest templates of every stat.
type Catalog map[Stat][]QuestTemplate

// DefaultCatalog returns the built-in templates.
func DefaultCatalog() Catalog {
	c, err := LoadCatalog(bytes.NewReader(builtinQuestsYAML))
	if err != nil {
		panic(fmt.Sprintf("builtin quest catalog: %v", err))
	}
	return c
}

// LoadCatalog parses a YAML catalog keyed by stat id. Every stat must have at
// least one template.
func LoadCatalog(r io.Reader) (Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw map[string][]QuestTemplate
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog: empty document")
		}
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	c := make(Catalog, len(raw))
	for key, templates := range raw {
		stat := Stat(key)
		if !stat.IsValid() {
			return nil, fmt.Errorf("catalog: %w: %q", ErrUnknownStat, key)
		}
		for i, t := range templates {
			if err := t.validate(); err != nil {
				return nil, fmt.Errorf("catalog: %s[%d]: %w", key, i, err)
			}
		}
		c[stat] = templates
	}
	for _, s := range AllStats {
		if len(c[s]) == 0 {
			return nil, fmt.Errorf("catalog: no templates for %s", s)
		}
	}
	return c, nil
}

// LoadCatalogFile reads a catalog from path.
func LoadCatalogFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

func (t QuestTemplate) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("name is required")
	}
	if t.Difficulty < 1 {
		return fmt.Errorf("difficulty %d must be at least 1", t.Difficulty)
	}
	if t.XPReward < 1 {
		return fmt.Errorf("xp_reward %d must be at least 1", t.XPReward)
	}
	return nil
}
