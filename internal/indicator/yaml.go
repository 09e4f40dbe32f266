package indicator

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region yaml-types

// catalogFile is the YAML shape for an externalized category catalog.
type catalogFile struct {
	Categories []catalogCategory `yaml:"categories"`
}

type catalogCategory struct {
	Name   string         `yaml:"name"`
	Groups []catalogGroup `yaml:"groups"`
	Boost  []string       `yaml:"boost,omitempty"`
}

type catalogGroup struct {
	Weight   float64  `yaml:"weight"`
	Patterns []string `yaml:"patterns"`
}

// #endregion

// #region load

// LoadCategories reads a category catalog from a YAML file. Deployments use
// this to override or extend the compiled-in catalogs without a rebuild.
func LoadCategories(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCategories(data)
}

// ParseCategories parses YAML catalog bytes into categories.
func ParseCategories(data []byte) ([]Category, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	cats := make([]Category, 0, len(file.Categories))
	for _, fc := range file.Categories {
		if fc.Name == "" {
			return nil, fmt.Errorf("parse catalog: category with empty name")
		}
		cat := Category{Name: fc.Name, Boost: fc.Boost}
		for _, fg := range fc.Groups {
			if len(fg.Patterns) == 0 {
				continue
			}
			cat.Groups = append(cat.Groups, Group{
				Patterns: fg.Patterns,
				Weight:   fg.Weight,
			})
		}
		if len(cat.Groups) == 0 {
			return nil, fmt.Errorf("parse catalog: category %q has no pattern groups", fc.Name)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// #endregion
