package vision

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultClassNames классы модели construction-site-safety в порядке индексов.
var DefaultClassNames = []string{
	"Hardhat", "Mask", "NO-Hardhat", "NO-Mask", "NO-Safety Vest",
	"Person", "Safety Cone", "Safety Vest", "machinery", "vehicle",
}

// classNames поле names из data.yaml: список или словарь индекс -> имя.
type classNames []string

func (c *classNames) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*c = list
		return nil

	case yaml.MappingNode:
		var m map[int]string
		if err := node.Decode(&m); err != nil {
			return err
		}
		keys := make([]int, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		list := make([]string, len(keys))
		for i, k := range keys {
			if k != i {
				return fmt.Errorf("class indices must be contiguous from 0, got %d at position %d", k, i)
			}
			list[i] = m[k]
		}
		*c = list
		return nil
	}
	return fmt.Errorf("names must be a list or a mapping, got yaml kind %d", node.Kind)
}

// ParseClassNames разбирает data.yaml в стиле ultralytics.
func ParseClassNames(data []byte) ([]string, error) {
	var doc struct {
		Names classNames `yaml:"names"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse class names: %w", err)
	}
	if len(doc.Names) == 0 {
		return nil, errors.New("parse class names: names is empty")
	}
	return doc.Names, nil
}

// LoadClassNames читает имена классов из файла. Пустой путь даёт DefaultClassNames.
func LoadClassNames(path string) ([]string, error) {
	if path == "" {
		return DefaultClassNames, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class names: %w", err)
	}
	return ParseClassNames(data)
}
