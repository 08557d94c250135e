package yolo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ClassNames имена классов модели. В data.yaml задаются списком или словарём id: name.
type ClassNames []string

// UnmarshalYAML поддерживает обе формы записи names.
func (c *ClassNames) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*c = list
		return nil
	case yaml.MappingNode:
		var byID map[int]string
		if err := node.Decode(&byID); err != nil {
			return err
		}
		ids := make([]int, 0, len(byID))
		for id := range byID {
			if id < 0 {
				return fmt.Errorf("negative class id %d", id)
			}
			ids = append(ids, id)
		}
		sort.Ints(ids)
		names := make([]string, 0, len(ids))
		for i, id := range ids {
			if id != i {
				return fmt.Errorf("class ids are not contiguous: missing %d", i)
			}
			names = append(names, byID[id])
		}
		*c = names
		return nil
	default:
		return errors.New("names must be a list or a mapping")
	}
}

// Label возвращает имя класса по id.
func (c ClassNames) Label(id int) string {
	if id >= 0 && id < len(c) {
		return c[id]
	}
	return fmt.Sprintf("class_%d", id)
}

// DataConfig описание датасета в формате Ultralytics (data.yaml).
type DataConfig struct {
	Path  string     `yaml:"path"`
	Train string     `yaml:"train"`
	Val   string     `yaml:"val"`
	Test  string     `yaml:"test"`
	NC    int        `yaml:"nc"`
	Names ClassNames `yaml:"names"`

	// каталог, где лежит сам data.yaml
	dir string
}

// LoadDataConfig читает data.yaml.
func LoadDataConfig(path string) (*DataConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data config: %w", err)
	}

	var cfg DataConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse data config %s: %w", path, err)
	}
	if len(cfg.Names) == 0 {
		return nil, fmt.Errorf("data config %s: no class names", path)
	}
	if cfg.NC != 0 && cfg.NC != len(cfg.Names) {
		return nil, fmt.Errorf("data config %s: nc=%d but %d names", path, cfg.NC, len(cfg.Names))
	}
	cfg.dir = filepath.Dir(path)

	return &cfg, nil
}

// Resolve превращает путь из data.yaml в абсолютный относительно корня датасета.
func (c *DataConfig) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	root := c.Path
	if root == "" {
		root = c.dir
	} else if !filepath.IsAbs(root) {
		root = filepath.Join(c.dir, root)
	}
	return filepath.Join(root, p)
}

// LoadClassNames берёт имена из data.yaml, а если файла нет — из списка.
func LoadClassNames(file string, fallback []string) (ClassNames, error) {
	if file == "" {
		if len(fallback) == 0 {
			return nil, errors.New("class names are not configured")
		}
		return ClassNames(fallback), nil
	}

	cfg, err := LoadDataConfig(file)
	if err != nil {
		return nil, err
	}
	return cfg.Names, nil
}
