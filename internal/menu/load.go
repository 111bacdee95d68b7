package menu

import (
	_ "embed"
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_menu.yaml
var defaultMenu []byte

type fileItem struct {
	Key   string  `yaml:"key"`
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

type file struct {
	Items []fileItem `yaml:"items"`
}

// Load parses a YAML menu document.
func Load(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyMenu
		}
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	items := make([]Item, 0, len(f.Items))
	for _, fi := range f.Items {
		if fi.Price < 0 {
			return nil, fmt.Errorf("%w: negative price for %q", ErrInvalidItem, fi.Name)
		}
		items = append(items, Item{Key: fi.Key, Name: fi.Name, Price: Cents(fi.Price)})
	}
	return New(items)
}

// LoadFile reads a menu from path, or the built-in menu when path is empty.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in Mario's Kitchen menu.
func Default() (*Catalog, error) { return Load(bytes.NewReader(defaultMenu)) }
