package category

import (
	"github.com/google/uuid"
)

// namespace seeds the name-based category IDs so they stay stable across runs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/lu-zhengda/cleanslim/category"))

// Definition is a static registry entry.
type Definition struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Icon        string `yaml:"icon"`
	Path        string `yaml:"path"`
	Selected    bool   `yaml:"selected"`
}

// Category is a registry entry plus the results of the current session.
// Size and Files are only meaningful while Scanned is true; a zero size on
// an unscanned category does not mean the directory is empty.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Icon        string    `json:"icon"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	Files       int       `json:"files"`
	Selected    bool      `json:"selected"`
	Scanned     bool      `json:"scanned"`
}

// IDFor returns the stable ID for a category name.
func IDFor(name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(name))
}

// New builds a fresh, unscanned category from a definition.
func New(d Definition) Category {
	display := d.DisplayName
	if display == "" {
		display = d.Name
	}
	return Category{
		ID:          IDFor(d.Name),
		Name:        d.Name,
		DisplayName: display,
		Icon:        d.Icon,
		Path:        d.Path,
		Selected:    d.Selected,
	}
}

// Invalidate drops the measured values after the directory has been modified.
func (c *Category) Invalidate() {
	c.Size = 0
	c.Files = 0
	c.Scanned = false
}
