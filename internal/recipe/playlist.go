package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HouseName names the recipe a Playlist falls back to when empty.
const HouseName = "House pour"

// Playlist cycles through recipes in order.
type Playlist struct {
	items []*Recipe
	pos   int
}

// NewPlaylist creates a playlist. An empty list holds a single house recipe
// in the catalog's default glass with ice.
func NewPlaylist(items []*Recipe) *Playlist {
	if len(items) == 0 {
		items = []*Recipe{{Name: HouseName, HasIce: true}}
	}
	return &Playlist{items: items}
}

// Current returns the recipe at the cursor.
func (p *Playlist) Current() *Recipe { return p.items[p.pos] }

// Next advances the cursor, wrapping at the end.
func (p *Playlist) Next() *Recipe {
	p.pos = (p.pos + 1) % len(p.items)
	return p.Current()
}

// Len returns the number of recipes.
func (p *Playlist) Len() int { return len(p.items) }

// Position returns the cursor index.
func (p *Playlist) Position() int { return p.pos }

// LoadPaths loads recipe files. Directories contribute their .json, .yaml
// and .yml files in name order.
func LoadPaths(paths []string) ([]*Recipe, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("recipe path: %w", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("reading recipe dir: %w", err)
		}
		var found []string
		for _, e := range entries {
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".json", ".yaml", ".yml":
				if !e.IsDir() {
					found = append(found, filepath.Join(p, e.Name()))
				}
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return LoadAll(files)
}
