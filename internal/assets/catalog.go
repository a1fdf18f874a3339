// Package assets loads the vessel and garnish catalog and caches the
// geometry built from it.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/pourglass/internal/engine/mesh"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/vessel"
	"github.com/Faultbox/pourglass/pkg/math"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// ErrUnknownVessel is returned when a name matches no vessel or alias.
var ErrUnknownVessel = errors.New("unknown vessel")

// Garnish shapes.
const (
	ShapeWheel  = "wheel"
	ShapeSphere = "sphere"
	ShapeSprig  = "sprig"
	ShapeRim    = "rim"
)

// Garnish describes a garnish inclusion.
type Garnish struct {
	Name       string   `yaml:"name"`
	Aliases    []string `yaml:"aliases"`
	Shape      string   `yaml:"shape"`
	Size       float32  `yaml:"size"`
	Color      string   `yaml:"color"`
	Attachment string   `yaml:"attachment"`
}

// RGBA parses the garnish colour. Invalid colours come back white.
func (g Garnish) RGBA() [4]float32 {
	c, err := colorful.Hex(g.Color)
	if err != nil {
		return [4]float32{1, 1, 1, 1}
	}
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), 1}
}

type catalogFile struct {
	Default   string              `yaml:"default"`
	Vessels   []vessel.Descriptor `yaml:"vessels"`
	Garnishes []Garnish           `yaml:"garnishes"`
}

// Catalog resolves vessel and garnish names to descriptors and caches the
// geometry built from them. Built vessels are shared and must be treated as
// read-only.
type Catalog struct {
	defaultVessel string
	vessels       map[string]vessel.Descriptor
	vesselAliases map[string]string
	garnishes     map[string]Garnish
	garnishAlias  map[string]string

	built  *Cache[*vessel.Vessel]
	meshes *Cache[*mesh.Mesh]
}

// Builtin returns the catalog compiled into the binary.
func Builtin() (*Catalog, error) {
	return Parse(builtinCatalog)
}

// Load reads a catalog file. An empty path loads the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	logger.Named("assets").Info("catalog loaded",
		zap.String("path", path),
		zap.Int("vessels", len(c.vessels)),
		zap.Int("garnishes", len(c.garnishes)),
	)
	return c, nil
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Vessels) == 0 {
		return nil, errors.New("catalog has no vessels")
	}

	c := &Catalog{
		vessels:       make(map[string]vessel.Descriptor),
		vesselAliases: make(map[string]string),
		garnishes:     make(map[string]Garnish),
		garnishAlias:  make(map[string]string),
		built:         NewCache[*vessel.Vessel](),
		meshes:        NewCache[*mesh.Mesh](),
	}
	for _, d := range f.Vessels {
		key := normalize(d.Name)
		if key == "" {
			return nil, errors.New("vessel without a name")
		}
		if _, dup := c.vessels[key]; dup {
			return nil, fmt.Errorf("duplicate vessel %q", d.Name)
		}
		c.vessels[key] = d
		c.vesselAliases[key] = key
		for _, a := range d.Aliases {
			c.vesselAliases[normalize(a)] = key
		}
	}
	for _, g := range f.Garnishes {
		key := normalize(g.Name)
		c.garnishes[key] = g
		c.garnishAlias[key] = key
		for _, a := range g.Aliases {
			c.garnishAlias[normalize(a)] = key
		}
	}

	c.defaultVessel = normalize(f.Default)
	if _, ok := c.vessels[c.defaultVessel]; !ok {
		c.defaultVessel = normalize(f.Vessels[0].Name)
	}
	return c, nil
}

// normalize folds case, trims, and treats '_' and '-' as spaces.
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// Names returns the canonical vessel names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.vessels))
	for _, d := range c.vessels {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// DefaultVessel returns the fallback vessel name.
func (c *Catalog) DefaultVessel() string {
	return c.vessels[c.defaultVessel].Name
}

// Resolve maps a vessel name or alias to its canonical name.
func (c *Catalog) Resolve(name string) (string, error) {
	n := normalize(name)
	key, ok := c.vesselAliases[n]
	if !ok {
		// "highball glass" and "highball" both resolve.
		key, ok = c.vesselAliases[strings.TrimSuffix(n, " glass")]
	}
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVessel, name)
	}
	return c.vessels[key].Name, nil
}

// Descriptor returns the descriptor for a vessel name or alias.
func (c *Catalog) Descriptor(name string) (vessel.Descriptor, error) {
	canonical, err := c.Resolve(name)
	if err != nil {
		return vessel.Descriptor{}, err
	}
	return c.vessels[normalize(canonical)], nil
}

// Vessel builds, or returns the cached, vessel for a name or alias.
func (c *Catalog) Vessel(name string) (*vessel.Vessel, error) {
	canonical, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}
	if v, ok := c.built.Get(canonical); ok {
		return v, nil
	}
	v, err := vessel.Lathe(c.vessels[normalize(canonical)])
	if err != nil {
		return nil, fmt.Errorf("building vessel: %w", err)
	}
	c.built.Set(canonical, v)
	return v, nil
}

// VesselMesh returns the cached render mesh of a built vessel.
func (c *Catalog) VesselMesh(v *vessel.Vessel) *mesh.Mesh {
	key := "vessel/" + v.Name
	if m, ok := c.meshes.Get(key); ok {
		return m
	}
	m := mesh.FromTriangles(v.Triangles)
	c.meshes.Set(key, m)
	return m
}

// Garnish looks up a garnish by name or alias.
func (c *Catalog) Garnish(name string) (Garnish, bool) {
	key, ok := c.garnishAlias[normalize(name)]
	if !ok {
		return Garnish{}, false
	}
	return c.garnishes[key], true
}

// GarnishMesh returns the cached mesh for a garnish. Rim garnish is sized
// to the vessel it sits on.
func (c *Catalog) GarnishMesh(g Garnish, v *vessel.Vessel) *mesh.Mesh {
	key := "garnish/" + normalize(g.Name)
	if g.Shape == ShapeRim {
		key += "/" + v.Name
	}
	if m, ok := c.meshes.Get(key); ok {
		return m
	}

	size := g.Size
	if size <= 0 {
		size = 0.3
	}
	var m *mesh.Mesh
	switch g.Shape {
	case ShapeSphere:
		m = mesh.Sphere(size, 16, 10)
	case ShapeSprig:
		m = mesh.Box(math.Vec3{X: size * 0.3, Y: size, Z: size * 0.7})
	case ShapeRim:
		m = mesh.Torus(v.RimRadius(), size, 48, 6)
	default:
		m = mesh.Wheel(size, size*0.15, 24)
	}
	c.meshes.Set(key, m)
	return m
}

// IceMesh returns the shared ice cube mesh for a vessel scale.
func (c *Catalog) IceMesh(edge float32) *mesh.Mesh {
	key := fmt.Sprintf("ice/%.3f", edge)
	if m, ok := c.meshes.Get(key); ok {
		return m
	}
	m := mesh.Box(math.Vec3{X: edge, Y: edge, Z: edge})
	c.meshes.Set(key, m)
	return m
}

// Stats returns combined cache statistics.
func (c *Catalog) Stats() (hits, misses int) {
	h1, m1 := c.built.Stats()
	h2, m2 := c.meshes.Stats()
	return h1 + h2, m1 + m2
}
