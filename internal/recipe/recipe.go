// Package recipe decodes drink recipes produced by the bartender backend and
// maps them onto a vessel, liquid colour and inclusions.
package recipe

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ingredient is one measured ingredient.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     string
	Hexcode  string
}

// Recipe mirrors the backend cocktail model. Both the stored form
// (glass: {name}, garnishes: [{name}], quantity, hexcode) and the agent form
// (glass_type, garnish, amount, color) decode into it.
type Recipe struct {
	Name        string
	Description string
	Glass       string
	HasIce      bool
	Ingredients []Ingredient
	Garnishes   []string
}

// Agent recipes default to a rocks glass with ice.
const defaultGlass = "rocks glass"

type named struct {
	Name string `yaml:"name"`
}

// nameOrObject accepts either "lime" or {name: lime}.
type nameOrObject string

func (n *nameOrObject) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!null" {
			*n = ""
			return nil
		}
		*n = nameOrObject(node.Value)
		return nil
	}
	var obj named
	if err := node.Decode(&obj); err != nil {
		return err
	}
	*n = nameOrObject(obj.Name)
	return nil
}

type rawIngredient struct {
	Name     string   `yaml:"name"`
	Quantity *float64 `yaml:"quantity"`
	Amount   *float64 `yaml:"amount"`
	Unit     string   `yaml:"unit"`
	Hexcode  string   `yaml:"hexcode"`
	Color    string   `yaml:"color"`
}

type rawRecipe struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Glass       nameOrObject    `yaml:"glass"`
	GlassType   string          `yaml:"glass_type"`
	HasIce      *bool           `yaml:"has_ice"`
	Ingredients []rawIngredient `yaml:"ingredients"`
	Garnish     nameOrObject    `yaml:"garnish"`
	Garnishes   []nameOrObject  `yaml:"garnishes"`

	// Agent responses wrap the recipe in an action.
	DrinkRecipe  *rawRecipe `yaml:"drink_recipe"`
	SuggestDrink *rawRecipe `yaml:"suggest_drink"`
	Action       *rawRecipe `yaml:"action"`
}

func (r *rawRecipe) unwrap() *rawRecipe {
	for _, inner := range []*rawRecipe{r.Action, r.DrinkRecipe, r.SuggestDrink} {
		if inner != nil {
			return inner.unwrap()
		}
	}
	return r
}

// Parse decodes a recipe from JSON or YAML.
func Parse(data []byte) (*Recipe, error) {
	var raw rawRecipe
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing recipe: %w", err)
	}
	r := raw.unwrap()
	if strings.TrimSpace(r.Name) == "" && len(r.Ingredients) == 0 {
		return nil, errors.New("recipe has no name and no ingredients")
	}

	out := &Recipe{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Glass:       string(r.Glass),
		HasIce:      true,
	}
	if out.Glass == "" {
		out.Glass = r.GlassType
	}
	if out.Glass == "" {
		out.Glass = defaultGlass
	}
	if r.HasIce != nil {
		out.HasIce = *r.HasIce
	}

	for _, ing := range r.Ingredients {
		i := Ingredient{Name: ing.Name, Unit: ing.Unit, Hexcode: ing.Hexcode}
		switch {
		case ing.Quantity != nil:
			i.Quantity = *ing.Quantity
		case ing.Amount != nil:
			i.Quantity = *ing.Amount
		}
		if i.Hexcode == "" {
			i.Hexcode = ing.Color
		}
		out.Ingredients = append(out.Ingredients, i)
	}

	if r.Garnish != "" {
		out.Garnishes = append(out.Garnishes, string(r.Garnish))
	}
	for _, g := range r.Garnishes {
		if g != "" {
			out.Garnishes = append(out.Garnishes, string(g))
		}
	}
	return out, nil
}

// Load reads and parses a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", path, err)
	}
	return r, nil
}

// LoadAll reads recipe files in order.
func LoadAll(paths []string) ([]*Recipe, error) {
	out := make([]*Recipe, 0, len(paths))
	for _, p := range paths {
		r, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Volume returns the total volume in millilitres.
func (r *Recipe) Volume() float64 {
	var total float64
	for _, ing := range r.Ingredients {
		total += ToMillilitres(ing.Quantity, ing.Unit)
	}
	return total
}
