package recipe

import (
	"errors"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/assets"
	"github.com/Faultbox/pourglass/internal/logger"
)

// DefaultColor is used when no ingredient carries a usable colour.
const DefaultColor = "#d9a441"

// IcePrefix names the vessel attachments that receive ice.
const IcePrefix = "ice-"

// Selection is a recipe resolved against the catalog.
type Selection struct {
	Name       string
	Vessel     string
	Color      [4]float32
	FillTarget float32
	Ice        int
	Garnish    []assets.Garnish
}

// Select resolves a recipe against the catalog. Unknown glasses fall back
// to the catalog default and unknown garnish is dropped, both with a warning.
func Select(r *Recipe, c *assets.Catalog) (Selection, error) {
	log := logger.Named("recipe")

	sel := Selection{
		Name:       r.Name,
		Color:      Blend(r.Ingredients),
		FillTarget: 1,
	}

	name, err := c.Resolve(r.Glass)
	if r.Glass == "" {
		name, err = c.DefaultVessel(), nil
	} else if errors.Is(err, assets.ErrUnknownVessel) {
		log.Warn("unknown glass, using default",
			zap.String("recipe", r.Name),
			zap.String("glass", r.Glass),
			zap.String("default", c.DefaultVessel()),
		)
		name = c.DefaultVessel()
	} else if err != nil {
		return Selection{}, err
	}
	sel.Vessel = name

	if r.HasIce {
		v, err := c.Vessel(name)
		if err != nil {
			return Selection{}, err
		}
		sel.Ice = len(v.AttachmentsWithPrefix(IcePrefix))
	}

	for _, g := range r.Garnishes {
		spec, ok := c.Garnish(g)
		if !ok {
			log.Warn("unknown garnish, skipping",
				zap.String("recipe", r.Name),
				zap.String("garnish", g),
			)
			continue
		}
		sel.Garnish = append(sel.Garnish, spec)
	}
	return sel, nil
}

// Blend mixes ingredient colours in CIE-Lab weighted by volume. Ingredients
// without a volume weigh one millilitre; missing or invalid hexcodes are
// skipped.
func Blend(ings []Ingredient) [4]float32 {
	var l, a, b, total float64
	for _, ing := range ings {
		c, err := colorful.Hex(hexcode(ing.Hexcode))
		if err != nil {
			continue
		}
		w := ToMillilitres(ing.Quantity, ing.Unit)
		if w <= 0 {
			w = 1
		}
		cl, ca, cb := c.Lab()
		l += cl * w
		a += ca * w
		b += cb * w
		total += w
	}

	var mixed colorful.Color
	if total == 0 {
		mixed, _ = colorful.Hex(DefaultColor)
	} else {
		mixed = colorful.Lab(l/total, a/total, b/total).Clamped()
	}
	return [4]float32{float32(mixed.R), float32(mixed.G), float32(mixed.B), 1}
}

// hexcode trims and adds a missing leading '#'.
func hexcode(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && s[0] != '#' {
		s = "#" + s
	}
	return s
}
