package recipe

import "strings"

// Millilitres per unit. Unknown units count as millilitres.
var millilitres = map[string]float64{
	"ml":     1,
	"cl":     10,
	"l":      1000,
	"oz":     29.5735,
	"tsp":    4.92892,
	"tbsp":   14.7868,
	"dash":   0.92,
	"splash": 5,
	"cup":    236.588,
	"part":   29.5735,
}

var unitAliases = map[string]string{
	"ounce":      "oz",
	"fl oz":      "oz",
	"teaspoon":   "tsp",
	"tablespoon": "tbsp",
	"millilitre": "ml",
	"milliliter": "ml",
	"centilitre": "cl",
	"centiliter": "cl",
	"litre":      "l",
	"liter":      "l",
	"dashes":     "dash",
	"splashes":   "splash",
}

// ToMillilitres converts a quantity to millilitres.
func ToMillilitres(quantity float64, unit string) float64 {
	if quantity <= 0 {
		return 0
	}
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.TrimSuffix(strings.TrimSuffix(u, "."), "s")
	if alias, ok := unitAliases[u]; ok {
		u = alias
	} else if alias, ok := unitAliases[u+"s"]; ok {
		u = alias
	}
	if f, ok := millilitres[u]; ok {
		return quantity * f
	}
	return quantity
}
